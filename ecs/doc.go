// Package ecs provides ECS adapters for backdrop's host events.
//
// [NewDonburiSink] forwards pointer and resize events into a [Donburi] world
// as typed events. Subscribe to [PointerEventType] in your ECS systems to
// receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	stage.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
