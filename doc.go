// Package backdrop renders decorative, full-window animated backgrounds for
// [Ebitengine]: particle flow fields, drifting constellations, a shader
// aurora, morphing blobs, floaters and orbiting discs.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	stage := backdrop.NewStage(1280, 720, nil)
//	fx, _ := backdrop.NewEffect("flowfield", nil)
//	stage.Mount(backdrop.NewLayer(fx))
//	backdrop.Run(stage, backdrop.RunConfig{Title: "Backdrop", Resizable: true})
//
// # Layers
//
// A [Layer] binds one [Effect] to a [Host]. Mounting acquires a [Surface]
// sized to the viewport, subscribes to pointer and resize events, and
// schedules a self-rescheduling frame callback. Unmounting cancels the
// callback, removes every subscription and releases the surface. If any
// mount step fails the layer releases what it acquired and draws nothing.
//
// [Stage] is the windowed Host. [HeadlessHost] drives layers without a GPU:
// its surfaces record draw calls instead of drawing, and frames advance only
// when [HeadlessHost.Advance] is called.
//
// # Particles
//
// Particle effects share a [ParticleStore], an [Integrator] and a
// [ParticleRenderer]. Each frame the integrator applies, in order: field
// force, jitter, pointer repulsion, speed clamp, position update, boundary
// policy and aging. A particle that outlives its lifetime respawns at a
// random point and skips the rest of the frame.
//
// Flow directions come from a [Field]: [GridField] caches a per-cell angle
// refreshed every frame, [WaveField] evaluates the same formula per sample,
// and [NoiseField] and [PerlinField] use coherent noise.
//
// # Configuration
//
// [DefaultConfig] returns the embedded presets. [LoadConfig] overlays a
// YAML file on them, and [ConfigWatcher] reloads it when it changes.
//
// [Ebitengine]: https://ebitengine.org
package backdrop
