package backdrop

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in an input script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script sequences injected input, resizes and screenshots across frames,
// for recording demos and visual checks. Attach to a Stage via SetScript.
//
// Actions: move (x, y), sweep (x, y, toX, toY, frames), leave,
// resize (width, height), wait (frames), screenshot (label).
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON input script.
func LoadScript(jsonData []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "move", "sweep", "leave", "resize", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// Done reports whether every step has run.
func (sc *Script) Done() bool {
	return sc.done
}

// step advances the script by one frame. Called from Stage.Update.
func (sc *Script) step(s *Stage) {
	if sc.done {
		return
	}
	// Let pending injections drain first.
	if len(s.injected) > 0 {
		return
	}
	if sc.waitCount > 0 {
		sc.waitCount--
		return
	}
	if sc.cursor >= len(sc.steps) {
		sc.done = true
		return
	}

	st := sc.steps[sc.cursor]
	sc.cursor++

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "move":
		s.InjectMove(st.X, st.Y)
	case "sweep":
		s.InjectSweep(st.X, st.Y, st.ToX, st.ToY, st.Frames)
	case "leave":
		s.InjectLeave()
	case "resize":
		s.InjectResize(st.Width, st.Height)
	case "wait":
		if st.Frames > 0 {
			sc.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if sc.cursor >= len(sc.steps) && sc.waitCount == 0 && len(s.injected) == 0 {
		sc.done = true
	}
}
