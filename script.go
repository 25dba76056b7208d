package sharc

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
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`
	Key    string  `json:"key,omitempty"`
	Code   string  `json:"code,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script sequences injected input and screenshots across frames, for
// automated visual checks. Attach to a Stage with SetScript.
type Script struct {
	steps []scriptStep
	next  int // index of the next step to run
	hold  int // frames left on the current wait
	done  bool
}

// scriptActions maps each action name to what it does on the stage. Input
// actions only queue injections; the frames consume them one by one.
var scriptActions = map[string]func(r *Script, s *Stage, st scriptStep){
	"click": func(_ *Script, s *Stage, st scriptStep) {
		s.InjectClick(st.X, st.Y)
	},
	"drag": func(_ *Script, s *Stage, st scriptStep) {
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	},
	"key": func(_ *Script, s *Stage, st scriptStep) {
		s.InjectKey(st.Key, st.Code)
	},
	"scroll": func(_ *Script, s *Stage, st scriptStep) {
		s.InjectScroll(st.X, st.Y, st.DX, st.DY)
	},
	"screenshot": func(_ *Script, s *Stage, st scriptStep) {
		s.Screenshot(st.Label)
	},
	"wait": func(r *Script, _ *Stage, st scriptStep) {
		r.hold = max(st.Frames-1, 0)
	},
}

// LoadScript parses a JSON script of the form {"steps": [...]}. Actions are
// click, drag, key, scroll, wait and screenshot.
func LoadScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range f.Steps {
		if _, ok := scriptActions[st.Action]; !ok {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// SetScript attaches a script to the stage. Its step method runs at the
// start of every frame, before input is drained.
func (s *Stage) SetScript(sc *Script) {
	s.frameMu.Lock()
	s.script = sc
	s.frameMu.Unlock()
}

// Done reports whether every step has run and all injected input drained.
func (r *Script) Done() bool {
	return r.done
}

// step runs at most one action per frame. A frame with injections still
// queued, or inside a wait, runs nothing.
func (r *Script) step(s *Stage) {
	switch {
	case r.done, s.pendingInjections() > 0:
		return
	case r.hold > 0:
		r.hold--
		return
	case r.next == len(r.steps):
		r.done = true
		return
	}
	st := r.steps[r.next]
	r.next++
	scriptActions[st.Action](r, s, st)
	r.done = r.next == len(r.steps) && r.hold == 0 && s.pendingInjections() == 0
}
