package rigview

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ScriptStep is a single action in a capture script.
type ScriptStep struct {
	Action string  `yaml:"action"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	FromX  float64 `yaml:"fromX,omitempty"`
	FromY  float64 `yaml:"fromY,omitempty"`
	ToX    float64 `yaml:"toX,omitempty"`
	ToY    float64 `yaml:"toY,omitempty"`
	Delta  float64 `yaml:"delta,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
	Clip   string  `yaml:"clip,omitempty"`
	On     bool    `yaml:"on,omitempty"`
}

// Script actions.
const (
	ActionClick         = "click"
	ActionDrag          = "drag"
	ActionWheel         = "wheel"
	ActionWait          = "wait"
	ActionWaitReady     = "wait-ready"
	ActionWaitRecording = "wait-recording"
	ActionAdvance       = "advance"
	ActionSelect        = "select"
	ActionSnapshot      = "snapshot"
	ActionRecord        = "record"
	ActionStop          = "stop"
	ActionLock          = "lock"
	ActionAutoplay      = "autoplay"
	ActionReset         = "reset"
)

var knownActions = map[string]bool{
	ActionClick: true, ActionDrag: true, ActionWheel: true, ActionWait: true,
	ActionWaitReady: true, ActionWaitRecording: true, ActionAdvance: true,
	ActionSelect: true, ActionSnapshot: true, ActionRecord: true,
	ActionStop: true, ActionLock: true, ActionAutoplay: true, ActionReset: true,
}

type scriptFile struct {
	Steps []ScriptStep `yaml:"steps"`
}

// ScriptRunner sequences injected input, waits and captures across frames
// for automated capture runs. Attach to a Viewport via SetScript.
type ScriptRunner struct {
	steps     []ScriptStep
	cursor    int
	waitCount int
	waitUntil func(v *Viewport) bool
	done      bool
	errs      []error
}

// LoadScript parses a YAML capture script.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var f scriptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("rigview: parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, errors.New("rigview: parse script: no steps")
	}
	for i, st := range f.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("rigview: parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: f.Steps}, nil
}

// SetScript attaches a script runner. The runner's step method is called
// from Tick before input processing each frame.
func (v *Viewport) SetScript(r *ScriptRunner) {
	v.script = r
}

// Done reports whether every step has been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Err returns the errors of failed capture steps joined together.
func (r *ScriptRunner) Err() error {
	return errors.Join(r.errs...)
}

// step advances the runner by one frame.
func (r *ScriptRunner) step(v *Viewport) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(v.injectQueue) > 0 {
		return
	}
	if r.waitUntil != nil {
		if !r.waitUntil(v) {
			return
		}
		r.waitUntil = nil
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case ActionClick:
		v.InjectClick(st.X, st.Y)
	case ActionDrag:
		v.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case ActionWheel:
		v.InjectWheel(st.Delta)
	case ActionWait:
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case ActionWaitReady:
		r.waitUntil = func(v *Viewport) bool {
			return v.State() == BindingFailed || (v.binding.Ready() && v.visible)
		}
	case ActionWaitRecording:
		r.waitUntil = func(v *Viewport) bool { return !v.Recording() }
	case ActionAdvance:
		v.Advance()
	case ActionSelect:
		v.Select(st.Clip)
	case ActionSnapshot:
		v.Snapshot()
	case ActionRecord:
		if err := v.StartRecording(); err != nil {
			r.errs = append(r.errs, err)
		}
	case ActionStop:
		if err := v.StopRecording(); err != nil {
			r.errs = append(r.errs, err)
		}
	case ActionLock:
		v.SetLock(st.On)
	case ActionAutoplay:
		v.SetAutoplay(st.On)
	case ActionReset:
		v.SetReset(v.reset + 1)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && r.waitUntil == nil && len(v.injectQueue) == 0 {
		r.done = true
	}
}
