package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/imdone/pkg/transcript"
)

// Step is one recognizer push in a Script.
type Step struct {
	Final   string        `yaml:"final,omitempty"`
	Partial string        `yaml:"partial,omitempty"`
	Error   string        `yaml:"error,omitempty"`
	End     bool          `yaml:"end,omitempty"`
	Delay   time.Duration `yaml:"delay,omitempty"` // waited before the step
}

// Script is a recorded sequence of recognizer pushes.
//
//	hold: false
//	steps:
//	  - partial: "ぎゅうにゅう"
//	    delay: 200ms
//	  - final: "牛乳を買った"
//	  - end: true
type Script struct {
	// Hold keeps the capture open after the last step until Stop.
	// Otherwise an end is pushed when the steps run out.
	Hold  bool   `yaml:"hold,omitempty"`
	Steps []Step `yaml:"steps"`
}

// ParseScript decodes a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	return &s, nil
}

// LoadScript reads and decodes a YAML script.
func LoadScript(r io.Reader) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return ParseScript(data)
}

// ScriptRecognizer replays a Script every time it is started.
type ScriptRecognizer struct {
	script *Script

	mu     sync.Mutex
	cancel context.CancelFunc
	runs   int // also identifies the current run
}

// NewScriptRecognizer creates a recognizer replaying script.
func NewScriptRecognizer(script *Script) *ScriptRecognizer {
	return &ScriptRecognizer{script: script}
}

// Runs reports how many times the script was started.
func (r *ScriptRecognizer) Runs() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

// Start implements transcript.Recognizer.
func (r *ScriptRecognizer) Start(ctx context.Context, settings transcript.Settings, sink transcript.Sink) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		return errors.New("script already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.runs++
	run := r.runs

	lifecycle.Go(runCtx, func(ctx context.Context) error {
		defer r.done(run, cancel)
		r.play(ctx, settings, sink)
		return nil
	})
	return nil
}

// Stop implements transcript.Recognizer.
func (r *ScriptRecognizer) Stop() error {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return nil
}

func (r *ScriptRecognizer) done(run int, cancel context.CancelFunc) {
	cancel()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.runs == run {
		r.cancel = nil
	}
}

func (r *ScriptRecognizer) play(ctx context.Context, settings transcript.Settings, sink transcript.Sink) {
	for _, step := range r.script.Steps {
		if step.Delay > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(step.Delay):
			}
		}
		if ctx.Err() != nil {
			return
		}

		switch {
		case step.Error != "":
			sink.OnRecognitionError(errors.New(step.Error))
			return
		case step.End:
			sink.OnRecognitionEnd()
			return
		default:
			partial := step.Partial
			if !settings.Interim {
				partial = ""
			}
			sink.OnRecognitionUpdate(step.Final, partial)
		}
	}

	if r.script.Hold {
		<-ctx.Done()
		return
	}
	if ctx.Err() == nil {
		sink.OnRecognitionEnd()
	}
}

var _ transcript.Recognizer = (*ScriptRecognizer)(nil)
