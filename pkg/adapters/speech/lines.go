// Package speech provides transcript.Recognizer implementations that do not
// need an audio device: typed dictation from a reader and scripted replays.
package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/imdone/pkg/transcript"
)

// ErrInputClosed is returned when starting a LineRecognizer whose reader is exhausted.
var ErrInputClosed = errors.New("dictation input is closed")

// LineRecognizer turns text arriving on a reader into recognition results.
// Every complete line is a final segment; the unterminated tail of what has
// been read so far is reported as the partial result. EOF ends the capture.
type LineRecognizer struct {
	r         io.Reader
	separator string
	logger    *slog.Logger

	mu      sync.Mutex
	sink    transcript.Sink
	active  bool
	started bool
	closed  bool
	lines   int
}

// NewLineRecognizer reads dictation from r. Final lines are joined with
// separator (e.g. "\n"); the first line of a capture is not prefixed.
func NewLineRecognizer(r io.Reader, separator string, logger *slog.Logger) *LineRecognizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LineRecognizer{r: r, separator: separator, logger: logger}
}

// Start implements transcript.Recognizer.
// The reader is consumed by a single goroutine for the recognizer's lifetime;
// input read while no capture is active is dropped.
func (l *LineRecognizer) Start(ctx context.Context, settings transcript.Settings, sink transcript.Sink) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrInputClosed
	}
	if l.active {
		return fmt.Errorf("dictation already active")
	}
	l.sink = sink
	l.active = true
	l.lines = 0

	if !l.started {
		l.started = true
		lifecycle.Go(ctx, func(ctx context.Context) error {
			return l.read(settings.Interim)
		}, lifecycle.WithErrorHandler(func(err error) {
			l.logger.Error("dictation reader failed", "error", err)
		}))
	}
	return nil
}

// Stop implements transcript.Recognizer.
func (l *LineRecognizer) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active = false
	l.sink = nil
	return nil
}

func (l *LineRecognizer) read(interim bool) error {
	var pending []byte
	buf := make([]byte, 4096)

	for {
		n, err := l.r.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			for {
				idx := bytes.IndexByte(pending, '\n')
				if idx < 0 {
					break
				}
				line := string(bytes.TrimRight(pending[:idx], "\r"))
				pending = pending[idx+1:]
				l.emitFinal(line)
			}
			if interim {
				l.emitPartial(string(bytes.ToValidUTF8(pending, nil)))
			}
		}

		if err != nil {
			if len(pending) > 0 {
				l.emitFinal(string(bytes.TrimRight(pending, "\r")))
			}
			l.finish(err)
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (l *LineRecognizer) emitFinal(line string) {
	l.mu.Lock()
	sink := l.sink
	if !l.active || sink == nil || line == "" {
		l.mu.Unlock()
		return
	}
	if l.lines > 0 {
		line = l.separator + line
	}
	l.lines++
	l.mu.Unlock()

	sink.OnRecognitionUpdate(line, "")
}

func (l *LineRecognizer) emitPartial(partial string) {
	l.mu.Lock()
	sink := l.sink
	active := l.active
	l.mu.Unlock()

	if active && sink != nil {
		sink.OnRecognitionUpdate("", partial)
	}
}

func (l *LineRecognizer) finish(err error) {
	l.mu.Lock()
	l.closed = true
	sink := l.sink
	active := l.active
	l.active = false
	l.sink = nil
	l.mu.Unlock()

	if !active || sink == nil {
		return
	}
	if errors.Is(err, io.EOF) {
		sink.OnRecognitionEnd()
		return
	}
	sink.OnRecognitionError(err)
}

var _ transcript.Recognizer = (*LineRecognizer)(nil)
