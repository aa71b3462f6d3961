package transcript_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/imdone/pkg/transcript"
)

// fakeRecognizer records calls and lets the test push results by hand.
type fakeRecognizer struct {
	mu       sync.Mutex
	sink     transcript.Sink
	settings transcript.Settings
	starts   int
	stops    int
	startErr error
}

func (f *fakeRecognizer) Start(ctx context.Context, settings transcript.Settings, sink transcript.Sink) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	if f.startErr != nil {
		return f.startErr
	}
	f.sink = sink
	f.settings = settings
	return nil
}

func (f *fakeRecognizer) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	return nil
}

func (f *fakeRecognizer) push(final, partial string) {
	f.mu.Lock()
	sink := f.sink
	f.mu.Unlock()
	sink.OnRecognitionUpdate(final, partial)
}

func TestSession_Unavailable(t *testing.T) {
	s := transcript.NewSession(nil)

	assert.False(t, s.Available())
	assert.ErrorIs(t, s.LastError(), transcript.ErrCaptureUnavailable)
	assert.ErrorIs(t, s.Start(context.Background()), transcript.ErrCaptureUnavailable)
	assert.False(t, s.Listening())
	assert.Equal(t, "この環境は音声認識をサポートしていません。", transcript.Message(s.LastError()))

	// Stop and Toggle must not panic without a recognizer.
	s.Stop()
	assert.ErrorIs(t, s.Toggle(context.Background()), transcript.ErrCaptureUnavailable)
}

func TestSession_Settings(t *testing.T) {
	rec := &fakeRecognizer{}
	s := transcript.NewSession(rec)
	require.NoError(t, s.Start(context.Background()))

	assert.Equal(t, transcript.Settings{Language: "ja-JP", Continuous: true, Interim: true}, rec.settings)

	s.Stop()
	rec2 := &fakeRecognizer{}
	s2 := transcript.NewSession(rec2, transcript.WithLanguage("en-US"), transcript.WithContinuous(false), transcript.WithInterimResults(false))
	require.NoError(t, s2.Start(context.Background()))
	assert.Equal(t, transcript.Settings{Language: "en-US"}, rec2.settings)
}

func TestSession_RecordThenSave(t *testing.T) {
	ctx := context.Background()
	rec := &fakeRecognizer{}
	s := transcript.NewSession(rec)

	require.NoError(t, s.Start(ctx))
	assert.True(t, s.Listening())
	assert.False(t, s.CanSave())

	rec.push("", "ぎゅう")
	assert.Equal(t, "ぎゅう", s.DisplayText())
	assert.False(t, s.Editable())

	rec.push("牛乳を", "かっ")
	assert.Equal(t, "牛乳をかっ", s.DisplayText())

	rec.push("買った", "")
	assert.Equal(t, "牛乳を買った", s.DisplayText())

	rec.push("", "ノイズ")
	s.Stop()
	assert.Equal(t, "牛乳を買った", s.DisplayText())
	assert.True(t, s.CanSave())
	assert.Equal(t, 1, rec.stops)

	s.Reset()
	assert.Empty(t, s.DisplayText())
	assert.False(t, s.CanSave())
}

func TestSession_StartStopAreIdempotent(t *testing.T) {
	ctx := context.Background()
	rec := &fakeRecognizer{}
	s := transcript.NewSession(rec)

	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Start(ctx))
	assert.Equal(t, 1, rec.starts)

	s.Stop()
	s.Stop()
	assert.Equal(t, 1, rec.stops)

	require.NoError(t, s.Toggle(ctx))
	assert.True(t, s.Listening())
	require.NoError(t, s.Toggle(ctx))
	assert.False(t, s.Listening())
	assert.Equal(t, 2, rec.starts)
}

// slowRecognizer blocks inside Start until released.
type slowRecognizer struct {
	fakeRecognizer
	entered chan struct{}
	release chan struct{}
}

func (r *slowRecognizer) Start(ctx context.Context, settings transcript.Settings, sink transcript.Sink) error {
	close(r.entered)
	<-r.release
	return r.fakeRecognizer.Start(ctx, settings, sink)
}

func TestSession_StopDuringStart(t *testing.T) {
	rec := &slowRecognizer{entered: make(chan struct{}), release: make(chan struct{})}
	s := transcript.NewSession(rec)

	done := make(chan error, 1)
	go func() { done <- s.Start(context.Background()) }()

	<-rec.entered
	s.Stop()
	assert.False(t, s.Listening())
	close(rec.release)
	require.NoError(t, <-done)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, 1, rec.starts)
	assert.Equal(t, 2, rec.stops, "recognizer must be stopped once it has actually started")
	assert.False(t, s.Listening())
}

func TestSession_StartFailure(t *testing.T) {
	rec := &fakeRecognizer{startErr: errors.New("microphone busy")}
	s := transcript.NewSession(rec)

	err := s.Start(context.Background())
	assert.ErrorIs(t, err, transcript.ErrCaptureFailure)
	assert.False(t, s.Listening())
	assert.ErrorIs(t, s.LastError(), transcript.ErrCaptureFailure)

	// A later successful start clears the error.
	rec.startErr = nil
	require.NoError(t, s.Start(context.Background()))
	assert.NoError(t, s.LastError())
}

func TestSession_RecognizerError(t *testing.T) {
	rec := &fakeRecognizer{}
	s := transcript.NewSession(rec)
	require.NoError(t, s.Start(context.Background()))

	rec.push("kept ", "lost")
	s.OnRecognitionError(errors.New("network"))

	assert.False(t, s.Listening())
	assert.Equal(t, "kept ", s.DisplayText())
	assert.ErrorIs(t, s.LastError(), transcript.ErrCaptureFailure)
	assert.Equal(t, "音声認識エラーが発生しました。", transcript.Message(s.LastError()))

	s.OnRecognitionError(nil)
	assert.ErrorIs(t, s.LastError(), transcript.ErrCaptureFailure)
}

func TestSession_NaturalEnd(t *testing.T) {
	rec := &fakeRecognizer{}
	s := transcript.NewSession(rec)
	require.NoError(t, s.Start(context.Background()))

	rec.push("done", "maybe")
	s.OnRecognitionEnd()

	assert.False(t, s.Listening())
	assert.Equal(t, "done", s.DisplayText())
	assert.NoError(t, s.LastError())
	assert.Equal(t, 0, rec.stops, "end is reported by the recognizer, no stop needed")
}

func TestSession_Edit(t *testing.T) {
	rec := &fakeRecognizer{}
	s := transcript.NewSession(rec)
	require.NoError(t, s.Start(context.Background()))
	rec.push("helo wrld", "")
	s.Stop()

	require.True(t, s.Editable())
	s.Edit("hello world")
	assert.Equal(t, "hello world", s.DisplayText())

	// Recording again appends to the edited text.
	require.NoError(t, s.Start(context.Background()))
	rec.push("!", "")
	assert.Equal(t, "hello world!", s.DisplayText())
}

func TestSession_Subscribe(t *testing.T) {
	rec := &fakeRecognizer{}
	s := transcript.NewSession(rec)

	var mu sync.Mutex
	var seen []transcript.State
	unsubscribe := s.Subscribe(func(st transcript.State) {
		mu.Lock()
		seen = append(seen, st)
		mu.Unlock()
	})

	require.NoError(t, s.Start(context.Background()))
	rec.push("a", "b")
	s.Stop()
	unsubscribe()
	s.Reset()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 3)
	assert.True(t, seen[0].Listening)
	assert.Equal(t, "ab", seen[1].DisplayText())
	assert.False(t, seen[2].Listening)
	assert.Equal(t, "a", seen[2].LiveText)
}

func TestSession_ListenerMayCallBack(t *testing.T) {
	rec := &fakeRecognizer{}
	s := transcript.NewSession(rec)

	s.Subscribe(func(st transcript.State) {
		// Reading from inside a listener must not deadlock.
		_ = s.DisplayText()
	})
	require.NoError(t, s.Start(context.Background()))
	rec.push("x", "")
	assert.Equal(t, "x", s.DisplayText())
}

func TestSession_State(t *testing.T) {
	rec := &fakeRecognizer{}
	s := transcript.NewSession(rec)
	require.NoError(t, s.Start(context.Background()))
	rec.push("日本語", "ご")

	state, ok := s.State().(transcript.SessionState)
	require.True(t, ok)
	assert.True(t, state.Available)
	assert.True(t, state.Listening)
	assert.Equal(t, 3, state.LiveChars)
	assert.Equal(t, "ご", state.PendingText)
	assert.Equal(t, "transcript-session", s.ComponentType())
}
