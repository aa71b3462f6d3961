package transcript

import "errors"

var (
	// ErrCaptureUnavailable means no recognizer exists. It is terminal for the session.
	ErrCaptureUnavailable = errors.New("speech capture is not available")
	// ErrCaptureFailure means the recognizer failed; capture stopped and may be started again.
	ErrCaptureFailure = errors.New("speech recognition failed")
)

// Message returns the text shown to the user for a capture error.
// It returns an empty string for nil.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCaptureUnavailable):
		return "この環境は音声認識をサポートしていません。"
	case errors.Is(err, ErrCaptureFailure):
		return "音声認識エラーが発生しました。"
	default:
		return err.Error()
	}
}
