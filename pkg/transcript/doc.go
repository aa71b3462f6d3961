// Package transcript models one "recording → editable text" cycle.
//
// A Session reconciles a streaming speech recognizer with a user-editable
// buffer. Text the recognizer marks as final is appended to LiveText and is
// never lost to later updates; the recognizer's current guess for the
// utterance still in progress lives in PendingText and is replaced wholesale
// on every update. The two are only combined for display:
//
//	LiveText + PendingText   while listening
//	LiveText                 otherwise
//
// Reactions to recognizer pushes are computed by the pure reducer
// State.Apply, so the state machine can be tested without any backend.
//
// Usage:
//
//	session := transcript.NewSession(recognizer, transcript.WithLanguage("ja-JP"))
//	if err := session.Start(ctx); err != nil {
//		fmt.Println(transcript.Message(err))
//	}
//	...
//	session.Stop()
//	text := session.DisplayText()
package transcript
