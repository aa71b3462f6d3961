// Package imdone is the Composition Root for the imdone note taker.
//
// It connects the note lifecycle (pkg/core) and the live transcript state
// machine (pkg/transcript) with the storage and speech adapters, using the
// Hexagonal Architecture pattern.
//
// Notes are short texts, usually dictated. Deleting a note moves it to the
// trash; notes that stay in the trash for 30 days are purged the next time
// the collection is loaded. The whole collection lives under a single
// storage key so any key-value backend can hold it.
//
// Usage:
//
//	svc, err := imdone.New("~/.imdone",
//		imdone.WithLogger(logger),
//		imdone.WithFormat("yaml"),
//	)
//
//	session := imdone.NewSession(recognizer, imdone.WithLanguage("ja-JP"))
//	_ = session.Start(ctx)
//	// ... recognition results arrive ...
//	session.Stop()
//	if session.CanSave() {
//		_, _, err = svc.Create(ctx, session.DisplayText())
//		session.Reset()
//	}
package imdone
