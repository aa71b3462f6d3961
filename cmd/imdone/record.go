package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"github.com/spf13/cobra"

	"github.com/aretw0/imdone/pkg/adapters/speech"
	"github.com/aretw0/imdone/pkg/core"
	"github.com/aretw0/imdone/pkg/transcript"
)

var (
	recordScript    string
	recordLanguage  string
	recordNoInterim bool
	recordDryRun    bool
	recordSeparator string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Dictate a note",
	Long: `Record captures a transcript and saves it as a note when the capture ends.

Without --script, every line typed on stdin is a final segment (pipe in the
output of a speech-to-text tool). The capture ends on EOF or Ctrl-C.
With --script, a YAML recording of recognizer results is replayed instead.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		// Open the vault first so a broken vault does not cost a dictation.
		var service *core.Service
		if !recordDryRun {
			service = openService()
		}

		var rec transcript.Recognizer
		if recordScript != "" {
			f, err := os.Open(recordScript)
			if err != nil {
				fatal("Failed to open script", err)
			}
			script, err := speech.LoadScript(f)
			f.Close()
			if err != nil {
				fatal("Failed to load script", err)
			}
			rec = speech.NewScriptRecognizer(script)
		} else {
			rec = speech.NewLineRecognizer(os.Stdin, recordSeparator, slog.Default())
		}

		session := transcript.NewSession(rec,
			transcript.WithLanguage(recordLanguage),
			transcript.WithInterimResults(!recordNoInterim),
			transcript.WithLogger(slog.Default()),
		)

		ended := make(chan struct{})
		var once sync.Once
		var lastPending string
		unsubscribe := session.Subscribe(func(st transcript.State) {
			if st.PendingText != lastPending {
				lastPending = st.PendingText
				fmt.Fprintf(os.Stderr, "\r\033[K… %s", st.PendingText)
			}
			if !st.Listening {
				once.Do(func() { close(ended) })
			}
		})
		defer unsubscribe()

		fmt.Fprintln(os.Stderr, "🎤 聞き取り中… (Ctrl-C で終了)")
		if err := session.Start(ctx); err != nil {
			fatal(transcript.Message(err), err)
		}

		select {
		case <-ended:
		case <-ctx.Done():
			session.Stop()
		}
		fmt.Fprint(os.Stderr, "\r\033[K")

		if err := session.LastError(); err != nil {
			fmt.Fprintln(os.Stderr, transcript.Message(err))
		}
		if !session.CanSave() {
			fmt.Fprintln(os.Stderr, "Nothing to save: the transcript is empty.")
			return
		}

		text := session.DisplayText()
		if recordDryRun {
			fmt.Println(text)
			return
		}

		note, _, err := service.Create(context.Background(), text)
		reportWrite(err)
		session.Reset()
		fmt.Printf("Note saved: %s\n", shortID(note.ID))
	},
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().StringVar(&recordScript, "script", "", "Replay a YAML recognizer script instead of reading stdin")
	recordCmd.Flags().StringVar(&recordLanguage, "lang", "ja-JP", "Recognition language")
	recordCmd.Flags().BoolVar(&recordNoInterim, "no-interim", false, "Do not show partial results")
	recordCmd.Flags().BoolVar(&recordDryRun, "dry-run", false, "Print the transcript instead of saving it")
	recordCmd.Flags().StringVar(&recordSeparator, "separator", "\n", "Text inserted between final segments")
}
