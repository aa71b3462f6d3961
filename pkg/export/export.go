// Package export renders notes for the clipboard and for spreadsheet import.
// Every function here is pure: notes in, text or bytes out.
package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aretw0/imdone/pkg/core"
)

// BOM is the UTF-8 byte order mark prepended to CSV output so that
// spreadsheet applications detect the encoding.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Header is the CSV header row.
const Header = `"日時","メモ内容"`

// FormatDateTime renders t in local time as YYYY/MM/DD HH:MM:SS.
func FormatDateTime(t time.Time) string {
	return t.Local().Format("2006/01/02 15:04:05")
}

// ClipboardText renders one "<timestamp>, <content>" line per note.
func ClipboardText(notes []core.Note) string {
	lines := make([]string, 0, len(notes))
	for _, n := range notes {
		lines = append(lines, FormatDateTime(n.Timestamp)+", "+n.Content)
	}
	return strings.Join(lines, "\n")
}

// CSV renders notes as a BOM-prefixed CSV document.
func CSV(notes []core.Note) []byte {
	var buf bytes.Buffer
	// bytes.Buffer writes cannot fail.
	_ = WriteCSV(&buf, notes)
	return buf.Bytes()
}

// WriteCSV streams the CSV document to w.
// Every field is quoted and embedded quotes are doubled; rows end with "\n"
// except the last one.
func WriteCSV(w io.Writer, notes []core.Note) error {
	if _, err := w.Write(BOM); err != nil {
		return fmt.Errorf("failed to write bom: %w", err)
	}
	if _, err := io.WriteString(w, Header+"\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, n := range notes {
		row := quote(FormatDateTime(n.Timestamp)) + "," + quote(n.Content)
		if i < len(notes)-1 {
			row += "\n"
		}
		if _, err := io.WriteString(w, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	return nil
}

// Filename returns the export file name for the given day.
func Filename(now time.Time) string {
	return "imdone_export_" + now.Local().Format("20060102") + ".csv"
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
