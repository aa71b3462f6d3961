package export_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/imdone/pkg/core"
	"github.com/aretw0/imdone/pkg/export"
)

func localTime(y int, mo time.Month, d, h, mi, s int) time.Time {
	return time.Date(y, mo, d, h, mi, s, 0, time.Local)
}

func TestFormatDateTime(t *testing.T) {
	assert.Equal(t, "2024/01/05 09:03:07", export.FormatDateTime(localTime(2024, 1, 5, 9, 3, 7)))
	assert.Equal(t, "2024/12/31 23:59:59", export.FormatDateTime(localTime(2024, 12, 31, 23, 59, 59)))
}

func TestClipboardText(t *testing.T) {
	notes := []core.Note{
		{ID: "2", Content: "second", Timestamp: localTime(2024, 3, 2, 10, 0, 0)},
		{ID: "1", Content: "first", Timestamp: localTime(2024, 3, 1, 8, 30, 0)},
	}
	assert.Equal(t, "2024/03/02 10:00:00, second\n2024/03/01 08:30:00, first", export.ClipboardText(notes))
	assert.Empty(t, export.ClipboardText(nil))
}

func TestCSV(t *testing.T) {
	notes := []core.Note{
		{ID: "1", Content: `ab"cd`, Timestamp: localTime(2024, 3, 1, 8, 30, 0)},
		{ID: "2", Content: "line1\nline2, with comma", Timestamp: localTime(2024, 3, 2, 10, 0, 0)},
	}

	out := export.CSV(notes)
	require.True(t, bytes.HasPrefix(out, export.BOM))

	body := string(bytes.TrimPrefix(out, export.BOM))
	want := `"日時","メモ内容"` + "\n" +
		`"2024/03/01 08:30:00","ab""cd"` + "\n" +
		`"2024/03/02 10:00:00","line1` + "\n" + `line2, with comma"`
	assert.Equal(t, want, body)
	assert.Contains(t, body, `"ab""cd"`)
}

func TestCSV_Empty(t *testing.T) {
	out := export.CSV(nil)
	assert.Equal(t, string(export.BOM)+export.Header+"\n", string(out))
}

type failingWriter struct{ after int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after <= 0 {
		return 0, errors.New("disk full")
	}
	w.after--
	return len(p), nil
}

func TestWriteCSV_PropagatesErrors(t *testing.T) {
	notes := []core.Note{{ID: "1", Content: "x", Timestamp: time.Now()}}

	err := export.WriteCSV(&failingWriter{after: 0}, notes)
	assert.ErrorContains(t, err, "bom")

	err = export.WriteCSV(&failingWriter{after: 2}, notes)
	assert.ErrorContains(t, err, "row 1")
}

func TestFilename(t *testing.T) {
	name := export.Filename(localTime(2024, 7, 9, 23, 0, 0))
	assert.Equal(t, "imdone_export_20240709.csv", name)
	assert.True(t, strings.HasSuffix(name, ".csv"))
}
