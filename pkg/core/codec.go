package core

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Codec defines how the note collection is encoded into a single blob.
type Codec interface {
	// Name identifies the format (e.g. "json").
	Name() string
	// Marshal encodes notes in the given order.
	Marshal(notes []Note) ([]byte, error)
	// Unmarshal decodes a blob produced by Marshal.
	Unmarshal(data []byte) ([]Note, error)
}

// DefaultCodecs returns the standard set of codecs keyed by name.
func DefaultCodecs() map[string]Codec {
	return map[string]Codec{
		"json": JSONCodec{},
		"yaml": YAMLCodec{},
	}
}

// record is the persisted shape of a Note.
type record struct {
	ID        string `json:"id" yaml:"id"`
	Content   string `json:"content" yaml:"content"`
	Timestamp int64  `json:"timestamp" yaml:"timestamp"`
	DeletedAt *int64 `json:"deletedAt,omitempty" yaml:"deletedAt,omitempty"`
}

func toRecords(notes []Note) []record {
	records := make([]record, 0, len(notes))
	for _, n := range notes {
		r := record{
			ID:        n.ID,
			Content:   n.Content,
			Timestamp: n.Timestamp.UnixMilli(),
		}
		if at, ok := n.Deleted.At(); ok {
			ms := at.UnixMilli()
			r.DeletedAt = &ms
		}
		records = append(records, r)
	}
	return records
}

func fromRecords(records []record) []Note {
	notes := make([]Note, 0, len(records))
	for _, r := range records {
		n := Note{
			ID:        r.ID,
			Content:   r.Content,
			Timestamp: fromMillis(r.Timestamp),
		}
		if r.DeletedAt != nil {
			n.Deleted = TrashedAt(fromMillis(*r.DeletedAt))
		}
		notes = append(notes, n)
	}
	return notes
}

// --- JSON Codec ---

// JSONCodec stores the collection as a JSON array, the format written by the
// browser client (`[{"id":..,"content":..,"timestamp":..,"deletedAt":..}]`).
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(notes []Note) ([]byte, error) {
	return json.Marshal(toRecords(notes))
}

func (JSONCodec) Unmarshal(data []byte) ([]Note, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return fromRecords(records), nil
}

// --- YAML Codec ---

// YAMLCodec stores the collection as a YAML sequence with the same field names.
type YAMLCodec struct{}

func (YAMLCodec) Name() string { return "yaml" }

func (YAMLCodec) Marshal(notes []Note) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toRecords(notes)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (YAMLCodec) Unmarshal(data []byte) ([]Note, error) {
	var records []record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	return fromRecords(records), nil
}
