// Package backup round-trips the whole day-key store through one portable
// JSON document.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Kind tags documents produced by this app; Restore rejects anything else.
const Kind = "mowtrack-backup"

// Version of the document format.
const Version = 1

// Document is the backup payload: every stored day record verbatim.
type Document struct {
	Kind       string            `json:"kind"`
	Version    int               `json:"version"`
	ExportedAt string            `json:"exportedAt"`
	Data       map[string]string `json:"data"`
}

// Storage is the store surface the codec needs.
type Storage interface {
	ListKeys() ([]string, error)
	Get(key string) (string, bool, error)
	SetMany(entries map[string]string) error
}

// Build collects every stored record into a document stamped with now.
func Build(st Storage, now time.Time) (*Document, error) {
	keys, err := st.ListKeys()
	if err != nil {
		return nil, fmt.Errorf("build backup: %w", err)
	}

	data := make(map[string]string, len(keys))
	for _, key := range keys {
		raw, ok, err := st.Get(key)
		if err != nil {
			return nil, fmt.Errorf("build backup: %w", err)
		}
		if !ok {
			continue
		}
		data[key] = raw
	}

	return &Document{
		Kind:       Kind,
		Version:    Version,
		ExportedAt: now.Format(time.RFC3339),
		Data:       data,
	}, nil
}

// Encode serializes a document for writing to disk or a share target.
func Encode(doc *Document) (string, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode backup: %w", err)
	}
	return string(out), nil
}

// Restore validates raw and merge-overwrites its entries into the store:
// only keys named in the document are written, everything else is left
// alone. A rejected document makes zero writes. Returns the number of
// restored records.
func Restore(st Storage, raw string) (int, error) {
	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return 0, fmt.Errorf("restore: malformed document: %w", err)
	}
	if doc.Kind != Kind {
		return 0, fmt.Errorf("restore: unrecognized document kind %q", doc.Kind)
	}
	if doc.Version > Version {
		return 0, fmt.Errorf("restore: document version %d is newer than supported %d", doc.Version, Version)
	}
	if len(doc.Data) == 0 {
		return 0, errors.New("restore: document holds no day records")
	}
	for key, value := range doc.Data {
		if key == "" || value == "" {
			return 0, errors.New("restore: document holds an empty entry")
		}
	}

	if err := st.SetMany(doc.Data); err != nil {
		return 0, fmt.Errorf("restore: %w", err)
	}
	return len(doc.Data), nil
}
