package day

import (
	"encoding/json"
	"fmt"
)

// Timestamps are milliseconds since the Unix epoch; zero means absent.
// This matches the records written by earlier releases, where absent fields
// were serialized as null.

// Segment is a closed interval of time attributed to one mode.
type Segment struct {
	Mode  Mode  `json:"mode"`
	Start int64 `json:"start"`
	End   int64 `json:"end,omitempty"`
}

// Snapshot captures the mutable DayState fields before a mutation, for Undo.
// The history itself is not snapshotted.
type Snapshot struct {
	DayStartedAt    int64     `json:"dayStartedAt,omitempty"`
	DayEndedAt      int64     `json:"dayEndedAt,omitempty"`
	IsPaused        bool      `json:"isPaused,omitempty"`
	PausedAt        int64     `json:"pausedAt,omitempty"`
	PausedMode      Mode      `json:"pausedMode,omitempty"`
	ActiveMode      Mode      `json:"activeMode,omitempty"`
	ActiveStartedAt int64     `json:"activeStartedAt,omitempty"`
	StopCount       int       `json:"stopCount,omitempty"`
	Segments        []Segment `json:"segments"`
}

// maxHistory bounds the undo stack; the oldest snapshot is evicted first.
const maxHistory = 30

// DayState is one calendar day's record: the live mode, the closed segment
// ledger, pause bookkeeping, and the undo history.
type DayState struct {
	DayStartedAt    int64
	DayEndedAt      int64
	IsPaused        bool
	PausedAt        int64
	PausedMode      Mode
	ActiveMode      Mode
	ActiveStartedAt int64
	Segments        []Segment
	StopCount       int
	History         []Snapshot
}

// NewDayState returns an empty, not-started day.
func NewDayState() *DayState {
	return &DayState{}
}

// Started reports whether the day has begun.
func (s *DayState) Started() bool { return s.DayStartedAt != 0 }

// Ended reports whether the day has been finalized.
func (s *DayState) Ended() bool { return s.DayEndedAt != 0 }

// Running reports whether the day is started and not yet ended.
func (s *DayState) Running() bool { return s.Started() && !s.Ended() }

// snapshot copies the undo-tracked fields.
func (s *DayState) snapshot() Snapshot {
	segs := make([]Segment, len(s.Segments))
	copy(segs, s.Segments)
	return Snapshot{
		DayStartedAt:    s.DayStartedAt,
		DayEndedAt:      s.DayEndedAt,
		IsPaused:        s.IsPaused,
		PausedAt:        s.PausedAt,
		PausedMode:      s.PausedMode,
		ActiveMode:      s.ActiveMode,
		ActiveStartedAt: s.ActiveStartedAt,
		StopCount:       s.StopCount,
		Segments:        segs,
	}
}

// pushSnapshot records the current fields for Undo, evicting the oldest
// entry past the cap.
func (s *DayState) pushSnapshot() {
	s.History = append(s.History, s.snapshot())
	if len(s.History) > maxHistory {
		s.History = s.History[len(s.History)-maxHistory:]
	}
}

// restore overwrites the mutable fields from snap. History is untouched.
func (s *DayState) restore(snap Snapshot) {
	s.DayStartedAt = snap.DayStartedAt
	s.DayEndedAt = snap.DayEndedAt
	s.IsPaused = snap.IsPaused
	s.PausedAt = snap.PausedAt
	s.PausedMode = snap.PausedMode
	s.ActiveMode = snap.ActiveMode
	s.ActiveStartedAt = snap.ActiveStartedAt
	s.StopCount = snap.StopCount
	s.Segments = snap.Segments
	if s.Segments == nil {
		s.Segments = []Segment{}
	}
}

// stateVersion tags records written by this release. Records without a
// version (or with history entries stored as JSON strings) come from earlier
// releases and are migrated at load.
const stateVersion = 1

type stateJSON struct {
	Version         int               `json:"version,omitempty"`
	DayStartedAt    int64             `json:"dayStartedAt,omitempty"`
	DayEndedAt      int64             `json:"dayEndedAt,omitempty"`
	IsPaused        bool              `json:"isPaused,omitempty"`
	PausedAt        int64             `json:"pausedAt,omitempty"`
	PausedMode      Mode              `json:"pausedMode,omitempty"`
	ActiveMode      Mode              `json:"activeMode,omitempty"`
	ActiveStartedAt int64             `json:"activeStartedAt,omitempty"`
	StopCount       int               `json:"stopCount,omitempty"`
	Segments        json.RawMessage   `json:"segments"`
	History         []json.RawMessage `json:"history,omitempty"`
}

// EncodeState serializes s as the version-1 record format.
func EncodeState(s *DayState) (string, error) {
	segs, err := json.Marshal(s.Segments)
	if err != nil {
		return "", fmt.Errorf("marshal segments: %w", err)
	}
	hist := make([]json.RawMessage, 0, len(s.History))
	for _, snap := range s.History {
		raw, err := json.Marshal(snap)
		if err != nil {
			return "", fmt.Errorf("marshal snapshot: %w", err)
		}
		hist = append(hist, raw)
	}
	out, err := json.Marshal(stateJSON{
		Version:         stateVersion,
		DayStartedAt:    s.DayStartedAt,
		DayEndedAt:      s.DayEndedAt,
		IsPaused:        s.IsPaused,
		PausedAt:        s.PausedAt,
		PausedMode:      s.PausedMode,
		ActiveMode:      s.ActiveMode,
		ActiveStartedAt: s.ActiveStartedAt,
		StopCount:       s.StopCount,
		Segments:        segs,
		History:         hist,
	})
	if err != nil {
		return "", fmt.Errorf("marshal day state: %w", err)
	}
	return string(out), nil
}

// DecodeState parses a stored record into a canonical DayState. Missing
// fields default to their zero values and a missing or non-array segments
// field coerces to empty, so records written by any earlier release load.
// A record that is not a JSON object at all is an error; callers substitute
// a fresh state (current day) or skip the record (aggregation).
func DecodeState(raw string) (*DayState, error) {
	var w stateJSON
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, fmt.Errorf("parse day state: %w", err)
	}

	s := &DayState{
		DayStartedAt:    w.DayStartedAt,
		DayEndedAt:      w.DayEndedAt,
		IsPaused:        w.IsPaused,
		PausedAt:        w.PausedAt,
		PausedMode:      w.PausedMode,
		ActiveMode:      w.ActiveMode,
		ActiveStartedAt: w.ActiveStartedAt,
		StopCount:       w.StopCount,
		Segments:        []Segment{},
	}

	if len(w.Segments) > 0 {
		var segs []Segment
		if err := json.Unmarshal(w.Segments, &segs); err == nil && segs != nil {
			s.Segments = segs
		}
	}

	for _, raw := range w.History {
		if snap, ok := decodeSnapshot(raw); ok {
			s.History = append(s.History, snap)
		}
	}
	if len(s.History) > maxHistory {
		s.History = s.History[len(s.History)-maxHistory:]
	}

	return s, nil
}

// decodeSnapshot accepts both the structured form and the legacy form where
// each history entry was a JSON-encoded string. Unreadable entries are
// dropped rather than failing the load.
func decodeSnapshot(raw json.RawMessage) (Snapshot, bool) {
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err == nil {
		return snap, true
	}
	var legacy string
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return Snapshot{}, false
	}
	if err := json.Unmarshal([]byte(legacy), &snap); err != nil {
		return Snapshot{}, false
	}
	return snap, true
}
