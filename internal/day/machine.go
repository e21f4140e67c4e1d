package day

import "fmt"

// Storage is the durable record store the tracker persists into.
// *store.Store satisfies it.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// KeyPrefix namespaces day records in the store.
const KeyPrefix = "mowtrack:"

// StorageKey returns the store key for a YYYY-MM-DD date key.
func StorageKey(dateKey string) string { return KeyPrefix + dateKey }

// Tracker owns the current day's state machine. Every mutating operation
// pushes an undo snapshot, applies the change, and persists the full record
// before returning. Mutating operations report whether the transition was
// accepted; a rejected transition leaves state and store untouched.
type Tracker struct {
	store Storage
	clock Clock

	dateKey string
	state   *DayState
}

// NewTracker loads (or creates) today's record.
func NewTracker(store Storage, clock Clock) (*Tracker, error) {
	t := &Tracker{store: store, clock: clock}
	if err := t.Reload(); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload re-reads the current day's record from the store, replacing the
// in-memory state. A missing or malformed record yields a fresh empty day.
func (t *Tracker) Reload() error {
	t.dateKey = DateKey(t.clock.Now())
	raw, ok, err := t.store.Get(StorageKey(t.dateKey))
	if err != nil {
		return fmt.Errorf("load day %s: %w", t.dateKey, err)
	}
	if !ok {
		t.state = NewDayState()
		return nil
	}
	state, err := DecodeState(raw)
	if err != nil {
		t.state = NewDayState()
		return nil
	}
	t.state = state
	return nil
}

// State exposes the current day's state for read-only use (totals, display).
func (t *Tracker) State() *DayState { return t.state }

// DateKey returns the loaded day's YYYY-MM-DD key.
func (t *Tracker) DateKey() string { return t.dateKey }

// ensureToday reloads when the calendar day has rolled over since the last
// operation, so a tracker left open past midnight starts writing to the new
// day's record.
func (t *Tracker) ensureToday() error {
	if DateKey(t.clock.Now()) == t.dateKey {
		return nil
	}
	return t.Reload()
}

func (t *Tracker) persist() error {
	raw, err := EncodeState(t.state)
	if err != nil {
		return err
	}
	if err := t.store.Set(StorageKey(t.dateKey), raw); err != nil {
		return fmt.Errorf("persist day %s: %w", t.dateKey, err)
	}
	return nil
}

// closeActive moves the live segment, if any, into the ledger ending at now.
func (s *DayState) closeActive(now int64) {
	if s.ActiveMode == "" || s.ActiveStartedAt == 0 {
		return
	}
	s.Segments = append(s.Segments, Segment{
		Mode:  s.ActiveMode,
		Start: s.ActiveStartedAt,
		End:   now,
	})
	s.ActiveMode = ""
	s.ActiveStartedAt = 0
}

// StartDay begins a fresh day. Rejected while the day is already running;
// starting over an ended day discards its fields (the undo snapshot keeps
// them reachable). The stop count is scoped to the record and survives.
func (t *Tracker) StartDay() (bool, error) {
	if err := t.ensureToday(); err != nil {
		return false, err
	}
	s := t.state
	if s.Running() {
		return false, nil
	}

	s.pushSnapshot()
	s.DayStartedAt = t.clock.Now().UnixMilli()
	s.DayEndedAt = 0
	s.IsPaused = false
	s.PausedAt = 0
	s.PausedMode = ""
	s.ActiveMode = ""
	s.ActiveStartedAt = 0
	s.Segments = []Segment{}
	return true, t.persist()
}

// SwitchMode closes the live segment and opens one for mode. Rejected when
// the day is not running, paused, mode is unrecognized, or mode is already
// active (re-tapping must not fragment the ledger). Switching into the
// primary mode increments the stop count.
func (t *Tracker) SwitchMode(mode Mode) (bool, error) {
	if err := t.ensureToday(); err != nil {
		return false, err
	}
	s := t.state
	if !s.Running() || s.IsPaused || !mode.Valid() || s.ActiveMode == mode {
		return false, nil
	}

	s.pushSnapshot()
	now := t.clock.Now().UnixMilli()
	s.closeActive(now)
	if mode == PrimaryMode {
		s.StopCount++
	}
	s.ActiveMode = mode
	s.ActiveStartedAt = now
	return true, t.persist()
}

// Pause suspends the whole day: the live segment is closed into the ledger
// and the active mode remembered so Resume can reopen it.
func (t *Tracker) Pause() (bool, error) {
	if err := t.ensureToday(); err != nil {
		return false, err
	}
	s := t.state
	if !s.Running() || s.IsPaused {
		return false, nil
	}

	s.pushSnapshot()
	now := t.clock.Now().UnixMilli()
	paused := s.ActiveMode
	s.closeActive(now)
	s.PausedMode = paused
	s.IsPaused = true
	s.PausedAt = now
	return true, t.persist()
}

// Resume lifts a pause, reopening the remembered mode as a new live segment
// starting now. The gap between pause and resume stays in the ledger.
// Rejected on an ended day: ending while paused keeps the pause flags, and an
// ended day only changes through Undo or Reset.
func (t *Tracker) Resume() (bool, error) {
	if err := t.ensureToday(); err != nil {
		return false, err
	}
	s := t.state
	if !s.IsPaused || s.Ended() {
		return false, nil
	}

	s.pushSnapshot()
	s.IsPaused = false
	s.PausedAt = 0
	if s.PausedMode != "" {
		s.ActiveMode = s.PausedMode
		s.ActiveStartedAt = t.clock.Now().UnixMilli()
	}
	s.PausedMode = ""
	return true, t.persist()
}

// EndDay finalizes the day, closing any live segment. A paused day ends
// as-is; there is no open segment to close in that case.
func (t *Tracker) EndDay() (bool, error) {
	if err := t.ensureToday(); err != nil {
		return false, err
	}
	s := t.state
	if !s.Started() || s.Ended() {
		return false, nil
	}

	s.pushSnapshot()
	now := t.clock.Now().UnixMilli()
	s.closeActive(now)
	s.DayEndedAt = now
	return true, t.persist()
}

// Reset discards today's record entirely, undo history included. Callers
// are expected to confirm with the user first; this is irreversible.
func (t *Tracker) Reset() error {
	if err := t.ensureToday(); err != nil {
		return err
	}
	if err := t.store.Delete(StorageKey(t.dateKey)); err != nil {
		return fmt.Errorf("reset day %s: %w", t.dateKey, err)
	}
	t.state = NewDayState()
	return nil
}

// Undo restores the most recent snapshot, one per call, oldest last.
// Rejected when there is nothing to undo.
func (t *Tracker) Undo() (bool, error) {
	if err := t.ensureToday(); err != nil {
		return false, err
	}
	s := t.state
	if len(s.History) == 0 {
		return false, nil
	}

	snap := s.History[len(s.History)-1]
	s.History = s.History[:len(s.History)-1]
	s.restore(snap)
	return true, t.persist()
}

// CanUndo reports whether an undo snapshot is available.
func (t *Tracker) CanUndo() bool { return len(t.state.History) > 0 }
