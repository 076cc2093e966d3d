package log

import (
	"fmt"
	"sync"
)

// Entry is a single message captured by a Recorder.
type Entry struct {
	Level   string
	Message string
	Args    []any
}

type recorderState struct {
	mu      sync.Mutex
	entries []Entry
}

// Recorder is a Logger that keeps every entry in memory. It is intended for
// tests that need to assert on what was logged. Loggers derived with With
// share the same entry list.
type Recorder struct {
	state *recorderState
	attrs []any
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{state: &recorderState{}}
}

func (r *Recorder) record(level, msg string, args []any) {
	all := append(append([]any{}, r.attrs...), args...)
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	r.state.entries = append(r.state.entries, Entry{Level: level, Message: msg, Args: all})
}

func (r *Recorder) Debug(msg string, args ...any) { r.record("DEBUG", msg, args) }
func (r *Recorder) Info(msg string, args ...any)  { r.record("INFO", msg, args) }
func (r *Recorder) Warn(msg string, args ...any)  { r.record("WARN", msg, args) }
func (r *Recorder) Error(msg string, args ...any) { r.record("ERROR", msg, args) }

func (r *Recorder) With(args ...any) Logger {
	return &Recorder{
		state: r.state,
		attrs: append(append([]any{}, r.attrs...), args...),
	}
}

// Entries returns a copy of the captured entries.
func (r *Recorder) Entries() []Entry {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	out := make([]Entry, len(r.state.entries))
	copy(out, r.state.entries)
	return out
}

// Messages returns the captured entries formatted as "LEVEL: message".
func (r *Recorder) Messages() []string {
	var out []string
	for _, e := range r.Entries() {
		out = append(out, fmt.Sprintf("%s: %s", e.Level, e.Message))
	}
	return out
}
