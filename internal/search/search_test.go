package search

import (
	"sync"
	"testing"
	"time"
)

const testWindow = 25 * time.Millisecond

// settle waits long enough for a pending debounce window to fire.
func settle() { time.Sleep(4 * testWindow) }

type recorder struct {
	mu      sync.Mutex
	queries []Query
}

func (r *recorder) record(q Query) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queries)
}

func (r *recorder) last() (Query, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queries) == 0 {
		return Query{}, false
	}
	return r.queries[len(r.queries)-1], true
}

func TestTypeDebounces(t *testing.T) {
	s := NewSession(testWindow)
	defer s.Close()

	s.Type("c")
	s.Type("ca")
	s.Type("caf")

	if q := s.Snapshot(); q.Raw != "caf" || q.Effective != "" {
		t.Fatalf("before window: raw=%q effective=%q, want raw caf, effective empty", q.Raw, q.Effective)
	}

	settle()
	if q := s.Snapshot(); q.Effective != "caf" {
		t.Fatalf("after window: effective=%q, want caf", q.Effective)
	}
}

func TestOneEmissionPerWindow(t *testing.T) {
	rec := &recorder{}
	s := NewSession(testWindow)
	defer s.Close()
	s.SetSink(rec.record)

	// a burst of keystrokes inside a single window
	for _, v := range []string{"c", "ca", "caf", "cafe"} {
		s.Type(v)
	}
	settle()

	if got := rec.len(); got != 1 {
		t.Fatalf("emissions = %d, want exactly one per quiescence window", got)
	}
	if q, _ := rec.last(); q.Effective != "cafe" {
		t.Errorf("effective = %q, want the final raw value", q.Effective)
	}
}

func TestUpdateRestartsWindow(t *testing.T) {
	// a generous window so scheduling jitter cannot fire it early
	const window = 150 * time.Millisecond
	s := NewSession(window)
	defer s.Close()

	s.Type("ch")
	time.Sleep(window / 3)
	s.Type("cha") // restarts the window
	time.Sleep(window / 3)

	if q := s.Snapshot(); q.Effective != "" {
		t.Fatalf("effective = %q before a full quiet window elapsed", q.Effective)
	}
	time.Sleep(2 * window)
	if q := s.Snapshot(); q.Effective != "cha" {
		t.Fatalf("effective = %q, want cha", q.Effective)
	}
}

func TestSubmitBypassesWindowAndClearsTag(t *testing.T) {
	s := NewSession(time.Hour) // a window that would never fire in-test
	defer s.Close()

	s.PickTag("novo")
	s.Submit("matcha")

	q := s.Snapshot()
	if q.Effective != "matcha" {
		t.Errorf("effective = %q, want matcha without waiting", q.Effective)
	}
	if q.Tag != "" {
		t.Errorf("tag = %q, want cleared after submit", q.Tag)
	}
}

func TestPickTagClearsTextAndAppliesImmediately(t *testing.T) {
	rec := &recorder{}
	s := NewSession(time.Hour)
	defer s.Close()
	s.SetSink(rec.record)

	s.Type("caf") // pending, will never fire with this window
	s.PickTag("novo")

	q := s.Snapshot()
	if q.Tag != "novo" {
		t.Errorf("tag = %q, want novo", q.Tag)
	}
	if q.Raw != "" || q.Effective != "" {
		t.Errorf("raw=%q effective=%q, want both cleared by tag pick", q.Raw, q.Effective)
	}
	if got, ok := rec.last(); !ok || got.Tag != "novo" {
		t.Errorf("sink did not observe the tag pick: %+v", got)
	}

	// the cancelled keystroke must not resurface later
	settle()
	if q := s.Snapshot(); q.Effective != "" {
		t.Errorf("cancelled debounce fired anyway: effective=%q", q.Effective)
	}
}

func TestEffectiveTextDisplacesTag(t *testing.T) {
	s := NewSession(testWindow)
	defer s.Close()

	s.PickTag("novo")
	s.Type("prensa")
	settle()

	q := s.Snapshot()
	if q.Effective != "prensa" || q.Tag != "" {
		t.Errorf("effective=%q tag=%q, want text applied and tag cleared", q.Effective, q.Tag)
	}
}

func TestClearTag(t *testing.T) {
	rec := &recorder{}
	s := NewSession(testWindow)
	defer s.Close()
	s.SetSink(rec.record)

	s.PickTag("novo")
	s.ClearTag()

	if q := s.Snapshot(); q.Tag != "" {
		t.Errorf("tag = %q, want empty", q.Tag)
	}
	if rec.len() != 2 {
		t.Errorf("emissions = %d, want pick + clear", rec.len())
	}

	// clearing with no tag active stays silent
	s.ClearTag()
	if rec.len() != 2 {
		t.Errorf("emissions = %d after redundant clear, want 2", rec.len())
	}
}
