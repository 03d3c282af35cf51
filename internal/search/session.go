// Package search holds the per-session query state: the raw text typed into
// the header, the debounced effective text the listing filters on, and the
// optional category tag. Tag and text are mutually exclusive, matching the
// storefront's observed behavior: picking a tag clears the text query and
// submitting text clears the tag.
package search

import (
	"sync"
	"time"
)

// Query is a point-in-time snapshot of the session's filter state.
type Query struct {
	Raw       string `json:"raw"`
	Effective string `json:"effective"`
	Tag       string `json:"tag,omitempty"`
}

// Session is the debounced query state machine for one client session.
// Screens register a sink to hear about effective-state changes, the way the
// mobile screens registered onChangeQuery/onSearch callbacks on the shared
// header.
type Session struct {
	mu   sync.RWMutex
	q    Query
	deb  *debouncer
	sink func(Query)
}

// NewSession builds a session with the given quiescence window
// (DefaultWindow when zero).
func NewSession(window time.Duration) *Session {
	s := &Session{}
	s.deb = newDebouncer(window, s.applyEffective)
	return s
}

// Type records a keystroke: the raw value updates synchronously, the
// effective value follows after the quiescence window.
func (s *Session) Type(v string) {
	s.mu.Lock()
	s.q.Raw = v
	s.mu.Unlock()
	s.deb.update(v)
}

// Submit applies a query immediately, bypassing the debounce window, and
// clears any active tag.
func (s *Session) Submit(v string) {
	s.mu.Lock()
	s.q.Raw = v
	s.mu.Unlock()
	s.deb.flush(v)
}

// PickTag selects a category tag immediately. Any in-flight text query, raw
// and effective, is reset.
func (s *Session) PickTag(tag string) {
	s.deb.cancel()
	s.mu.Lock()
	s.q = Query{Tag: tag}
	sink := s.sink
	q := s.q
	s.mu.Unlock()
	notify(sink, q)
}

// ClearTag drops the tag, restoring the unfiltered listing.
func (s *Session) ClearTag() {
	s.mu.Lock()
	changed := s.q.Tag != ""
	s.q.Tag = ""
	sink := s.sink
	q := s.q
	s.mu.Unlock()
	if changed {
		notify(sink, q)
	}
}

// Snapshot returns the current query state.
func (s *Session) Snapshot() Query {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.q
}

// SetSink registers the callback invoked on every effective change. Passing
// nil unregisters it, the screen-unmount case.
func (s *Session) SetSink(fn func(Query)) {
	s.mu.Lock()
	s.sink = fn
	s.mu.Unlock()
}

// Close cancels any pending debounce timer.
func (s *Session) Close() {
	s.deb.cancel()
}

// applyEffective is the debouncer's emission target: text becoming effective
// displaces any active tag.
func (s *Session) applyEffective(v string) {
	s.mu.Lock()
	s.q.Effective = v
	if v != "" {
		s.q.Tag = ""
	}
	sink := s.sink
	q := s.q
	s.mu.Unlock()
	notify(sink, q)
}

func notify(sink func(Query), q Query) {
	if sink != nil {
		sink(q)
	}
}
