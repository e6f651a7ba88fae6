package app

import "sync/atomic"

// FetchScope guards one refreshable piece of state (a user's history, a
// month view) against late-arriving responses. Every fetch takes a ticket;
// switching user or view invalidates the scope, and a response is applied
// only while its ticket is still current. Last-fetch-wins, no merging.
type FetchScope struct {
	seq atomic.Uint64
}

// Next issues a new ticket, superseding earlier ones.
func (s *FetchScope) Next() uint64 {
	return s.seq.Add(1)
}

// Current reports whether ticket is still the latest issued.
func (s *FetchScope) Current(ticket uint64) bool {
	return s.seq.Load() == ticket
}

// Invalidate supersedes all outstanding tickets without issuing a new one.
func (s *FetchScope) Invalidate() {
	s.seq.Add(1)
}
