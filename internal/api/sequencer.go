package api

import (
	"context"
	"sync"
)

// Ticket identifies one issued fetch.
type Ticket struct {
	Seq uint64
	Ctx context.Context
}

// Sequencer numbers fetches so only the latest issued one is accepted.
// Issuing a new ticket cancels the context of the previous one.
type Sequencer struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// Issue returns the next ticket derived from parent and cancels the previous.
func (s *Sequencer) Issue(parent context.Context) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.seq++
	s.cancel = cancel
	return Ticket{Seq: s.seq, Ctx: ctx}
}

// Latest returns the most recently issued sequence number.
func (s *Sequencer) Latest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Accept reports whether seq is the latest issued ticket. A response for any
// other ticket is stale and must be discarded.
func (s *Sequencer) Accept(seq uint64) bool {
	return seq != 0 && seq == s.Latest()
}

// Stop cancels the in-flight ticket, if any.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
