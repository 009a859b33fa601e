package service

import (
	"errors"
	"sync"
)

// ErrSuperseded is returned for a response that arrived after a newer request
// was issued. Callers drop it silently.
var ErrSuperseded = errors.New("superseded by a newer request")

// Latest hands out increasing tickets and reports whether a ticket is still
// the most recent one.
type Latest struct {
	mu  sync.Mutex
	seq uint64
}

// Next issues a new ticket, superseding all earlier ones.
func (l *Latest) Next() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	return l.seq
}

// Current reports whether ticket is the latest issued.
func (l *Latest) Current(ticket uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return ticket == l.seq
}
