// internal/styling/refresh/sequencer.go
package refresh

import "sync"

// Sequencer hands out increasing sequence numbers per owner so that a slow
// response cannot overwrite the result of a newer request.
type Sequencer struct {
	mu     sync.Mutex
	issued map[string]uint64
}

func NewSequencer() *Sequencer {
	return &Sequencer{issued: make(map[string]uint64)}
}

func (s *Sequencer) Next(owner string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[owner]++
	return s.issued[owner]
}

// Accept reports whether seq is still the newest number issued for owner.
func (s *Sequencer) Accept(owner string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq != 0 && s.issued[owner] == seq
}

func (s *Sequencer) Latest(owner string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issued[owner]
}
