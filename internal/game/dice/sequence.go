package dice

import "sync"

// SequenceSource replays predetermined die faces. It is meant for tests that
// need exact control over every roll.
type SequenceSource struct {
	mu    sync.Mutex
	faces []int
	next  int
}

// NewSequenceSource returns a Source that yields faces in order, cycling once
// the sequence is exhausted.
//
// Precondition: len(faces) > 0.
func NewSequenceSource(faces ...int) *SequenceSource {
	return &SequenceSource{faces: faces}
}

// Intn returns the next face minus one, clamped into [0, n).
func (s *SequenceSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	face := s.faces[s.next%len(s.faces)]
	s.next++
	switch {
	case face < 1:
		return 0
	case face > n:
		return n - 1
	}
	return face - 1
}

// Draws reports how many values have been consumed.
func (s *SequenceSource) Draws() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}
