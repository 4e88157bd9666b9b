package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}

// Sequence hands out prefixed, monotonically numbered ids. Used where
// reproducible ids matter more than global uniqueness.
type Sequence struct {
	Prefix string
	next   int
}

func (s *Sequence) New() string {
	s.next++
	return fmt.Sprintf("%s%d", s.Prefix, s.next)
}
