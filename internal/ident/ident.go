// Package ident generates record identifiers.
package ident

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces fresh identifiers.
type Generator interface {
	NewID() string
}

// UUID generates random (version 4) UUID strings.
type UUID struct{}

// NewID implements Generator.
func (UUID) NewID() string {
	return uuid.NewString()
}

// Sequence generates "<prefix>-1", "<prefix>-2", ... and is meant for
// reproducible output in tests and dry runs.
type Sequence struct {
	Prefix string
	next   atomic.Int64
}

// NewSequence creates a Sequence generator.
func NewSequence(prefix string) *Sequence {
	return &Sequence{Prefix: prefix}
}

// NewID implements Generator.
func (s *Sequence) NewID() string {
	return fmt.Sprintf("%s-%d", s.Prefix, s.next.Add(1))
}

// Unique returns an id from gen that is not in taken, and records it as taken.
func Unique(gen Generator, taken map[string]struct{}) string {
	for {
		id := gen.NewID()
		if _, exists := taken[id]; !exists {
			taken[id] = struct{}{}
			return id
		}
	}
}
