package model

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// IDGenerator hands out fresh identifiers. Implementations must be safe for
// concurrent use.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator produces random v4 UUIDs. It is the default for
// interactive placement, where ids only need to be unique.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

// Sequence produces "<prefix>-1", "<prefix>-2", ... and can be reset, which
// keeps ids stable across test runs.
type Sequence struct {
	prefix string
	n      atomic.Uint64
}

// NewSequence returns a Sequence starting at 1.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) NewID() string {
	return fmt.Sprintf("%s-%d", s.prefix, s.n.Add(1))
}

// Reset restarts the sequence at 1.
func (s *Sequence) Reset() { s.n.Store(0) }

// HashGenerator derives ids by hashing a namespace with a counter. Two
// generators with the same namespace yield the same id stream, so
// re-evaluating a script reproduces identical ids while ids from different
// namespaces do not collide in practice.
type HashGenerator struct {
	namespace string
	n         atomic.Uint64
}

// NewHashGenerator returns a HashGenerator for the namespace.
func NewHashGenerator(namespace string) *HashGenerator {
	return &HashGenerator{namespace: namespace}
}

func (h *HashGenerator) NewID() string {
	n := h.n.Add(1)
	sum := xxhash.Sum64String(h.namespace + "/" + strconv.FormatUint(n, 10))
	return fmt.Sprintf("%016x", sum)
}
