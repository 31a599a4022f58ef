//go:build !manifold

// Package manifold provides a CGo-based geometry kernel binding to the
// Manifold library. When the "manifold" build tag is not set, this stub
// package is compiled instead, returning ErrUnavailable from New.
//
// Build with: go build -tags=manifold
package manifold

import (
	"errors"

	"github.com/chazu/structview/pkg/kernel"
)

// ErrUnavailable is returned by New when built without the manifold tag.
var ErrUnavailable = errors.New("manifold kernel not available: build with -tags=manifold")

// New returns ErrUnavailable.
func New(segments int) (kernel.Kernel, error) {
	return nil, ErrUnavailable
}
