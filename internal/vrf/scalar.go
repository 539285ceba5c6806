package vrf

import (
	"fmt"

	"github.com/gtank/ristretto255"
)

const ScalarSize = 32

// Scalar is a ristretto255 scalar with a canonical 32-byte little-endian encoding.
type Scalar struct {
	v ristretto255.Scalar
}

func ScalarFromCanonical(b []byte) (Scalar, error) {
	if len(b) != ScalarSize {
		return Scalar{}, fmt.Errorf("scalar: want %d bytes, got %d", ScalarSize, len(b))
	}
	var s Scalar
	if _, err := s.v.SetCanonicalBytes(b); err != nil {
		return Scalar{}, fmt.Errorf("scalar: non-canonical: %w", err)
	}
	return s, nil
}

// scalarFromWide reduces 64 uniform bytes mod the group order.
func scalarFromWide(b []byte) (Scalar, error) {
	if len(b) != 64 {
		return Scalar{}, fmt.Errorf("scalar: want 64 uniform bytes, got %d", len(b))
	}
	var s Scalar
	s.v.FromUniformBytes(b)
	return s, nil
}

func (s Scalar) Bytes() []byte { return s.v.Bytes() }

func (s Scalar) IsZero() bool {
	var z ristretto255.Scalar
	return s.v.Equal(&z) == 1
}

func scalarAdd(a, b Scalar) Scalar {
	var out Scalar
	out.v.Add(&a.v, &b.v)
	return out
}

func scalarMul(a, b Scalar) Scalar {
	var out Scalar
	out.v.Multiply(&a.v, &b.v)
	return out
}
