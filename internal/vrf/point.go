package vrf

import (
	"fmt"

	"github.com/gtank/ristretto255"
)

const PointSize = 32

// Point is a ristretto255 group element.
type Point struct {
	v ristretto255.Element
}

func PointFromCanonical(b []byte) (Point, error) {
	if len(b) != PointSize {
		return Point{}, fmt.Errorf("point: want %d bytes, got %d", PointSize, len(b))
	}
	var p Point
	if _, err := p.v.SetCanonicalBytes(b); err != nil {
		return Point{}, fmt.Errorf("point: non-canonical: %w", err)
	}
	return p, nil
}

// IsCanonicalPoint reports whether b decodes to a group element.
func IsCanonicalPoint(b []byte) bool {
	_, err := PointFromCanonical(b)
	return err == nil
}

func (p Point) Bytes() []byte { return p.v.Bytes() }

func (p Point) IsIdentity() bool {
	var id ristretto255.Element
	id.Zero()
	return p.v.Equal(&id) == 1
}

func pointEq(a, b Point) bool { return a.v.Equal(&b.v) == 1 }

func pointAdd(a, b Point) Point {
	var out Point
	out.v.Add(&a.v, &b.v)
	return out
}

func mulBase(k Scalar) Point {
	var out Point
	out.v.ScalarBaseMult(&k.v)
	return out
}

func mulPoint(p Point, k Scalar) Point {
	var out Point
	out.v.ScalarMult(&k.v, &p.v)
	return out
}

// pointFromWide maps 64 uniform bytes onto the group (hash-to-group).
func pointFromWide(b []byte) (Point, error) {
	if len(b) != 64 {
		return Point{}, fmt.Errorf("point: want 64 uniform bytes, got %d", len(b))
	}
	var p Point
	p.v.FromUniformBytes(b)
	return p, nil
}
