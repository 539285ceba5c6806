package vrf

import "fmt"

const dleqDomain = "dice/v1/dleq"

// DLEQProof shows log_G(Y) == log_H(Z) without revealing the exponent x.
type DLEQProof struct {
	// A = w*G
	A Point
	// B = w*H
	B Point
	// S = w + e*x
	S Scalar
}

const DLEQProofSize = 2*PointSize + ScalarSize

func dleqChallenge(y, h, z, a, b Point) Scalar {
	tr := NewTranscript(dleqDomain)
	tr.Append("y", y.Bytes())
	tr.Append("h", h.Bytes())
	tr.Append("z", z.Bytes())
	tr.Append("a", a.Bytes())
	tr.Append("b", b.Bytes())
	return tr.Challenge("e")
}

func proveDLEQ(y, h, z Point, x, w Scalar) (DLEQProof, error) {
	if w.IsZero() {
		return DLEQProof{}, fmt.Errorf("dleq: nonce must be non-zero")
	}
	a := mulBase(w)
	b := mulPoint(h, w)
	e := dleqChallenge(y, h, z, a, b)
	return DLEQProof{A: a, B: b, S: scalarAdd(w, scalarMul(e, x))}, nil
}

func verifyDLEQ(y, h, z Point, p DLEQProof) bool {
	e := dleqChallenge(y, h, z, p.A, p.B)
	// s*G == A + e*Y
	if !pointEq(mulBase(p.S), pointAdd(p.A, mulPoint(y, e))) {
		return false
	}
	// s*H == B + e*Z
	return pointEq(mulPoint(h, p.S), pointAdd(p.B, mulPoint(z, e)))
}

// Encoding: A(32) || B(32) || S(32 le)
func (p DLEQProof) Bytes() []byte {
	out := make([]byte, 0, DLEQProofSize)
	out = append(out, p.A.Bytes()...)
	out = append(out, p.B.Bytes()...)
	return append(out, p.S.Bytes()...)
}

func decodeDLEQ(b []byte) (DLEQProof, error) {
	if len(b) != DLEQProofSize {
		return DLEQProof{}, fmt.Errorf("dleq: want %d bytes, got %d", DLEQProofSize, len(b))
	}
	a, err := PointFromCanonical(b[0:32])
	if err != nil {
		return DLEQProof{}, err
	}
	bp, err := PointFromCanonical(b[32:64])
	if err != nil {
		return DLEQProof{}, err
	}
	s, err := ScalarFromCanonical(b[64:96])
	if err != nil {
		return DLEQProof{}, err
	}
	return DLEQProof{A: a, B: bp, S: s}, nil
}
