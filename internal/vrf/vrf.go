// Package vrf implements the oracle's verifiable random function over
// ristretto255.
//
// For a key pair (x, Y = x*G) and input alpha:
//
//	H     = HashToPoint(alpha)
//	Gamma = x*H
//	pi    = DLEQ proof that log_G(Y) == log_H(Gamma)
//	beta  = sha256(domain || Gamma)
//
// Anyone holding Y can check pi and recompute beta, and only the holder of x
// can produce Gamma, so the output is fixed the moment alpha is.
package vrf

import (
	"crypto/sha256"
	"fmt"
)

const (
	inputDomain  = "dice/v1/vrf/input"
	nonceDomain  = "dice/v1/vrf/nonce"
	keyDomain    = "dice/v1/vrf/keygen"
	outputDomain = "dice/v1/vrf/output"

	OutputSize = sha256.Size
	ProofSize  = PointSize + DLEQProofSize
)

// PrivateKey is an oracle's VRF secret.
type PrivateKey struct {
	x   Scalar
	pub Point
}

// NewPrivateKey derives a key deterministically from seed material.
func NewPrivateKey(seed []byte) (PrivateKey, error) {
	if len(seed) < 32 {
		return PrivateKey{}, fmt.Errorf("vrf: key seed must be at least 32 bytes")
	}
	x := HashToScalar(keyDomain, seed)
	if x.IsZero() {
		return PrivateKey{}, fmt.Errorf("vrf: degenerate key seed")
	}
	return PrivateKey{x: x, pub: mulBase(x)}, nil
}

func (k PrivateKey) Public() Point { return k.pub }

// Proof is Gamma plus the DLEQ proof binding it to the public key.
type Proof struct {
	Gamma Point
	DLEQ  DLEQProof
}

func (p Proof) Bytes() []byte {
	return append(p.Gamma.Bytes(), p.DLEQ.Bytes()...)
}

// Output is the 32-byte VRF value carried by the proof.
func (p Proof) Output() []byte {
	h := sha256.New()
	h.Write([]byte(outputDomain))
	h.Write(p.Gamma.Bytes())
	return h.Sum(nil)
}

func DecodeProof(b []byte) (Proof, error) {
	if len(b) != ProofSize {
		return Proof{}, fmt.Errorf("vrf: proof must be %d bytes, got %d", ProofSize, len(b))
	}
	gamma, err := PointFromCanonical(b[:PointSize])
	if err != nil {
		return Proof{}, fmt.Errorf("vrf: gamma: %w", err)
	}
	dleq, err := decodeDLEQ(b[PointSize:])
	if err != nil {
		return Proof{}, fmt.Errorf("vrf: %w", err)
	}
	return Proof{Gamma: gamma, DLEQ: dleq}, nil
}

// Prove evaluates the VRF on alpha. The nonce is derived from the secret and
// the input, so proving the same input twice yields the same proof.
func (k PrivateKey) Prove(alpha []byte) (Proof, error) {
	h := HashToPoint(inputDomain, alpha)
	gamma := mulPoint(h, k.x)
	w := HashToScalar(nonceDomain, k.x.Bytes(), alpha)
	dleq, err := proveDLEQ(k.pub, h, gamma, k.x, w)
	if err != nil {
		return Proof{}, err
	}
	return Proof{Gamma: gamma, DLEQ: dleq}, nil
}

// Verify checks proof against pub and alpha and returns the VRF output.
func Verify(pub Point, alpha []byte, proof Proof) ([]byte, error) {
	if pub.IsIdentity() {
		return nil, fmt.Errorf("vrf: identity public key")
	}
	if proof.Gamma.IsIdentity() {
		return nil, fmt.Errorf("vrf: identity gamma")
	}
	h := HashToPoint(inputDomain, alpha)
	if !verifyDLEQ(pub, h, proof.Gamma, proof.DLEQ) {
		return nil, fmt.Errorf("vrf: proof does not verify")
	}
	return proof.Output(), nil
}
