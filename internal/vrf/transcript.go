package vrf

import (
	"crypto/sha512"
	"encoding/binary"
)

const transcriptPrefix = "dice/v1|transcript|"

// Transcript is a Fiat-Shamir transcript. It keeps the raw bytes since
// sha512 digests cannot be cloned.
type Transcript struct {
	state []byte
}

func NewTranscript(domainSep string) *Transcript {
	t := &Transcript{state: []byte(transcriptPrefix)}
	t.appendLen([]byte(domainSep))
	return t
}

func (t *Transcript) appendLen(b []byte) {
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(b)))
	t.state = append(t.state, n[:]...)
	t.state = append(t.state, b...)
}

func (t *Transcript) Append(label string, msg []byte) {
	t.state = append(t.state, "msg"...)
	t.appendLen([]byte(label))
	t.appendLen(msg)
}

func (t *Transcript) Challenge(label string) Scalar {
	h := sha512.New()
	h.Write(t.state)
	h.Write([]byte("challenge"))
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(label)))
	h.Write(n[:])
	h.Write([]byte(label))
	s, _ := scalarFromWide(h.Sum(nil))
	return s
}
