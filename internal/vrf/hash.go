package vrf

import (
	"crypto/sha512"
	"encoding/binary"
	"hash"
)

const hashPrefix = "dice/v1|"

func writeLenPrefixed(h hash.Hash, b []byte) {
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(b)))
	h.Write(n[:])
	h.Write(b)
}

func wideHash(kind, domainSep string, msgs ...[]byte) []byte {
	h := sha512.New()
	h.Write([]byte(hashPrefix + kind + "|"))
	writeLenPrefixed(h, []byte(domainSep))
	for _, m := range msgs {
		writeLenPrefixed(h, m)
	}
	return h.Sum(nil)
}

// HashToScalar maps domain-separated messages to a scalar.
func HashToScalar(domainSep string, msgs ...[]byte) Scalar {
	s, _ := scalarFromWide(wideHash("hash_to_scalar", domainSep, msgs...))
	return s
}

// HashToPoint maps domain-separated messages to a group element whose
// discrete log is unknown.
func HashToPoint(domainSep string, msgs ...[]byte) Point {
	p, _ := pointFromWide(wideHash("hash_to_point", domainSep, msgs...))
	return p
}
