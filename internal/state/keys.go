package state

import (
	"encoding/binary"
)

// Store key layout: one single-byte prefix per collection.
var (
	MetaPrefix       = []byte{0x00}
	AccountPrefix    = []byte{0x01}
	AccountKeyPrefix = []byte{0x02}
	NoncePrefix      = []byte{0x03}
	OraclePrefix     = []byte{0x04}
	RandomnessPrefix = []byte{0x05}
	BetPrefix        = []byte{0x06}
)

var (
	metaHeight           = []byte("height")
	metaParams           = []byte("params")
	metaTreasury         = []byte("treasury")
	metaNextRandomnessID = []byte("nextRandomnessId")
)

func prefixed(prefix, key []byte) []byte {
	out := make([]byte, 0, len(prefix)+len(key))
	out = append(out, prefix...)
	return append(out, key...)
}

func u64Key(id uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, id)
	return b
}

func u64Value(v uint64) []byte { return u64Key(v) }

func parseU64Value(b []byte) (uint64, bool) {
	if len(b) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(b), true
}
