package hashtable

import "unicode/utf16"

const (
	fnvOffsetBasis uint32 = 2166136261
	fnvPrime       uint32 = 16777619
)

// Hash returns the 32-bit FNV-1a hash of key folded over its UTF-16 code
// units. For ASCII keys this matches hash/fnv's New32a over the raw bytes.
func Hash(key string) uint32 {
	h := fnvOffsetBasis
	for _, r := range key {
		if r < 0x10000 {
			h ^= uint32(r)
			h *= fnvPrime
			continue
		}
		r1, r2 := utf16.EncodeRune(r)
		h ^= uint32(r1)
		h *= fnvPrime
		h ^= uint32(r2)
		h *= fnvPrime
	}
	return h
}
