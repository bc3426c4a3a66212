// Package iphash provides the one-way transform applied to viewer addresses
// before they are stored. The goal is privacy through lossiness, not secrecy:
// the raw address never hits the database, but equal addresses still map to
// equal tokens so unique-visitor counting stays possible.
package iphash

import "strconv"

// Hash folds an address into a short hexadecimal token using a 32-bit rolling
// multiply-accumulate over its bytes. Deterministic and non-reversible in the
// lossy sense only - this is explicitly NOT a cryptographic hash, and
// collisions are possible and acceptable (deduplication is approximate).
func Hash(address string) string {
	var h int32
	for i := 0; i < len(address); i++ {
		h = h*31 + int32(address[i])
	}
	// Widen before negating: -MinInt32 does not exist in 32 bits.
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 16)
}
