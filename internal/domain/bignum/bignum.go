// Package bignum interprets raw byte windows as arbitrary-precision integers
// in either byte order. It is a thin layer over math/big so the rest of the
// pipeline never touches encoding details directly.
package bignum

import "math/big"

// Order selects how a byte sequence is interpreted as an integer.
type Order int

const (
	// MSF treats the first byte as most significant (big-endian).
	MSF Order = iota
	// LSF treats the first byte as least significant (little-endian).
	LSF
)

// String returns the configuration name of the order.
func (o Order) String() string {
	if o == LSF {
		return "lsf"
	}
	return "msf"
}

// FromBytes constructs a non-negative integer from b in the given order.
// The input slice is not retained.
func FromBytes(b []byte, o Order) *big.Int {
	if o == LSF {
		b = reversed(b)
	}
	return new(big.Int).SetBytes(b)
}

// MinimalBytes encodes n in the given order using the fewest bytes possible:
// no leading zeros for MSF, no trailing zeros for LSF. Zero encodes to an
// empty slice, mirroring math/big.
func MinimalBytes(n *big.Int, o Order) []byte {
	b := n.Bytes()
	if o == LSF {
		reverse(b)
	}
	return b
}

// reversed returns a reversed copy of b.
func reversed(b []byte) []byte {
	r := make([]byte, len(b))
	for i, c := range b {
		r[len(b)-1-i] = c
	}
	return r
}

// reverse flips b in place.
func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
