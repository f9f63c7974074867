package wfc

import "math/bits"

// MaxPatterns is the hard ceiling on distinct pattern indices. The
// possibility set is a fixed 128-bit word pair for cache-friendly
// popcount and intersection; widening it is a deliberate API change,
// never a silent truncation.
const MaxPatterns = 128

// Bitset128 is a fixed-width possibility set over pattern indices
type Bitset128 [2]uint64

// AllPatterns returns a set with the low n bits set
func AllPatterns(n int) Bitset128 {
	var b Bitset128
	if n >= 64 {
		b[0] = ^uint64(0)
		if n >= 128 {
			b[1] = ^uint64(0)
		} else {
			b[1] = (1 << (n - 64)) - 1
		}
	} else {
		b[0] = (1 << n) - 1
	}
	return b
}

// Single returns a set containing only pattern i
func Single(i int) Bitset128 {
	var b Bitset128
	b.Set(i)
	return b
}

// Has reports whether pattern i is in the set
func (b Bitset128) Has(i int) bool {
	return b[i>>6]&(1<<(i&63)) != 0
}

// Set adds pattern i
func (b *Bitset128) Set(i int) {
	b[i>>6] |= 1 << (i & 63)
}

// Clear removes pattern i
func (b *Bitset128) Clear(i int) {
	b[i>>6] &^= 1 << (i & 63)
}

// Count returns the number of patterns in the set (the cell entropy)
func (b Bitset128) Count() int {
	return bits.OnesCount64(b[0]) + bits.OnesCount64(b[1])
}

// And intersects two sets
func (b Bitset128) And(o Bitset128) Bitset128 {
	return Bitset128{b[0] & o[0], b[1] & o[1]}
}

// Or unions two sets
func (b Bitset128) Or(o Bitset128) Bitset128 {
	return Bitset128{b[0] | o[0], b[1] | o[1]}
}

// IsZero reports an empty set (a contradiction when it is a cell's
// possibility set)
func (b Bitset128) IsZero() bool {
	return b[0] == 0 && b[1] == 0
}

// Nth returns the index of the k-th set bit (0-based), or -1 if the
// set holds fewer than k+1 patterns
func (b Bitset128) Nth(k int) int {
	for w := 0; w < 2; w++ {
		n := bits.OnesCount64(b[w])
		if k >= n {
			k -= n
			continue
		}
		word := b[w]
		for {
			low := bits.TrailingZeros64(word)
			if k == 0 {
				return w*64 + low
			}
			word &^= 1 << low
			k--
		}
	}
	return -1
}

// Patterns returns the set bit indices in ascending order
func (b Bitset128) Patterns() []int {
	out := make([]int, 0, b.Count())
	for w := 0; w < 2; w++ {
		word := b[w]
		for word != 0 {
			low := bits.TrailingZeros64(word)
			out = append(out, w*64+low)
			word &^= 1 << low
		}
	}
	return out
}
