package match

import (
	"bytes"
	"context"

	"github.com/zetatwo/primefind/internal/ports"
)

// Rabin-Karp polynomial parameters. The base is the FNV-64 prime; arithmetic
// wraps in uint64, which keeps the roll-out subtraction exact.
const (
	rollingBase uint64 = 1099511628211

	// fingerprintCap bounds the fingerprint window. A wider window buys
	// nothing: the prefix fingerprint is only a pre-filter and every hit
	// is re-verified byte-for-byte.
	fingerprintCap = 64

	// positions between cancellation checks during the streaming pass
	rollingCheckEvery = 1 << 16
)

// Rolling is the separator matcher: a fixed-width rolling fingerprint slides
// byte-by-byte through the buffer, and positions whose fingerprint matches a
// precomputed key-prefix fingerprint are treated as candidate separators.
// Fingerprint collisions are expected; every candidate is confirmed against
// the real byte index before it can surface as a match. The streaming pass
// is sequential: rolling state carries from byte to byte.
type Rolling struct{}

// Name implements ports.Matcher.
func (m *Rolling) Name() string { return "rolling" }

// fpRef ties a fingerprint back to the full key it was computed from and
// every entry the key resolves to.
type fpRef struct {
	key []byte
	ids []int
}

// Match implements ports.Matcher.
func (m *Rolling) Match(ctx context.Context, buf []byte, idx *ports.CompositeIndex) ([]ports.Match, error) {
	if idx == nil || idx.Len() == 0 {
		return nil, nil
	}

	// Window width: the shortest key, capped. Every key is at least this
	// long, so a prefix fingerprint exists for all of them.
	width := fingerprintCap
	if lengths := idx.KeyLengths(); len(lengths) > 0 && lengths[0] < width {
		width = lengths[0] // lengths are ascending; the shortest governs
	}
	if width == 0 || width > len(buf) {
		return nil, nil
	}

	// Fingerprint table over every key's prefix, built once per run.
	keys, ids := idx.Keys()
	table := make(map[uint64][]fpRef, len(keys))
	for i, key := range keys {
		fp := fingerprint(key[:width])
		table[fp] = append(table[fp], fpRef{key: key, ids: ids[i]})
	}

	// pow = base^(width-1), the multiplier of the byte rolling out.
	pow := uint64(1)
	for i := 1; i < width; i++ {
		pow *= rollingBase
	}

	found := make(map[int]struct{})
	h := fingerprint(buf[:width])
	for s := 0; ; s++ {
		if s%rollingCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for _, ref := range table[h] {
			end := s + len(ref.key)
			if end > len(buf) || !bytes.Equal(buf[s:end], ref.key) {
				continue // fingerprint collision or truncated tail
			}
			for _, id := range ref.ids {
				found[id] = struct{}{}
			}
		}
		next := s + width
		if next >= len(buf) {
			break
		}
		h = (h-uint64(buf[s])*pow)*rollingBase + uint64(buf[next])
	}

	return idx.MatchesFor(found), nil
}

// fingerprint computes the polynomial hash of a full window.
func fingerprint(window []byte) uint64 {
	var h uint64
	for _, b := range window {
		h = h*rollingBase + uint64(b)
	}
	return h
}
