package feed

import (
	"encoding/binary"
	"hash/fnv"
	"sort"

	"resaleMarket/domain"
)

// tieBreak deterministically hashes (seed, id) so equal-score items keep the
// same relative order for a given seed.
func tieBreak(seed int64, id int64) uint64 {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(seed))
	binary.BigEndian.PutUint64(buf[8:], uint64(id))

	h := fnv.New64a()
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

// orderWindow drops repeated ids (first wins) and sorts by final score
// descending, breaking ties with the seeded hash. Items without a score sort
// after scored ones.
func orderWindow(rows []domain.FeedRow, seed *int64) []domain.FeedRow {
	var s int64
	if seed != nil {
		s = *seed
	}

	seen := make(map[int64]struct{}, len(rows))
	out := make([]domain.FeedRow, 0, len(rows))
	for _, r := range rows {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].FinalScore, out[j].FinalScore
		switch {
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		case a != nil && b != nil && *a != *b:
			return *a > *b
		}
		return tieBreak(s, out[i].ID) < tieBreak(s, out[j].ID)
	})

	return out
}
