package domain

import "slices"

// Snapshot is the full wish list returned by one successful fetch.
//
// Sequence orders snapshots by the time their fetch was issued. Zero means
// unordered: such a snapshot always replaces the current one.
type Snapshot struct {
	Wishes           []Wish `json:"wishes"`
	WatermarkVisible bool   `json:"watermark_visible"`
	Sequence         uint64 `json:"sequence"`
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	wishes := make([]Wish, len(s.Wishes))
	for i, w := range s.Wishes {
		wishes[i] = w.Clone()
	}
	s.Wishes = wishes
	return s
}

// IsRequested reports whether w belongs to the requested tab as seen by
// identity: approved wishes, plus the identity's own pending wishes.
func IsRequested(w Wish, identity Voter) bool {
	switch w.State {
	case StateApproved:
		return true
	case StatePending:
		return w.IsCreatedBy(identity)
	default:
		return false
	}
}

// IsImplemented reports whether w belongs to the implemented tab.
func IsImplemented(w Wish) bool {
	return w.State == StateImplemented
}

// SortByVotes orders wishes by vote count, highest first. Ties keep their
// input order.
func SortByVotes(wishes []Wish) {
	slices.SortStableFunc(wishes, func(a, b Wish) int {
		return b.VoteCount() - a.VoteCount()
	})
}

// Partition selects the wishes matching keep and sorts them by votes. The
// input slice is not modified.
func Partition(wishes []Wish, keep func(Wish) bool) []Wish {
	out := make([]Wish, 0, len(wishes))
	for _, w := range wishes {
		if keep(w) {
			out = append(out, w)
		}
	}
	SortByVotes(out)
	return out
}
