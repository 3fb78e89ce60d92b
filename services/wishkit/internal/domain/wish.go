package domain

import (
	"fmt"
	"slices"
	"time"
)

// WishState is the server-assigned lifecycle state of a wish.
type WishState string

const (
	StatePending     WishState = "pending"
	StateApproved    WishState = "approved"
	StateInReview    WishState = "inReview"
	StatePlanned     WishState = "planned"
	StateInProgress  WishState = "inProgress"
	StateRejected    WishState = "rejected"
	StateImplemented WishState = "implemented"
	StateCompleted   WishState = "completed"
)

// AllStates lists every known state in display order.
var AllStates = []WishState{
	StatePending, StateApproved, StateInReview, StatePlanned,
	StateInProgress, StateRejected, StateImplemented, StateCompleted,
}

// Valid reports whether s is one of the known states.
func (s WishState) Valid() bool {
	return slices.Contains(AllStates, s)
}

// ParseWishState converts a raw state string, rejecting unknown values.
func ParseWishState(raw string) (WishState, error) {
	s := WishState(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown wish state %q", raw)
	}
	return s, nil
}

// Voter is one anonymous voting identity. The zero Voter is anonymous.
type Voter struct {
	Token string `json:"uuid"`
}

// IsZero reports whether v carries no identity.
func (v Voter) IsZero() bool {
	return v.Token == ""
}

// Comment is a remark attached to a wish, shown in the detail view.
type Comment struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	IsAdmin     bool      `json:"is_admin"`
}

// Wish is a user-submitted feature request.
//
// Voters never holds the same token twice; use NewWish or WithVoter to keep
// that true.
type Wish struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	State       WishState `json:"state"`
	Creator     Voter     `json:"creator"`
	Voters      []Voter   `json:"voters"`
	Comments    []Comment `json:"comments,omitempty"`
}

// NewWish builds a wish with deduplicated, non-anonymous voters. The first
// occurrence of a token wins.
func NewWish(id, title, description string, state WishState, creator Voter, voters []Voter, comments []Comment) Wish {
	unique := make([]Voter, 0, len(voters))
	seen := make(map[string]struct{}, len(voters))
	for _, v := range voters {
		if v.IsZero() {
			continue
		}
		if _, dup := seen[v.Token]; dup {
			continue
		}
		seen[v.Token] = struct{}{}
		unique = append(unique, v)
	}

	return Wish{
		ID:          id,
		Title:       title,
		Description: description,
		State:       state,
		Creator:     creator,
		Voters:      unique,
		Comments:    slices.Clone(comments),
	}
}

// VoteCount is the number of distinct voters.
func (w Wish) VoteCount() int {
	return len(w.Voters)
}

// HasVoted reports whether v is among the voters.
func (w Wish) HasVoted(v Voter) bool {
	return slices.Contains(w.Voters, v)
}

// IsCreatedBy reports whether v created the wish. Anonymous wishes have no
// creator and anonymous voters create nothing.
func (w Wish) IsCreatedBy(v Voter) bool {
	return !v.IsZero() && w.Creator == v
}

// AcceptsVotes is false once a wish is implemented.
func (w Wish) AcceptsVotes() bool {
	return w.State != StateImplemented
}

// Clone returns a copy that shares no slices with w.
func (w Wish) Clone() Wish {
	w.Voters = slices.Clone(w.Voters)
	w.Comments = slices.Clone(w.Comments)
	return w
}

// WithVoter returns a copy of w with v added. Adding an existing voter is a
// no-op.
func (w Wish) WithVoter(v Voter) Wish {
	if v.IsZero() || w.HasVoted(v) {
		return w
	}
	out := w.Clone()
	out.Voters = append(out.Voters, v)
	return out
}

// WithoutVoter returns a copy of w with v removed.
func (w Wish) WithoutVoter(v Voter) Wish {
	i := slices.Index(w.Voters, v)
	if i < 0 {
		return w
	}
	out := w.Clone()
	out.Voters = slices.Delete(out.Voters, i, i+1)
	return out
}
