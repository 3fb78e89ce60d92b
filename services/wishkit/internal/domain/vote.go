package domain

// VoteAction is what an accepted vote attempt does to the vote set.
type VoteAction int

const (
	// VoteAdd adds the voter.
	VoteAdd VoteAction = iota + 1
	// VoteRetract removes a previous vote (undo-vote).
	VoteRetract
)

func (a VoteAction) String() string {
	switch a {
	case VoteAdd:
		return "vote"
	case VoteRetract:
		return "unvote"
	default:
		return "unknown"
	}
}

// Apply returns w with the action applied for voter.
func (a VoteAction) Apply(w Wish, voter Voter) Wish {
	switch a {
	case VoteAdd:
		return w.WithVoter(voter)
	case VoteRetract:
		return w.WithoutVoter(voter)
	default:
		return w
	}
}

// VotePolicy is the read-only vote configuration.
type VotePolicy struct {
	AllowUndo bool
}

// CheckVote runs the local vote rules against w, the wish as currently
// displayed (nil when unknown). The first failing rule wins:
// not found, implemented, own wish, already voted. With AllowUndo a repeated
// vote becomes a retraction instead of failing.
func CheckVote(w *Wish, voter Voter, policy VotePolicy) (VoteAction, error) {
	switch {
	case w == nil:
		return 0, ErrWishNotFound
	case !w.AcceptsVotes():
		return 0, ErrAlreadyImplemented
	case w.IsCreatedBy(voter):
		return 0, ErrOwnWish
	case w.HasVoted(voter):
		if !policy.AllowUndo {
			return 0, ErrAlreadyVoted
		}
		return VoteRetract, nil
	default:
		return VoteAdd, nil
	}
}
