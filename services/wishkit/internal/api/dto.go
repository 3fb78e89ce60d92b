package api

import (
	"time"

	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/domain"
)

type voterDTO struct {
	UUID string `json:"uuid"`
}

type commentDTO struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	IsAdmin     bool      `json:"isAdmin"`
}

type wishDTO struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	State       string       `json:"state"`
	UserUUID    string       `json:"userUUID"`
	VotingUsers []voterDTO   `json:"votingUsers"`
	CommentList []commentDTO `json:"commentList"`
}

type listResponse struct {
	List                []wishDTO `json:"list"`
	ShouldShowWatermark bool      `json:"shouldShowWatermark"`
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Email       string `json:"email,omitempty"`
}

type voteRequest struct {
	WishID string `json:"wishId"`
}

// toDomain converts a wire wish. Unknown states are kept verbatim so the
// wish shows up in neither tab instead of failing the whole list.
func (d wishDTO) toDomain() domain.Wish {
	voters := make([]domain.Voter, 0, len(d.VotingUsers))
	for _, v := range d.VotingUsers {
		voters = append(voters, domain.Voter{Token: v.UUID})
	}

	comments := make([]domain.Comment, 0, len(d.CommentList))
	for _, c := range d.CommentList {
		comments = append(comments, domain.Comment{
			ID:          c.ID,
			UserID:      c.UserID,
			Description: c.Description,
			CreatedAt:   c.CreatedAt,
			IsAdmin:     c.IsAdmin,
		})
	}

	return domain.NewWish(d.ID, d.Title, d.Description, domain.WishState(d.State),
		domain.Voter{Token: d.UserUUID}, voters, comments)
}

func (r listResponse) toSnapshot() domain.Snapshot {
	wishes := make([]domain.Wish, 0, len(r.List))
	for _, w := range r.List {
		wishes = append(wishes, w.toDomain())
	}
	return domain.Snapshot{Wishes: wishes, WatermarkVisible: r.ShouldShowWatermark}
}
