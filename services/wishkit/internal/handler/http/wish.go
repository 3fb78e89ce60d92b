package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/DigitalMasterpieces/wishkit-go/pkg/errors"
	"github.com/DigitalMasterpieces/wishkit-go/pkg/httputil"
	"github.com/DigitalMasterpieces/wishkit-go/pkg/pagination"
	"github.com/DigitalMasterpieces/wishkit-go/pkg/validator"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/domain"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/repository"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/service"
)

// List kinds, one per widget tab.
const (
	KindRequested   = "requested"
	KindImplemented = "implemented"
)

// WishHandler handles HTTP requests for the wish list.
type WishHandler struct {
	repo        repository.WishRepository
	votes       *service.VoteCoordinator
	submissions *service.SubmissionCoordinator
	refresher   *service.RefreshController
	identity    service.IdentityProvider
	settings    Settings
	logger      *slog.Logger
}

// NewWishHandler creates a new wish HTTP handler.
func NewWishHandler(
	repo repository.WishRepository,
	votes *service.VoteCoordinator,
	submissions *service.SubmissionCoordinator,
	refresher *service.RefreshController,
	identity service.IdentityProvider,
	settings Settings,
	logger *slog.Logger,
) *WishHandler {
	return &WishHandler{
		repo:        repo,
		votes:       votes,
		submissions: submissions,
		refresher:   refresher,
		identity:    identity,
		settings:    settings,
		logger:      logger,
	}
}

// --- Request / Response DTOs ---

// SubmitWishRequest is the body of POST /api/v1/wishes.
type SubmitWishRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Email       string `json:"email"`
}

// WishResponse is one wish as seen by the current identity.
type WishResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	State       domain.WishState `json:"state"`
	VoteCount   int              `json:"vote_count"`
	HasVoted    bool             `json:"has_voted"`
	IsOwn       bool             `json:"is_own"`
	ShowBadge   bool             `json:"show_badge"`
	Pending     bool             `json:"pending,omitempty"`
	Comments    []domain.Comment `json:"comments,omitempty"`
}

// WishListResponse is one tab of the widget.
type WishListResponse struct {
	Kind      string                          `json:"kind"`
	Watermark bool                            `json:"watermark"`
	WishCount int                             `json:"wish_count"`
	Revision  uint64                          `json:"revision"`
	Wishes    pagination.Result[WishResponse] `json:"wishes"`
}

// VoteResponse reports the result of an accepted vote.
type VoteResponse struct {
	WishID    string `json:"wish_id"`
	Action    string `json:"action"`
	VoteCount int    `json:"vote_count"`
	HasVoted  bool   `json:"has_voted"`
}

// RefreshResponse reports the repository state after a refresh.
type RefreshResponse struct {
	Revision  uint64 `json:"revision"`
	WishCount int    `json:"wish_count"`
}

func (h *WishHandler) toResponse(w domain.Wish, voter domain.Voter, withComments bool) WishResponse {
	resp := WishResponse{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		State:       w.State,
		VoteCount:   w.VoteCount(),
		HasVoted:    w.HasVoted(voter),
		IsOwn:       w.IsCreatedBy(voter),
		ShowBadge:   h.settings.showsBadge(w.State),
		Pending:     isPlaceholder(w),
	}
	if withComments && h.settings.CommentSection {
		resp.Comments = w.Comments
	}
	return resp
}

// --- Handlers ---

// List handles GET /api/v1/wishes?kind=requested|implemented
func (h *WishHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = KindRequested
	}
	if err := validator.Var(kind, "oneof="+KindRequested+" "+KindImplemented); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	voter := h.identity.Current(r.Context())

	var wishes []domain.Wish
	if kind == KindImplemented {
		wishes = h.repo.ImplementedPartition()
	} else {
		wishes = h.repo.RequestedPartition(voter)
	}

	items := make([]WishResponse, len(wishes))
	for i, wish := range wishes {
		items[i] = h.toResponse(wish, voter, false)
	}

	httputil.WriteData(w, http.StatusOK, WishListResponse{
		Kind:      kind,
		Watermark: h.repo.Watermark(),
		WishCount: len(h.repo.RequestedPartition(voter)),
		Revision:  h.repo.Revision(),
		Wishes:    pagination.Paginate(items, pagination.FromRequest(r)),
	})
}

// Get handles GET /api/v1/wishes/{id}
func (h *WishHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	wish, ok := h.repo.Wish(id)
	if !ok {
		httputil.WriteError(w, r, apperrors.NotFound("wish", id), h.logger)
		return
	}

	voter := h.identity.Current(r.Context())
	httputil.WriteData(w, http.StatusOK, h.toResponse(wish, voter, true))
}

// Vote handles POST /api/v1/wishes/{id}/vote
func (h *WishHandler) Vote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	voter := h.identity.Current(r.Context())

	action, err := h.votes.CastVote(r.Context(), id, voter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	resp := VoteResponse{WishID: id, Action: action.String()}
	if wish, ok := h.repo.Wish(id); ok {
		resp.VoteCount = wish.VoteCount()
		resp.HasVoted = wish.HasVoted(voter)
	}
	httputil.WriteData(w, http.StatusOK, resp)
}

// Submit handles POST /api/v1/wishes. The stored draft is left untouched.
func (h *WishHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitWishRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.submissions.SubmitDraft(r.Context(), req.Title, req.Description, req.Email); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, map[string]string{"status": "submitted"})
}

// Refresh handles POST /api/v1/wishes/refresh
func (h *WishHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.refresher.Refresh(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, RefreshResponse{
		Revision:  h.repo.Revision(),
		WishCount: h.repo.Len(),
	})
}

func isPlaceholder(w domain.Wish) bool {
	return strings.HasPrefix(w.ID, service.PlaceholderPrefix)
}
