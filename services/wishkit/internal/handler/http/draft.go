package http

import (
	"log/slog"
	"net/http"

	"github.com/DigitalMasterpieces/wishkit-go/pkg/httputil"
	"github.com/DigitalMasterpieces/wishkit-go/pkg/validator"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/domain"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/service"
)

// Settings is the read-only widget configuration exposed to the UI.
type Settings struct {
	EmailField           domain.EmailPolicy `json:"email_field"`
	AllowUndoVote        bool               `json:"allow_undo_vote"`
	ExpandDescription    bool               `json:"expand_description_in_list"`
	StatusBadge          string             `json:"status_badge"`
	CommentSection       bool               `json:"comment_section"`
	MaxTitleLength       int                `json:"max_title_length"`
	MaxDescriptionLength int                `json:"max_description_length"`
}

// showsBadge applies the status badge policy: "show", "hide" or a single
// state whose badge alone is shown.
func (s Settings) showsBadge(state domain.WishState) bool {
	switch s.StatusBadge {
	case "", "show":
		return true
	case "hide":
		return false
	default:
		return domain.WishState(s.StatusBadge) == state
	}
}

// DraftHandler serves the live submission form.
type DraftHandler struct {
	submissions *service.SubmissionCoordinator
	settings    Settings
	logger      *slog.Logger
}

// NewDraftHandler creates a new draft HTTP handler.
func NewDraftHandler(submissions *service.SubmissionCoordinator, settings Settings, logger *slog.Logger) *DraftHandler {
	return &DraftHandler{submissions: submissions, settings: settings, logger: logger}
}

// UpdateDraftRequest is the body of PUT /api/v1/draft. Omitted fields are
// left unchanged.
type UpdateDraftRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Email       *string `json:"email"`
}

// DraftResponse is the stored form content.
type DraftResponse struct {
	domain.Draft
	InFlight bool `json:"in_flight"`
}

// Get handles GET /api/v1/draft
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, DraftResponse{
		Draft:    h.submissions.Draft(),
		InFlight: h.submissions.InFlight(),
	})
}

// Update handles PUT /api/v1/draft
func (h *DraftHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateDraftRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if req.Title != nil {
		h.submissions.UpdateTitle(*req.Title)
	}
	if req.Description != nil {
		h.submissions.UpdateDescription(*req.Description)
	}
	if req.Email != nil {
		h.submissions.UpdateEmail(*req.Email)
	}

	h.Get(w, r)
}

// SubmitDraft handles POST /api/v1/draft/submit
func (h *DraftHandler) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.submissions.Submit(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, map[string]string{"status": "submitted"})
}

// Settings handles GET /api/v1/settings
func (h *DraftHandler) Settings(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.settings)
}
