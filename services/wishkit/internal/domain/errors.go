package domain

import (
	"net/http"

	apperrors "github.com/DigitalMasterpieces/wishkit-go/pkg/errors"
)

// Vote rejections. All are detected locally, before any network call.
var (
	ErrWishNotFound       = apperrors.New("NOT_FOUND", "wish not found", http.StatusNotFound, apperrors.ErrNotFound)
	ErrAlreadyImplemented = apperrors.New("ALREADY_IMPLEMENTED", "voting is closed for implemented wishes", http.StatusConflict, apperrors.ErrConflict)
	ErrOwnWish            = apperrors.New("OWN_WISH", "you cannot vote for your own wish", http.StatusForbidden, apperrors.ErrConflict)
	ErrAlreadyVoted       = apperrors.New("ALREADY_VOTED", "you already voted for this wish", http.StatusConflict, apperrors.ErrConflict)
	ErrVoteInFlight       = apperrors.New("VOTE_IN_FLIGHT", "a vote for this wish is still being sent", http.StatusConflict, apperrors.ErrConflict)
)

// Submission rejections.
var (
	ErrIncomplete         = apperrors.New("INCOMPLETE", "title and description are required", http.StatusUnprocessableEntity, apperrors.ErrInvalidInput)
	ErrEmailRequired      = apperrors.New("EMAIL_REQUIRED", "an email address is required", http.StatusUnprocessableEntity, apperrors.ErrInvalidInput)
	ErrEmailMalformed     = apperrors.New("EMAIL_MALFORMED", "the email address is not valid", http.StatusUnprocessableEntity, apperrors.ErrInvalidInput)
	ErrSubmissionInFlight = apperrors.New("SUBMISSION_IN_FLIGHT", "a wish is still being submitted", http.StatusConflict, apperrors.ErrConflict)
)

// ErrStaleSnapshot is returned when a snapshot older than the current one is
// offered to the repository. It is an internal consistency guard and is never
// shown to users.
var ErrStaleSnapshot = apperrors.New("STALE_SNAPSHOT", "snapshot superseded by a newer fetch", http.StatusConflict, apperrors.ErrStale)
