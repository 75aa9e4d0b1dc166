package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starford/memopad/internal/apperr"
	"github.com/starford/memopad/internal/models"
	"github.com/starford/memopad/internal/notice"
)

// unlimitedBodyBytes bounds request bodies when the memo has no length limit.
const unlimitedBodyBytes = 64 << 20

// bodyLimit sizes the request body for a memo of maxLength characters: up to
// 6 bytes per character (a \uXXXX escape) plus room for the JSON envelope.
func bodyLimit(maxLength int) int64 {
	if maxLength <= 0 {
		return unlimitedBodyBytes
	}
	return int64(maxLength)*6 + 1024
}

// MemoService is the memo state the handlers read and write.
type MemoService interface {
	Snapshot() models.Memo
	OnTextChanged(ctx context.Context, text string) error
	MaxLength() int
}

// NoticeSource reports the notice visibility.
type NoticeSource interface {
	State() notice.State
}

// Handler holds API route handlers.
type Handler struct {
	memo      MemoService
	notice    NoticeSource
	bodyLimit int64
}

// NewHandler creates a new Handler.
func NewHandler(memo MemoService, notice NoticeSource) *Handler {
	return &Handler{memo: memo, notice: notice, bodyLimit: bodyLimit(memo.MaxLength())}
}

// GetMemo handles GET /api/memo.
//
//	@Summary		Get the memo
//	@Tags			memo
//	@Produce		json
//	@Success		200	{object}	MemoResponse
//	@Security		BearerAuth
//	@Router			/memo [get]
func (h *Handler) GetMemo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, memoResponse(h.memo.Snapshot(), h.notice.State()))
}

// UpdateMemo handles PUT /api/memo.
//
//	@Summary		Replace the memo text (write-through)
//	@Tags			memo
//	@Accept			json
//	@Produce		json
//	@Param			body	body		UpdateMemoRequest	true	"New text"
//	@Success		200		{object}	MemoResponse
//	@Failure		400		{object}	errResponse
//	@Failure		413		{object}	errResponse
//	@Failure		503		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/memo [put]
func (h *Handler) UpdateMemo(w http.ResponseWriter, r *http.Request) {
	var req UpdateMemoRequest
	if !readJSON(w, r, h.bodyLimit, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(strings.TrimSuffix(err.Error(), ".")))
		return
	}

	if err := h.memo.OnTextChanged(r.Context(), *req.Text); err != nil {
		switch {
		case errors.Is(err, apperr.ErrTooLarge):
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("memo too large"))
		case errors.Is(err, apperr.ErrStorageUnavailable):
			slog.Error("memo write-through failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusServiceUnavailable, errorBody("storage unavailable"))
		case errors.Is(err, apperr.ErrClosed), errors.Is(err, apperr.ErrNotInitialized):
			writeJSON(w, http.StatusServiceUnavailable, errorBody("memo not available"))
		default:
			slog.Error("update memo failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, memoResponse(h.memo.Snapshot(), h.notice.State()))
}

// GetNotice handles GET /api/notice.
//
//	@Summary		Get the saved-notice visibility
//	@Tags			memo
//	@Produce		json
//	@Success		200	{object}	NoticeResponse
//	@Security		BearerAuth
//	@Router			/notice [get]
func (h *Handler) GetNotice(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, NoticeResponse{State: h.notice.State().String()})
}
