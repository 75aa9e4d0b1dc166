package api

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/memopad/internal/models"
	"github.com/starford/memopad/internal/notice"
)

// UpdateMemoRequest is the request body for replacing the memo text.
type UpdateMemoRequest struct {
	Text *string `json:"text" example:"Hello" validate:"required"`
}

// Validate requires the text field to be present. An empty string is a valid memo.
func (r *UpdateMemoRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Text, validation.NotNil),
	)
}

// MemoResponse is the memo together with the current notice state.
type MemoResponse struct {
	Key       string    `json:"key" example:"my-memo" validate:"required"`
	Text      string    `json:"text" example:"Hello" validate:"required"`
	Checksum  string    `json:"checksum" example:"185f8db3..." validate:"required"`
	Notice    string    `json:"notice" example:"visible" validate:"required"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoticeResponse reports the notice visibility.
type NoticeResponse struct {
	State string `json:"state" example:"hidden" validate:"required"`
}

func memoResponse(m models.Memo, s notice.State) MemoResponse {
	return MemoResponse{
		Key:       m.Key,
		Text:      m.Text,
		Checksum:  m.Checksum,
		Notice:    s.String(),
		UpdatedAt: m.UpdatedAt,
	}
}
