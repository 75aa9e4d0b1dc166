// Package memo holds the in-memory memo text and writes it through to storage.
package memo

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/memopad/internal/apperr"
	"github.com/starford/memopad/internal/checksum"
	"github.com/starford/memopad/internal/models"
	"github.com/starford/memopad/internal/storage"
)

// Notice is the part of the notification timer the holder drives.
type Notice interface {
	Observe(text string)
	Close()
}

// Option configures a Holder.
type Option func(*Holder)

// WithNoticeOnLoad makes Initialize feed a non-empty loaded value to
// the notice, as if the user had typed it. Off by default.
func WithNoticeOnLoad(enabled bool) Option {
	return func(h *Holder) {
		h.noticeOnLoad = enabled
	}
}

// WithMaxLength limits the memo to n characters. Zero means unlimited.
func WithMaxLength(n int) Option {
	return func(h *Holder) {
		h.maxLength = n
	}
}

// WithLogger sets the logger used for storage warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Holder) {
		h.logger = logger
	}
}

// Holder owns the memo text. Every change is written through to storage
// before OnTextChanged returns.
//
// Listeners run while the holder lock is held, in change order; they must not
// call back into the Holder.
type Holder struct {
	store  storage.Provider
	key    string
	notice Notice
	logger *slog.Logger

	noticeOnLoad bool
	maxLength    int

	mu          sync.Mutex
	text        string
	persisted   string
	updatedAt   time.Time
	initialized bool
	closed      bool
	listeners   []func(models.Memo)
}

// New creates a Holder for key. notice may be nil.
func New(store storage.Provider, key string, notice Notice, opts ...Option) *Holder {
	h := &Holder{
		store:  store,
		key:    key,
		notice: notice,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Key returns the storage key.
func (h *Holder) Key() string {
	return h.key
}

// Initialize loads the persisted text. An absent key yields the empty string.
// A storage failure also leaves the text empty and the holder usable; the
// error is returned so the caller can report it.
func (h *Holder) Initialize(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return apperr.ErrClosed
	}

	value, _, err := h.store.Get(ctx, h.key)
	h.initialized = true
	h.updatedAt = time.Now()
	if err != nil {
		h.text = ""
		return fmt.Errorf("memo: initialize: %w", err)
	}
	h.text = value
	h.persisted = value
	if h.noticeOnLoad && h.notice != nil {
		h.notice.Observe(value)
	}
	return nil
}

// Text returns the current memo text.
func (h *Holder) Text() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.text
}

// Snapshot returns the current memo.
func (h *Holder) Snapshot() models.Memo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

// Subscribe registers fn to be called after every change.
func (h *Holder) Subscribe(fn func(models.Memo)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

// MaxLength returns the character limit, zero when unlimited.
func (h *Holder) MaxLength() int {
	return h.maxLength
}

// ValidateText checks text against a character limit. Zero means unlimited.
func ValidateText(text string, maxLength int) error {
	if maxLength <= 0 {
		return nil
	}
	if err := validation.Validate(text, validation.RuneLength(0, maxLength)); err != nil {
		return fmt.Errorf("memo: %w: %w", apperr.ErrTooLarge, err)
	}
	return nil
}

// OnTextChanged sets the text and writes it to storage. Every call writes,
// even when the text is unchanged; the notice only observes text that differs
// from the last successfully persisted value.
// On a write failure the new text is kept in memory, the notice is left
// alone and an error wrapping apperr.ErrStorageUnavailable is returned.
func (h *Holder) OnTextChanged(ctx context.Context, text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkLocked(); err != nil {
		return err
	}
	if err := ValidateText(text, h.maxLength); err != nil {
		return err
	}

	h.text = text
	h.updatedAt = time.Now()

	if err := h.store.Set(ctx, h.key, text); err != nil {
		h.logger.Warn("memo: write-through failed",
			slog.String("key", h.key),
			slog.String("error", err.Error()))
		h.emitLocked()
		return fmt.Errorf("memo: write: %w", err)
	}

	changed := text != h.persisted
	h.persisted = text
	if changed && h.notice != nil {
		h.notice.Observe(text)
	}
	h.emitLocked()
	return nil
}

// Reload adopts the persisted value after an external change without writing
// it back. It reports whether the in-memory text changed.
func (h *Holder) Reload(ctx context.Context) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkLocked(); err != nil {
		return false, err
	}

	value, _, err := h.store.Get(ctx, h.key)
	if err != nil {
		return false, fmt.Errorf("memo: reload: %w", err)
	}
	h.persisted = value
	if value == h.text {
		return false, nil
	}
	h.text = value
	h.updatedAt = time.Now()
	if h.notice != nil {
		h.notice.Observe(value)
	}
	h.emitLocked()
	return true, nil
}

// Close tears the holder down and cancels a pending notice.
func (h *Holder) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	if h.notice != nil {
		h.notice.Close()
	}
}

func (h *Holder) checkLocked() error {
	if h.closed {
		return apperr.ErrClosed
	}
	if !h.initialized {
		return apperr.ErrNotInitialized
	}
	return nil
}

func (h *Holder) snapshotLocked() models.Memo {
	return models.Memo{
		Key:       h.key,
		Text:      h.text,
		Checksum:  checksum.String(h.text),
		UpdatedAt: h.updatedAt,
	}
}

func (h *Holder) emitLocked() {
	if len(h.listeners) == 0 {
		return
	}
	m := h.snapshotLocked()
	for _, fn := range h.listeners {
		fn(m)
	}
}
