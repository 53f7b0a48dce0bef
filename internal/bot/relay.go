// ABOUTME: Relay forwards a streamed answer into one bot message via in-place edits
// ABOUTME: Edits are paced by the transport's rate limit; a failed edit falls back to a new message
package bot

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"lectern/internal/util"
)

// Messenger is the slice of a Telegram-style transport the relay needs:
// send a message, or edit one it sent earlier. The transport applies its
// own rate limits and may reject edits at any time.
type Messenger interface {
	Send(ctx context.Context, text string) (messageID string, err error)
	Edit(ctx context.Context, messageID, text string) error
}

// Relay consumes completion fragments and keeps a single outbound message
// up to date. Delivered text is never retracted: when an edit fails even
// after one retry, the full accumulated answer goes out as a fresh message
// and later edits target that one.
type Relay struct {
	messenger  Messenger
	editLimit  *rate.Limiter
	retryDelay time.Duration
	logger     *zap.Logger
}

// New creates a Relay. editsPerSecond paces in-place edits below the
// transport's own limit.
func New(messenger Messenger, editsPerSecond float64, logger *zap.Logger) *Relay {
	if editsPerSecond <= 0 {
		editsPerSecond = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{
		messenger:  messenger,
		editLimit:  rate.NewLimiter(rate.Limit(editsPerSecond), 1),
		retryDelay: 500 * time.Millisecond,
		logger:     logger,
	}
}

// Deliver streams fragments into one message. It sends on the first
// fragment, edits as further fragments arrive (no faster than the pacing
// limit), and finishes with one last edit carrying the complete text.
// Returns the delivered text.
func (r *Relay) Deliver(ctx context.Context, fragments <-chan string) (string, error) {
	var text strings.Builder
	var messageID string
	var delivered string

	for fragment := range fragments {
		text.WriteString(fragment)

		if messageID == "" {
			id, err := r.messenger.Send(ctx, text.String())
			if err != nil {
				return "", err
			}
			messageID = id
			delivered = text.String()
			continue
		}

		if !r.editLimit.Allow() {
			continue
		}
		messageID, delivered = r.update(ctx, messageID, text.String(), delivered)
	}

	// Final state must land even if the pacing limiter just fired.
	if messageID != "" && delivered != text.String() {
		if err := r.editLimit.Wait(ctx); err != nil {
			return delivered, err
		}
		messageID, delivered = r.update(ctx, messageID, text.String(), delivered)
	}
	if messageID == "" && text.Len() > 0 {
		id, err := r.messenger.Send(ctx, text.String())
		if err != nil {
			return "", err
		}
		messageID = id
		delivered = text.String()
	}

	return delivered, nil
}

// update edits messageID in place, retrying once after a short backoff.
// When the retry also fails it falls back to sending text as a new message,
// which becomes the edit target from then on. delivered is the text already
// on the wire; on failure it is returned unchanged, never reset.
func (r *Relay) update(ctx context.Context, messageID, text, delivered string) (string, string) {
	err := r.messenger.Edit(ctx, messageID, text)
	if err == nil {
		return messageID, text
	}

	select {
	case <-time.After(util.CalculateBackoff(r.retryDelay, 1)):
	case <-ctx.Done():
		return messageID, delivered
	}

	if err := r.messenger.Edit(ctx, messageID, text); err == nil {
		return messageID, text
	}

	r.logger.Warn("message edit failed, falling back to new message",
		zap.String("message_id", messageID))
	id, err := r.messenger.Send(ctx, text)
	if err != nil {
		// Keep the old target; a later fragment will try again.
		r.logger.Warn("fallback send failed", zap.Error(err))
		return messageID, delivered
	}
	return id, text
}
