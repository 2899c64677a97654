package session

import (
	"context"
	"strings"
)

// NoSpeechCode is emitted when a capture ends without any transcript.
const NoSpeechCode = "no-speech"

// TextCapture delivers a fixed transcript, for clients that take typed or piped input
// instead of speech.
type TextCapture struct {
	Transcript string
}

func (c *TextCapture) Start(ctx context.Context, events CaptureEvents) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if text := strings.TrimSpace(c.Transcript); text != "" {
		events.OnResult(text)
	} else {
		events.OnError(NoSpeechCode)
	}
	events.OnEnd()
	return nil
}

func (c *TextCapture) Stop() error { return nil }
