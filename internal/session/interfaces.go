package session

import (
	"context"

	"github.com/fingenie-expense-tracker/internal/domain/transaction"
)

// CaptureEvents receives the transitions of a speech capture.
type CaptureEvents interface {
	OnResult(transcript string)
	OnError(code string)
	OnEnd()
}

// Capture is a speech-to-text capability. Start may emit events synchronously.
type Capture interface {
	Start(ctx context.Context, events CaptureEvents) error
	Stop() error
}

// Parser turns a transcript into a raw parse.
type Parser interface {
	ParseTranscript(ctx context.Context, transcript string) (transaction.Raw, error)
}

// Store persists submissions.
type Store interface {
	SaveTransaction(ctx context.Context, sub transaction.Submission, idempotencyKey string) (*transaction.Ack, error)
}

// KeyGenerator issues idempotency keys for drafts.
type KeyGenerator interface {
	Generate() string
}
