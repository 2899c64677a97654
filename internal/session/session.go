// Package session drives one capture, parse, review and save cycle for a single draft.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fingenie-expense-tracker/internal/domain/transaction"
	"github.com/fingenie-expense-tracker/internal/normalizer"
	"github.com/fingenie-expense-tracker/internal/reconciler"
)

// State is the session's position in the capture cycle.
type State string

const (
	StateIdle       State = "IDLE"
	StateListening  State = "LISTENING"
	StateProcessing State = "PROCESSING"
	StateReviewing  State = "REVIEWING"
	StateSaving     State = "SAVING"
)

// Session holds at most one draft. Network calls run without the lock held; the state
// machine rejects overlapping captures, parses and saves instead of queueing them.
type Session struct {
	mu sync.Mutex

	capture    Capture
	parser     Parser
	store      Store
	keys       KeyGenerator
	normalizer *normalizer.Normalizer
	logger     *slog.Logger

	state      State
	captureCtx context.Context
	transcript string
	draft      *transaction.Transaction
	edits      transaction.Edits
	key        string
	lastAck    *transaction.Ack
	lastErr    error
}

// New creates a session. capture may be nil when speech is not supported; Start then
// reports ErrCaptureUnavailable.
func New(capture Capture, parser Parser, store Store, keys KeyGenerator, logger *slog.Logger) *Session {
	if keys == nil {
		keys = ULIDGenerator{}
	}
	return &Session{
		capture:    capture,
		parser:     parser,
		store:      store,
		keys:       keys,
		normalizer: normalizer.New(transaction.DefaultValues),
		logger:     logger,
		state:      StateIdle,
	}
}

// Start begins a capture. Events emitted by the capture drive the rest of the cycle.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.capture == nil {
		s.lastErr = ErrCaptureUnavailable
		s.mu.Unlock()
		return ErrCaptureUnavailable
	}
	switch s.state {
	case StateListening, StateProcessing:
		s.mu.Unlock()
		return ErrCaptureActive
	case StateSaving:
		s.mu.Unlock()
		return ErrSaveInFlight
	}
	s.state = StateListening
	s.captureCtx = ctx
	s.lastErr = nil
	s.mu.Unlock()

	if err := s.capture.Start(ctx, s); err != nil {
		s.mu.Lock()
		if s.state == StateListening {
			s.state = s.restingState()
		}
		s.lastErr = err
		s.mu.Unlock()
		s.logger.Error("Failed to start capture", "error", err)
		return err
	}
	return nil
}

// Stop asks the capture to finish. The end event returns the session to rest.
func (s *Session) Stop() error {
	if s.capture == nil {
		return ErrCaptureUnavailable
	}
	return s.capture.Stop()
}

// OnResult starts the parse round trip for a transcript delivered by the capture.
func (s *Session) OnResult(transcript string) {
	s.mu.Lock()
	ctx := s.captureCtx
	s.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.parse(ctx, transcript, StateListening); err != nil {
		s.logger.Warn("Transcript not parsed", "error", err)
	}
}

// OnError aborts the capture. No retry is attempted.
func (s *Session) OnError(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = CaptureError{Code: code}
	if s.state == StateListening {
		s.state = s.restingState()
	}
	s.logger.Warn("Capture error", "code", code)
}

// OnEnd closes the capture regardless of outcome.
func (s *Session) OnEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateListening {
		s.state = s.restingState()
	}
	s.captureCtx = nil
}

// ParseText parses a transcript obtained without a capture, such as typed text.
func (s *Session) ParseText(ctx context.Context, transcript string) error {
	return s.parse(ctx, transcript, "")
}

func (s *Session) parse(ctx context.Context, transcript string, from State) error {
	s.mu.Lock()
	switch {
	case s.state == StateProcessing:
		s.mu.Unlock()
		return ErrParseInFlight
	case s.state == StateSaving:
		s.mu.Unlock()
		return ErrSaveInFlight
	case from != "" && s.state != from:
		s.mu.Unlock()
		return errNotListening
	}
	s.state = StateProcessing
	s.transcript = transcript
	s.mu.Unlock()

	raw, err := s.parser.ParseTranscript(ctx, transcript)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = ParseError{Err: err}
		s.state = s.restingState()
		return s.lastErr
	}

	draft := s.normalizer.Normalize(raw)
	s.draft = &draft
	s.edits = transaction.Edits{}
	s.key = s.keys.Generate()
	s.lastErr = nil
	s.state = StateReviewing
	s.logger.Info("Transcript parsed", "amount", draft.Amount, "category", draft.Category,
		"payment_method", draft.PaymentMethod)
	return nil
}

// Edit records review-form changes on top of any earlier ones.
func (s *Session) Edit(edits transaction.Edits) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSaving {
		return ErrSaveInFlight
	}
	if s.draft == nil {
		return ErrNoDraft
	}
	s.edits = s.edits.Merge(edits)
	return nil
}

// Preview returns the submission the next Save would send.
func (s *Session) Preview() (transaction.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return transaction.Submission{}, ErrNoDraft
	}
	return reconciler.ApplyEdits(*s.draft, s.edits), nil
}

// Save submits the reviewed draft. On failure the draft and its edits are kept so the
// save can be retried with the same idempotency key.
func (s *Session) Save(ctx context.Context) (*transaction.Ack, error) {
	s.mu.Lock()
	if s.state == StateSaving {
		s.mu.Unlock()
		return nil, ErrSaveInFlight
	}
	if s.draft == nil {
		s.mu.Unlock()
		return nil, ErrNoDraft
	}
	if s.state == StateProcessing {
		s.mu.Unlock()
		return nil, ErrParseInFlight
	}
	sub := reconciler.ApplyEdits(*s.draft, s.edits)
	key := s.key
	s.state = StateSaving
	s.mu.Unlock()

	ack, err := s.store.SaveTransaction(ctx, sub, key)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = SaveError{Err: err}
		s.state = StateReviewing
		s.logger.Error("Failed to save transaction", "error", err, "idempotency_key", key)
		return nil, s.lastErr
	}

	s.draft = nil
	s.edits = transaction.Edits{}
	s.key = ""
	s.transcript = ""
	s.lastAck = ack
	s.lastErr = nil
	s.state = StateIdle
	s.logger.Info("Transaction saved", "id", ack.ID, "status", ack.Status)
	return ack, nil
}

// Cancel discards the draft.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateSaving:
		return ErrSaveInFlight
	case StateProcessing:
		return ErrParseInFlight
	}
	s.draft = nil
	s.edits = transaction.Edits{}
	s.key = ""
	s.transcript = ""
	if s.state != StateListening {
		s.state = StateIdle
	}
	return nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Draft returns a copy of the current draft with edits applied.
func (s *Session) Draft() (transaction.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return transaction.Transaction{}, false
	}
	return reconciler.Merge(*s.draft, s.edits), true
}

func (s *Session) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript
}

func (s *Session) IdempotencyKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

// Err returns the most recent capture, parse or save failure.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) LastAck() *transaction.Ack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAck
}

// restingState must be called with the lock held.
func (s *Session) restingState() State {
	if s.draft != nil {
		return StateReviewing
	}
	return StateIdle
}
