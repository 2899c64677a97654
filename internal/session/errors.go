package session

import (
	"errors"
	"fmt"
)

var (
	ErrCaptureUnavailable = errors.New("speech capture is not available")
	ErrCaptureActive      = errors.New("a capture is already active")
	ErrParseInFlight      = errors.New("a transcript is already being parsed")
	ErrSaveInFlight       = errors.New("a save is already in progress")
	ErrNoDraft            = errors.New("no transaction to review")

	errNotListening = errors.New("capture result arrived after the capture closed")
)

// CaptureError reports a capture that aborted, such as a denied permission or no speech.
type CaptureError struct {
	Code string
}

func (e CaptureError) Error() string {
	return "capture failed: " + e.Code
}

// ParseError wraps a failed parse round trip.
type ParseError struct {
	Err error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("failed to parse transcript: %v", e.Err)
}

func (e ParseError) Unwrap() error { return e.Err }

// SaveError wraps a failed save. The draft it was built from is still held by the session.
type SaveError struct {
	Err error
}

func (e SaveError) Error() string {
	return fmt.Sprintf("failed to save transaction: %v", e.Err)
}

func (e SaveError) Unwrap() error { return e.Err }
