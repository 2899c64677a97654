package shared

import "errors"

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

// TransactionStatus defines the lifecycle of a stored transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// FailureReason defines why a save request was rejected by the processor
type FailureReason string

const (
	FailureReasonInvalidAmount FailureReason = "INVALID_AMOUNT"
	FailureReasonInvalidDate   FailureReason = "INVALID_DATE"
	FailureReasonUnknownError  FailureReason = "UNKNOWN_ERROR"
)

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)
