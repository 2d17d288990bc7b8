package errs

import "errors"

// Common sentinel errors for cross-layer signaling. Services wrap these with
// fmt.Errorf("...: %w", ...) for context and the HTTP layer matches them with
// errors.Is to pick a status code.
var (
	// ErrInvalidParameter marks a locally-detected bad input (out-of-range
	// grouping width, inverted or future date range). Client error, never
	// retryable.
	ErrInvalidParameter = errors.New("invalid_parameter")
	// ErrInvalidEntry marks a journal entry violating the exactly-one-of
	// debit/credit rule.
	ErrInvalidEntry = errors.New("invalid_entry")
	// ErrReferenceNotFound marks an entry or invoice referencing a missing
	// transaction, account, client or product.
	ErrReferenceNotFound = errors.New("reference_not_found")
	// ErrAggregationFailure marks a storage failure during report
	// generation. Server error; details go to the log, not the response.
	ErrAggregationFailure = errors.New("aggregation_failure")
	ErrNotFound           = errors.New("not_found")
	ErrConflict           = errors.New("conflict")
	// ErrPeriodClosed rejects postings into a closed accounting period.
	ErrPeriodClosed = errors.New("period_closed")
)
