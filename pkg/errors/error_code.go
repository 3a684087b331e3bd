package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidTargetPct     ErrorCode = 102
	ErrCodeInvalidStopLossPct   ErrorCode = 103
	ErrCodeInvalidThreshold     ErrorCode = 104
	ErrCodeInvalidPeriod        ErrorCode = 105
	ErrCodeMissingParameter     ErrorCode = 106

	// Data errors (200-299)
	ErrCodeInsufficientData ErrorCode = 200
	ErrCodeDataNotFound     ErrorCode = 201
	ErrCodeEmptySeries      ErrorCode = 202
	ErrCodeUnorderedSeries  ErrorCode = 203

	// Indicator errors (300-399)
	ErrCodeIndicatorCalculation ErrorCode = 300

	// Strategy errors (400-499)
	ErrCodeStrategyEvaluation ErrorCode = 400

	// History errors (500-599)
	ErrCodeAlignmentMismatch   ErrorCode = 500
	ErrCodeStoreInitFailed     ErrorCode = 501
	ErrCodeStoreQueryFailed    ErrorCode = 502
	ErrCodeStoreWriteFailed    ErrorCode = 503
	ErrCodeStoreSchemaMismatch ErrorCode = 504

	// Market data errors (600-699)
	ErrCodeMarketDataFetchFailed ErrorCode = 600
	ErrCodeMarketDataParseFailed ErrorCode = 601
	ErrCodeInvalidProvider       ErrorCode = 602
)
