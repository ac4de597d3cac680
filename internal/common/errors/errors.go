// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidStyleInput ErrorCode = "INVALID_STYLE_INPUT"

	ErrCodeProfileNotFound    ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeProfileStoreFailed ErrorCode = "PROFILE_STORE_FAILED"

	ErrCodeAIProviderBusy  ErrorCode = "AI_PROVIDER_BUSY"
	ErrCodeAITimeout       ErrorCode = "AI_TIMEOUT"
	ErrCodeAIRequestFailed ErrorCode = "AI_REQUEST_FAILED"

	ErrCodeAdviceSourceFailed ErrorCode = "ADVICE_SOURCE_FAILED"
	ErrCodeAdviceNotFound     ErrorCode = "ADVICE_NOT_FOUND"

	ErrCodeImageFetchFailed      ErrorCode = "IMAGE_FETCH_FAILED"
	ErrCodeLocationContextFailed ErrorCode = "LOCATION_CONTEXT_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidStyleInputError creates a non-retryable input error.
func NewInvalidStyleInputError(details string) *StandardError {
	return newError(ErrCodeInvalidStyleInput, "Invalid styling request", details, false)
}

// NewProfileNotFoundError creates a non-retryable lookup error.
func NewProfileNotFoundError(userID string) *StandardError {
	return newError(ErrCodeProfileNotFound, "Style profile not found", "userId: "+userID, false)
}

// NewProfileStoreFailedError creates a retryable database error.
func NewProfileStoreFailedError(err error) *StandardError {
	return newError(ErrCodeProfileStoreFailed, "Profile store operation failed", err.Error(), true)
}

// NewAIProviderBusyError is raised when the provider keeps answering with a busy message.
func NewAIProviderBusyError(attempts int) *StandardError {
	e := newError(ErrCodeAIProviderBusy, "Generative provider is busy", fmt.Sprintf("attempts: %d", attempts), true)
	e.Metadata = map[string]interface{}{"attempts": attempts}
	return e
}

// NewAITimeoutError creates a retryable timeout error.
func NewAITimeoutError() *StandardError {
	return newError(ErrCodeAITimeout, "Generative provider timed out", "", true)
}

// NewAIRequestFailedError wraps a provider transport failure.
func NewAIRequestFailedError(err error) *StandardError {
	return newError(ErrCodeAIRequestFailed, "Generative provider request failed", err.Error(), true)
}

// NewAdviceSourceFailedError creates a retryable dataset fetch error.
func NewAdviceSourceFailedError(source string, err error) *StandardError {
	e := newError(ErrCodeAdviceSourceFailed, "Advice dataset could not be loaded", err.Error(), true)
	e.Metadata = map[string]interface{}{"source": source}
	return e
}

// NewAdviceNotFoundError creates a non-retryable empty-match error.
func NewAdviceNotFoundError(category string) *StandardError {
	return newError(ErrCodeAdviceNotFound, "No advice for this profile", "category: "+category, false)
}

// NewImageFetchFailedError creates a retryable image download error.
func NewImageFetchFailedError(url string, err error) *StandardError {
	e := newError(ErrCodeImageFetchFailed, "Image could not be fetched", err.Error(), true)
	e.Metadata = map[string]interface{}{"url": url}
	return e
}

// NewLocationContextFailedError creates a retryable location context error.
func NewLocationContextFailedError(err error) *StandardError {
	return newError(ErrCodeLocationContextFailed, "Location context resolution failed", err.Error(), true)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidStyleInput:     "INVALID_STYLE_INPUT",
	ErrCodeProfileNotFound:       "PROFILE_NOT_FOUND",
	ErrCodeProfileStoreFailed:    "PROFILE_STORE_FAILED",
	ErrCodeAIProviderBusy:        "AI_PROVIDER_BUSY",
	ErrCodeAITimeout:             "AI_TIMEOUT",
	ErrCodeAIRequestFailed:       "AI_REQUEST_FAILED",
	ErrCodeAdviceSourceFailed:    "ADVICE_SOURCE_FAILED",
	ErrCodeAdviceNotFound:        "ADVICE_NOT_FOUND",
	ErrCodeImageFetchFailed:      "IMAGE_FETCH_FAILED",
	ErrCodeLocationContextFailed: "LOCATION_CONTEXT_FAILED",
}

// GetRetryCount returns the recommended job retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeProfileStoreFailed,
		ErrCodeAdviceSourceFailed,
		ErrCodeImageFetchFailed,
		ErrCodeAIRequestFailed:
		return 3

	case ErrCodeAIProviderBusy,
		ErrCodeLocationContextFailed:
		return 2

	case ErrCodeAITimeout:
		return 1

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "PROFILE"):
		return "PROFILE"
	case strings.HasPrefix(codeStr, "AI_"):
		return "AI"
	case strings.HasPrefix(codeStr, "ADVICE"):
		return "ADVICE"
	case strings.Contains(codeStr, "IMAGE") || strings.Contains(codeStr, "LOCATION"):
		return "EXTERNAL"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
