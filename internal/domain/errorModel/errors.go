package errorModel

import (
	"errors"
	"fmt"
)

// Messages shown to the user. Only one of them is ever visible at a time.
const (
	FallbackExtractMessage     = "Failed to extract data"
	TransportMessage           = "Failed to process PDF"
	MalformedPayloadMessage    = "The extraction service returned an unexpected response"
	UnsupportedDocumentMessage = "No field order found for the provided data type."
	UnsupportedFileMessage     = "Only PDF files are accepted"
	UnexpectedMessage          = "An unexpected error occurred"
)

var (
	ErrTransport               = errors.New("extraction service unreachable")
	ErrAPI                     = errors.New("extraction service rejected the request")
	ErrMalformedPayload        = errors.New("malformed extraction payload")
	ErrUnsupportedDocumentType = errors.New("unsupported document type")
	ErrUnsupportedFile         = errors.New("unsupported file")
	ErrSuperseded              = errors.New("upload superseded by a newer one")
	ErrNotFound                = errors.New("not found")
)

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// APIError is a non-success answer from the extraction service. Message is the
// server-provided text and may be empty.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("extraction api status %d", e.Status)
	}
	return fmt.Sprintf("extraction api status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return ErrAPI
}

// UserMessage collapses any failure into the single message the UI shows.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return FallbackExtractMessage
	}
	switch {
	case errors.Is(err, ErrTransport):
		return TransportMessage
	case errors.Is(err, ErrMalformedPayload):
		return MalformedPayloadMessage
	case errors.Is(err, ErrUnsupportedDocumentType):
		return UnsupportedDocumentMessage
	case errors.Is(err, ErrUnsupportedFile):
		return UnsupportedFileMessage
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return UnexpectedMessage
}
