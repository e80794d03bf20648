package service

import (
	"errors"
	"fmt"

	"NPTEL-Assignment-Analyzer/internal/auth"
	"NPTEL-Assignment-Analyzer/internal/model"
	"NPTEL-Assignment-Analyzer/internal/utils"
)

var (
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrMissingSelector     = errors.New("course code and week number are required")
	ErrNoQuestionsSelected = errors.New("no questions selected")
	ErrQuestionOutOfRange  = fmt.Errorf("question number must be between %d and %d", model.FirstQuestion, model.LastQuestion)
	ErrBatchInProgress     = errors.New("an analysis batch is already running")
)

// AnalysisFailedError is a non-2xx answer from the analyze-image endpoint.
type AnalysisFailedError struct {
	Question   int
	StatusCode int
}

func (e *AnalysisFailedError) Error() string {
	return fmt.Sprintf("failed to analyze image for question %d (status %d)", e.Question, e.StatusCode)
}

type AnalysisTransportError struct {
	Question int
	Err      error
}

func (e *AnalysisTransportError) Error() string {
	return fmt.Sprintf("analyze request for question %d failed: %v", e.Question, e.Err)
}

func (e *AnalysisTransportError) Unwrap() error { return e.Err }

// MalformedResponseError means the backend answered 2xx without a usable
// message.content.
type MalformedResponseError struct {
	Question int
	Err      error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed analysis response for question %d: %v", e.Question, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Message turns err into the text shown to the user in the error banner.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var (
		authTransport *auth.TransportError
		failed        *AnalysisFailedError
		transport     *AnalysisTransportError
		malformed     *MalformedResponseError
	)
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		return "Please enter both username and password"
	case errors.Is(err, auth.ErrAuthRejected):
		return "Authentication failed. Please check your credentials."
	case errors.As(err, &authTransport):
		return fmt.Sprintf("Authentication failed. Please try again. %v", authTransport.Err)
	case errors.As(err, &failed):
		return fmt.Sprintf("Failed to analyze image for question %d", failed.Question)
	case errors.As(err, &transport):
		return fmt.Sprintf("Failed to analyze image for question %d: %v", transport.Question, transport.Err)
	case errors.As(err, &malformed):
		return fmt.Sprintf("Unexpected response from the analysis backend for question %d", malformed.Question)
	case errors.Is(err, ErrNotAuthenticated):
		return "Please authenticate first"
	case errors.Is(err, ErrMissingSelector):
		return "Please enter both course code and week number"
	case errors.Is(err, ErrNoQuestionsSelected):
		return "Please select at least one question"
	case errors.Is(err, ErrQuestionOutOfRange):
		return fmt.Sprintf("Question number must be between %d and %d", model.FirstQuestion, model.LastQuestion)
	case errors.Is(err, ErrBatchInProgress):
		return "Analysis is already running"
	case errors.Is(err, utils.ErrInvalidPathSegment):
		return "Invalid course code or week number"
	}
	return "An error occurred"
}

// Recorded reports whether err has already been written to the session error,
// which is the case for authentication outcomes and batch failures but not for
// requests refused up front.
func Recorded(err error) bool {
	var (
		authTransport *auth.TransportError
		failed        *AnalysisFailedError
		transport     *AnalysisTransportError
		malformed     *MalformedResponseError
	)
	return errors.Is(err, auth.ErrMissingCredentials) ||
		errors.Is(err, auth.ErrAuthRejected) ||
		errors.As(err, &authTransport) ||
		errors.As(err, &failed) ||
		errors.As(err, &transport) ||
		errors.As(err, &malformed)
}
