package service

import (
	"context"
	"errors"

	"NPTEL-Assignment-Analyzer/internal/client"
	"NPTEL-Assignment-Analyzer/internal/utils"

	"go.uber.org/zap"
)

// QuestionAnalyzer turns one question number into one backend round trip.
type QuestionAnalyzer struct {
	backend      AnalysisBackend
	imageBaseURL string
	prompt       string
	log          *zap.Logger
}

func NewQuestionAnalyzer(backend AnalysisBackend, imageBaseURL, prompt string, log *zap.Logger) *QuestionAnalyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuestionAnalyzer{
		backend:      backend,
		imageBaseURL: imageBaseURL,
		prompt:       prompt,
		log:          log.Named("question-analyzer"),
	}
}

func (a *QuestionAnalyzer) ImageURL(courseCode, weekNumber string, question int) (string, error) {
	return utils.BuildImageURL(a.imageBaseURL, courseCode, weekNumber, question)
}

// Analyze submits the image of question q and returns the backend's answer text.
// Errors come back as *AnalysisFailedError, *AnalysisTransportError or
// *MalformedResponseError.
func (a *QuestionAnalyzer) Analyze(ctx context.Context, basicToken, courseCode, weekNumber string, q int) (string, error) {
	imageURL, err := a.ImageURL(courseCode, weekNumber, q)
	if err != nil {
		return "", err
	}

	a.log.Debug("submitting question image", zap.Int("question", q), zap.String("image_url", imageURL))
	answer, err := a.backend.AnalyzeImage(ctx, basicToken, imageURL, a.prompt)
	if err == nil {
		return answer, nil
	}

	var statusErr *client.StatusError
	switch {
	case errors.As(err, &statusErr):
		return "", &AnalysisFailedError{Question: q, StatusCode: statusErr.StatusCode}
	case errors.Is(err, client.ErrMalformedResponse):
		return "", &MalformedResponseError{Question: q, Err: err}
	default:
		return "", &AnalysisTransportError{Question: q, Err: err}
	}
}
