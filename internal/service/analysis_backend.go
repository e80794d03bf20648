package service

import "context"

//go:generate mockgen -destination=mocks/mock_backend.go -package=mocks . AnalysisBackend

// AnalysisBackend is the remote OCR backend. *client.OcrApiClient implements it.
type AnalysisBackend interface {
	ProbeAuth(ctx context.Context, basicToken string) error
	AnalyzeImage(ctx context.Context, basicToken, imageURL, question string) (string, error)
}
