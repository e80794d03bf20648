package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"NPTEL-Assignment-Analyzer/internal/model"

	"go.uber.org/zap"
)

const (
	authPagePath     = "/auth/page"
	analyzeImagePath = "/auth/analyze-image"
	maxLoggedBody    = 2048
)

var ErrMalformedResponse = errors.New("analysis response has no message.content")

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %s", e.Endpoint, e.Status)
}

type OcrApiClient struct {
	BaseURL    string
	HTTPClient *http.Client
	log        *zap.Logger
}

// NewOcrApiClient builds a client for the OCR backend. timeoutSec <= 0 leaves the
// HTTP client without a timeout.
func NewOcrApiClient(baseURL string, timeoutSec int, log *zap.Logger) *OcrApiClient {
	if log == nil {
		log = zap.NewNop()
	}
	httpClient := &http.Client{}
	if timeoutSec > 0 {
		httpClient.Timeout = time.Duration(timeoutSec) * time.Second
	}
	return &OcrApiClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: httpClient,
		log:        log.Named("ocr-client"),
	}
}

func setAuthHeader(req *http.Request, basicToken string) {
	req.Header.Set("Authorization", "Basic "+basicToken)
	req.Header.Set("Accept", "application/json, text/plain, */*")
}

// ProbeAuth hits GET /auth/page with the Basic token. Any 2xx counts as valid
// credentials; the body is discarded.
func (c *OcrApiClient) ProbeAuth(ctx context.Context, basicToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+authPagePath, nil)
	if err != nil {
		return fmt.Errorf("failed to build auth probe request: %w", err)
	}
	setAuthHeader(req, basicToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.logTransportError(authPagePath, err)
		return fmt.Errorf("auth probe request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if !isSuccess(resp.StatusCode) {
		c.log.Warn("auth probe rejected", zap.Int("status", resp.StatusCode))
		return &StatusError{Endpoint: authPagePath, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}

// AnalyzeImage asks the backend to analyze the image at imageURL and returns the
// text found at message.content.
func (c *OcrApiClient) AnalyzeImage(ctx context.Context, basicToken, imageURL, question string) (string, error) {
	payload, err := json.Marshal(model.AnalyzeImageRequest{URL: imageURL, Question: question})
	if err != nil {
		return "", fmt.Errorf("failed to encode analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+analyzeImagePath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build analyze request: %w", err)
	}
	setAuthHeader(req, basicToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.logTransportError(analyzeImagePath, err)
		return "", fmt.Errorf("analyze-image request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read analyze-image response: %w", err)
	}

	if !isSuccess(resp.StatusCode) {
		c.log.Warn("analyze-image returned non-2xx",
			zap.String("image_url", imageURL),
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(bodyBytes)))
		return "", &StatusError{Endpoint: analyzeImagePath, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var analysis model.AnalyzeImageResponse
	if err := json.Unmarshal(bodyBytes, &analysis); err != nil {
		c.log.Error("failed to decode analyze-image response", zap.Error(err), zap.String("body", truncate(bodyBytes)))
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if analysis.Message == nil || analysis.Message.Content == nil || strings.TrimSpace(*analysis.Message.Content) == "" {
		c.log.Error("analyze-image response missing content", zap.String("body", truncate(bodyBytes)))
		return "", ErrMalformedResponse
	}

	c.log.Debug("analyze-image succeeded", zap.String("image_url", imageURL), zap.Int("bytes", len(bodyBytes)))
	return *analysis.Message.Content, nil
}

func (c *OcrApiClient) logTransportError(endpoint string, err error) {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		c.log.Error("backend request timed out",
			zap.String("endpoint", endpoint),
			zap.Duration("timeout", c.HTTPClient.Timeout),
			zap.Error(err))
		return
	}
	c.log.Error("backend request failed", zap.String("endpoint", endpoint), zap.Error(err))
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func truncate(b []byte) string {
	if len(b) > maxLoggedBody {
		return string(b[:maxLoggedBody]) + "..."
	}
	return string(b)
}
