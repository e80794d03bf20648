package api

import (
	"errors"
	"net/http"
	"strconv"

	"NPTEL-Assignment-Analyzer/internal/auth"
	"NPTEL-Assignment-Analyzer/internal/model"
	"NPTEL-Assignment-Analyzer/internal/service"
	"NPTEL-Assignment-Analyzer/internal/utils"

	"github.com/gin-gonic/gin"
)

type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SelectorRequest struct {
	CourseCode string `json:"course_code"`
	WeekNumber string `json:"week_number"`
}

type AnalyzerHandler struct {
	analyzer *service.AnalyzerService
}

func NewAnalyzerHandler(analyzer *service.AnalyzerService) *AnalyzerHandler {
	return &AnalyzerHandler{analyzer: analyzer}
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		authTransport *auth.TransportError
		failed        *service.AnalysisFailedError
		transport     *service.AnalysisTransportError
		malformed     *service.MalformedResponseError
	)
	switch {
	case errors.Is(err, auth.ErrMissingCredentials),
		errors.Is(err, service.ErrMissingSelector),
		errors.Is(err, service.ErrNoQuestionsSelected),
		errors.Is(err, service.ErrQuestionOutOfRange),
		errors.Is(err, utils.ErrInvalidPathSegment):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrAuthRejected), errors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrBatchInProgress):
		return http.StatusConflict
	case errors.As(err, &authTransport), errors.As(err, &failed), errors.As(err, &transport), errors.As(err, &malformed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (h *AnalyzerHandler) handleError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{
		"error":   service.Message(err),
		"details": err.Error(),
		"state":   h.analyzer.Snapshot(),
	})
}

func (h *AnalyzerHandler) StateHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.analyzer.Snapshot())
}

func (h *AnalyzerHandler) AuthenticateHandler(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}
	if err := h.analyzer.Authenticate(c.Request.Context(), req.Username, req.Password); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "authenticated", "state": h.analyzer.Snapshot()})
}

func (h *AnalyzerHandler) LogoutHandler(c *gin.Context) {
	if err := h.analyzer.Logout(); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AnalyzerHandler) SelectorHandler(c *gin.Context) {
	var req SelectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}
	if err := h.analyzer.SetSelector(req.CourseCode, req.WeekNumber); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.analyzer.Snapshot())
}

func (h *AnalyzerHandler) ToggleHandler(c *gin.Context) {
	q, err := strconv.Atoi(c.Param("num"))
	if err != nil {
		h.handleError(c, service.ErrQuestionOutOfRange)
		return
	}
	if err := h.analyzer.ToggleQuestion(q); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.analyzer.Snapshot())
}

// AnalyzeSelectedHandler blocks until the batch is over unless ?async=true, in
// which case it answers 202 and the caller polls /state.
func (h *AnalyzerHandler) AnalyzeSelectedHandler(c *gin.Context) {
	h.analyze(c, service.ModeSelected)
}

func (h *AnalyzerHandler) AnalyzeAllHandler(c *gin.Context) {
	h.analyze(c, service.ModeAll)
}

func (h *AnalyzerHandler) analyze(c *gin.Context, mode service.BatchMode) {
	if c.Query("async") == "true" {
		start := h.analyzer.StartAnalyzeSelected
		if mode == service.ModeAll {
			start = h.analyzer.StartAnalyzeAll
		}
		runID, err := start()
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"run_id": runID})
		return
	}

	run := h.analyzer.AnalyzeSelected
	if mode == service.ModeAll {
		run = h.analyzer.AnalyzeAll
	}
	// a dropped client does not abort the batch; shutdown does
	ctx, cancel := h.analyzer.Detached(c.Request.Context())
	defer cancel()
	if err := run(ctx); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.analyzer.Snapshot())
}

func (h *AnalyzerHandler) ImageURLHandler(c *gin.Context) {
	q, err := strconv.Atoi(c.Query("question"))
	if err != nil {
		h.handleError(c, service.ErrQuestionOutOfRange)
		return
	}
	url, err := h.analyzer.ImageURL(c.Query("course"), c.Query("week"), q)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
