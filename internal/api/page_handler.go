package api

import (
	"net/http"
	"strconv"

	"NPTEL-Assignment-Analyzer/internal/model"
	"NPTEL-Assignment-Analyzer/internal/service"

	"github.com/gin-gonic/gin"
)

type QuestionBox struct {
	Number  int
	Checked bool
}

type PageData struct {
	Title              string
	State              model.StateView
	Questions          []QuestionBox
	CanAnalyzeSelected bool
	CanAnalyzeAll      bool
}

// PageHandler serves the server-rendered UI. Every form posts, changes state
// and redirects back to "/".
type PageHandler struct {
	analyzer *service.AnalyzerService
}

func NewPageHandler(analyzer *service.AnalyzerService) *PageHandler {
	return &PageHandler{analyzer: analyzer}
}

func newPageData(view model.StateView) PageData {
	data := PageData{Title: "Authentication", State: view}
	if !view.Authenticated {
		return data
	}

	data.Title = "NPTEL Assignment Analyzer"
	selected := make(map[int]bool, len(view.Selected))
	for _, q := range view.Selected {
		selected[q] = true
	}
	for _, q := range model.AllQuestions() {
		data.Questions = append(data.Questions, QuestionBox{Number: q, Checked: selected[q]})
	}
	ready := !view.Loading && view.CourseCode != "" && view.WeekNumber != ""
	data.CanAnalyzeAll = ready
	data.CanAnalyzeSelected = ready && len(view.Selected) > 0
	return data
}

func (h *PageHandler) render(c *gin.Context, status int, flash string) {
	data := newPageData(h.analyzer.Snapshot())
	if flash != "" {
		data.State.Error = flash
	}
	page := "login.tmpl"
	if data.State.Authenticated {
		page = "analyzer.tmpl"
	}
	c.HTML(status, page, data)
}

// finish redirects when the outcome is already part of the session state and
// re-renders with a one-off message when the request was refused up front.
func (h *PageHandler) finish(c *gin.Context, err error) {
	if err == nil || service.Recorded(err) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	h.render(c, statusFor(err), service.Message(err))
}

func (h *PageHandler) IndexHandler(c *gin.Context) {
	h.render(c, http.StatusOK, "")
}

func (h *PageHandler) LoginHandler(c *gin.Context) {
	err := h.analyzer.Authenticate(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	h.finish(c, err)
}

func (h *PageHandler) LogoutHandler(c *gin.Context) {
	h.finish(c, h.analyzer.Logout())
}

func (h *PageHandler) SelectorHandler(c *gin.Context) {
	h.finish(c, h.analyzer.SetSelector(c.PostForm("course_code"), c.PostForm("week_number")))
}

func (h *PageHandler) ToggleHandler(c *gin.Context) {
	q, err := strconv.Atoi(c.Param("num"))
	if err != nil {
		h.finish(c, service.ErrQuestionOutOfRange)
		return
	}
	h.finish(c, h.analyzer.ToggleQuestion(q))
}

func (h *PageHandler) AnalyzeSelectedHandler(c *gin.Context) {
	_, err := h.analyzer.StartAnalyzeSelected()
	h.finish(c, err)
}

func (h *PageHandler) AnalyzeAllHandler(c *gin.Context) {
	_, err := h.analyzer.StartAnalyzeAll()
	h.finish(c, err)
}
