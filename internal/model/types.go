package model

// AnalyzeImageRequest is the body of POST /auth/analyze-image.
type AnalyzeImageRequest struct {
	URL      string `json:"url"`
	Question string `json:"question"`
}

// AnalyzeImageResponse mirrors the backend reply. Content is a pointer so that an
// absent field can be told apart from an empty answer.
type AnalyzeImageResponse struct {
	Message *struct {
		Content *string `json:"content"`
	} `json:"message"`
}

type AnswerEntry struct {
	Question int    `json:"question"`
	Answer   string `json:"answer"`
}

// StateView is the read-only projection of AppState handed to renderers.
type StateView struct {
	Authenticated bool          `json:"authenticated"`
	Username      string        `json:"username"`
	Loading       bool          `json:"loading"`
	CourseCode    string        `json:"course_code"`
	WeekNumber    string        `json:"week_number"`
	Selected      []int         `json:"selected_questions"`
	Answers       []AnswerEntry `json:"answers"`
	Error         string        `json:"error,omitempty"`
	RunID         string        `json:"run_id,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
