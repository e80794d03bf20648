package model

import "sort"

const (
	FirstQuestion = 1
	LastQuestion  = 15
)

// AppState is everything the UI renders. Credentials live next to it in the
// session repository, never in here.
type AppState struct {
	// Username is the name last typed into the login form, kept across failed attempts.
	Username      string
	Authenticated bool
	Loading       bool
	CourseCode    string
	WeekNumber    string
	// Selected keeps insertion order; analyze-selected walks it as is.
	Selected []int
	Answers  map[int]string
	Error    string
	RunID    string
}

func NewAppState() *AppState {
	return &AppState{Answers: make(map[int]string)}
}

func ValidQuestion(n int) bool {
	return n >= FirstQuestion && n <= LastQuestion
}

// AllQuestions returns 1..15 ascending.
func AllQuestions() []int {
	qs := make([]int, 0, LastQuestion-FirstQuestion+1)
	for i := FirstQuestion; i <= LastQuestion; i++ {
		qs = append(qs, i)
	}
	return qs
}

func (s *AppState) IsSelected(n int) bool {
	for _, q := range s.Selected {
		if q == n {
			return true
		}
	}
	return false
}

// ToggleQuestion removes n when selected and appends it otherwise.
func (s *AppState) ToggleQuestion(n int) {
	for i, q := range s.Selected {
		if q == n {
			s.Selected = append(s.Selected[:i:i], s.Selected[i+1:]...)
			return
		}
	}
	s.Selected = append(s.Selected, n)
}

func (s *AppState) BeginBatch(runID string) {
	s.Loading = true
	s.Error = ""
	s.RunID = runID
	s.Answers = make(map[int]string)
}

func (s *AppState) RecordAnswer(n int, answer string) {
	if s.Answers == nil {
		s.Answers = make(map[int]string)
	}
	s.Answers[n] = answer
}

func (s *AppState) EndBatch(errMsg string) {
	s.Loading = false
	s.Error = errMsg
}

// Reset drops everything back to the logged-out state.
func (s *AppState) Reset() {
	*s = AppState{Answers: make(map[int]string)}
}

func (s *AppState) View() StateView {
	view := StateView{
		Authenticated: s.Authenticated,
		Username:      s.Username,
		Loading:       s.Loading,
		CourseCode:    s.CourseCode,
		WeekNumber:    s.WeekNumber,
		Selected:      append([]int{}, s.Selected...),
		Answers:       make([]AnswerEntry, 0, len(s.Answers)),
		Error:         s.Error,
		RunID:         s.RunID,
	}
	for q, a := range s.Answers {
		view.Answers = append(view.Answers, AnswerEntry{Question: q, Answer: a})
	}
	sort.Slice(view.Answers, func(i, j int) bool {
		return view.Answers[i].Question < view.Answers[j].Question
	})
	return view
}
