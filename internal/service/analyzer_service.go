package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"NPTEL-Assignment-Analyzer/internal/auth"
	"NPTEL-Assignment-Analyzer/internal/client"
	"NPTEL-Assignment-Analyzer/internal/model"
	"NPTEL-Assignment-Analyzer/internal/monitoring"
	"NPTEL-Assignment-Analyzer/internal/repository"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

type BatchMode string

const (
	ModeSelected BatchMode = "selected"
	ModeAll      BatchMode = "all"
)

type Options struct {
	ImageBaseURL string
	Prompt       string
}

// AnalyzerService owns the session state and performs every user action on it:
// authenticate, pick the assignment, toggle questions and run analysis batches.
type AnalyzerService struct {
	auth     *auth.AuthService
	analyzer *QuestionAnalyzer
	sessions *repository.SessionRepository
	metrics  *monitoring.Metrics
	log      *zap.Logger

	runner  *conc.WaitGroup
	baseCtx context.Context
	cancel  context.CancelFunc
}

func NewAnalyzerService(backend AnalysisBackend, sessions *repository.SessionRepository, opts Options, metrics *monitoring.Metrics, log *zap.Logger) *AnalyzerService {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &AnalyzerService{
		auth:     auth.NewAuthService(backend, log),
		analyzer: NewQuestionAnalyzer(backend, opts.ImageBaseURL, opts.Prompt, log),
		sessions: sessions,
		metrics:  metrics,
		log:      log.Named("analyzer"),
		runner:   conc.NewWaitGroup(),
		baseCtx:  ctx,
		cancel:   cancel,
	}
}

func (s *AnalyzerService) Snapshot() model.StateView {
	return s.sessions.View()
}

// Authenticate probes the backend with the given pair. A signed-out session keeps
// the entered username even when the probe fails; a signed-in one only changes
// user on success.
func (s *AnalyzerService) Authenticate(ctx context.Context, username, password string) error {
	if err := s.sessions.Update(func(sess *repository.Session) error {
		if sess.State.Loading {
			return ErrBatchInProgress
		}
		sess.State.Error = ""
		if !sess.State.Authenticated {
			sess.State.Username = username
		}
		return nil
	}); err != nil {
		return err
	}

	creds, err := s.auth.Login(ctx, username, password)
	if err != nil {
		s.metrics.ObserveAuth(authOutcome(err))
		_ = s.sessions.Update(func(sess *repository.Session) error {
			sess.State.Error = Message(err)
			return nil
		})
		return err
	}

	s.metrics.ObserveAuth("accepted")
	return s.sessions.Update(func(sess *repository.Session) error {
		sess.SetCredentials(creds)
		sess.State.Username = username
		sess.State.Authenticated = true
		sess.State.Error = ""
		return nil
	})
}

func authOutcome(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		return "missing"
	case errors.Is(err, auth.ErrAuthRejected):
		return "rejected"
	}
	return "transport_error"
}

// Logout wipes the credentials and every piece of session state.
func (s *AnalyzerService) Logout() error {
	return s.sessions.Update(func(sess *repository.Session) error {
		if sess.State.Loading {
			return ErrBatchInProgress
		}
		sess.SetCredentials(nil)
		sess.State.Reset()
		s.log.Info("session logged out")
		return nil
	})
}

func (s *AnalyzerService) SetSelector(courseCode, weekNumber string) error {
	return s.sessions.Update(func(sess *repository.Session) error {
		if !sess.State.Authenticated {
			return ErrNotAuthenticated
		}
		sess.State.CourseCode = strings.TrimSpace(courseCode)
		sess.State.WeekNumber = strings.TrimSpace(weekNumber)
		return nil
	})
}

func (s *AnalyzerService) ToggleQuestion(q int) error {
	if !model.ValidQuestion(q) {
		return ErrQuestionOutOfRange
	}
	return s.sessions.Update(func(sess *repository.Session) error {
		if !sess.State.Authenticated {
			return ErrNotAuthenticated
		}
		sess.State.ToggleQuestion(q)
		return nil
	})
}

func (s *AnalyzerService) ImageURL(courseCode, weekNumber string, q int) (string, error) {
	if !model.ValidQuestion(q) {
		return "", ErrQuestionOutOfRange
	}
	return s.analyzer.ImageURL(courseCode, weekNumber, q)
}

// AnalyzeSelected runs the selected questions in the order they were selected
// and blocks until the batch ends.
func (s *AnalyzerService) AnalyzeSelected(ctx context.Context) error {
	plan, err := s.claim(ModeSelected)
	if err != nil {
		return err
	}
	return s.execute(ctx, plan)
}

// AnalyzeAll runs questions 1..15 ascending and blocks until the batch ends.
func (s *AnalyzerService) AnalyzeAll(ctx context.Context) error {
	plan, err := s.claim(ModeAll)
	if err != nil {
		return err
	}
	return s.execute(ctx, plan)
}

// StartAnalyzeSelected is AnalyzeSelected in the background. Gate errors are
// returned immediately; batch failures land in the session error.
func (s *AnalyzerService) StartAnalyzeSelected() (string, error) {
	return s.start(ModeSelected)
}

func (s *AnalyzerService) StartAnalyzeAll() (string, error) {
	return s.start(ModeAll)
}

func (s *AnalyzerService) start(mode BatchMode) (string, error) {
	plan, err := s.claim(mode)
	if err != nil {
		return "", err
	}
	s.runner.Go(func() {
		_ = s.execute(s.baseCtx, plan)
	})
	return plan.runID, nil
}

// Wait blocks until every background batch has returned.
func (s *AnalyzerService) Wait() {
	s.runner.Wait()
}

// Detached returns a context carrying ctx's values that is not cancelled with
// ctx, only when the service is closed.
func (s *AnalyzerService) Detached(ctx context.Context) (context.Context, context.CancelFunc) {
	detached, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(s.baseCtx, cancel)
	return detached, func() {
		stop()
		cancel()
	}
}

// Close cancels background batches and waits for them.
func (s *AnalyzerService) Close() {
	s.cancel()
	s.runner.Wait()
}

type batchPlan struct {
	runID     string
	mode      BatchMode
	course    string
	week      string
	questions []int
}

// claim checks the gates and flips the session into loading in one locked step,
// so two batches can never overlap.
func (s *AnalyzerService) claim(mode BatchMode) (*batchPlan, error) {
	plan := &batchPlan{runID: uuid.NewString(), mode: mode}
	err := s.sessions.Update(func(sess *repository.Session) error {
		st := sess.State
		if !st.Authenticated || sess.Credentials.Empty() {
			return ErrNotAuthenticated
		}
		if st.Loading {
			return ErrBatchInProgress
		}
		if st.CourseCode == "" || st.WeekNumber == "" {
			return ErrMissingSelector
		}
		if _, err := s.analyzer.ImageURL(st.CourseCode, st.WeekNumber, model.FirstQuestion); err != nil {
			return err
		}

		if mode == ModeAll {
			plan.questions = model.AllQuestions()
		} else {
			if len(st.Selected) == 0 {
				return ErrNoQuestionsSelected
			}
			plan.questions = append([]int(nil), st.Selected...)
		}
		plan.course = st.CourseCode
		plan.week = st.WeekNumber
		st.BeginBatch(plan.runID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// execute walks the plan one question at a time and stops at the first failure.
// Answers recorded before the failure stay visible.
func (s *AnalyzerService) execute(ctx context.Context, plan *batchPlan) (err error) {
	start := time.Now()
	log := s.log.With(zap.String("run_id", plan.runID), zap.String("mode", string(plan.mode)))
	log.Info("analysis batch started",
		zap.String("course", plan.course),
		zap.String("week", plan.week),
		zap.Ints("questions", plan.questions))

	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "failed"
		}
		s.metrics.ObserveBatch(string(plan.mode), outcome, time.Since(start))
		_ = s.sessions.Update(func(sess *repository.Session) error {
			sess.State.EndBatch(Message(err))
			return nil
		})
	}()

	for i, q := range plan.questions {
		token, ok := s.sessions.BasicToken()
		if !ok {
			return ErrNotAuthenticated
		}

		answer, err := s.analyzer.Analyze(ctx, token, plan.course, plan.week, q)
		if err != nil {
			s.metrics.ObserveQuestion("failed")
			log.Warn("question analysis failed, stopping batch",
				zap.Int("question", q),
				zap.Int("skipped", len(plan.questions)-i-1),
				zap.Error(err))
			return err
		}

		s.metrics.ObserveQuestion("answered")
		_ = s.sessions.Update(func(sess *repository.Session) error {
			sess.State.RecordAnswer(q, answer)
			return nil
		})
	}

	log.Info("analysis batch finished",
		zap.Int("answered", len(plan.questions)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

var _ AnalysisBackend = (*client.OcrApiClient)(nil)
