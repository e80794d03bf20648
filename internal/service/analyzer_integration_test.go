package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"sync"
	"testing"

	"NPTEL-Assignment-Analyzer/internal/client"
	"NPTEL-Assignment-Analyzer/internal/model"
	"NPTEL-Assignment-Analyzer/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var questionInURL = regexp.MustCompile(`q(\d+)\.png$`)

// stubBackend records the order in which questions reach /auth/analyze-image.
type stubBackend struct {
	mu       sync.Mutex
	order    []int
	failOn   int
	inflight int
	maxSeen  int
}

func (b *stubBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/page", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Basic "+aliceToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte("<html>welcome</html>"))
	})
	mux.HandleFunc("/auth/analyze-image", func(w http.ResponseWriter, r *http.Request) {
		var req model.AnalyzeImageRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		m := questionInURL.FindStringSubmatch(req.URL)
		if !assert.Len(t, m, 2, "unexpected image url %s", req.URL) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		q, _ := strconv.Atoi(m[1])

		b.mu.Lock()
		b.order = append(b.order, q)
		b.inflight++
		if b.inflight > b.maxSeen {
			b.maxSeen = b.inflight
		}
		b.mu.Unlock()
		defer func() {
			b.mu.Lock()
			b.inflight--
			b.mu.Unlock()
		}()

		if q == b.failOn {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"content": fmt.Sprintf("answer for %d", q)},
		})
	})
	return mux
}

func newStubbedService(t *testing.T, stub *stubBackend) *AnalyzerService {
	t.Helper()
	srv := httptest.NewServer(stub.handler(t))
	t.Cleanup(srv.Close)

	svc := NewAnalyzerService(client.NewOcrApiClient(srv.URL, 0, nil), repository.NewSessionRepository(nil),
		Options{ImageBaseURL: testImageBase, Prompt: testPrompt}, nil, nil)
	t.Cleanup(svc.Close)

	require.NoError(t, svc.Authenticate(context.Background(), "alice", "s3cret"))
	require.NoError(t, svc.SetSelector("noc24_cs115", "3"))
	return svc
}

func TestIntegration_RejectedCredentials(t *testing.T) {
	srv := httptest.NewServer((&stubBackend{}).handler(t))
	defer srv.Close()
	svc := NewAnalyzerService(client.NewOcrApiClient(srv.URL, 0, nil), repository.NewSessionRepository(nil),
		Options{ImageBaseURL: testImageBase, Prompt: testPrompt}, nil, nil)
	defer svc.Close()

	require.Error(t, svc.Authenticate(context.Background(), "alice", "nope"))

	view := svc.Snapshot()
	assert.False(t, view.Authenticated)
	assert.NotEmpty(t, view.Error)
}

func TestIntegration_SelectionOrderOverHTTP(t *testing.T) {
	stub := &stubBackend{}
	svc := newStubbedService(t, stub)
	for _, q := range []int{3, 1, 2} {
		require.NoError(t, svc.ToggleQuestion(q))
	}

	require.NoError(t, svc.AnalyzeSelected(context.Background()))

	assert.Equal(t, []int{3, 1, 2}, stub.order)
	assert.Equal(t, 1, stub.maxSeen)
}

func TestIntegration_FailureOnSecondOfThree(t *testing.T) {
	stub := &stubBackend{failOn: 2}
	svc := newStubbedService(t, stub)
	for _, q := range []int{1, 2, 3} {
		require.NoError(t, svc.ToggleQuestion(q))
	}

	require.Error(t, svc.AnalyzeSelected(context.Background()))

	assert.Equal(t, []int{1, 2}, stub.order)
	view := svc.Snapshot()
	assert.Equal(t, []model.AnswerEntry{{Question: 1, Answer: "answer for 1"}}, view.Answers)
	assert.Contains(t, view.Error, "question 2")
}

func TestIntegration_AnalyzeAllInBackground(t *testing.T) {
	stub := &stubBackend{}
	svc := newStubbedService(t, stub)
	require.NoError(t, svc.ToggleQuestion(7))

	_, err := svc.StartAnalyzeAll()
	require.NoError(t, err)
	svc.Wait()

	assert.Equal(t, model.AllQuestions(), stub.order)
	assert.Equal(t, 1, stub.maxSeen)
	assert.Len(t, svc.Snapshot().Answers, 15)
	assert.False(t, svc.Snapshot().Loading)
}
