package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuestions(t *testing.T) {
	qs, err := parseQuestions(" 3, 1,2 ")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, qs)

	qs, err = parseQuestions("")
	require.NoError(t, err)
	assert.Empty(t, qs)

	for _, bad := range []string{"0", "16", "a", "1,,2", "4,4"} {
		_, err := parseQuestions(bad)
		assert.Error(t, err, bad)
	}
}

func TestAnalyzeCmd_RequiresQuestionsOrAll(t *testing.T) {
	loaded := false
	load := func(io.Writer) (*app, error) {
		loaded = true
		return nil, nil
	}

	for _, args := range [][]string{
		{"--course", "c", "--week", "1"},
		{"--course", "c", "--week", "1", "--all", "--questions", "1"},
	} {
		cmd := newAnalyzeCmd(load)
		cmd.SetArgs(args)
		assert.ErrorIs(t, cmd.Execute(), errQuestionsOrAll)
	}
	assert.False(t, loaded)
}

// fakeBackend accepts alice:s3cret and answers every question with "ANSWER".
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/page", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "alice" || pass != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/auth/analyze-image", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"message": map[string]string{"content": "ANSWER"}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, backendURL string) string {
	t.Helper()
	dir := t.TempDir()
	yaml := fmt.Sprintf(`backend:
  base_url: %q
storage:
  image_base_url: "https://img.example"
log:
  file: %q
  level: info
`, backendURL, filepath.Join(dir, "app.log"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	return dir
}

func TestAnalyzeCmd_StdoutHoldsOnlyAnswers(t *testing.T) {
	srv := fakeBackend(t)
	dir := writeConfig(t, srv.URL)
	t.Setenv("NPTEL_APP_PASSWORD", "s3cret")

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"--config-dir", dir, "analyze",
		"--username", "alice", "--course", "noc24_cs115", "--week", "3", "--questions", "2"})

	require.NoError(t, root.Execute())

	assert.Equal(t, "Question 2 Analysis:\nANSWER\n\n", stdout.String())
	assert.Contains(t, stderr.String(), "analysis batch finished")
}

func TestAnalyzeCmd_FlagPasswordOverridesEnv(t *testing.T) {
	srv := fakeBackend(t)
	dir := writeConfig(t, srv.URL)
	t.Setenv("NPTEL_APP_PASSWORD", "s3cret")

	var stdout bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"--config-dir", dir, "analyze",
		"--username", "alice", "--password", "wrong", "--course", "noc24_cs115", "--week", "3", "--all"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Authentication failed. Please check your credentials.")
	assert.Empty(t, stdout.String())
}
