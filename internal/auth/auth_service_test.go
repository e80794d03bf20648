package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"NPTEL-Assignment-Analyzer/internal/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probeServer(t *testing.T, status int, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/auth/page", r.URL.Path)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLogin_MissingCredentialsMakesNoCall(t *testing.T) {
	var calls atomic.Int32
	srv := probeServer(t, http.StatusOK, &calls)
	svc := NewAuthService(client.NewOcrApiClient(srv.URL, 0, nil), nil)

	_, err := svc.Login(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
	_, err = svc.Login(context.Background(), "alice", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	assert.Zero(t, calls.Load())
}

func TestLogin_Success(t *testing.T) {
	var calls atomic.Int32
	srv := probeServer(t, http.StatusOK, &calls)
	svc := NewAuthService(client.NewOcrApiClient(srv.URL, 0, nil), nil)

	creds, err := svc.Login(context.Background(), "alice", "s3cret")

	require.NoError(t, err)
	assert.Equal(t, "alice", creds.Username())
	assert.EqualValues(t, 1, calls.Load())
}

func TestLogin_Rejected(t *testing.T) {
	var calls atomic.Int32
	srv := probeServer(t, http.StatusUnauthorized, &calls)
	svc := NewAuthService(client.NewOcrApiClient(srv.URL, 0, nil), nil)

	creds, err := svc.Login(context.Background(), "alice", "wrong")

	assert.Nil(t, creds)
	assert.ErrorIs(t, err, ErrAuthRejected)
}

func TestLogin_TransportError(t *testing.T) {
	svc := NewAuthService(client.NewOcrApiClient("http://127.0.0.1:1", 1, nil), nil)

	_, err := svc.Login(context.Background(), "alice", "s3cret")

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.NotEmpty(t, transportErr.Error())
	assert.False(t, errors.Is(err, ErrAuthRejected))
}
