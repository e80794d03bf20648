package auth

import (
	"context"
	"errors"
	"fmt"

	"NPTEL-Assignment-Analyzer/internal/client"

	"go.uber.org/zap"
)

var ErrAuthRejected = errors.New("backend rejected the credentials")

// TransportError means the probe never got an HTTP answer.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("auth probe failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type Prober interface {
	ProbeAuth(ctx context.Context, basicToken string) error
}

type AuthService struct {
	prober Prober
	log    *zap.Logger
}

func NewAuthService(prober Prober, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{prober: prober, log: log.Named("auth")}
}

// Login checks the pair against the backend probe endpoint. On success the
// returned Credentials are what every later request authenticates with.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Credentials, error) {
	creds, err := NewCredentials(username, password)
	if err != nil {
		return nil, err
	}

	err = s.prober.ProbeAuth(ctx, creds.BasicToken())
	if err == nil {
		s.log.Info("credentials accepted", zap.String("username", creds.Username()))
		return creds, nil
	}
	creds.Clear()

	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		s.log.Warn("credentials rejected", zap.String("username", username), zap.Int("status", statusErr.StatusCode))
		return nil, fmt.Errorf("%w (status %d)", ErrAuthRejected, statusErr.StatusCode)
	}
	s.log.Error("auth probe transport failure", zap.String("username", username), zap.Error(err))
	return nil, &TransportError{Err: err}
}
