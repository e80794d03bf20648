package auth

import (
	"encoding/base64"
	"errors"
)

var ErrMissingCredentials = errors.New("username and password are both required")

// Credentials holds the username/password pair for the lifetime of a session.
// The password is kept in a byte slice so Clear can overwrite it.
type Credentials struct {
	username string
	password []byte
}

func NewCredentials(username, password string) (*Credentials, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	return &Credentials{username: username, password: []byte(password)}, nil
}

func (c *Credentials) Username() string {
	if c == nil {
		return ""
	}
	return c.username
}

// BasicToken is base64(username:password), recomputed on every call.
func (c *Credentials) BasicToken() string {
	if c == nil {
		return ""
	}
	buf := make([]byte, 0, len(c.username)+1+len(c.password))
	buf = append(buf, c.username...)
	buf = append(buf, ':')
	buf = append(buf, c.password...)
	token := base64.StdEncoding.EncodeToString(buf)
	clear(buf)
	return token
}

func (c *Credentials) Clear() {
	if c == nil {
		return
	}
	clear(c.password)
	c.password = nil
	c.username = ""
}

func (c *Credentials) Empty() bool {
	return c == nil || c.username == "" || len(c.password) == 0
}

func (c *Credentials) String() string {
	if c == nil {
		return "<nil>"
	}
	return c.username + ":******"
}

func (c *Credentials) GoString() string {
	return c.String()
}
