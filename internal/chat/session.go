// Package chat talks to the external generative-AI service that answers
// prompts typed into the Aegis terminal.
package chat

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// ErrNoCredential is returned when a session is requested without an API key.
var ErrNoCredential = errors.New("chat: no API key configured")

// ErrUnavailable wraps the last error once every provider in a chain failed.
var ErrUnavailable = errors.New("chat: all providers unavailable")

// Session is a multi-turn conversation with a chat provider.
type Session interface {
	// Send submits prompt and returns the reply text, which may be empty.
	Send(ctx context.Context, prompt string) (string, error)
}

// ServiceError describes a failed exchange with a provider.
type ServiceError struct {
	Provider   string
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Unavailable reports whether the failure is transient: a connection
// failure, a timeout, or a 502/503/504 response.
func (e *ServiceError) Unavailable() bool {
	switch e.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	case 0:
		var netErr net.Error
		return errors.As(e.Err, &netErr) || errors.Is(e.Err, context.DeadlineExceeded)
	}
	return false
}

// IsUnavailable reports whether err is a transient provider failure.
func IsUnavailable(err error) bool {
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	var se *ServiceError
	return errors.As(err, &se) && se.Unavailable()
}

// Options configures one provider session.
type Options struct {
	APIKey            string
	Model             string
	BaseURL           string
	SystemInstruction string
	Timeout           time.Duration
	// HTTPClient overrides the default client built from Timeout.
	HTTPClient *http.Client
}

func (o Options) client() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: 5 * time.Second,
			}).DialContext,
		},
	}
}

func (o Options) endpoint(path string) string {
	return strings.TrimSuffix(o.BaseURL, "/") + path
}
