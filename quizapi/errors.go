package quizapi

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a read targets a missing entity.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when no usable token is available or the
	// Quiz API rejects it.
	ErrUnauthorized = errors.New("unauthorized")
)

// RemoteReadError reports a failed read: transport failure or a non-2xx
// status other than 401/404.
type RemoteReadError struct {
	Op     string
	Status int
	Err    error
}

func (e *RemoteReadError) Error() string {
	return remoteMessage("read", e.Op, e.Status, e.Err)
}

func (e *RemoteReadError) Unwrap() error {
	return e.Err
}

// RemoteWriteError reports a failed create, update or delete.
type RemoteWriteError struct {
	Op     string
	Status int
	Err    error
}

func (e *RemoteWriteError) Error() string {
	return remoteMessage("write", e.Op, e.Status, e.Err)
}

func (e *RemoteWriteError) Unwrap() error {
	return e.Err
}

func remoteMessage(kind, op string, status int, err error) string {
	if status != 0 {
		return fmt.Sprintf("quizapi: %s %s: http %d: %v", kind, op, status, err)
	}
	return fmt.Sprintf("quizapi: %s %s: %v", kind, op, err)
}

// tokenError marks failures raised by the token source, so they surface as
// ErrUnauthorized rather than as transport errors.
type tokenError struct {
	err error
}

func (e *tokenError) Error() string {
	return "token: " + e.err.Error()
}

func (e *tokenError) Unwrap() error {
	return e.err
}

type errorResponse struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

func decodeHTTPError(status int, body []byte) error {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err == nil {
		if resp.Detail != "" {
			return errors.New(resp.Detail)
		}
		if resp.Error != "" {
			return errors.New(resp.Error)
		}
	}
	return fmt.Errorf("unexpected status %d", status)
}
