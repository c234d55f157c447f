// Package auth logs users in against the Auth Service and turns the issued
// tokens into sessions.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/hashicorp/go-multierror"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// ServiceError reports an Auth Service failure other than bad credentials.
type ServiceError struct {
	Op     string
	Status int
	Err    error
}

func (e *ServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("auth: %s: http %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("auth: %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	const op = "login"
	resp, err := c.post(ctx, "/login/", loginRequest{email, password})
	if err != nil {
		return nil, &ServiceError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusBadRequest:
		return nil, ErrInvalidCredentials
	case resp.StatusCode/100 != 2:
		return nil, &ServiceError{Op: op, Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}

	var pair tokenPair
	if err := render.DecodeJSON(resp.Body, &pair); err != nil {
		return nil, &ServiceError{Op: op, Status: resp.StatusCode, Err: err}
	}
	if pair.Access == "" {
		return nil, &ServiceError{Op: op, Status: resp.StatusCode, Err: errors.New("missing access token")}
	}
	session, err := NewSession(pair.Access, pair.Refresh)
	if err != nil {
		return nil, &ServiceError{Op: op, Status: resp.StatusCode, Err: err}
	}
	return session, nil
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an account. Field rejections come back as a ServiceError
// wrapping one issue per field.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	const op = "register"
	resp, err := c.post(ctx, "/register/", reg)
	if err != nil {
		return &ServiceError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 == 2 {
		return nil
	}
	serviceErr := &ServiceError{Op: op, Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	if resp.StatusCode == http.StatusBadRequest {
		var fields map[string][]string
		if err := render.DecodeJSON(resp.Body, &fields); err == nil {
			if issues := fieldIssues(fields); issues != nil {
				serviceErr.Err = issues
			}
		}
	}
	return serviceErr
}

func fieldIssues(fields map[string][]string) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var issues error
	for _, name := range names {
		for _, msg := range fields[name] {
			issues = multierror.Append(issues, fmt.Errorf("%s: %s", name, msg))
		}
	}
	return issues
}

func (c *Client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.client.Do(req)
}
