// Package quizapi talks to the remote Quiz API. Every call is authenticated
// with the bearer token of the current session.
package quizapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/mbolis/quick-quiz/model"
)

type Client struct {
	baseURL string
	client  *http.Client
}

// New returns a client for baseURL. tokens supplies the bearer token for each
// request; a nil source makes every call fail with ErrUnauthorized.
func New(baseURL string, tokens oauth2.TokenSource, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: &oauth2.Transport{Source: tokenSource{tokens}},
		},
	}
}

type tokenSource struct {
	src oauth2.TokenSource
}

func (ts tokenSource) Token() (*oauth2.Token, error) {
	if ts.src == nil {
		return nil, &tokenError{errors.New("no session")}
	}
	tok, err := ts.src.Token()
	if err != nil {
		return nil, &tokenError{err}
	}
	if tok == nil || tok.AccessToken == "" {
		return nil, &tokenError{errors.New("empty access token")}
	}
	return tok, nil
}

func (c *Client) GetQuiz(ctx context.Context, quizID model.ID) (model.Quiz, error) {
	data, err := c.read(ctx, "fetch_quiz", path("quiz", quizID))
	if err != nil {
		return model.Quiz{}, err
	}
	return model.DecodeQuiz(bytes.NewReader(data))
}

func (c *Client) GetQuestion(ctx context.Context, quizID, questionID model.ID) (model.Question, error) {
	data, err := c.read(ctx, "fetch_question", path("quiz", quizID, "question", questionID))
	if err != nil {
		return model.Question{}, err
	}
	q, err := model.DecodeQuestion(bytes.NewReader(data))
	if err != nil {
		return model.Question{}, err
	}
	if q.ID.IsZero() {
		q.ID = questionID
	}
	return q, nil
}

func (c *Client) Dashboard(ctx context.Context) (model.Dashboard, error) {
	data, err := c.read(ctx, "fetch_dashboard", "/user/quizzes/")
	if err != nil {
		return model.Dashboard{}, err
	}
	return model.DecodeDashboard(bytes.NewReader(data))
}

type contentPayload struct {
	Content string `json:"content"`
}

func (c *Client) CreateChoice(ctx context.Context, questionID model.ID, content string) (model.Choice, error) {
	const op = "create_choice"
	data, err := c.write(ctx, op, http.MethodPost, path("question", questionID, "choice"), contentPayload{content})
	if err != nil {
		return model.Choice{}, err
	}
	choice, err := model.DecodeChoice(bytes.NewReader(data))
	if err != nil {
		return model.Choice{}, &RemoteWriteError{Op: op, Err: err}
	}
	return choice, nil
}

// UpdateChoice stores content for a persisted choice. The response body is
// not adopted: on success the server holds exactly what was sent.
func (c *Client) UpdateChoice(ctx context.Context, questionID, choiceID model.ID, content string) error {
	_, err := c.write(ctx, "update_choice", http.MethodPut, path("question", questionID, "choice", choiceID), contentPayload{content})
	return err
}

func (c *Client) DeleteChoice(ctx context.Context, questionID, choiceID model.ID) error {
	_, err := c.write(ctx, "delete_choice", http.MethodDelete, path("question", questionID, "choice", choiceID), nil)
	return err
}

func (c *Client) CreateQuiz(ctx context.Context, fields model.QuizFields) (model.Quiz, error) {
	const op = "create_quiz"
	data, err := c.write(ctx, op, http.MethodPost, "/quiz/create/", fields)
	if err != nil {
		return model.Quiz{}, err
	}
	quiz, err := model.DecodeQuiz(bytes.NewReader(data))
	if err != nil {
		return model.Quiz{}, &RemoteWriteError{Op: op, Err: err}
	}
	return quiz, nil
}

func (c *Client) UpdateQuiz(ctx context.Context, quizID model.ID, fields model.QuizFields) (model.Quiz, error) {
	const op = "update_quiz"
	data, err := c.write(ctx, op, http.MethodPatch, path("quiz", quizID), fields)
	if err != nil {
		return model.Quiz{}, err
	}
	quiz, err := model.DecodeQuiz(bytes.NewReader(data))
	if err != nil {
		return model.Quiz{}, &RemoteWriteError{Op: op, Err: err}
	}
	return quiz, nil
}

func (c *Client) DeleteQuiz(ctx context.Context, quizID model.ID) error {
	_, err := c.write(ctx, "delete_quiz", http.MethodDelete, path("quiz", quizID), nil)
	return err
}

type questionPayload struct {
	Quiz model.ID `json:"quiz"`
	model.QuestionFields
}

func (c *Client) CreateQuestion(ctx context.Context, quizID model.ID, fields model.QuestionFields) (model.Question, error) {
	const op = "create_question"
	data, err := c.write(ctx, op, http.MethodPost, path("quiz", quizID, "question"), questionPayload{quizID, fields})
	if err != nil {
		return model.Question{}, err
	}
	q, err := model.DecodeQuestion(bytes.NewReader(data))
	if err != nil {
		return model.Question{}, &RemoteWriteError{Op: op, Err: err}
	}
	if q.ID.IsZero() {
		return model.Question{}, &RemoteWriteError{Op: op, Err: errors.New("response carries no id")}
	}
	return q, nil
}

func (c *Client) UpdateQuestion(ctx context.Context, quizID, questionID model.ID, fields model.QuestionFields) (model.Question, error) {
	const op = "update_question"
	data, err := c.write(ctx, op, http.MethodPatch, path("quiz", quizID, "question", questionID), fields)
	if err != nil {
		return model.Question{}, err
	}
	q, err := model.DecodeQuestion(bytes.NewReader(data))
	if err != nil {
		return model.Question{}, &RemoteWriteError{Op: op, Err: err}
	}
	if q.ID.IsZero() {
		q.ID = questionID
	}
	return q, nil
}

func (c *Client) DeleteQuestion(ctx context.Context, quizID, questionID model.ID) error {
	_, err := c.write(ctx, "delete_question", http.MethodDelete, path("quiz", quizID, "question", questionID), nil)
	return err
}

func (c *Client) read(ctx context.Context, op, p string) ([]byte, error) {
	data, status, err := c.roundTrip(ctx, http.MethodGet, p, nil)
	if err != nil {
		var tokErr *tokenError
		if errors.As(err, &tokErr) {
			return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}
		return nil, &RemoteReadError{Op: op, Err: err}
	}
	switch {
	case status == http.StatusUnauthorized:
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	case status/100 != 2:
		return nil, &RemoteReadError{Op: op, Status: status, Err: decodeHTTPError(status, data)}
	}
	return data, nil
}

func (c *Client) write(ctx context.Context, op, method, p string, payload any) ([]byte, error) {
	data, status, err := c.roundTrip(ctx, method, p, payload)
	if err != nil {
		var tokErr *tokenError
		if errors.As(err, &tokErr) {
			return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}
		return nil, &RemoteWriteError{Op: op, Err: err}
	}
	switch {
	case status == http.StatusUnauthorized:
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	case status/100 != 2:
		return nil, &RemoteWriteError{Op: op, Status: status, Err: decodeHTTPError(status, data)}
	}
	return data, nil
}

func (c *Client) roundTrip(ctx context.Context, method, p string, payload any) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+p, body)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return data, resp.StatusCode, nil
}

// path joins segments into a Quiz API path with the trailing slash the API
// expects.
func path(segments ...any) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(fmt.Sprint(s)))
	}
	b.WriteByte('/')
	return b.String()
}
