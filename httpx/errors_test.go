package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mbolis/quick-quiz/auth"
	"github.com/mbolis/quick-quiz/choices"
	"github.com/mbolis/quick-quiz/editor"
	"github.com/mbolis/quick-quiz/model"
	"github.com/mbolis/quick-quiz/quizapi"
)

func TestStatus(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unauthorized", fmt.Errorf("fetch_quiz: %w", quizapi.ErrUnauthorized), http.StatusUnauthorized},
		{"expired", auth.ErrSessionExpired, http.StatusUnauthorized},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"not found", fmt.Errorf("fetch_quiz: %w", quizapi.ErrNotFound), http.StatusNotFound},
		{"unknown question", editor.ErrUnknownQuestion, http.StatusNotFound},
		{"busy", editor.ErrBusy, http.StatusConflict},
		{"detached", editor.ErrDetached, http.StatusConflict},
		{"index", fmt.Errorf("choice 5 of 2: %w", choices.ErrIndexOutOfRange), http.StatusBadRequest},
		{"permutation", choices.ErrInvalidPermutation, http.StatusBadRequest},
		{"registration", &auth.ServiceError{Op: "register", Status: 400, Err: boom}, http.StatusBadRequest},
		{"auth down", &auth.ServiceError{Op: "login", Status: 503, Err: boom}, http.StatusBadGateway},
		{"read", &quizapi.RemoteReadError{Op: "fetch_quiz", Status: 500, Err: boom}, http.StatusBadGateway},
		{"write", &quizapi.RemoteWriteError{Op: "delete_choice", Status: 404, Err: errors.New("unexpected status 404")}, http.StatusBadGateway},
		{"load", &model.LoadError{Entity: "quiz", Err: boom}, http.StatusBadGateway},
		{"other", boom, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := Status(tt.err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestLogErrorWritesMessage(t *testing.T) {
	w := httptest.NewRecorder()
	LogError(w, "editor.save_choice", editor.ErrBusy)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "remote write in flight\n", w.Body.String())

	w = httptest.NewRecorder()
	LogError(w, "editor.save_choice", errors.New("secret detail"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
}
