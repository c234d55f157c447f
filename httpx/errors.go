package httpx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mbolis/quick-quiz/auth"
	"github.com/mbolis/quick-quiz/choices"
	"github.com/mbolis/quick-quiz/database"
	"github.com/mbolis/quick-quiz/editor"
	"github.com/mbolis/quick-quiz/log"
	"github.com/mbolis/quick-quiz/model"
	"github.com/mbolis/quick-quiz/quizapi"
)

// Will log an error, and send an HTTP response with status 500 and default text
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.Errorf("%s: %s", code, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Will log a debug message, and send an HTTP response with status 404 and default text
func LogNotFound(w http.ResponseWriter, code string, id any) {
	log.Debugf("%s: not found (%v)", code, id)
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}

// Will log an error code at the given level, and send
// an HTTP response with status and default text
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	http.Error(w, http.StatusText(status), status)
}

// Will log an error code and message at the given level,
// and send an HTTP response with the given status and formatted message
func LogStatusMsg(w http.ResponseWriter, status int, level log.Level, code string, msg string, args ...any) {
	errMsg := fmt.Sprintf(msg, args...)
	log.Log(level, code+":", errMsg)
	http.Error(w, errMsg, status)
}

// Will map err to an HTTP status, log it under code, and send the error text.
// Unknown errors are internal errors.
func LogError(w http.ResponseWriter, code string, err error) {
	status, level := Status(err)
	if status == http.StatusInternalServerError {
		LogInternalError(w, code, err)
		return
	}
	LogStatusMsg(w, status, level, code, "%s", err)
}

// Status maps the error taxonomy onto HTTP statuses.
func Status(err error) (int, log.Level) {
	var (
		readErr    *quizapi.RemoteReadError
		writeErr   *quizapi.RemoteWriteError
		loadErr    *model.LoadError
		serviceErr *auth.ServiceError
	)
	switch {
	case errors.Is(err, quizapi.ErrUnauthorized),
		errors.Is(err, auth.ErrSessionExpired),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, database.ErrNoSession):
		return http.StatusUnauthorized, log.DebugLevel
	case errors.Is(err, quizapi.ErrNotFound),
		errors.Is(err, editor.ErrUnknownQuestion),
		errors.Is(err, editor.ErrUnknownChoice):
		return http.StatusNotFound, log.DebugLevel
	case errors.Is(err, editor.ErrBusy),
		errors.Is(err, editor.ErrDetached):
		return http.StatusConflict, log.DebugLevel
	case errors.Is(err, choices.ErrIndexOutOfRange),
		errors.Is(err, choices.ErrInvalidPermutation),
		errors.Is(err, choices.ErrAlreadyBound):
		return http.StatusBadRequest, log.DebugLevel
	case errors.As(err, &serviceErr) && serviceErr.Status == http.StatusBadRequest:
		return http.StatusBadRequest, log.DebugLevel
	case errors.As(err, &readErr),
		errors.As(err, &writeErr),
		errors.As(err, &loadErr),
		errors.As(err, &serviceErr):
		return http.StatusBadGateway, log.WarnLevel
	}
	return http.StatusInternalServerError, log.ErrorLevel
}
