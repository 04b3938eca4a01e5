// neoboard/handlers/handlers.go

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"neoboard/database"
	"neoboard/models"

	"github.com/go-chi/chi/v5"
)

// App is an interface that defines the dependencies our handlers need.
type App interface {
	DB() *database.DatabaseService
	Logger() *slog.Logger
	UploadDir() string
	Storage() models.StorageService
}

// MakeHandler adapts a handler function to http.HandlerFunc with the app
// dependency injected.
func MakeHandler(app App, fn func(http.ResponseWriter, *http.Request, App)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn(w, r, app)
	}
}

// respondJSON sends a JSON response with a given status code.
func respondJSON(w http.ResponseWriter, status int, payload interface{}, app App) {
	response, err := json.Marshal(payload)
	if err != nil {
		app.Logger().Error("Failed to marshal JSON payload", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		if _, werr := w.Write([]byte(`{"success":false,"error":"Failed to marshal JSON response"}`)); werr != nil {
			app.Logger().Error("Failed to write internal server error response", "error", werr)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(response); err != nil {
		app.Logger().Error("Failed to write JSON response", "error", err)
	}
}

// statusForError maps a core error category to a transport status code.
func statusForError(err error) (int, string) {
	var reqErr *models.RequestError
	if !errors.As(err, &reqErr) {
		return http.StatusInternalServerError, "internal server error"
	}
	switch reqErr.Kind {
	case models.ErrValidation:
		return http.StatusBadRequest, reqErr.Message
	case models.ErrDuplicate:
		return http.StatusConflict, reqErr.Message
	case models.ErrNotFound:
		return http.StatusNotFound, reqErr.Message
	case models.ErrUnsupportedMedia:
		return http.StatusUnsupportedMediaType, reqErr.Message
	case models.ErrPayloadTooLarge:
		return http.StatusRequestEntityTooLarge, reqErr.Message
	default:
		// StorageError and InternalError both surface as 500; the message
		// still tells a rejected file from lost data.
		return http.StatusInternalServerError, reqErr.Message
	}
}

// respondError reports a request failure, logging unexpected categories.
func respondError(w http.ResponseWriter, app App, logger *slog.Logger, err error) {
	status, msg := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
	}
	respondJSON(w, status, map[string]interface{}{"success": false, "error": msg}, app)
}

// pathID parses a positive integer id from a chi route parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.Validation("a valid %s is required", name)
	}
	return id, nil
}
