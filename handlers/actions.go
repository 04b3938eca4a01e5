// neoboard/handlers/actions.go
package handlers

import (
	"io"
	"net/http"
	"strings"

	"neoboard/config"
	"neoboard/models"
	"neoboard/utils"
)

// formAttachment extracts an optional file upload from a multipart form.
// A missing file is not an error; it simply returns nil.
func formAttachment(r *http.Request, field string, app App) (*utils.Attachment, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, models.Validation("could not read uploaded file: %v", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			app.Logger().Error("Failed to close upload file", "error", cerr)
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, models.Validation("file was only partially uploaded")
	}
	return &utils.Attachment{Filename: header.Filename, Data: data}, nil
}

// cleanupAttachment removes a stored file after a failed row insert so
// storage does not accumulate orphans. Best effort: a failed cleanup is
// logged, not escalated.
func cleanupAttachment(app App, path string) {
	if path == "" {
		return
	}
	if err := app.Storage().DeleteFile(path); err != nil {
		app.Logger().Error("Failed to clean up orphaned upload", "path", path, "error", err)
	}
}

// HandleCreateThread creates a new thread, storing an optional image first.
func HandleCreateThread(w http.ResponseWriter, r *http.Request, app App) {
	logger := app.Logger().With("handler", "HandleCreateThread")

	if err := r.ParseMultipartForm(config.MaxFormMemory); err != nil {
		respondError(w, app, logger, models.Validation("form parsing error: %v", err))
		return
	}
	board := strings.TrimSpace(r.FormValue("board"))
	title := strings.TrimSpace(r.FormValue("title"))
	content := strings.TrimSpace(r.FormValue("content"))

	// Validate required fields before touching any file upload.
	if board == "" || title == "" || content == "" {
		respondError(w, app, logger, models.Validation("title, content, and board fields are required"))
		return
	}

	att, err := formAttachment(r, "image", app)
	if err != nil {
		respondError(w, app, logger, err)
		return
	}

	imagePath := ""
	if att != nil {
		imagePath, err = utils.StoreImage(app.Storage(), "thread", *att)
		if err != nil {
			logger.Warn("Image upload rejected", "filename", att.Filename, "error", err)
			respondError(w, app, logger, err)
			return
		}
	}

	threadID, err := app.DB().CreateThread(board, title, content, imagePath)
	if err != nil {
		cleanupAttachment(app, imagePath)
		respondError(w, app, logger, err)
		return
	}

	logger.Info("New thread created", "thread_id", threadID, "board", board)
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "thread_id": threadID}, app)
}

// HandleListThreads lists threads, optionally restricted to one board.
// Bare board names from the query string are wrapped to the stored
// delimited form, so ?board=g matches threads filed under "/g/".
func HandleListThreads(w http.ResponseWriter, r *http.Request, app App) {
	board := r.URL.Query().Get("board")
	if board != "" && !strings.HasPrefix(board, "/") {
		board = "/" + board + "/"
	}

	threads, err := app.DB().ListThreads(board)
	if err != nil {
		respondError(w, app, app.Logger().With("handler", "HandleListThreads"), err)
		return
	}
	respondJSON(w, http.StatusOK, threads, app)
}

// HandleGetThread fetches one thread by id.
func HandleGetThread(w http.ResponseWriter, r *http.Request, app App) {
	logger := app.Logger().With("handler", "HandleGetThread")
	id, err := pathID(r, "threadID")
	if err != nil {
		respondError(w, app, logger, err)
		return
	}

	thread, err := app.DB().GetThread(id)
	if err != nil {
		respondError(w, app, logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "thread": thread}, app)
}

// HandleDeleteThread removes a thread and its replies atomically.
func HandleDeleteThread(w http.ResponseWriter, r *http.Request, app App) {
	logger := app.Logger().With("handler", "HandleDeleteThread")
	id, err := pathID(r, "threadID")
	if err != nil {
		respondError(w, app, logger, err)
		return
	}

	if err := app.DB().DeleteThread(id); err != nil {
		respondError(w, app, logger, err)
		return
	}
	logger.Info("Thread deleted", "thread_id", id)
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true}, app)
}

// HandleCreateReply posts a reply to an existing thread. Content may be
// empty when an image is attached.
func HandleCreateReply(w http.ResponseWriter, r *http.Request, app App) {
	logger := app.Logger().With("handler", "HandleCreateReply")
	threadID, err := pathID(r, "threadID")
	if err != nil {
		respondError(w, app, logger, err)
		return
	}
	if err := r.ParseMultipartForm(config.MaxFormMemory); err != nil {
		respondError(w, app, logger, models.Validation("form parsing error: %v", err))
		return
	}
	content := r.FormValue("content")

	att, err := formAttachment(r, "image", app)
	if err != nil {
		respondError(w, app, logger, err)
		return
	}
	if strings.TrimSpace(content) == "" && att == nil {
		respondError(w, app, logger, models.Validation("content or an image is required"))
		return
	}

	imagePath := ""
	if att != nil {
		imagePath, err = utils.StoreImage(app.Storage(), "reply", *att)
		if err != nil {
			logger.Warn("Image upload rejected", "filename", att.Filename, "error", err)
			respondError(w, app, logger, err)
			return
		}
	}

	replyID, err := app.DB().CreateReply(threadID, content, imagePath)
	if err != nil {
		cleanupAttachment(app, imagePath)
		respondError(w, app, logger, err)
		return
	}

	logger.Info("New reply created", "reply_id", replyID, "thread_id", threadID)
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "reply_id": replyID}, app)
}

// HandleListReplies lists a thread's replies oldest-first.
func HandleListReplies(w http.ResponseWriter, r *http.Request, app App) {
	logger := app.Logger().With("handler", "HandleListReplies")
	threadID, err := pathID(r, "threadID")
	if err != nil {
		respondError(w, app, logger, err)
		return
	}

	replies, err := app.DB().ListReplies(threadID)
	if err != nil {
		respondError(w, app, logger, err)
		return
	}
	respondJSON(w, http.StatusOK, replies, app)
}

// HandleDeleteReply removes a single reply.
func HandleDeleteReply(w http.ResponseWriter, r *http.Request, app App) {
	logger := app.Logger().With("handler", "HandleDeleteReply")
	id, err := pathID(r, "replyID")
	if err != nil {
		respondError(w, app, logger, err)
		return
	}

	if err := app.DB().DeleteReply(id); err != nil {
		respondError(w, app, logger, err)
		return
	}
	logger.Info("Reply deleted", "reply_id", id)
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true}, app)
}
