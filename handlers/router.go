package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func SetupRouter(app App) *chi.Mux {
	mux := chi.NewRouter()

	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(NewStructuredLogger(app.Logger()))
	mux.Use(middleware.Recoverer)

	// Uploaded attachments are served straight off the uploads root;
	// database rows only ever hold root-relative paths.
	mux.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(app.UploadDir()))))

	mux.Route("/api", func(r chi.Router) {
		r.Post("/threads", MakeHandler(app, HandleCreateThread))
		r.Get("/threads", MakeHandler(app, HandleListThreads))
		r.Get("/threads/{threadID}", MakeHandler(app, HandleGetThread))
		r.Delete("/threads/{threadID}", MakeHandler(app, HandleDeleteThread))
		r.Get("/threads/{threadID}/replies", MakeHandler(app, HandleListReplies))
		r.Post("/threads/{threadID}/replies", MakeHandler(app, HandleCreateReply))
		r.Delete("/replies/{replyID}", MakeHandler(app, HandleDeleteReply))

		r.Post("/reports", MakeHandler(app, HandleCreateReport))
		r.Get("/reports", MakeHandler(app, HandleListReports))
		r.Post("/reports/{reportID}/status", MakeHandler(app, HandleUpdateReportStatus))
		r.Delete("/reports/{reportID}", MakeHandler(app, HandleDeleteReport))

		r.Post("/applications", MakeHandler(app, HandleSubmitApplication))
		r.Get("/applications", MakeHandler(app, HandleListApplications))
		r.Post("/applications/{appID}/status", MakeHandler(app, HandleUpdateApplicationStatus))
	})

	return mux
}
