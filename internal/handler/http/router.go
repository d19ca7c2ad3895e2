package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

func NewRouter(attendanceHandler AttendanceHandler, notificationHandler NotificationHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timeclock-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/attendance", func(r chi.Router) {
			r.Post("/import", attendanceHandler.Import)
			r.Post("/punches", attendanceHandler.AddPunch)
			r.Post("/corrections", attendanceHandler.Correct)
			r.Post("/derive/day", attendanceHandler.DeriveDay)
			r.Post("/derive/range", attendanceHandler.DeriveRange)
			r.Post("/rebuild", attendanceHandler.RebuildTotals)
			r.Get("/summaries/{attendanceID}", attendanceHandler.ListSummaries)
			r.Get("/stats/{attendanceID}", attendanceHandler.GetStats)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/unread", notificationHandler.ListUnread)
			r.Get("/employee/{attendanceID}", notificationHandler.ListByEmployee)
			r.Patch("/{id}/read", notificationHandler.MarkRead)
			r.Get("/processing-errors", notificationHandler.ListProcessingErrors)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	return r
}
