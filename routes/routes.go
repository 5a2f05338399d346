package routes

import (
	"net/http"
	"time"

	"github.com/Dosada05/bracket-pool/handlers"
	"github.com/Dosada05/bracket-pool/middleware"
	"github.com/Dosada05/bracket-pool/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Bracket   *handlers.BracketHandler
	Entry     *handlers.EntryHandler
	Result    *handlers.ResultHandler
	Standings *handlers.StandingsHandler
	WebSocket *handlers.WebSocketHandler
}

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	// Websocket connections live longer than the request timeout below.
	router.Get("/ws/years/{year}", h.WebSocket.ServeWs)

	authenticate := middleware.Authenticate(opts.JWTSecret)

	router.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Route("/years/{year}", func(r chi.Router) {
			r.Get("/bracket", h.Bracket.GetBracket)
			r.Get("/results", h.Result.ListResults)
			r.Get("/standings", h.Standings.GetStandings)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/entries", h.Entry.CreateEntry)
				r.Get("/entries", h.Entry.ListMyEntries)
			})
		})

		r.Route("/entries/{entryID}", func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/", h.Entry.GetEntry)
			r.Put("/picks", h.Entry.SavePicks)
			r.Get("/validation", h.Entry.CheckEntry)
			r.Post("/submit", h.Entry.SubmitEntry)
			r.Get("/score", h.Entry.ScoreEntry)
		})

		r.Route("/admin/years/{year}", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireRole(models.RoleAdmin))
			r.Put("/seeding", h.Bracket.ImportSeeding)
			r.Post("/results", h.Result.RecordResult)
			r.Delete("/results/{gameID}", h.Result.RemoveResult)
			r.Post("/standings/export", h.Standings.ExportStandings)
		})
	})
}
