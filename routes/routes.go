package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/sportsmeet/handlers"
	"github.com/Dosada05/sportsmeet/metrics"
	"github.com/Dosada05/sportsmeet/middleware"
	"github.com/Dosada05/sportsmeet/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Faculty   *handlers.FacultyHandler
	Sport     *handlers.SportHandler
	Result    *handlers.ResultHandler
	Points    *handlers.PointsHandler
	Standings *handlers.StandingsHandler
	Media     *handlers.MediaHandler
	Dashboard *handlers.DashboardHandler
	Health    *handlers.HealthHandler
}

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
	Logger         *slog.Logger
	Metrics        *metrics.Manager
}

func SetupRoutes(r chi.Router, h Handlers, opts Options) {
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	if opts.Logger != nil {
		r.Use(middleware.RequestLogger(opts.Logger))
	}
	r.Use(chiMiddleware.Recoverer)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if h.Health != nil {
		r.Get("/healthz", h.Health.Health)
	}
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Post("/auth/login", h.Auth.Login)

		// public: standings, results, gallery
		r.Get("/standings", h.Standings.GetStandings)

		r.Route("/faculties", func(r chi.Router) {
			r.Get("/", h.Faculty.GetAllFaculties)
			r.Get("/{facultyID}", h.Faculty.GetFacultyByID)
		})
		r.Route("/sports", func(r chi.Router) {
			r.Get("/", h.Sport.GetAllSports)
			r.Get("/{sportID}", h.Sport.GetSportByID)
		})
		r.Route("/results", func(r chi.Router) {
			r.Get("/", h.Result.ListResults)
			r.Get("/{resultID}", h.Result.GetResult)
		})
		r.Get("/media", h.Media.ListMedia)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Authenticate(opts.JWTSecret))
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Get("/dashboard", h.Dashboard.Stats)

			r.Route("/faculties", func(r chi.Router) {
				r.Post("/", h.Faculty.CreateFaculty)
				r.Put("/{facultyID}", h.Faculty.UpdateFaculty)
				r.Delete("/{facultyID}", h.Faculty.DeleteFaculty)
				r.Post("/{facultyID}/logo", h.Faculty.UploadFacultyLogo)
			})

			r.Route("/sports", func(r chi.Router) {
				r.Post("/", h.Sport.CreateSport)
				r.Put("/{sportID}", h.Sport.UpdateSport)
				r.Delete("/{sportID}", h.Sport.DeleteSport)
				r.Post("/{sportID}/logo", h.Sport.UploadSportLogo)
			})

			r.Route("/results", func(r chi.Router) {
				r.Post("/", h.Result.CreateResult)
				r.Route("/{resultID}", func(r chi.Router) {
					r.Put("/", h.Result.UpdateResult)
					r.Delete("/", h.Points.DeleteResult)
					r.Put("/placements", h.Points.ReplacePlacements)
					r.Post("/points/apply", h.Points.ApplyPoints)
					r.Post("/points/remove", h.Points.RemovePoints)
				})
			})

			r.Post("/points/recalculate", h.Points.Recalculate)

			r.Route("/media", func(r chi.Router) {
				r.Post("/", h.Media.UploadMedia)
				r.Delete("/{mediaID}", h.Media.DeleteMedia)
			})
		})
	})
}
