package wire

import (
	"net/http"

	"court-booking/internal/adaptor"
	"court-booking/internal/data/repository"
	"court-booking/internal/usecase"
	"court-booking/pkg/metrics"
	"court-booking/pkg/middleware"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// App holds the wired router plus what background jobs need
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
	Limiter *middleware.RateLimiter
	Metrics *metrics.Metrics
}

// Wiring builds services, handlers and routes
func Wiring(repo *repository.Repository, deps usecase.Dependencies, config *utils.Config, logger *zap.Logger) *App {
	if deps.Metrics == nil {
		deps.Metrics = metrics.New("court_booking")
	}

	service := usecase.NewService(repo, deps, config, logger)
	handler := adaptor.NewHandler(service, logger)
	limiter := middleware.NewRateLimiter(config.RateLimit.RPS, config.RateLimit.Burst, logger)

	router := setupRouter(handler, repo, deps.Metrics, limiter, config, logger)

	return &App{
		Router:  router,
		Service: service,
		Limiter: limiter,
		Metrics: deps.Metrics,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	m *metrics.Metrics,
	limiter *middleware.RateLimiter,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// RealIP first so the limiter and logs see the client address
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger, m))
	r.Use(middleware.Recover(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-Export-Rows", "X-Export-Truncated"},
		MaxAge:         300,
	}))

	wireAuth(r, handler.Auth, repo, config, logger)
	wireUser(r, handler.User, repo, config, logger)
	wireCourt(r, handler.Court, handler.Availability, repo, config, logger)
	wireBooking(r, handler.Booking, repo, limiter, config, logger)
	wireTeam(r, handler.Team, repo, config, logger)
	wireReview(r, handler.Review, repo, config, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	return r
}
