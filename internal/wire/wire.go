package wire

import (
	"net/http"

	"shuttle-booking/internal/adaptor"
	"shuttle-booking/internal/data/repository"
	"shuttle-booking/internal/gateway"
	"shuttle-booking/internal/queue"
	"shuttle-booking/internal/usecase"
	"shuttle-booking/pkg/database"
	"shuttle-booking/pkg/middleware"
	"shuttle-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the wired router
type App struct {
	Router *chi.Mux
}

// Wiring connects repositories, services, and handlers into a router
func Wiring(
	db database.PgxIface,
	repo *repository.Repository,
	config *utils.Config,
	gw gateway.PaymentGateway,
	rdb *redis.Client,
	pub *queue.Publisher,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(db, repo, config, gw, rdb, pub, logger)
	handler := adaptor.NewHandler(service, config, logger)

	router := setupRouter(handler, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(handler *adaptor.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireBooking(r, handler)
	wireBid(r, handler.Bid)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
