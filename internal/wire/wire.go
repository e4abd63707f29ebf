package wire

import (
	"net/http"

	"hotel-booking/internal/adaptor"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/usecase"
	"hotel-booking/pkg/clock"
	"hotel-booking/pkg/middleware"
	"hotel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type middlewareFunc = func(http.Handler) http.Handler

// App holds the wired HTTP surface
type App struct {
	Router *chi.Mux
}

// Wiring builds services, handlers and routes on top of repo
func Wiring(repo *repository.Repository, config *utils.Config, clk clock.Clock, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, clk, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS)

	auth := middleware.AuthSession(repo.Session, repo.User, logger)
	admin := middleware.Admin(logger)

	// Apply routes
	wireAuth(r, handler.Auth, auth)
	wireUser(r, handler.User, auth, admin)
	wireRoom(r, handler.Room, handler.Review, auth, admin)
	wireBooking(r, handler.Booking, auth, admin)
	wireCoupon(r, handler.Coupon, auth, admin)
	wirePayment(r, handler.Payment, auth)
	wireReview(r, handler.Review, auth, admin)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
