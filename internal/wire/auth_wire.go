package wire

import (
	"ehousing-booking/internal/adaptor"
	"ehousing-booking/internal/data/repository"
	"ehousing-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Route("/auth", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// ==================== PROTECTED ROUTES ====================
		r.With(middleware.AuthSession(repo.Session, log)).Post("/logout", authHandler.Logout)
	})
}
