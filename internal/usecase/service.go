package usecase

import (
	"ehousing-booking/internal/data/repository"
	"ehousing-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	Booking BookingService
	Payment PaymentService
}

func NewService(repo *repository.Repository, gateway PaymentGateway, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:    NewAuthService(repo, config, log),
		Booking: NewBookingService(repo, log),
		Payment: NewPaymentService(repo, gateway, log),
	}
}
