package usecase

import (
	"context"
	"errors"
	"math"
	"time"

	"ehousing-booking/internal/data/entity"
	"ehousing-booking/internal/data/repository"
	"ehousing-booking/internal/dto/request"
	"ehousing-booking/internal/dto/response"
	"ehousing-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	ListBookings(ctx context.Context) ([]response.BookingResponse, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID) ([]response.BookingResponse, error)
	CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error)

	// Stats
	CountBookings(ctx context.Context) (*response.BookingCountResponse, error)
	GetBookingStats(ctx context.Context) (*response.BookingStatsResponse, error)
}

type bookingService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewBookingService(repo *repository.Repository, log *zap.Logger) BookingService {
	return &bookingService{
		repo: repo,
		log:  log.With(zap.String("service", "booking")),
		now:  time.Now,
	}
}

func (s *bookingService) ListBookings(ctx context.Context) ([]response.BookingResponse, error) {
	bookings, err := s.repo.Booking.FindAll(ctx)
	if err != nil {
		return nil, utils.NewInternalError("Failed to get bookings", err)
	}

	return response.BookingsToResponse(bookings), nil
}

func (s *bookingService) ListUserBookings(ctx context.Context, userID uuid.UUID) ([]response.BookingResponse, error) {
	bookings, err := s.repo.Booking.FindByUserIDWithPost(ctx, userID)
	if err != nil {
		return nil, utils.NewInternalError("Failed to get bookings", err)
	}

	s.log.Debug("User bookings retrieved",
		zap.String("user_id", userID.String()),
		zap.Int("count", len(bookings)),
	)

	return response.BookingsToResponse(bookings), nil
}

func (s *bookingService) CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.NewValidationError("Validation failed", errs)
	}

	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return nil, utils.NewValidationError("Invalid startDate", map[string]string{"startDate": err.Error()})
	}
	endDate, err := utils.ParseDate(req.EndDate)
	if err != nil {
		return nil, utils.NewValidationError("Invalid endDate", map[string]string{"endDate": err.Error()})
	}
	if endDate.Before(startDate) {
		return nil, utils.NewValidationError("endDate cannot be before startDate", nil)
	}

	// Parse IDs
	postID, err := uuid.Parse(req.PostID)
	if err != nil {
		return nil, utils.NewValidationError("Invalid postId", nil)
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, utils.NewValidationError("Invalid userId", nil)
	}

	status := entity.BookingStatus(req.Status)
	if status == "" {
		status = entity.BookingStatusPending
	}

	now := s.now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		StartDate:  startDate,
		EndDate:    endDate,
		Status:     status,
		Type:       req.Type,
		PostID:     postID,
		UserID:     userID,
		CheckoutID: req.CheckoutID,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, utils.NewNotFoundError("Post or user not found")
		}
		return nil, utils.NewInternalError("Failed to create booking", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("post_id", req.PostID),
		zap.String("user_id", req.UserID),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) CountBookings(ctx context.Context) (*response.BookingCountResponse, error) {
	count, err := s.repo.Booking.Count(ctx)
	if err != nil {
		return nil, utils.NewInternalError("Failed to get booking count", err)
	}

	return &response.BookingCountResponse{Count: count}, nil
}

func (s *bookingService) GetBookingStats(ctx context.Context) (*response.BookingStatsResponse, error) {
	currentCount, err := s.repo.Booking.Count(ctx)
	if err != nil {
		return nil, utils.NewInternalError("Failed to get booking statistics", err)
	}

	// Booking yang dibuat sebelum satu bulan kalender yang lalu
	lastMonth := s.now().AddDate(0, -1, 0)
	previousMonthBookings, err := s.repo.Booking.CountCreatedBefore(ctx, lastMonth)
	if err != nil {
		return nil, utils.NewInternalError("Failed to get booking statistics", err)
	}

	stats := CalculateBookingStats(currentCount, previousMonthBookings)
	return &stats, nil
}

// CalculateBookingStats derives the new-booking delta and its percentage against
// the bookings that existed a month ago. With no earlier bookings the change is
// 100 if there are any bookings at all, otherwise 0.
func CalculateBookingStats(currentCount, previousMonthBookings int64) response.BookingStatsResponse {
	newBookings := currentCount - previousMonthBookings

	var percentChange int64
	switch {
	case previousMonthBookings > 0:
		// dibulatkan half up
		percentChange = int64(math.Floor(float64(newBookings)/float64(previousMonthBookings)*100 + 0.5))
	case currentCount > 0:
		percentChange = 100
	}

	return response.BookingStatsResponse{
		Count:         currentCount,
		NewBookings:   newBookings,
		PercentChange: percentChange,
	}
}
