package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ehousing-booking/internal/data/entity"
	"ehousing-booking/internal/data/repository"
	"ehousing-booking/internal/dto/request"
	"ehousing-booking/internal/dto/response"
	"ehousing-booking/pkg/mpesa"
	"ehousing-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentGateway sends STK push requests. *mpesa.Client implements it.
type PaymentGateway interface {
	STKPush(ctx context.Context, phone string, amount float64) (json.RawMessage, error)
}

type PaymentService interface {
	InitiateSTKPush(ctx context.Context, req *request.STKPushRequest) (json.RawMessage, error)
	CreatePayment(ctx context.Context, req *request.CreatePaymentRequest) (*response.PaymentResponse, error)
	UpdatePaymentStatus(ctx context.Context, req *request.UpdatePaymentStatusRequest) (*response.PaymentStatusUpdateResponse, error)

	// Callback dari Daraja setelah user konfirmasi di HP
	HandleSTKCallback(ctx context.Context, payload []byte) error
}

type paymentService struct {
	repo    *repository.Repository
	gateway PaymentGateway
	log     *zap.Logger
	now     func() time.Time
}

func NewPaymentService(repo *repository.Repository, gateway PaymentGateway, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:    repo,
		gateway: gateway,
		log:     log.With(zap.String("service", "payment")),
		now:     time.Now,
	}
}

func (s *paymentService) InitiateSTKPush(ctx context.Context, req *request.STKPushRequest) (json.RawMessage, error) {
	// 1. Phone dan amount wajib ada
	if isBlank(req.Phone) || req.Amount == "" {
		return nil, utils.NewValidationError("Phone number and amount are required", nil)
	}

	// Daraja menerima bilangan bulat, cek nilai yang benar-benar dikirim
	amount, err := utils.ParseAmount(req.Amount)
	if err != nil || mpesa.WholeAmount(amount) < 1 {
		return nil, utils.NewValidationError("Invalid amount", nil)
	}

	// 2. Normalisasi nomor ke format 254XXXXXXXXX
	phone, err := mpesa.NormalizePhone(req.Phone)
	if err != nil {
		return nil, utils.NewValidationError("Invalid phone number format", nil)
	}

	// 3. Kirim ke gateway
	body, err := s.gateway.STKPush(ctx, phone, amount)
	if err != nil {
		var gwErr *mpesa.GatewayError
		if errors.As(err, &gwErr) && gwErr.Details() != nil {
			return nil, utils.NewUpstreamError("STK push failed", gwErr.Details(), err)
		}
		return nil, utils.NewUpstreamError("STK push failed", err.Error(), err)
	}

	s.log.Info("STK push initiated", zap.String("phone", phone), zap.Float64("amount", amount))
	return body, nil
}

func (s *paymentService) CreatePayment(ctx context.Context, req *request.CreatePaymentRequest) (*response.PaymentResponse, error) {
	// Validate required fields
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.NewValidationError(
			"Missing required fields. Please provide amount, method, transactionId, and bookingId.", errs)
	}

	amount, err := utils.ParseAmount(req.Amount)
	if err != nil || amount <= 0 {
		return nil, utils.NewValidationError("Invalid amount", nil)
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, utils.NewValidationError("Invalid bookingId", nil)
	}

	// Cek booking exists
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, utils.NewInternalError("Failed to create payment", err)
	}
	if booking == nil {
		return nil, utils.NewNotFoundError("Booking not found")
	}

	// Cek transactionId belum dipakai
	existing, err := s.repo.Payment.FindByTransactionID(ctx, req.TransactionID)
	if err != nil {
		return nil, utils.NewInternalError("Failed to create payment", err)
	}
	if existing != nil {
		return nil, utils.NewConflictError("Transaction ID already exists")
	}

	now := s.now()
	payment := &entity.Payment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Amount:        amount,
		Method:        req.Method,
		TransactionID: req.TransactionID,
		Status:        entity.PaymentStatusPending,
		BookingID:     bookingID,
	}

	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		switch {
		case errors.Is(err, repository.ErrUniqueViolation):
			return nil, utils.NewConflictError("Unique constraint violation. This booking already has a payment.")
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return nil, utils.NewNotFoundError("Foreign key constraint failed. The booking ID may not exist.")
		default:
			return nil, utils.NewInternalError("Failed to create payment", err)
		}
	}

	s.log.Info("Payment created",
		zap.String("payment_id", payment.ID.String()),
		zap.String("booking_id", bookingID.String()),
		zap.String("transaction_id", payment.TransactionID),
		zap.Float64("amount", amount),
	)

	resp := response.PaymentToResponse(payment, booking)
	return &resp, nil
}

func (s *paymentService) UpdatePaymentStatus(ctx context.Context, req *request.UpdatePaymentStatusRequest) (*response.PaymentStatusUpdateResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.NewValidationError("Validation failed", errs)
	}

	payment, err := s.repo.Payment.UpdateStatusByTransactionID(ctx, req.TransactionID, entity.PaymentStatus(req.Status))
	if err != nil {
		return nil, utils.NewInternalError("Failed to update payment.", err)
	}
	if payment == nil {
		return nil, utils.NewNotFoundError("Payment not found.")
	}

	s.log.Info("Payment status updated",
		zap.String("transaction_id", req.TransactionID),
		zap.String("status", req.Status),
	)

	return &response.PaymentStatusUpdateResponse{
		Success:        true,
		Message:        "Payment status updated.",
		UpdatedPayment: response.PaymentToResponse(payment, nil),
	}, nil
}

func (s *paymentService) HandleSTKCallback(ctx context.Context, payload []byte) error {
	cb, err := mpesa.ParseSTKCallback(payload)
	if err != nil {
		return utils.NewValidationError("Invalid callback payload", nil)
	}

	status := entity.PaymentStatusFailed
	switch {
	case cb.Success():
		status = entity.PaymentStatusCompleted
	case cb.ResultCode == mpesa.ResultCodeCancelledByUser:
		status = entity.PaymentStatusCancelled
	}

	payment, err := s.repo.Payment.UpdateStatusByTransactionID(ctx, cb.CheckoutRequestID, status)
	if err != nil {
		return utils.NewInternalError("Failed to record callback", err)
	}

	// Payment bisa belum tercatat, callback tetap di-ack
	if payment == nil {
		s.log.Warn("Callback for unknown payment",
			zap.String("checkout_request_id", cb.CheckoutRequestID),
			zap.Int("result_code", cb.ResultCode),
		)
		return nil
	}

	fields := []zap.Field{
		zap.String("checkout_request_id", cb.CheckoutRequestID),
		zap.Int("result_code", cb.ResultCode),
		zap.String("result_desc", cb.ResultDesc),
		zap.String("status", string(status)),
	}
	// Receipt hanya ada di callback sukses
	if receipt, ok := cb.Metadata(mpesa.MetadataReceiptNumber); ok {
		fields = append(fields, zap.String("mpesa_receipt", fmt.Sprint(receipt)))
	}

	s.log.Info("Payment callback processed", fields...)
	return nil
}

func isBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	default:
		return false
	}
}
