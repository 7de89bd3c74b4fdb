package adaptor

import (
	"encoding/json"
	"io"
	"net/http"

	"ehousing-booking/internal/dto/request"
	"ehousing-booking/internal/usecase"
	"ehousing-booking/pkg/mpesa"
	"ehousing-booking/pkg/utils"

	"go.uber.org/zap"
)

// maxCallbackBytes batas body callback dari Daraja
const maxCallbackBytes = 1 << 20

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// STKPush handles POST /payments/stk-push. The gateway answer is relayed unchanged.
func (h *PaymentHandler) STKPush(w http.ResponseWriter, r *http.Request) {
	var req request.STKPushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	body, err := h.service.InitiateSTKPush(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "initiate STK push")
		return
	}

	utils.WriteRawJSON(w, http.StatusOK, body)
}

// CreatePayment handles POST /payments
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	payment, err := h.service.CreatePayment(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create payment")
		return
	}

	utils.ResponseCreated(w, "Payment created", payment)
}

// UpdatePaymentStatus handles PATCH /payments/status
func (h *PaymentHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req request.UpdatePaymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.UpdatePaymentStatus(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "update payment status")
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

// Callback handles POST /payments/callback, dipanggil oleh Daraja
func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxCallbackBytes))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.HandleSTKCallback(r.Context(), payload); err != nil {
		h.handleServiceError(w, err, "handle STK callback")
		return
	}

	utils.WriteJSON(w, http.StatusOK, mpesa.CallbackAck{ResultCode: 0, ResultDesc: "Accepted"})
}

func (h *PaymentHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	writeServiceError(h.log, w, err, operation)
}
