package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"ehousing-booking/internal/data/entity"
	"ehousing-booking/internal/dto/request"
	"ehousing-booking/pkg/mpesa"
	"ehousing-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitiateSTKPush(t *testing.T) {
	t.Run("Success normalizes phone", func(t *testing.T) {
		d := newTestDeps()
		d.gateway.body = json.RawMessage(`{"ResponseCode":"0","CheckoutRequestID":"ws_CO_1"}`)
		svc := NewPaymentService(d.repo, d.gateway, d.log)

		body, err := svc.InitiateSTKPush(context.Background(), &request.STKPushRequest{
			Phone:  "0712345678",
			Amount: "1500",
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"ResponseCode":"0","CheckoutRequestID":"ws_CO_1"}`, string(body))
		assert.Equal(t, "254712345678", d.gateway.phone)
		assert.Equal(t, 1500.0, d.gateway.amount)
	})

	validation := []struct {
		name    string
		req     request.STKPushRequest
		message string
	}{
		{name: "missing phone", req: request.STKPushRequest{Amount: "10"}, message: "Phone number and amount are required"},
		{name: "empty phone", req: request.STKPushRequest{Phone: "", Amount: "10"}, message: "Phone number and amount are required"},
		{name: "missing amount", req: request.STKPushRequest{Phone: "0712345678"}, message: "Phone number and amount are required"},
		{name: "zero amount", req: request.STKPushRequest{Phone: "0712345678", Amount: "0"}, message: "Invalid amount"},
		{name: "amount rounds to zero", req: request.STKPushRequest{Phone: "0712345678", Amount: "0.4"}, message: "Invalid amount"},
		{name: "negative amount", req: request.STKPushRequest{Phone: "0712345678", Amount: "-5"}, message: "Invalid amount"},
		{name: "non-string phone", req: request.STKPushRequest{Phone: 123.0, Amount: "10"}, message: "Invalid phone number format"},
		{name: "short international phone", req: request.STKPushRequest{Phone: "25471234567", Amount: "10"}, message: "Invalid phone number format"},
	}

	for _, tt := range validation {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDeps()
			svc := NewPaymentService(d.repo, d.gateway, d.log)

			_, err := svc.InitiateSTKPush(context.Background(), &tt.req)
			require.Error(t, err)

			var appErr *utils.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, utils.KindValidation, appErr.Kind)
			assert.Equal(t, tt.message, appErr.Message)
			assert.Zero(t, d.gateway.calls)
		})
	}

	t.Run("Fractional amount that rounds up is sent", func(t *testing.T) {
		d := newTestDeps()
		d.gateway.body = json.RawMessage(`{"ResponseCode":"0"}`)
		svc := NewPaymentService(d.repo, d.gateway, d.log)

		_, err := svc.InitiateSTKPush(context.Background(), &request.STKPushRequest{Phone: "0712345678", Amount: "0.5"})
		require.NoError(t, err)
		assert.Equal(t, 1, d.gateway.calls)
		assert.Equal(t, int64(1), mpesa.WholeAmount(d.gateway.amount))
	})

	t.Run("Gateway error carries body", func(t *testing.T) {
		d := newTestDeps()
		d.gateway.err = &mpesa.GatewayError{
			StatusCode: http.StatusBadRequest,
			Body:       []byte(`{"errorMessage":"Bad Request - Invalid Amount"}`),
		}
		svc := NewPaymentService(d.repo, d.gateway, d.log)

		_, err := svc.InitiateSTKPush(context.Background(), &request.STKPushRequest{Phone: "254712345678", Amount: "10"})

		var appErr *utils.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, utils.KindUpstream, appErr.Kind)
		assert.Equal(t, http.StatusInternalServerError, appErr.Kind.HTTPStatus())
		assert.JSONEq(t, `{"errorMessage":"Bad Request - Invalid Amount"}`, string(appErr.Details.(json.RawMessage)))
	})

	t.Run("Transport error carries message", func(t *testing.T) {
		d := newTestDeps()
		d.gateway.err = errors.New("dial tcp: connection refused")
		svc := NewPaymentService(d.repo, d.gateway, d.log)

		_, err := svc.InitiateSTKPush(context.Background(), &request.STKPushRequest{Phone: "254712345678", Amount: "10"})

		var appErr *utils.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, utils.KindUpstream, appErr.Kind)
		assert.Equal(t, "dial tcp: connection refused", appErr.Details)
	})
}

func TestCreatePayment(t *testing.T) {
	newRequest := func(bookingID uuid.UUID, txID string) *request.CreatePaymentRequest {
		return &request.CreatePaymentRequest{
			Amount:        "2500.50",
			Method:        "mpesa",
			TransactionID: txID,
			BookingID:     bookingID.String(),
		}
	}

	t.Run("Success", func(t *testing.T) {
		d := newTestDeps()
		booking := d.addBooking()
		svc := NewPaymentService(d.repo, d.gateway, d.log)

		payment, err := svc.CreatePayment(context.Background(), newRequest(booking.ID, "TX-1"))
		require.NoError(t, err)
		assert.Equal(t, 2500.50, payment.Amount)
		assert.Equal(t, entity.PaymentStatusPending, payment.Status)
		require.NotNil(t, payment.Booking)
		assert.Equal(t, booking.ID.String(), payment.Booking.ID)
		assert.Len(t, d.payments.payments, 1)
	})

	t.Run("Duplicate transaction ID", func(t *testing.T) {
		d := newTestDeps()
		first := d.addBooking()
		second := d.addBooking()
		svc := NewPaymentService(d.repo, d.gateway, d.log)

		_, err := svc.CreatePayment(context.Background(), newRequest(first.ID, "TX-1"))
		require.NoError(t, err)

		_, err = svc.CreatePayment(context.Background(), newRequest(second.ID, "TX-1"))
		assert.Equal(t, utils.KindConflict, utils.KindOf(err))
		assert.Len(t, d.payments.payments, 1)
	})

	t.Run("Booking already paid", func(t *testing.T) {
		d := newTestDeps()
		booking := d.addBooking()
		svc := NewPaymentService(d.repo, d.gateway, d.log)

		_, err := svc.CreatePayment(context.Background(), newRequest(booking.ID, "TX-1"))
		require.NoError(t, err)

		_, err = svc.CreatePayment(context.Background(), newRequest(booking.ID, "TX-2"))
		var appErr *utils.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, utils.KindConflict, appErr.Kind)
		assert.Contains(t, appErr.Message, "already has a payment")
		assert.Len(t, d.payments.payments, 1)
	})

	t.Run("Booking not found", func(t *testing.T) {
		d := newTestDeps()
		svc := NewPaymentService(d.repo, d.gateway, d.log)

		_, err := svc.CreatePayment(context.Background(), newRequest(uuid.New(), "TX-1"))
		assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
		assert.Empty(t, d.payments.payments)
	})

	t.Run("Missing fields", func(t *testing.T) {
		d := newTestDeps()
		svc := NewPaymentService(d.repo, d.gateway, d.log)

		_, err := svc.CreatePayment(context.Background(), &request.CreatePaymentRequest{Method: "mpesa"})
		assert.Equal(t, utils.KindValidation, utils.KindOf(err))
	})

	t.Run("Amount not numeric", func(t *testing.T) {
		d := newTestDeps()
		booking := d.addBooking()
		svc := NewPaymentService(d.repo, d.gateway, d.log)

		req := newRequest(booking.ID, "TX-1")
		req.Amount = "abc"
		_, err := svc.CreatePayment(context.Background(), req)
		assert.Equal(t, utils.KindValidation, utils.KindOf(err))
	})

	t.Run("Storage failure", func(t *testing.T) {
		d := newTestDeps()
		booking := d.addBooking()
		d.payments.err = errDB
		svc := NewPaymentService(d.repo, d.gateway, d.log)

		_, err := svc.CreatePayment(context.Background(), newRequest(booking.ID, "TX-1"))
		assert.Equal(t, utils.KindInternal, utils.KindOf(err))
	})
}

func TestUpdatePaymentStatus(t *testing.T) {
	d := newTestDeps()
	booking := d.addBooking()
	svc := NewPaymentService(d.repo, d.gateway, d.log)

	_, err := svc.CreatePayment(context.Background(), &request.CreatePaymentRequest{
		Amount: "100", Method: "mpesa", TransactionID: "TX-1", BookingID: booking.ID.String(),
	})
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		resp, err := svc.UpdatePaymentStatus(context.Background(), &request.UpdatePaymentStatusRequest{
			Status: "completed", TransactionID: "TX-1",
		})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "Payment status updated.", resp.Message)
		assert.Equal(t, entity.PaymentStatusCompleted, resp.UpdatedPayment.Status)
	})

	t.Run("Unknown transaction", func(t *testing.T) {
		_, err := svc.UpdatePaymentStatus(context.Background(), &request.UpdatePaymentStatusRequest{
			Status: "failed", TransactionID: "TX-404",
		})
		assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
		assert.Equal(t, entity.PaymentStatusCompleted, d.payments.payments["TX-1"].Status)
	})

	t.Run("Unknown status", func(t *testing.T) {
		_, err := svc.UpdatePaymentStatus(context.Background(), &request.UpdatePaymentStatusRequest{
			Status: "refunded", TransactionID: "TX-1",
		})
		assert.Equal(t, utils.KindValidation, utils.KindOf(err))
	})
}

func TestHandleSTKCallback(t *testing.T) {
	callback := func(checkoutID string, code int) []byte {
		body, _ := json.Marshal(map[string]any{
			"Body": map[string]any{
				"stkCallback": map[string]any{
					"MerchantRequestID": "29115",
					"CheckoutRequestID": checkoutID,
					"ResultCode":        code,
					"ResultDesc":        "desc",
				},
			},
		})
		return body
	}

	tests := []struct {
		code   int
		status entity.PaymentStatus
	}{
		{code: 0, status: entity.PaymentStatusCompleted},
		{code: 1032, status: entity.PaymentStatusCancelled},
		{code: 1, status: entity.PaymentStatusFailed},
	}

	for _, tt := range tests {
		d := newTestDeps()
		booking := d.addBooking()
		svc := NewPaymentService(d.repo, d.gateway, d.log)

		_, err := svc.CreatePayment(context.Background(), &request.CreatePaymentRequest{
			Amount: "100", Method: "mpesa", TransactionID: "ws_CO_1", BookingID: booking.ID.String(),
		})
		require.NoError(t, err)

		require.NoError(t, svc.HandleSTKCallback(context.Background(), callback("ws_CO_1", tt.code)))
		assert.Equal(t, tt.status, d.payments.payments["ws_CO_1"].Status)
	}

	t.Run("Receipt number is logged", func(t *testing.T) {
		d := newTestDeps()
		core, logs := observer.New(zap.InfoLevel)
		d.log = zap.New(core)
		booking := d.addBooking()
		svc := NewPaymentService(d.repo, d.gateway, d.log)

		_, err := svc.CreatePayment(context.Background(), &request.CreatePaymentRequest{
			Amount: "100", Method: "mpesa", TransactionID: "ws_CO_9", BookingID: booking.ID.String(),
		})
		require.NoError(t, err)

		payload := []byte(`{"Body":{"stkCallback":{"MerchantRequestID":"29115","CheckoutRequestID":"ws_CO_9",
			"ResultCode":0,"ResultDesc":"The service request is processed successfully.",
			"CallbackMetadata":{"Item":[{"Name":"Amount","Value":100},{"Name":"MpesaReceiptNumber","Value":"NLJ7RT61SV"}]}}}}`)
		require.NoError(t, svc.HandleSTKCallback(context.Background(), payload))

		entries := logs.FilterMessage("Payment callback processed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "NLJ7RT61SV", entries[0].ContextMap()["mpesa_receipt"])
		assert.Equal(t, entity.PaymentStatusCompleted, d.payments.payments["ws_CO_9"].Status)
	})

	t.Run("Unknown payment is acknowledged", func(t *testing.T) {
		d := newTestDeps()
		svc := NewPaymentService(d.repo, d.gateway, d.log)
		assert.NoError(t, svc.HandleSTKCallback(context.Background(), callback("ws_CO_404", 0)))
	})

	t.Run("Malformed payload", func(t *testing.T) {
		d := newTestDeps()
		svc := NewPaymentService(d.repo, d.gateway, d.log)
		err := svc.HandleSTKCallback(context.Background(), []byte(`not json`))
		assert.Equal(t, utils.KindValidation, utils.KindOf(err))
	})
}
