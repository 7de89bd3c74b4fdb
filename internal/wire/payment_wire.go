package wire

import (
	"ehousing-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePayment(r chi.Router, paymentHandler *adaptor.PaymentHandler) {
	r.Route("/payments", func(r chi.Router) {
		r.Post("/", paymentHandler.CreatePayment)
		r.Post("/stk-push", paymentHandler.STKPush)
		r.Patch("/status", paymentHandler.UpdatePaymentStatus)

		// Daraja callback, dipanggil dari server Safaricom
		r.Post("/callback", paymentHandler.Callback)
	})
}
