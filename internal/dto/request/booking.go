package request

type CreateBookingRequest struct {
	StartDate  string  `json:"startDate" validate:"required"`
	EndDate    string  `json:"endDate" validate:"required"`
	Status     string  `json:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	Type       string  `json:"type" validate:"required,max=50"`
	PostID     string  `json:"postId" validate:"required,uuid"`
	UserID     string  `json:"userId" validate:"required,uuid"`
	CheckoutID *string `json:"checkoutId,omitempty" validate:"omitempty,max=100"`
}
