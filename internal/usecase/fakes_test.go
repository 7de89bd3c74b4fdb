package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ehousing-booking/internal/data/entity"
	"ehousing-booking/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errDB = errors.New("connection refused")

type fakeBookingRepo struct {
	bookings    map[uuid.UUID]*entity.Booking
	knownPosts  map[uuid.UUID]bool
	count       int64
	countBefore int64
	lastBefore  time.Time
	err         error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings:   map[uuid.UUID]*entity.Booking{},
		knownPosts: map[uuid.UUID]bool{},
	}
}

func (f *fakeBookingRepo) Create(_ context.Context, b *entity.Booking) error {
	if f.err != nil {
		return f.err
	}
	if !f.knownPosts[b.PostID] {
		return fmt.Errorf("create booking: %w", repository.ErrForeignKeyViolation)
	}
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bookings[id], nil
}

func (f *fakeBookingRepo) FindAll(_ context.Context) ([]*entity.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []*entity.Booking{}
	for _, b := range f.bookings {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookingRepo) FindByUserIDWithPost(_ context.Context, userID uuid.UUID) ([]*entity.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []*entity.Booking{}
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) Count(_ context.Context) (int64, error) {
	return f.count, f.err
}

func (f *fakeBookingRepo) CountCreatedBefore(_ context.Context, before time.Time) (int64, error) {
	f.lastBefore = before
	return f.countBefore, f.err
}

// fakePaymentRepo enforces unique transaction_id and booking_id like the schema does.
type fakePaymentRepo struct {
	payments map[string]*entity.Payment
	bookings *fakeBookingRepo
	err      error
}

func newFakePaymentRepo(bookings *fakeBookingRepo) *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[string]*entity.Payment{}, bookings: bookings}
}

func (f *fakePaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.bookings.bookings[p.BookingID]; !ok {
		return fmt.Errorf("create payment: %w", repository.ErrForeignKeyViolation)
	}
	for _, existing := range f.payments {
		if existing.BookingID == p.BookingID || existing.TransactionID == p.TransactionID {
			return fmt.Errorf("create payment: %w", repository.ErrUniqueViolation)
		}
	}
	f.payments[p.TransactionID] = p
	return nil
}

func (f *fakePaymentRepo) FindByTransactionID(_ context.Context, txID string) (*entity.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.payments[txID], nil
}

func (f *fakePaymentRepo) UpdateStatusByTransactionID(_ context.Context, txID string, status entity.PaymentStatus) (*entity.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.payments[txID]
	if !ok {
		return nil, nil
	}
	p.Status = status
	return p, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

type fakeSessionRepo struct {
	sessions map[string]*entity.Session
}

func (f *fakeSessionRepo) Create(_ context.Context, s *entity.Session) error {
	f.sessions[s.Token.String()] = s
	return nil
}

func (f *fakeSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	s, ok := f.sessions[token]
	if !ok || s.RevokedAt != nil {
		return nil, nil
	}
	return s, nil
}

func (f *fakeSessionRepo) Revoke(_ context.Context, token string) error {
	s, ok := f.sessions[token]
	if !ok || s.RevokedAt != nil {
		return errors.New("session not found or already revoked")
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}

type fakeGateway struct {
	calls  int
	phone  string
	amount float64
	body   json.RawMessage
	err    error
}

func (f *fakeGateway) STKPush(_ context.Context, phone string, amount float64) (json.RawMessage, error) {
	f.calls++
	f.phone = phone
	f.amount = amount
	return f.body, f.err
}

type testDeps struct {
	bookings *fakeBookingRepo
	payments *fakePaymentRepo
	users    *fakeUserRepo
	sessions *fakeSessionRepo
	gateway  *fakeGateway
	repo     *repository.Repository
	log      *zap.Logger
}

func newTestDeps() *testDeps {
	bookings := newFakeBookingRepo()
	d := &testDeps{
		bookings: bookings,
		payments: newFakePaymentRepo(bookings),
		users:    &fakeUserRepo{users: map[uuid.UUID]*entity.User{}},
		sessions: &fakeSessionRepo{sessions: map[string]*entity.Session{}},
		gateway:  &fakeGateway{},
		log:      zap.NewNop(),
	}
	d.repo = &repository.Repository{
		User:    d.users,
		Session: d.sessions,
		Booking: d.bookings,
		Payment: d.payments,
	}
	return d
}

func (d *testDeps) addBooking() *entity.Booking {
	now := time.Now()
	b := &entity.Booking{
		Base:      entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 2),
		Status:    entity.BookingStatusPending,
		Type:      "rent",
		PostID:    uuid.New(),
		UserID:    uuid.New(),
	}
	d.bookings.bookings[b.ID] = b
	return b
}
