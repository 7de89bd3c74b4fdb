package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ehousing-booking/internal/data/entity"
	"ehousing-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSessionRepo struct {
	sessions map[string]*entity.Session
	err      error
}

func (s *stubSessionRepo) Create(_ context.Context, session *entity.Session) error {
	s.sessions[session.Token.String()] = session
	return nil
}

func (s *stubSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.sessions[token], nil
}

func (s *stubSessionRepo) Revoke(_ context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func TestAuthSession(t *testing.T) {
	userID := uuid.New()
	token := uuid.New()
	repo := &stubSessionRepo{sessions: map[string]*entity.Session{
		token.String(): {UserID: userID, Token: token},
	}}

	var gotUser uuid.UUID
	var gotToken string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = utils.GetUserIDFromContext(r.Context())
		gotToken, _ = utils.GetTokenFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := AuthSession(repo, zap.NewNop())(next)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid session", header: "Bearer " + token.String(), status: http.StatusNoContent},
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + token.String(), status: http.StatusUnauthorized},
		{name: "token not a uuid", header: "Bearer abc", status: http.StatusUnauthorized},
		{name: "unknown session", header: "Bearer " + uuid.NewString(), status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/bookings/mine", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	assert.Equal(t, userID, gotUser)
	assert.Equal(t, token.String(), gotToken)

	t.Run("repository failure", func(t *testing.T) {
		failing := AuthSession(&stubSessionRepo{err: errors.New("db down")}, zap.NewNop())(next)
		req := httptest.NewRequest(http.MethodGet, "/bookings/mine", nil)
		req.Header.Set("Authorization", "Bearer "+token.String())
		rec := httptest.NewRecorder()

		failing.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestRecover(t *testing.T) {
	handler := Recover(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":false,"message":"Internal server error"}`, rec.Body.String())
}

func TestLoggerKeepsStatus(t *testing.T) {
	handler := Logger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
}

func TestCORS(t *testing.T) {
	handler := CORS([]string{"https://ehousing.example"})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/bookings", nil)
	req.Header.Set("Origin", "https://ehousing.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, "https://ehousing.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
