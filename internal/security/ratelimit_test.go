package security_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rolodrawer/internal/security"
)

type MockRequestLimiter struct{ mock.Mock }

func (m *MockRequestLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func callMiddleware(limiter *MockRequestLimiter, requestsPerHour int, request *http.Request) (*httptest.ResponseRecorder, *bool) {
	reached := false
	next := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		reached = true
		writer.WriteHeader(http.StatusOK)
	})

	recorder := httptest.NewRecorder()
	security.RateLimitMiddleware(limiter, requestsPerHour)(next).ServeHTTP(recorder, request)
	return recorder, &reached
}

func TestRateLimitMiddleware_AllowsRequestUnderLimit(t *testing.T) {
	limiter := new(MockRequestLimiter)
	limiter.On("Allow", mock.Anything, "token-123", 100, time.Hour).Return(true, nil)

	request := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	request.Header.Set("Authorization", "Bearer token-123")

	recorder, reached := callMiddleware(limiter, 100, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, *reached)
	limiter.AssertExpectations(t)
}

func TestRateLimitMiddleware_BlocksRequestOverLimit(t *testing.T) {
	limiter := new(MockRequestLimiter)
	limiter.On("Allow", mock.Anything, mock.Anything, 100, time.Hour).Return(false, nil)

	request := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	request.Header.Set("Authorization", "Bearer token-123")

	recorder, reached := callMiddleware(limiter, 100, request)

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.False(t, *reached)
}

func TestRateLimitMiddleware_ZeroLimitDisablesCheck(t *testing.T) {
	limiter := new(MockRequestLimiter)

	request := httptest.NewRequest(http.MethodGet, "/api/files", nil)

	recorder, reached := callMiddleware(limiter, 0, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, *reached)
	limiter.AssertNotCalled(t, "Allow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRateLimitMiddleware_LimiterFailurePassesThrough(t *testing.T) {
	limiter := new(MockRequestLimiter)
	limiter.On("Allow", mock.Anything, mock.Anything, 100, time.Hour).
		Return(false, errors.New("redis: connection refused"))

	request := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	request.Header.Set("Authorization", "Bearer token-123")

	recorder, reached := callMiddleware(limiter, 100, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, *reached)
}

func TestRateLimitMiddleware_AnonymousRequestKeyedByAddress(t *testing.T) {
	limiter := new(MockRequestLimiter)

	request := httptest.NewRequest(http.MethodPost, "/api/auth/", nil)
	limiter.On("Allow", mock.Anything, request.RemoteAddr, 100, time.Hour).Return(true, nil)

	recorder, _ := callMiddleware(limiter, 100, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	limiter.AssertExpectations(t)
}
