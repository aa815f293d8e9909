package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customError "github.com/segyhp/tontine-ledger/pkg/errors"
)

func TestBusinessError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantError  string
	}{
		{
			name:       "validation",
			err:        customError.WrapAmountMismatch(decimal.NewFromInt(40000), decimal.NewFromInt(100)),
			wantStatus: http.StatusBadRequest,
			wantCode:   customError.ErrCodeAmountMismatch,
			wantError:  "Amount 100.00 does not match the required amount 40000.00",
		},
		{
			name:       "conflict",
			err:        customError.WrapDuplicatePendingDeposit(4),
			wantStatus: http.StatusConflict,
			wantCode:   customError.ErrCodeDuplicatePendingDeposit,
		},
		{
			name:       "insufficient funds",
			err:        customError.WrapInsufficientPool(decimal.NewFromInt(10), decimal.NewFromInt(5)),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   customError.ErrCodeInsufficientPool,
		},
		{
			name:       "not found",
			err:        customError.WrapNotFound("Loan", 9),
			wantStatus: http.StatusNotFound,
			wantCode:   customError.ErrCodeNotFound,
		},
		{
			name:       "infrastructure hides the cause",
			err:        customError.WrapDatabaseError(errors.New("pq: password authentication failed")),
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal error, please try again later",
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal error, please try again later",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			BusinessError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body.Error)
			}
			assert.NotContains(t, rec.Body.String(), "password")
		})
	}
}

func TestCORSMiddlewareShortCircuitsOptions(t *testing.T) {
	called := false
	handler := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/fund", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, called)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-Actor-ID")
}

func TestLoggingMiddlewareKeepsStatus(t *testing.T) {
	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Created(w, map[string]int{"id": 1})
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/members", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}
