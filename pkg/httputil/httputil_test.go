package httputil

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/rhankbrguw/rumah-kosim-api/pkg/errors"
	"github.com/rhankbrguw/rumah-kosim-api/pkg/validator"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]any{"id": 7})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":7}`, rec.Body.String())
}

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/9", nil)

	WriteError(rec, req, apperrors.NotFound("product"), discardLogger())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.Contains(t, body.Error.Message, "product")
}

func TestWriteError_AppError_Conflict(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cart", nil)

	WriteError(rec, req, apperrors.InsufficientStock(3, 1), discardLogger())

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Error.Code)
}

func TestWriteError_Sentinel(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)

	WriteError(rec, req, fmt.Errorf("loading: %w", apperrors.ErrUnauthorized), discardLogger())

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
}

func TestWriteError_UnknownError_HidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(rec, req, fmt.Errorf("pq: relation does not exist"), discardLogger())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.NotContains(t, body.Error.Message, "pq:")
}

func TestWriteValidationError_FieldMap(t *testing.T) {
	type input struct {
		Email string `validate:"required,email"`
	}
	err := validator.Validate(input{})
	require.Error(t, err)

	rec := httptest.NewRecorder()
	WriteValidationError(rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "is required", body.Error.Fields["Email"])
}

func TestWriteValidationError_GenericError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteValidationError(rec, fmt.Errorf("malformed json"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "INVALID_INPUT", body.Error.Code)
}

func TestParseID(t *testing.T) {
	tests := []struct {
		name   string
		param  string
		wantID int64
		wantOK bool
	}{
		{"valid", "42", 42, true},
		{"zero", "0", 0, false},
		{"negative", "-3", 0, false},
		{"non numeric", "abc", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			id, ok := ParseID(rec, tt.param)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
			if !tt.wantOK {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				body := decodeError(t, rec)
				assert.Equal(t, "INVALID_PARAMETER", body.Error.Code)
			}
		})
	}
}
