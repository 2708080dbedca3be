package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rhankbrguw/rumah-kosim-api/internal/domain"
)

const paymentBody = `{
	"cartItems": [{"productId": 7, "quantity": 2, "price": 85000}],
	"total": 185000,
	"shippingAddress": "Jl. Merdeka No. 17, Bandung",
	"shippingPrice": 15000,
	"shippingMethod": "standard"
}`

func TestPayment_Success(t *testing.T) {
	orders := new(mockOrderRepository)
	users := new(mockUserRepository)
	handler := NewCheckoutHandler(testCheckoutService(orders, users), testLogger())

	orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Order).ID = 42
		}).
		Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/checkout/payment", bytes.NewBufferString(paymentBody))
	req = req.WithContext(withIdentity(req.Context(), customerIdentity()))
	rec := httptest.NewRecorder()

	handler.Payment(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(42), body["orderId"])
	assert.Regexp(t, `^RK\d{11}$`, body["trackingNumber"])
	orders.AssertExpectations(t)
}

func TestPayment_EmptyCart(t *testing.T) {
	orders := new(mockOrderRepository)
	users := new(mockUserRepository)
	handler := NewCheckoutHandler(testCheckoutService(orders, users), testLogger())

	body := `{"cartItems": [], "total": 100, "shippingAddress": "Jl. Merdeka No. 17", "shippingPrice": 0, "shippingMethod": "standard"}`
	req := httptest.NewRequest(http.MethodPost, "/checkout/payment", bytes.NewBufferString(body))
	req = req.WithContext(withIdentity(req.Context(), customerIdentity()))
	rec := httptest.NewRecorder()

	handler.Payment(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPayment_MissingShippingMethod(t *testing.T) {
	orders := new(mockOrderRepository)
	users := new(mockUserRepository)
	handler := NewCheckoutHandler(testCheckoutService(orders, users), testLogger())

	body := `{"cartItems": [{"productId": 7, "quantity": 2, "price": 85000}], "total": 170000, "shippingAddress": "Jl. Merdeka No. 17"}`
	req := httptest.NewRequest(http.MethodPost, "/checkout/payment", bytes.NewBufferString(body))
	req = req.WithContext(withIdentity(req.Context(), customerIdentity()))
	rec := httptest.NewRecorder()

	handler.Payment(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetAddress(t *testing.T) {
	orders := new(mockOrderRepository)
	users := new(mockUserRepository)
	handler := NewCheckoutHandler(testCheckoutService(orders, users), testLogger())

	users.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.User{ID: 1, Username: "dewi", Address: "Jl. Merdeka No. 17, Bandung"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/checkout/address", nil)
	req = req.WithContext(withIdentity(req.Context(), customerIdentity()))
	rec := httptest.NewRecorder()

	handler.GetAddress(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Jl. Merdeka No. 17, Bandung", decodeBody(t, rec)["address"])
	users.AssertExpectations(t)
}

func TestSaveAddress_Success(t *testing.T) {
	orders := new(mockOrderRepository)
	users := new(mockUserRepository)
	handler := NewCheckoutHandler(testCheckoutService(orders, users), testLogger())

	users.On("UpdateAddress", mock.Anything, int64(1), "Jl. Merdeka No. 17, Bandung").Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/checkout/address", bytes.NewBufferString(`{"address":"Jl. Merdeka No. 17, Bandung"}`))
	req = req.WithContext(withIdentity(req.Context(), customerIdentity()))
	rec := httptest.NewRecorder()

	handler.SaveAddress(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])
	users.AssertExpectations(t)
}

func TestSaveAddress_TooShort(t *testing.T) {
	orders := new(mockOrderRepository)
	users := new(mockUserRepository)
	handler := NewCheckoutHandler(testCheckoutService(orders, users), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/checkout/address", bytes.NewBufferString(`{"address":"short"}`))
	req = req.WithContext(withIdentity(req.Context(), customerIdentity()))
	rec := httptest.NewRecorder()

	handler.SaveAddress(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	users.AssertNotCalled(t, "UpdateAddress", mock.Anything, mock.Anything, mock.Anything)
}
