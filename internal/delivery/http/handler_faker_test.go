package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"

	"tapseal/internal/models"
)

func fakeOrder(f *gofakeit.Faker) models.Order {
	qty := int(f.Number(1, 99))
	return models.Order{
		ID:        f.UUID(),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
		Status: models.OrderStatus(f.RandomString([]string{
			"pending", "processing", "shipped", "completed",
		})),

		Quantity: qty,
		URL:      f.URL(),

		CustomerName:          f.Name(),
		CustomerEmail:         f.Email(),
		CustomerPostalCode:    f.DigitN(7),
		CustomerPrefecture:    "東京都",
		CustomerCity:          f.City(),
		CustomerStreetAddress: f.Street(),
		CustomerAddress:       f.Address().Address,
		CustomerPhone:         f.DigitN(10),

		PaymentMethod: models.PaymentMethod(f.RandomString([]string{"card", "bank_transfer"})),
		PaymentStatus: models.PaymentUnpaid,
		PaymentAmount: int(f.Number(770, 50000)),
	}
}

func Test_AdminListOrders_Many(t *testing.T) {
	f := gofakeit.New(42)
	var orders []models.Order
	for i := 0; i < 20; i++ {
		orders = append(orders, fakeOrder(f))
	}

	s := &svcStub{
		list: func(models.OrderStatus) ([]models.Order, error) { return orders, nil },
	}
	r := newTestRouter(s, nil)
	token := adminToken(t, r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, len(orders))
}
