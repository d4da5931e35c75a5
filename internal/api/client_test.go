package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/currency"

	"github.com/medikart/storefront/internal/api"
	"github.com/medikart/storefront/internal/domain"
	"github.com/medikart/storefront/internal/port"
)

type staticTokens string

func (s staticTokens) Token(_ context.Context) (string, bool) {
	return string(s), s != ""
}

func newClient(t *testing.T, handler http.Handler, tokens api.TokenSource) *api.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.NewClient(api.Config{
		BaseURL:      server.URL,
		PhotoBaseURL: server.URL + "/storage/",
		Currency:     currency.IDR,
		Timeout:      5 * time.Second,
	}, tokens, zap.NewNop())
	require.NoError(t, err)

	return client
}

func TestListProducts(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/obat", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// harga_jual arrives as a string, the backend encodes decimals that way
		w.Write([]byte(`{"data":[
			{"id_obat":1,"nama_obat":"Paracetamol 500mg","harga_jual":"15000.00","stok":25,"foto":"obat/para.jpg","expired_date":"2027-03-01"},
			{"id_obat":2,"nama_obat":"Vitamin C","harga_jual":8000,"stok":0,"foto":null,"expired_date":null},
			{"id_obat":3,"nama_obat":"Broken","harga_jual":"-1","stok":5}
		]}`))
	})

	client := newClient(t, r, nil)

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)

	// the record with a negative price is dropped, not fatal
	require.Len(t, products, 2)

	first := products[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "Paracetamol 500mg", first.Name)
	assert.True(t, decimal.NewFromInt(15000).Equal(first.UnitPrice.Amount))
	assert.Equal(t, currency.IDR.String(), first.UnitPrice.Currency.String())
	assert.Equal(t, 25, first.Stock)
	require.NotNil(t, first.PhotoURL)
	assert.Contains(t, *first.PhotoURL, "/storage/obat/para.jpg")
	require.NotNil(t, first.ExpiryDate)
	assert.Equal(t, 2027, first.ExpiryDate.Year())

	second := products[1]
	assert.True(t, decimal.NewFromInt(8000).Equal(second.UnitPrice.Amount))
	assert.Zero(t, second.Stock)
	assert.Nil(t, second.PhotoURL)
	assert.Nil(t, second.ExpiryDate)
}

func TestListProductsBackendDown(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/obat", func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, `{"message":"maintenance"}`, http.StatusServiceUnavailable)
	})

	client := newClient(t, r, nil)

	_, err := client.ListProducts(context.Background())
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "maintenance", apiErr.Message)
	assert.True(t, apiErr.Temporary())
}

func TestSubmitOrder(t *testing.T) {
	var captured map[string]any
	var gotAuth, gotRequestID string

	r := chi.NewRouter()
	r.Post("/penjualan", func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		gotRequestID = req.Header.Get("X-Request-ID")
		require.NoError(t, json.NewDecoder(req.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{
			"id_penjualan":55,"id_pelanggan":42,"tanggal":"2026-08-30 14:03:00",
			"total_harga":"32000.00","bayar":"32000.00","kembalian":"0.00",
			"metode_pembayaran":"COD",
			"penjualan_details":[{"id_obat":1,"jumlah":2,"harga_satuan":"10000.00","subtotal":"20000.00"}]
		}}`))
	})

	client := newClient(t, r, staticTokens("secret-token"))

	order := domain.Order{
		CustomerID:    42,
		Timestamp:     time.Date(2026, 8, 30, 14, 3, 0, 0, time.UTC),
		TotalAmount:   idr(32000),
		AmountPaid:    idr(32000),
		ChangeDue:     idr(0),
		PaymentMethod: domain.PaymentCOD,
		Lines: []domain.OrderLine{
			{ProductID: 1, Quantity: 2, UnitPrice: idr(10000), Subtotal: idr(20000)},
		},
	}

	confirmation, err := client.SubmitOrder(context.Background(), order)
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.NotEmpty(t, gotRequestID)

	assert.Equal(t, float64(42), captured["id_pelanggan"])
	assert.Equal(t, "2026-08-30 14:03:00", captured["tanggal"])
	assert.Equal(t, float64(32000), captured["total_harga"])
	assert.Equal(t, float64(32000), captured["bayar"])
	assert.Equal(t, float64(0), captured["kembalian"])
	assert.Equal(t, "COD", captured["metode_pembayaran"])

	items, ok := captured["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, float64(1), item["id_obat"])
	assert.Equal(t, float64(2), item["jumlah"])
	assert.Equal(t, float64(10000), item["harga_satuan"])
	assert.Equal(t, float64(20000), item["subtotal"])

	assert.Equal(t, int64(55), confirmation.OrderID)
	assert.Equal(t, int64(42), confirmation.CustomerID)
	assert.True(t, decimal.NewFromInt(32000).Equal(confirmation.TotalAmount.Amount))
	assert.Equal(t, domain.PaymentCOD, confirmation.PaymentMethod)
	require.Len(t, confirmation.Lines, 1)
	assert.Equal(t, 2, confirmation.Lines[0].Quantity)
}

func TestSubmitOrderValidationError(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/penjualan", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Stok tidak mencukupi"}`))
	})

	client := newClient(t, r, nil)

	_, err := client.SubmitOrder(context.Background(), domain.Order{
		CustomerID: 42,
		Lines:      []domain.OrderLine{{ProductID: 1, Quantity: 1}},
	})
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Stok tidak mencukupi", apiErr.Message)
	assert.False(t, apiErr.Temporary())
}

func TestSubmitOrderPreconditions(t *testing.T) {
	client := newClient(t, chi.NewRouter(), nil)

	_, err := client.SubmitOrder(context.Background(), domain.Order{CustomerID: 0})
	assert.ErrorContains(t, err, "customer")

	_, err = client.SubmitOrder(context.Background(), domain.Order{CustomerID: 42})
	assert.ErrorContains(t, err, "no lines")
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name      string
		response  string
		status    int
		wantToken string
		wantError string
	}{
		{
			name:      "profile under pelanggan: ok",
			response:  `{"token":"t1","pelanggan":{"id_pelanggan":42,"nama":"Budi","email":"b@x.id","telepon":"0812","alamat":"Jl. Merdeka 1"}}`,
			status:    http.StatusOK,
			wantToken: "t1",
		},
		{
			name:      "profile under user: ok",
			response:  `{"token":"t2","user":{"id_pelanggan":42,"nama":"Budi"}}`,
			status:    http.StatusOK,
			wantToken: "t2",
		},
		{
			name:      "missing token: error",
			response:  `{}`,
			status:    http.StatusOK,
			wantError: "no token",
		},
		{
			name:      "bad credentials: backend message",
			response:  `{"message":"Email atau password salah"}`,
			status:    http.StatusUnauthorized,
			wantError: "Email atau password salah",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.Post("/login-pelanggan", func(w http.ResponseWriter, req *http.Request) {
				var body map[string]string
				require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
				assert.Equal(t, "b@x.id", body["email"])

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.response))
			})

			client := newClient(t, r, nil)

			token, customer, err := client.Login(context.Background(), port.Credentials{
				Email:    "b@x.id",
				Password: "rahasia",
			})
			if tt.wantError != "" {
				assert.ErrorContains(t, err, tt.wantError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
			assert.Equal(t, int64(42), customer.ID)
			assert.Equal(t, "Budi", customer.Name)
		})
	}
}

func TestRegisterSendsConfirmation(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/register-pelanggan", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, body["password"], body["password_confirmation"])

		w.WriteHeader(http.StatusCreated)
	})

	client := newClient(t, r, nil)

	err := client.Register(context.Background(), port.Registration{
		Name:     "Budi",
		Email:    "b@x.id",
		Password: "rahasia",
	})
	assert.NoError(t, err)
}

func TestOrderHistory(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/penjualan/pelanggan/{id}", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "42", chi.URLParam(req, "id"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[
			{"id_penjualan":9,"id_pelanggan":42,"tanggal":"2026-08-01 10:00:00","total_harga":"50000.00","metode_pembayaran":"BANK"}
		]}`))
	})

	client := newClient(t, r, nil)

	orders, err := client.OrderHistory(context.Background(), 42)
	require.NoError(t, err)

	require.Len(t, orders, 1)
	assert.Equal(t, int64(9), orders[0].OrderID)
	assert.Equal(t, domain.PaymentBankTransfer, orders[0].PaymentMethod)
	assert.True(t, decimal.NewFromInt(50000).Equal(orders[0].TotalAmount.Amount))
}

func idr(amount int64) domain.Money {
	return domain.NewMoney(decimal.NewFromInt(amount), currency.IDR)
}
