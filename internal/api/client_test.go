package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qoyupos/internal/catalog"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second), srv
}

func TestSocketURL(t *testing.T) {
	c := New("http://localhost:8000/", time.Second)
	assert.Equal(t, "ws://localhost:8000/orders/ws", c.SocketURL("/orders/ws"))

	c = New("https://pos.example.kz", time.Second)
	assert.Equal(t, "wss://pos.example.kz/dashboard/ws", c.SocketURL("/dashboard/ws"))
}

func TestLoginFallsBackToFormEndpoint(t *testing.T) {
	var jsonTried, formTried bool
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			jsonTried = true
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Not Found"})
		case "/auth/token":
			formTried = true
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "77001234567", r.PostForm.Get("username"))
			assert.Equal(t, "secret", r.PostForm.Get("password"))
			json.NewEncoder(w).Encode(map[string]string{"access_token": "x"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	err := c.Login(context.Background(), "77001234567", "secret")
	require.NoError(t, err)
	assert.True(t, jsonTried)
	assert.True(t, formTried)
}

func TestLoginSurfacesFirstError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})
		case "/auth/token":
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"detail": "boom"})
		}
	}))

	err := c.Login(context.Background(), "123", "bad")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", Message(err))
	assert.True(t, IsUnauthorized(err))
}

func TestSessionCookieCarriesAcrossRequests(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "tok", Path: "/"})
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok"})
		case "/auth/me":
			cookie, err := r.Cookie("access_token")
			if err != nil || cookie.Value != "tok" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "no session"})
				return
			}
			json.NewEncoder(w).Encode(catalog.User{ID: 1, Name: "Аружан", Phone: "77001234567", Role: catalog.RoleAdmin})
		}
	}))

	require.NoError(t, c.Login(context.Background(), "77001234567", "secret"))

	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Аружан", user.Name)
	assert.True(t, user.IsAdmin())
}

func TestSubmitOrderPayload(t *testing.T) {
	var got OrderIn
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(catalog.Order{ID: 12, CustomerName: got.CustomerName, Total: 1520})
	}))

	base := catalog.Money(1120)
	order, err := c.SubmitOrder(context.Background(), OrderIn{
		CustomerName: "Гость",
		TakeAway:     true,
		Items: []OrderItemIn{{
			ProductID:     7,
			Quantity:      2,
			OptionItemIDs: []int64{11, 20},
			UnitPriceBase: &base,
			NameSuffix:    " [-20%]",
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), order.ID)

	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(7), got.Items[0].ProductID)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, []int64{11, 20}, got.Items[0].OptionItemIDs)
	require.NotNil(t, got.Items[0].UnitPriceBase)
	assert.Equal(t, catalog.Money(1120), *got.Items[0].UnitPriceBase)
	assert.Equal(t, " [-20%]", got.Items[0].NameSuffix)
}

func TestProductsByCategoryDecodesFloats(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Кофе":[{"id":7,"name":"Латте","price":1500.0}],"Десерты":[{"id":9,"name":"Чизкейк","price":2100.0}]}`))
	}))

	menu, err := c.ProductsByCategory(context.Background())
	require.NoError(t, err)
	require.Len(t, menu, 2)
	assert.Equal(t, catalog.Money(1500), menu["Кофе"][0].Price)
}

func TestProductUpsertForm(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/products/7", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Латте", r.PostForm.Get("name"))
		assert.Equal(t, "1500", r.PostForm.Get("base_price"))
		assert.Equal(t, "Кофе", r.PostForm.Get("category_name"))
		assert.Equal(t, "1,3", r.PostForm.Get("option_group_ids"))
		json.NewEncoder(w).Encode(catalog.ProductInfo{ID: 7, Name: "Латте", BasePrice: 1500})
	}))

	_, err := c.UpdateProduct(context.Background(), 7, ProductUpsert{
		Name:           "Латте",
		BasePrice:      1500,
		CategoryName:   "Кофе",
		OptionGroupIDs: []int64{1, 3},
	})
	require.NoError(t, err)
}

func TestCloseOrder(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/orders/42/close", r.URL.Path)
		json.NewEncoder(w).Encode(catalog.Order{ID: 42, Status: catalog.OrderClosed})
	}))

	order, err := c.CloseOrder(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, catalog.OrderClosed, order.Status)
}
