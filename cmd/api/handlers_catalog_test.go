package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/mercadero/storefront/internal/apperr"
	"github.com/mercadero/storefront/internal/cart"
	"github.com/mercadero/storefront/internal/product"
	"github.com/mercadero/storefront/internal/review"
	"github.com/mercadero/storefront/internal/user"
)

// stubReviews implements review.Repository with the one-per-user rule.
type stubReviews struct {
	mu      sync.Mutex
	reviews map[string]*review.Review
}

func newStubReviews() *stubReviews { return &stubReviews{reviews: map[string]*review.Review{}} }

func (s *stubReviews) Create(_ context.Context, rv *review.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.reviews {
		if existing.ProductID == rv.ProductID && existing.UserID == rv.UserID {
			return apperr.Conflict("you have already reviewed this product")
		}
	}
	cp := *rv
	s.reviews[rv.ID] = &cp
	return nil
}

func (s *stubReviews) ListByProduct(_ context.Context, productID string, _, _ int) ([]review.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []review.Review
	for _, rv := range s.reviews {
		if rv.ProductID == productID {
			out = append(out, *rv)
		}
	}
	return out, nil
}

func (s *stubReviews) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.reviews[id]
	delete(s.reviews, id)
	return ok, nil
}

func TestCartRoundTrip(t *testing.T) {
	products := newStubProducts(
		&product.Product{ID: "p1", Name: "Mug", Price: "10.00", Stock: 5, ImageURL: "https://img/mug.png"},
	)
	e := newEnv(t, products, newStubUsers(customer))
	tok := e.token(t, customer)

	// add
	w := e.do(http.MethodPut, "/cart/items", tok,
		map[string]any{"product_id": "p1", "quantity": 2, "size": "L"})
	if w.Code != http.StatusOK {
		t.Fatalf("put: status=%d body=%s", w.Code, w.Body.String())
	}
	var it cart.Item
	_ = json.Unmarshal(w.Body.Bytes(), &it)
	if it.Name != "Mug" || it.Price != "10.00" || it.Quantity != 2 {
		t.Fatalf("item=%+v", it)
	}

	// read back
	w = e.do(http.MethodGet, "/cart", tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status=%d", w.Code)
	}
	var items []cart.Item
	_ = json.Unmarshal(w.Body.Bytes(), &items)
	if len(items) != 1 {
		t.Fatalf("items=%d", len(items))
	}

	// remove by variant key
	w = e.do(http.MethodDelete, "/cart/items/"+items[0].Key(), tok, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: status=%d", w.Code)
	}
	w = e.do(http.MethodDelete, "/cart/items/"+items[0].Key(), tok, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("delete twice: status=%d", w.Code)
	}
}

func TestPutCartItem_Validation(t *testing.T) {
	e := newEnv(t, newStubProducts(), newStubUsers(customer))
	tok := e.token(t, customer)

	for name, body := range map[string]map[string]any{
		"missing product": {"quantity": 1},
		"zero quantity":   {"product_id": "p1", "quantity": 0},
	} {
		w := e.do(http.MethodPut, "/cart/items", tok, body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status=%d", name, w.Code)
		}
	}

	// unknown product is a lookup failure, not a validation one
	w := e.do(http.MethodPut, "/cart/items", tok, map[string]any{"product_id": "nope", "quantity": 1})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown product: status=%d", w.Code)
	}
}

func TestClearCart(t *testing.T) {
	products := newStubProducts(&product.Product{ID: "p1", Name: "Mug", Price: "10.00", Stock: 5})
	e := newEnv(t, products, newStubUsers(customer))
	tok := e.token(t, customer)

	e.do(http.MethodPut, "/cart/items", tok, map[string]any{"product_id": "p1", "quantity": 1})
	if w := e.do(http.MethodDelete, "/cart", tok, nil); w.Code != http.StatusNoContent {
		t.Fatalf("clear: status=%d", w.Code)
	}
	w := e.do(http.MethodGet, "/cart", tok, nil)
	var items []cart.Item
	_ = json.Unmarshal(w.Body.Bytes(), &items)
	if len(items) != 0 {
		t.Fatalf("cart not empty after clear: %+v", items)
	}
}

func TestCreateReview_OnePerUser(t *testing.T) {
	products := newStubProducts(&product.Product{ID: "p1", Name: "Mug", Price: "10.00", Stock: 5})
	e := newEnv(t, products, newStubUsers(customer))
	tok := e.token(t, customer)

	w := e.do(http.MethodPost, "/products/p1/reviews", tok,
		map[string]any{"rating": 5, "comment": "great mug"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status=%d body=%s", w.Code, w.Body.String())
	}

	// second review for the same product conflicts
	w = e.do(http.MethodPost, "/products/p1/reviews", tok, map[string]any{"rating": 1})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate: status=%d", w.Code)
	}

	// listing is public
	w = e.do(http.MethodGet, "/products/p1/reviews", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status=%d", w.Code)
	}
	var out []review.Review
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if len(out) != 1 || out[0].Rating != 5 {
		t.Fatalf("reviews=%+v", out)
	}
}

func TestCreateReview_Validation(t *testing.T) {
	products := newStubProducts(&product.Product{ID: "p1", Name: "Mug", Price: "10.00", Stock: 5})
	e := newEnv(t, products, newStubUsers(customer))
	tok := e.token(t, customer)

	for _, rating := range []int{0, 6} {
		w := e.do(http.MethodPost, "/products/p1/reviews", tok, map[string]any{"rating": rating})
		if w.Code != http.StatusBadRequest {
			t.Errorf("rating %d: status=%d", rating, w.Code)
		}
	}
	w := e.do(http.MethodPost, "/products/nope/reviews", tok, map[string]any{"rating": 3})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown product: status=%d", w.Code)
	}
}

func TestDeleteReview_AdminOnly(t *testing.T) {
	products := newStubProducts(&product.Product{ID: "p1", Name: "Mug", Price: "10.00", Stock: 5})
	e := newEnv(t, products, newStubUsers(customer, admin))

	w := e.do(http.MethodPost, "/products/p1/reviews", e.token(t, customer), map[string]any{"rating": 4})
	var rv review.Review
	_ = json.Unmarshal(w.Body.Bytes(), &rv)

	if w := e.do(http.MethodDelete, "/admin/reviews/"+rv.ID, e.token(t, customer), nil); w.Code != http.StatusForbidden {
		t.Fatalf("customer delete: status=%d", w.Code)
	}
	if w := e.do(http.MethodDelete, "/admin/reviews/"+rv.ID, e.token(t, admin), nil); w.Code != http.StatusNoContent {
		t.Fatalf("admin delete: status=%d", w.Code)
	}
	if w := e.do(http.MethodDelete, "/admin/reviews/"+uuid.NewString(), e.token(t, admin), nil); w.Code != http.StatusNotFound {
		t.Fatalf("delete missing: status=%d", w.Code)
	}
}

func TestAdminProductLifecycle(t *testing.T) {
	e := newEnv(t, newStubProducts(), newStubUsers(customer, admin))
	adminTok := e.token(t, admin)

	// customers cannot create products
	if w := e.do(http.MethodPost, "/admin/products", e.token(t, customer),
		map[string]any{"name": "Lamp", "price": "39.90"}); w.Code != http.StatusForbidden {
		t.Fatalf("customer create: status=%d", w.Code)
	}

	w := e.do(http.MethodPost, "/admin/products", adminTok,
		map[string]any{"name": "Lamp", "description": "warm light", "price": "39.90", "stock": 7, "category": "home"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status=%d body=%s", w.Code, w.Body.String())
	}
	var p product.Product
	_ = json.Unmarshal(w.Body.Bytes(), &p)
	if p.ID == "" || p.Price != "39.90" {
		t.Fatalf("product=%+v", p)
	}

	// public read
	if w := e.do(http.MethodGet, "/products/"+p.ID, "", nil); w.Code != http.StatusOK {
		t.Fatalf("get: status=%d", w.Code)
	}

	if w := e.do(http.MethodDelete, "/admin/products/"+p.ID, adminTok, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete: status=%d", w.Code)
	}
	if w := e.do(http.MethodGet, "/products/"+p.ID, "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status=%d", w.Code)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t, newStubProducts(), newStubUsers())

	w := e.do(http.MethodPost, "/auth/register", "",
		map[string]any{"username": "carla", "email": "carla@example.com", "password": "s3cret-pw"})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status=%d body=%s", w.Code, w.Body.String())
	}
	var created user.User
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.Role != user.RoleCustomer {
		t.Fatalf("role=%q", created.Role)
	}

	// duplicate email
	w = e.do(http.MethodPost, "/auth/register", "",
		map[string]any{"username": "carla2", "email": "carla@example.com", "password": "s3cret-pw"})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: status=%d", w.Code)
	}

	w = e.do(http.MethodPost, "/auth/login", "",
		map[string]any{"email": "carla@example.com", "password": "s3cret-pw"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: status=%d body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Token == "" {
		t.Fatal("login returned no token")
	}

	// the token works against an authenticated route
	if w := e.do(http.MethodGet, "/auth/me", out.Token, nil); w.Code != http.StatusOK {
		t.Fatalf("me: status=%d", w.Code)
	}

	// wrong password
	w = e.do(http.MethodPost, "/auth/login", "",
		map[string]any{"email": "carla@example.com", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: status=%d", w.Code)
	}
}
