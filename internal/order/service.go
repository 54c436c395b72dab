// Package order implements the order lifecycle: creation with stock
// adjustment and history seeding, administrative status transitions with
// subscriber broadcast, and the public tracking lookup.
package order

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercadero/storefront/internal/apperr"
	"github.com/mercadero/storefront/internal/user"
)

// StockAdjuster decrements product stock atomically. ok is false when the
// product is missing or short on stock; that is not an error for order
// creation, which is best effort by design.
type StockAdjuster interface {
	DecrementStock(ctx context.Context, productID string, qty int) (bool, error)
}

// Notifier dispatches customer and operator email. Implementations must be
// fire-and-forget: they return immediately and log their own failures.
type Notifier interface {
	OrderPlaced(o *Order, lines []Line)
	StatusChanged(o *Order, entry HistoryEntry)
}

// Broadcaster fans a status event out to currently-connected tracking
// subscribers. At-most-once, no replay.
type Broadcaster interface {
	Publish(topic string, msg any) int
}

// UserDirectory resolves order owners for the tracking lookup.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

type Service struct {
	repo  Repository
	stock StockAdjuster
	users UserDirectory

	notifier  Notifier
	broadcast Broadcaster
	log       *slog.Logger
}

func NewService(repo Repository, stock StockAdjuster, users UserDirectory, notifier Notifier, broadcast Broadcaster, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, stock: stock, users: users, notifier: notifier, broadcast: broadcast, log: log}
}

func validateAddress(a Address) error {
	fields := []struct{ name, value string }{
		{"address", a.Address},
		{"city", a.City},
		{"state", a.State},
		{"zipCode", a.ZipCode},
		{"country", a.Country},
		{"phoneCode", a.PhoneCode},
		{"phone", a.Phone},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return apperr.Validation("shipping address is missing %s", f.name)
		}
	}
	return nil
}

// Create validates the checkout payload and persists the order, its lines
// and the initial pending history entry in one transaction. Stock is then
// decremented best-effort per line, and confirmation email is dispatched
// asynchronously; neither can fail the already-persisted order.
func (s *Service) Create(ctx context.Context, userID string, req *CreateOrderRequest) (*Detail, error) {
	if len(req.Items) == 0 {
		return nil, apperr.Validation("at least one item is required")
	}
	if err := validateAddress(req.ShippingAddress); err != nil {
		return nil, err
	}
	total, err := req.TotalAmount.Decimal()
	if err != nil {
		return nil, err
	}
	if !total.IsPositive() {
		return nil, apperr.Validation("total amount must be greater than zero")
	}

	o := &Order{
		ID:     uuid.NewString(),
		Number: NewNumber(),
		UserID: userID,
		Total:  total.StringFixed(2),
		Status: StatusPending,
		// Payment is assumed to have succeeded upstream; this backend does
		// not process payments.
		PaymentStatus: PaymentCompleted,
		PaymentMethod: req.PaymentMethod,
		Shipping:      req.ShippingAddress,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}

	lines := make([]Line, 0, len(req.Items))
	for i, it := range req.Items {
		if it.ID == "" {
			return nil, apperr.Validation("items[%d]: product id is required", i)
		}
		if it.Quantity <= 0 {
			return nil, apperr.Validation("items[%d]: quantity must be positive", i)
		}
		price, err := it.Price.Decimal()
		if err != nil {
			return nil, apperr.Validation("items[%d]: invalid price %q", i, string(it.Price))
		}
		if price.Cmp(decimal.Zero) < 0 {
			return nil, apperr.Validation("items[%d]: price must not be negative", i)
		}
		lines = append(lines, Line{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			ProductID: it.ID,
			Name:      it.Name,
			UnitPrice: price.StringFixed(2),
			Quantity:  it.Quantity,
			Size:      it.SelectedSize,
			Color:     it.SelectedColor,
			ImageURL:  it.Image,
		})
	}

	initial := HistoryEntry{
		ID:        uuid.NewString(),
		OrderID:   o.ID,
		Status:    StatusPending,
		Comment:   "order placed",
		CreatedAt: o.CreatedAt,
	}

	if err := s.repo.Create(ctx, o, lines, initial); err != nil {
		return nil, err
	}

	// Best-effort stock adjustment. A short or missing product is skipped
	// silently; the order stands either way.
	for _, ln := range lines {
		ok, err := s.stock.DecrementStock(ctx, ln.ProductID, ln.Quantity)
		if err != nil {
			s.log.Warn("stock decrement failed", "order", o.Number, "product", ln.ProductID, "error", err)
			continue
		}
		if !ok {
			s.log.Info("stock decrement skipped, insufficient stock", "order", o.Number, "product", ln.ProductID, "qty", ln.Quantity)
		}
	}

	s.notifier.OrderPlaced(o, lines)

	return &Detail{Order: o, Lines: lines, History: []HistoryEntry{initial}}, nil
}

// Transition applies an administrative status change: update the row,
// append a history entry, broadcast to tracking subscribers and optionally
// email the customer. Any status may follow any other.
func (s *Service) Transition(ctx context.Context, orderID string, req *UpdateStatusRequest, actorID, actorName string) (*Order, error) {
	if !ValidStatus(req.Status) {
		return nil, apperr.Validation("unknown status %q", req.Status)
	}

	detail, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o := detail.Order

	if err := s.repo.UpdateStatus(ctx, o.ID, req.Status, req.TrackingNumber); err != nil {
		return nil, err
	}

	entry := HistoryEntry{
		ID:        uuid.NewString(),
		OrderID:   o.ID,
		Status:    req.Status,
		Comment:   req.Comment,
		UpdatedBy: &actorID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.AppendHistory(ctx, entry); err != nil {
		return nil, err
	}

	o.Status = req.Status
	if req.TrackingNumber != "" {
		o.TrackingNumber = req.TrackingNumber
	}
	o.UpdatedAt = entry.CreatedAt

	delivered := s.broadcast.Publish(o.ID, StatusEvent{
		OrderID:        o.ID,
		OrderNumber:    o.Number,
		Status:         o.Status,
		Comment:        req.Comment,
		TrackingNumber: o.TrackingNumber,
		Timestamp:      entry.CreatedAt,
		Actor:          actorName,
	})
	s.log.Debug("status event broadcast", "order", o.Number, "status", o.Status, "subscribers", delivered)

	if req.NotifyCustomer == nil || *req.NotifyCustomer {
		s.notifier.StatusChanged(o, entry)
	}

	return o, nil
}

// Track is the public, unauthenticated lookup by order number and email.
// The email must match the owning account case-insensitively; a mismatch
// is forbidden, distinct from an unknown order number.
func (s *Service) Track(ctx context.Context, number, email string) (*Detail, error) {
	if strings.TrimSpace(email) == "" {
		return nil, apperr.Validation("email is required")
	}
	detail, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	owner, err := s.users.GetByID(ctx, detail.Order.UserID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Forbidden("email does not match this order")
		}
		return nil, err
	}
	if !strings.EqualFold(owner.Email, email) {
		return nil, apperr.Forbidden("email does not match this order")
	}

	// The store already orders history ascending; re-assert here so the
	// contract does not depend on the backend's native ordering.
	sort.SliceStable(detail.History, func(i, j int) bool {
		return detail.History[i].CreatedAt.Before(detail.History[j].CreatedAt)
	})
	return detail, nil
}

// Get returns an order with lines and history, for the owner or an admin.
func (s *Service) Get(ctx context.Context, orderID string) (*Detail, error) {
	return s.repo.GetByID(ctx, orderID)
}

func (s *Service) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Order, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) UpdateNotes(ctx context.Context, orderID, notes string) error {
	return s.repo.UpdateNotes(ctx, orderID, notes)
}
