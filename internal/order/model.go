package order

import "time"

// Order status values. The transition graph is deliberately permissive:
// any status may follow any other, including moving backward. Subscribers
// and the status history record whatever sequence the store staff applied.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

const (
	PaymentCompleted = "completed"
)

// Address is the structured shipping destination captured at checkout.
type Address struct {
	FullName string `json:"fullName,omitempty"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
	PhoneCode string `json:"phoneCode"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
}

type Order struct {
	ID     string `json:"id"`
	Number string `json:"order_number"`
	UserID string `json:"user_id"`
	// NUMERIC -> string
	Total          string    `json:"total"`
	Status         string    `json:"status"`
	PaymentStatus  string    `json:"payment_status"`
	PaymentMethod  string    `json:"payment_method"`
	Shipping       Address   `json:"shipping_address"`
	TrackingNumber string    `json:"tracking_number,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Line is one purchased item. Product name, price and image are copied at
// the time of purchase so the line survives product edits and deletion.
type Line struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	// NUMERIC -> string
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

// HistoryEntry is one row of the append-only status log. UpdatedBy is nil
// for system-generated entries such as the initial pending record.
type HistoryEntry struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	Comment   string    `json:"comment,omitempty"`
	UpdatedBy *string   `json:"updated_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StatusEvent is the payload broadcast to tracking subscribers on a
// status transition.
type StatusEvent struct {
	OrderID        string    `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
	Status         string    `json:"status"`
	Comment        string    `json:"comment,omitempty"`
	TrackingNumber string    `json:"tracking_number,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	Actor          string    `json:"actor,omitempty"`
}
