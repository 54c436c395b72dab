package order

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mercadero/storefront/internal/apperr"
)

// Money accepts either a JSON number or a formatted string such as
// "$19.90"; storefront clients send both.
type Money string

func (m *Money) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = Money(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*m = Money(n.String())
	return nil
}

// Decimal parses the amount, tolerating a leading currency symbol and
// thousands separators.
func (m Money) Decimal() (decimal.Decimal, error) {
	s := strings.TrimSpace(string(m))
	s = strings.TrimLeft(s, "$€£ ")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, apperr.Validation("amount is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperr.Validation("invalid amount %q", string(m))
	}
	return d, nil
}

// CreateOrderItem is one line of the checkout payload.
// swagger:model CreateOrderItem
type CreateOrderItem struct {
	ID            string `json:"id" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Name          string `json:"name" example:"Mechanical Keyboard"`
	Price         Money  `json:"price" example:"199.90"`
	Quantity      int    `json:"quantity" example:"2"`
	SelectedSize  string `json:"selectedSize,omitempty"`
	SelectedColor string `json:"selectedColor,omitempty"`
	Image         string `json:"image,omitempty"`
}

// CreateOrderRequest is the checkout payload.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	Items           []CreateOrderItem `json:"items"`
	ShippingAddress Address           `json:"shipping_address"`
	PaymentMethod   string            `json:"payment_method" example:"card"`
	Subtotal        Money             `json:"subtotal"`
	ShippingCost    Money             `json:"shipping_cost"`
	Tax             Money             `json:"tax"`
	TotalAmount     Money             `json:"total_amount"`
}

// UpdateStatusRequest is the administrative transition payload.
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Status         string `json:"status" example:"shipped"`
	Comment        string `json:"comment,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	// NotifyCustomer defaults to true when omitted.
	NotifyCustomer *bool `json:"notify_customer,omitempty"`
}

// Detail is an order with its lines and ascending status history.
// swagger:model OrderDetail
type Detail struct {
	Order   *Order         `json:"order"`
	Lines   []Line         `json:"items"`
	History []HistoryEntry `json:"status_history"`
}
