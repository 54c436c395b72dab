package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mercadero/storefront/internal/order"
)

// Notifier implements order.Notifier: it resolves the customer address
// and dispatches email on background tasks. The owner lookup also runs
// off the request path.
type Notifier struct {
	mailer     Mailer
	dispatcher *Dispatcher
	users      order.UserDirectory

	from     string
	operator string
	log      *slog.Logger
}

func NewNotifier(mailer Mailer, dispatcher *Dispatcher, users order.UserDirectory, from, operator string, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{mailer: mailer, dispatcher: dispatcher, users: users, from: from, operator: operator, log: log}
}

// customerEmail prefers the address given at checkout, falling back to
// the owning account.
func (n *Notifier) customerEmail(ctx context.Context, o *order.Order) (string, error) {
	if o.Shipping.Email != "" {
		return o.Shipping.Email, nil
	}
	u, err := n.users.GetByID(ctx, o.UserID)
	if err != nil {
		return "", fmt.Errorf("resolving order owner: %w", err)
	}
	return u.Email, nil
}

func (n *Notifier) OrderPlaced(o *order.Order, lines []order.Line) {
	n.dispatcher.Go("order-confirmation", func(ctx context.Context) error {
		to, err := n.customerEmail(ctx, o)
		if err != nil {
			return err
		}
		html, err := renderConfirmation(o, lines)
		if err != nil {
			return err
		}
		id, err := n.mailer.Send(ctx, Email{
			From:    n.from,
			To:      to,
			ReplyTo: n.operator,
			Subject: fmt.Sprintf("Order %s confirmed", o.Number),
			HTML:    html,
		})
		if err != nil {
			return fmt.Errorf("sending confirmation for %s: %w", o.Number, err)
		}
		n.log.Info("confirmation email sent", "order", o.Number, "delivery_id", id)
		return nil
	})

	n.dispatcher.Go("operator-alert", func(ctx context.Context) error {
		html, err := renderOperator(o, lines)
		if err != nil {
			return err
		}
		_, err = n.mailer.Send(ctx, Email{
			From:    n.from,
			To:      n.operator,
			Subject: fmt.Sprintf("New order %s", o.Number),
			HTML:    html,
		})
		return err
	})
}

func (n *Notifier) StatusChanged(o *order.Order, entry order.HistoryEntry) {
	n.dispatcher.Go("status-update", func(ctx context.Context) error {
		to, err := n.customerEmail(ctx, o)
		if err != nil {
			return err
		}
		html, err := renderStatus(o, entry)
		if err != nil {
			return err
		}
		id, err := n.mailer.Send(ctx, Email{
			From:    n.from,
			To:      to,
			ReplyTo: n.operator,
			Subject: fmt.Sprintf("Order %s is %s", o.Number, entry.Status),
			HTML:    html,
		})
		if err != nil {
			return fmt.Errorf("sending status update for %s: %w", o.Number, err)
		}
		n.log.Info("status email sent", "order", o.Number, "status", entry.Status, "delivery_id", id)
		return nil
	})
}
