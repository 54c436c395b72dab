package order

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercadero/storefront/internal/apperr"
)

type Repository interface {
	// Create persists the order, its lines and the initial history entry
	// in one transaction: an order never exists without its lines or
	// without its seeding "pending" record.
	Create(ctx context.Context, o *Order, lines []Line, initial HistoryEntry) error
	GetByID(ctx context.Context, id string) (*Detail, error)
	GetByNumber(ctx context.Context, number string) (*Detail, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error)
	List(ctx context.Context, limit, offset int) ([]Order, error)
	UpdateStatus(ctx context.Context, id, status, trackingNumber string) error
	AppendHistory(ctx context.Context, e HistoryEntry) error
	UpdateNotes(ctx context.Context, id, notes string) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const orderColumns = `
	id, order_number, user_id, total::text, status, payment_status, payment_method,
	ship_full_name, ship_address, ship_city, ship_state, ship_zip, ship_country,
	ship_phone_code, ship_phone, ship_email,
	COALESCE(tracking_number,''), COALESCE(notes,''), created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.Number, &o.UserID, &o.Total, &o.Status, &o.PaymentStatus, &o.PaymentMethod,
		&o.Shipping.FullName, &o.Shipping.Address, &o.Shipping.City, &o.Shipping.State,
		&o.Shipping.ZipCode, &o.Shipping.Country, &o.Shipping.PhoneCode, &o.Shipping.Phone,
		&o.Shipping.Email,
		&o.TrackingNumber, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PGRepo) Create(ctx context.Context, o *Order, lines []Line, initial HistoryEntry) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperr.Dependency("could not create order", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    INSERT INTO orders (
      id, order_number, user_id, total, status, payment_status, payment_method,
      ship_full_name, ship_address, ship_city, ship_state, ship_zip, ship_country,
      ship_phone_code, ship_phone, ship_email, tracking_number, notes,
      created_at, updated_at
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,NULLIF($17,''),NULLIF($18,''),NOW(),NOW())
  `, o.ID, o.Number, o.UserID, o.Total, o.Status, o.PaymentStatus, o.PaymentMethod,
		o.Shipping.FullName, o.Shipping.Address, o.Shipping.City, o.Shipping.State,
		o.Shipping.ZipCode, o.Shipping.Country, o.Shipping.PhoneCode, o.Shipping.Phone,
		o.Shipping.Email, o.TrackingNumber, o.Notes); err != nil {
		return apperr.Dependency("could not create order", err)
	}

	for _, ln := range lines {
		if _, err := tx.Exec(ctx, `
      INSERT INTO order_lines (id, order_id, product_id, name, unit_price, quantity, size, color, image_url)
      VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7,''),NULLIF($8,''),NULLIF($9,''))
    `, ln.ID, o.ID, ln.ProductID, ln.Name, ln.UnitPrice, ln.Quantity, ln.Size, ln.Color, ln.ImageURL); err != nil {
			return apperr.Dependency("could not create order lines", err)
		}
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO order_status_history (id, order_id, status, comment, updated_by, created_at)
    VALUES ($1,$2,$3,NULLIF($4,''),$5,NOW())
  `, initial.ID, o.ID, initial.Status, initial.Comment, initial.UpdatedBy); err != nil {
		return apperr.Dependency("could not seed order history", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Dependency("could not create order", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Detail, error) {
	return r.get(ctx, `WHERE id=$1`, id)
}

func (r *PGRepo) GetByNumber(ctx context.Context, number string) (*Detail, error) {
	return r.get(ctx, `WHERE order_number=$1`, number)
}

func (r *PGRepo) get(ctx context.Context, where, arg string) (*Detail, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Dependency("could not load order", err)
	}

	lines, err := r.getLines(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	history, err := r.getHistory(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return &Detail{Order: o, Lines: lines, History: history}, nil
}

func (r *PGRepo) getLines(ctx context.Context, orderID string) ([]Line, error) {
	rows, err := r.db.Query(ctx, `
    SELECT id, order_id, product_id, name, unit_price::text, quantity,
           COALESCE(size,''), COALESCE(color,''), COALESCE(image_url,'')
    FROM order_lines WHERE order_id=$1
  `, orderID)
	if err != nil {
		return nil, apperr.Dependency("could not load order lines", err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var ln Line
		if err := rows.Scan(&ln.ID, &ln.OrderID, &ln.ProductID, &ln.Name, &ln.UnitPrice,
			&ln.Quantity, &ln.Size, &ln.Color, &ln.ImageURL); err != nil {
			return nil, apperr.Dependency("could not load order lines", err)
		}
		lines = append(lines, ln)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Dependency("could not load order lines", err)
	}
	return lines, nil
}

func (r *PGRepo) getHistory(ctx context.Context, orderID string) ([]HistoryEntry, error) {
	rows, err := r.db.Query(ctx, `
    SELECT id, order_id, status, COALESCE(comment,''), updated_by, created_at
    FROM order_status_history WHERE order_id=$1
    ORDER BY created_at ASC
  `, orderID)
	if err != nil {
		return nil, apperr.Dependency("could not load order history", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Status, &e.Comment, &e.UpdatedBy, &e.CreatedAt); err != nil {
			return nil, apperr.Dependency("could not load order history", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Dependency("could not load order history", err)
	}
	return entries, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error) {
	return r.list(ctx, `WHERE user_id=$1`, []any{userID}, limit, offset)
}

func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Order, error) {
	return r.list(ctx, ``, nil, limit, offset)
}

func (r *PGRepo) list(ctx context.Context, where string, args []any, limit, offset int) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	n := len(args)
	query := `SELECT ` + orderColumns + ` FROM orders ` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Dependency("could not list orders", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, apperr.Dependency("could not list orders", err)
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Dependency("could not list orders", err)
	}
	return out, nil
}

// UpdateStatus sets the new status and, when trackingNumber is non-empty,
// the tracking number. The order number and creation data are immutable.
func (r *PGRepo) UpdateStatus(ctx context.Context, id, status, trackingNumber string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
    UPDATE orders
    SET status = $2,
        tracking_number = COALESCE(NULLIF($3,''), tracking_number),
        updated_at = NOW()
    WHERE id = $1
  `, id, status, trackingNumber)
	if err != nil {
		return apperr.Dependency("could not update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("order not found")
	}
	return nil
}

func (r *PGRepo) AppendHistory(ctx context.Context, e HistoryEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
    INSERT INTO order_status_history (id, order_id, status, comment, updated_by, created_at)
    VALUES ($1,$2,$3,NULLIF($4,''),$5,NOW())
  `, e.ID, e.OrderID, e.Status, e.Comment, e.UpdatedBy)
	if err != nil {
		return apperr.Dependency("could not append order history", err)
	}
	return nil
}

func (r *PGRepo) UpdateNotes(ctx context.Context, id, notes string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
    UPDATE orders SET notes = NULLIF($2,''), updated_at = NOW() WHERE id = $1
  `, id, notes)
	if err != nil {
		return apperr.Dependency("could not update order notes", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("order not found")
	}
	return nil
}
