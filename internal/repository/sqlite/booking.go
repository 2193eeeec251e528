package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/lovinghomes/site/internal/apperror"
	"github.com/lovinghomes/site/internal/model"
	"github.com/lovinghomes/site/internal/repository"
)

var _ repository.BookingRepository = (*DB)(nil)

// Create inserts a new booking inquiry.
//
// The ID (an xid: 20 chars, URL-safe, sortable by creation time) and
// CreatedAt are generated here and written back into the caller's struct.
func (db *DB) Create(ctx context.Context, inquiry *model.BookingInquiry) error {
	inquiry.ID = xid.New().String()
	inquiry.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO booking_inquiries
		   (id, client_name, phone, dog_name, breed_age, interest, dates, details, account_email, client_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inquiry.ID,
		inquiry.ClientName,
		inquiry.Phone,
		inquiry.DogName,
		inquiry.BreedAge,
		inquiry.Interest,
		inquiry.Dates,
		inquiry.Details,
		inquiry.AccountEmail,
		inquiry.ClientID,
		inquiry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating booking inquiry: %w", err)
	}

	return nil
}

// GetByID retrieves a single inquiry. Returns apperror.ErrNotFound when absent.
func (db *DB) GetByID(ctx context.Context, id string) (*model.BookingInquiry, error) {
	var b model.BookingInquiry

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, client_name, phone, dog_name, breed_age, interest, dates, details, account_email, client_id, created_at
		 FROM booking_inquiries
		 WHERE id = ?`,
		id,
	).Scan(
		&b.ID,
		&b.ClientName,
		&b.Phone,
		&b.DogName,
		&b.BreedAge,
		&b.Interest,
		&b.Dates,
		&b.Details,
		&b.AccountEmail,
		&b.ClientID,
		&b.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("booking inquiry", id)
		}
		return nil, fmt.Errorf("sqlite: getting booking inquiry %s: %w", id, err)
	}

	return &b, nil
}

// ListByEmail returns the inquiries attached to an account email, newest first.
func (db *DB) ListByEmail(ctx context.Context, email string, opts repository.ListOptions) ([]model.BookingInquiry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	// rowid breaks ties between inquiries created within the same clock tick.
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, client_name, phone, dog_name, breed_age, interest, dates, details, account_email, client_id, created_at
		 FROM booking_inquiries
		 WHERE account_email = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ? OFFSET ?`,
		email, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing booking inquiries: %w", err)
	}
	defer rows.Close()

	inquiries := make([]model.BookingInquiry, 0, limit)
	for rows.Next() {
		var b model.BookingInquiry
		if err := rows.Scan(
			&b.ID, &b.ClientName, &b.Phone, &b.DogName, &b.BreedAge,
			&b.Interest, &b.Dates, &b.Details, &b.AccountEmail, &b.ClientID, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning booking inquiry row: %w", err)
		}
		inquiries = append(inquiries, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating booking inquiries: %w", err)
	}

	return inquiries, nil
}
