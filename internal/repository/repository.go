package repository

import (
	"context"

	"github.com/lovinghomes/site/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

// BookingRepository persists booking inquiries.
type BookingRepository interface {
	Create(ctx context.Context, inquiry *model.BookingInquiry) error
	GetByID(ctx context.Context, id string) (*model.BookingInquiry, error)
	ListByEmail(ctx context.Context, email string, opts ListOptions) ([]model.BookingInquiry, error)
}
