package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/BYJDG/byjudge-main1/internal/store/data"
)

type TrackingRepository interface {
	TrackOrder(ctx context.Context, orderNumber string) (data.TrackedOrder, error)
}

// Tracking serves the public, unauthenticated order lookup.
type Tracking struct {
	repository TrackingRepository
}

func NewTracking(repository TrackingRepository) *Tracking {
	return &Tracking{
		repository: repository,
	}
}

func (t *Tracking) Track(ctx context.Context, orderNumber string) (data.TrackedOrder, error) {
	tracked, err := t.repository.TrackOrder(ctx, orderNumber)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrNotFound):
			return data.TrackedOrder{}, ErrOrderNotFound
		default:
			return data.TrackedOrder{}, fmt.Errorf("error tracking order: %w", err)
		}
	}
	return tracked, nil
}
