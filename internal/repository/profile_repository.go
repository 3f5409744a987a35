package repository

import (
	"context"

	"github.com/vytor/menuflash/internal/models"
)

// ProfileRepository handles the singleton user profile
type ProfileRepository interface {
	// Get returns nil, nil before the profile is first saved.
	Get(ctx context.Context) (*models.UserProfile, error)
	Save(ctx context.Context, profile models.UserProfile) error
}
