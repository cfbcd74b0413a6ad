package user

//go:generate mockgen -destination=./service_mock_test.go -package=user -source=service.go Service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"finance-companion/internal/domain"

	"github.com/google/uuid"
)

// Service defines the interface for the profile business logic.
type Service interface {
	// GetProfile returns the user's profile or "profile not found".
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	// UpdateProfile creates or replaces the user's name and avatar.
	UpdateProfile(ctx context.Context, userID uuid.UUID, fullName, avatarURL string) (*domain.Profile, error)
}

// service is the concrete implementation of the Service interface.
type service struct {
	repo Repository
}

// NewService is the constructor for the service injecting the repository.
func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

// GetProfile is a simple pass through to the repository.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

// UpdateProfile trims the name and only accepts absolute http(s) avatar URLs.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, fullName, avatarURL string) (*domain.Profile, error) {
	avatarURL = strings.TrimSpace(avatarURL)
	if avatarURL != "" {
		u, err := url.Parse(avatarURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("invalid avatar url")
		}
	}

	profile := &domain.Profile{
		UserID:    userID,
		FullName:  strings.TrimSpace(fullName),
		AvatarURL: avatarURL,
	}
	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("service could not update profile: %w", err)
	}
	return profile, nil
}
