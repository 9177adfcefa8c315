package services

import (
	"context"

	"stayhaven/domain"
)

type UserService interface {
	GetUserByID(id string, ctx context.Context) (*domain.User, error)
	UpdateProfile(id string, update *domain.ProfileUpdate, ctx context.Context) (*domain.User, error)
}
