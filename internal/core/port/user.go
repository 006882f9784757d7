package port

import (
	"context"

	"todoapi/internal/core/domain"
)

type UserService interface {
	Create(ctx context.Context, payload domain.CreateUser) (domain.User, error)
}
