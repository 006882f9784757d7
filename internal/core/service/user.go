package service

import (
	"context"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	"todoapi/internal/core/telemetry"
)

// UserService backs the demo users endpoint. Nothing is persisted.
type UserService struct {
	metrics *telemetry.AppMetrics
}

func NewUserService(metrics *telemetry.AppMetrics) port.UserService {
	return &UserService{metrics: metrics}
}

func (us *UserService) Create(ctx context.Context, payload domain.CreateUser) (domain.User, error) {
	if us.metrics != nil {
		us.metrics.RecordUserOperation(ctx, "create")
	}

	return domain.NewUser(payload), nil
}
