package service

import (
	"context"
	"fmt"

	"github.com/mordensafety/admin-console/internal/core/domain"
	"github.com/mordensafety/admin-console/internal/core/ports"
)

type AdminService struct {
	gateway ports.Gateway
}

var _ ports.AdminService = (*AdminService)(nil)

func NewAdminService(gateway ports.Gateway) *AdminService {
	return &AdminService{gateway: gateway}
}

func (s *AdminService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	var out domain.DashboardStats
	if err := getJSON(ctx, s.gateway, "/api/admin/stats", nil, &out); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &out, nil
}

func (s *AdminService) Users(ctx context.Context) ([]domain.User, error) {
	var out struct {
		Users []domain.User `json:"users"`
	}
	if err := getJSON(ctx, s.gateway, "/api/admin/users", nil, &out); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out.Users, nil
}
