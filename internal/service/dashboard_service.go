package service

import (
	"context"
	"time"

	"inventaris/internal/model"
	"inventaris/internal/repository"
)

// DashboardResponse bundles the headline stats with role-scoped recent
// activity: managers see the latest receipts/dispatches/requests across
// the organization, plain users only their own requests.
type DashboardResponse struct {
	Stats      repository.DashboardStats `json:"stats"`
	Activities DashboardActivities       `json:"activities"`
}

type DashboardActivities struct {
	Incoming []model.IncomingItem `json:"incoming,omitempty"`
	Outgoing []model.OutgoingItem `json:"outgoing,omitempty"`
	Requests []model.ItemRequest  `json:"requests"`
}

const (
	managerActivityLimit = 5
	userActivityLimit    = 10
)

type DashboardService interface {
	GetDashboard(ctx context.Context, caller model.AuthUser) (*DashboardResponse, error)
}

type dashboardService struct {
	dashboardRepo repository.DashboardRepository
}

func NewDashboardService(dashboardRepo repository.DashboardRepository) DashboardService {
	return &dashboardService{dashboardRepo: dashboardRepo}
}

func (s *dashboardService) GetDashboard(ctx context.Context, caller model.AuthUser) (*DashboardResponse, error) {
	stats, err := s.dashboardRepo.GetStats(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	res := &DashboardResponse{Stats: stats}

	if caller.CanManageInventory() {
		if res.Activities.Incoming, err = s.dashboardRepo.RecentReceipts(ctx, managerActivityLimit); err != nil {
			return nil, err
		}
		if res.Activities.Outgoing, err = s.dashboardRepo.RecentDispatches(ctx, managerActivityLimit); err != nil {
			return nil, err
		}
		if res.Activities.Requests, err = s.dashboardRepo.RecentRequests(ctx, 0, managerActivityLimit); err != nil {
			return nil, err
		}
	} else {
		if res.Activities.Requests, err = s.dashboardRepo.RecentRequests(ctx, caller.ID, userActivityLimit); err != nil {
			return nil, err
		}
	}

	return res, nil
}
