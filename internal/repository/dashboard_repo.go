package repository

import (
	"context"
	"time"

	"inventaris/internal/model"

	"gorm.io/gorm"
)

// DashboardStats are the headline counters shown on the dashboard.
type DashboardStats struct {
	TotalItems         int64 `json:"total_items"`
	TotalStock         int64 `json:"total_stock"`
	IncomingItemsToday int64 `json:"incoming_items_today"`
	OutgoingItemsToday int64 `json:"outgoing_items_today"`
	PendingRequests    int64 `json:"pending_requests"`
	TotalUsers         int64 `json:"total_users"`
}

type DashboardRepository interface {
	GetStats(ctx context.Context, now time.Time) (DashboardStats, error)
	RecentReceipts(ctx context.Context, limit int) ([]model.IncomingItem, error)
	RecentDispatches(ctx context.Context, limit int) ([]model.OutgoingItem, error)
	RecentRequests(ctx context.Context, userID uint, limit int) ([]model.ItemRequest, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) GetStats(ctx context.Context, now time.Time) (DashboardStats, error) {
	var stats DashboardStats
	db := GetDB(ctx, r.db)

	if err := db.Model(&model.Item{}).Count(&stats.TotalItems).Error; err != nil {
		return stats, err
	}

	var totalStock struct{ Total int64 }
	if err := db.Model(&model.Item{}).
		Select("COALESCE(SUM(stock_quantity), 0) as total").
		Scan(&totalStock).Error; err != nil {
		return stats, err
	}
	stats.TotalStock = totalStock.Total

	today := now.Format("2006-01-02")
	if err := db.Model(&model.IncomingItem{}).
		Where("created_at::date = ?", today).Count(&stats.IncomingItemsToday).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&model.OutgoingItem{}).
		Where("created_at::date = ?", today).Count(&stats.OutgoingItemsToday).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&model.ItemRequest{}).
		Where("status = ?", model.RequestPending).Count(&stats.PendingRequests).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&model.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return stats, err
	}

	return stats, nil
}

func (r *dashboardRepository) RecentReceipts(ctx context.Context, limit int) ([]model.IncomingItem, error) {
	var receipts []model.IncomingItem
	err := GetDB(ctx, r.db).Preload("Item").Preload("Creator").
		Order("created_at desc").Limit(limit).Find(&receipts).Error
	return receipts, err
}

func (r *dashboardRepository) RecentDispatches(ctx context.Context, limit int) ([]model.OutgoingItem, error) {
	var dispatches []model.OutgoingItem
	err := GetDB(ctx, r.db).Preload("Item").Preload("Creator").
		Order("created_at desc").Limit(limit).Find(&dispatches).Error
	return dispatches, err
}

func (r *dashboardRepository) RecentRequests(ctx context.Context, userID uint, limit int) ([]model.ItemRequest, error) {
	var requests []model.ItemRequest
	db := GetDB(ctx, r.db).Preload("Item").Preload("User").Preload("Approver")
	if userID != 0 {
		db = db.Where("user_id = ?", userID)
	}
	err := db.Order("created_at desc").Limit(limit).Find(&requests).Error
	return requests, err
}
