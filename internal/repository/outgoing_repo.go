package repository

import (
	"context"

	"inventaris/internal/model"

	"gorm.io/gorm"
)

// DispatchFilter narrows dispatch listings.
type DispatchFilter struct {
	Search   string
	NoSJ     string
	Site     string
	DateFrom string
	DateTo   string
}

type OutgoingItemRepository interface {
	Create(ctx context.Context, dispatch *model.OutgoingItem) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.OutgoingItem, error)
	List(ctx context.Context, filter DispatchFilter, offset, limit int) ([]model.OutgoingItem, int64, error)
}

type outgoingItemRepository struct {
	db *gorm.DB
}

func NewOutgoingItemRepository(db *gorm.DB) OutgoingItemRepository {
	return &outgoingItemRepository{db: db}
}

func (r *outgoingItemRepository) Create(ctx context.Context, dispatch *model.OutgoingItem) error {
	return GetDB(ctx, r.db).Create(dispatch).Error
}

func (r *outgoingItemRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Delete(&model.OutgoingItem{}, id).Error
}

func (r *outgoingItemRepository) FindByID(ctx context.Context, id uint) (*model.OutgoingItem, error) {
	var dispatch model.OutgoingItem
	if err := GetDB(ctx, r.db).Preload("Item").Preload("Creator").
		First(&dispatch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &dispatch, nil
}

func (r *outgoingItemRepository) List(ctx context.Context, filter DispatchFilter, offset, limit int) ([]model.OutgoingItem, int64, error) {
	var dispatches []model.OutgoingItem
	var total int64

	db := GetDB(ctx, r.db).Model(&model.OutgoingItem{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		db = db.Where("item_id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).Model(&model.Item{}).
				Select("id").Where("name ILIKE ? OR code ILIKE ?", pattern, pattern))
	}
	if filter.Site != "" {
		db = db.Where("site = ?", filter.Site)
	}
	if filter.NoSJ != "" {
		db = db.Where("no_sj ILIKE ?", "%"+filter.NoSJ+"%")
	}
	if filter.DateFrom != "" {
		db = db.Where("created_at::date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		db = db.Where("created_at::date <= ?", filter.DateTo)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Item").Preload("Creator").
		Order("created_at desc").Offset(offset).Limit(limit).
		Find(&dispatches).Error; err != nil {
		return nil, 0, err
	}

	return dispatches, total, nil
}
