package repository

import (
	"context"

	"inventaris/internal/model"

	"gorm.io/gorm"
)

// ReceiptFilter narrows receipt listings.
type ReceiptFilter struct {
	Search   string // item name or code
	NoSJ     string
	DateFrom string // YYYY-MM-DD, inclusive
	DateTo   string
}

type IncomingItemRepository interface {
	Create(ctx context.Context, receipt *model.IncomingItem) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.IncomingItem, error)
	List(ctx context.Context, filter ReceiptFilter, offset, limit int) ([]model.IncomingItem, int64, error)
}

type incomingItemRepository struct {
	db *gorm.DB
}

func NewIncomingItemRepository(db *gorm.DB) IncomingItemRepository {
	return &incomingItemRepository{db: db}
}

func (r *incomingItemRepository) Create(ctx context.Context, receipt *model.IncomingItem) error {
	return GetDB(ctx, r.db).Create(receipt).Error
}

func (r *incomingItemRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Delete(&model.IncomingItem{}, id).Error
}

func (r *incomingItemRepository) FindByID(ctx context.Context, id uint) (*model.IncomingItem, error) {
	var receipt model.IncomingItem
	if err := GetDB(ctx, r.db).Preload("Item").Preload("Creator").
		First(&receipt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *incomingItemRepository) List(ctx context.Context, filter ReceiptFilter, offset, limit int) ([]model.IncomingItem, int64, error) {
	var receipts []model.IncomingItem
	var total int64

	db := GetDB(ctx, r.db).Model(&model.IncomingItem{})
	db = applyReceiptFilter(db, filter)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Item").Preload("Creator").
		Order("created_at desc").Offset(offset).Limit(limit).
		Find(&receipts).Error; err != nil {
		return nil, 0, err
	}

	return receipts, total, nil
}

func applyReceiptFilter(db *gorm.DB, filter ReceiptFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		db = db.Where("item_id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).Model(&model.Item{}).
				Select("id").Where("name ILIKE ? OR code ILIKE ?", pattern, pattern))
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
	return db
}
