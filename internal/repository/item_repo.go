package repository

import (
	"context"

	"inventaris/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemFilter narrows item listings.
type ItemFilter struct {
	Search     string // case-insensitive substring on name or code
	Type       string
	CategoryID uint
}

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Item, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Item, error)
	List(ctx context.Context, filter ItemFilter, offset, limit int) ([]model.Item, int64, error)
	// LastCodeForPrefix returns the lexicographically highest item code
	// starting with prefix, or "" when none exists.
	LastCodeForPrefix(ctx context.Context, prefix string) (string, error)
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *model.Item) error {
	return GetDB(ctx, r.db).Create(item).Error
}

// Update writes catalog fields only. Stock stays ledger-owned: the column
// list below must never include stock_quantity.
func (r *itemRepository) Update(ctx context.Context, item *model.Item) error {
	return GetDB(ctx, r.db).Model(item).
		Select("name", "type", "category_id", "supplier_id", "unit", "size", "photo", "description").
		Updates(item).Error
}

// Delete removes the item and cascades to its receipts, dispatches and
// requests. Historical ledger rows go with the item by design.
func (r *itemRepository) Delete(ctx context.Context, id uint) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("item_id = ?", id).Delete(&model.IncomingItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("item_id = ?", id).Delete(&model.OutgoingItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("item_id = ?", id).Delete(&model.ItemRequest{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.Item{}, id).Error
}

func (r *itemRepository) FindByID(ctx context.Context, id uint) (*model.Item, error) {
	var item model.Item
	if err := GetDB(ctx, r.db).Preload("Category").Preload("Supplier").
		First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Item, error) {
	var item model.Item
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) List(ctx context.Context, filter ItemFilter, offset, limit int) ([]model.Item, int64, error) {
	var items []model.Item
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Item{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		db = db.Where("name ILIKE ? OR code ILIKE ?", pattern, pattern)
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}
	if filter.CategoryID != 0 {
		db = db.Where("category_id = ?", filter.CategoryID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Category").Preload("Supplier").
		Order("created_at desc").Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *itemRepository) LastCodeForPrefix(ctx context.Context, prefix string) (string, error) {
	var codes []string
	err := GetDB(ctx, r.db).Model(&model.Item{}).
		Where("code LIKE ?", prefix+"%").
		Order("code desc").
		Limit(1).
		Pluck("code", &codes).Error
	if err != nil {
		return "", err
	}
	if len(codes) == 0 {
		return "", nil
	}
	return codes[0], nil
}
