package repository

import (
	"context"

	"inventaris/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RequestFilter narrows item request listings. UserID = 0 means no
// requester filter; services force it to the caller for non-managers.
type RequestFilter struct {
	Search string
	Status string
	UserID uint
}

type ItemRequestRepository interface {
	Create(ctx context.Context, request *model.ItemRequest) error
	Update(ctx context.Context, request *model.ItemRequest) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.ItemRequest, error)
	// FindByIDForUpdate locks the request row so two concurrent decisions
	// serialize; the loser then sees a non-pending status.
	FindByIDForUpdate(ctx context.Context, id uint) (*model.ItemRequest, error)
	List(ctx context.Context, filter RequestFilter, offset, limit int) ([]model.ItemRequest, int64, error)
}

type itemRequestRepository struct {
	db *gorm.DB
}

func NewItemRequestRepository(db *gorm.DB) ItemRequestRepository {
	return &itemRequestRepository{db: db}
}

func (r *itemRequestRepository) Create(ctx context.Context, request *model.ItemRequest) error {
	return GetDB(ctx, r.db).Create(request).Error
}

func (r *itemRequestRepository) Update(ctx context.Context, request *model.ItemRequest) error {
	return GetDB(ctx, r.db).Save(request).Error
}

func (r *itemRequestRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Delete(&model.ItemRequest{}, id).Error
}

func (r *itemRequestRepository) FindByID(ctx context.Context, id uint) (*model.ItemRequest, error) {
	var request model.ItemRequest
	if err := GetDB(ctx, r.db).Preload("Item").Preload("User").Preload("Approver").
		First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *itemRequestRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.ItemRequest, error) {
	var request model.ItemRequest
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *itemRequestRepository) List(ctx context.Context, filter RequestFilter, offset, limit int) ([]model.ItemRequest, int64, error) {
	var requests []model.ItemRequest
	var total int64

	db := GetDB(ctx, r.db).Model(&model.ItemRequest{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		db = db.Where("item_id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).Model(&model.Item{}).
				Select("id").Where("name ILIKE ? OR code ILIKE ?", pattern, pattern))
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.UserID != 0 {
		db = db.Where("user_id = ?", filter.UserID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Item").Preload("User").Preload("Approver").
		Order("created_at desc").Offset(offset).Limit(limit).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}
