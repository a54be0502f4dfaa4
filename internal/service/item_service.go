package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"inventaris/internal/model"
	"inventaris/internal/repository"
	"inventaris/pkg/apperror"

	"gorm.io/gorm"
)

// DTOs
type CreateItemRequest struct {
	Name          string `json:"name" binding:"required,max=255"`
	Type          string `json:"type" binding:"required,oneof=consumable raw_material material"`
	CategoryID    uint   `json:"category_id" binding:"required"`
	SupplierID    *uint  `json:"supplier_id"`
	Unit          string `json:"unit" binding:"required,max=50"`
	Size          string `json:"size" binding:"max=100"`
	StockQuantity int    `json:"stock_quantity" binding:"min=0"`
	Photo         string `json:"photo"`
	Description   string `json:"description"`
}

type UpdateItemRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Type        string `json:"type" binding:"required,oneof=consumable raw_material material"`
	CategoryID  uint   `json:"category_id" binding:"required"`
	SupplierID  *uint  `json:"supplier_id"`
	Unit        string `json:"unit" binding:"required,max=50"`
	Size        string `json:"size" binding:"max=100"`
	Photo       string `json:"photo"`
	Description string `json:"description"`
}

type ItemService interface {
	CreateItem(ctx context.Context, caller model.AuthUser, req CreateItemRequest) (*model.Item, error)
	UpdateItem(ctx context.Context, caller model.AuthUser, id uint, req UpdateItemRequest) (*model.Item, error)
	DeleteItem(ctx context.Context, caller model.AuthUser, id uint) error
	GetItem(ctx context.Context, id uint) (*model.Item, error)
	ListItems(ctx context.Context, filter repository.ItemFilter, offset, limit int) ([]model.Item, int64, error)
}

type itemService struct {
	itemRepo     repository.ItemRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewItemService(
	itemRepo repository.ItemRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) ItemService {
	return &itemService{
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

const codeSequenceWidth = 4

// nextItemCode derives the next code for a type: prefix + zero-padded
// sequence, one past the highest numeric suffix already present for that
// prefix. Gaps are tolerated; only monotonic growth per prefix matters.
func nextItemCode(ctx context.Context, itemRepo repository.ItemRepository, itemType string) (string, error) {
	prefix := model.CodePrefix(itemType)
	last, err := itemRepo.LastCodeForPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to look up last item code: %w", err)
	}

	number := 1
	if last != "" {
		if n, convErr := strconv.Atoi(strings.TrimLeft(last[len(prefix):], "0")); convErr == nil {
			number = n + 1
		}
	}

	return fmt.Sprintf("%s%0*d", prefix, codeSequenceWidth, number), nil
}

func (s *itemService) CreateItem(ctx context.Context, caller model.AuthUser, req CreateItemRequest) (*model.Item, error) {
	if !caller.CanManageInventory() {
		return nil, apperror.Forbiddenf("only admins and superadmins can manage items")
	}
	if !model.ValidItemType(req.Type) {
		return nil, apperror.Validationf("unknown item type %q", req.Type)
	}
	if req.StockQuantity < 0 {
		return nil, apperror.Validationf("stock quantity cannot be negative")
	}

	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Validationf("category %d does not exist", req.CategoryID)
		}
		return nil, fmt.Errorf("failed to verify category: %w", err)
	}
	if req.SupplierID != nil {
		if _, err := s.supplierRepo.FindByID(ctx, *req.SupplierID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.Validationf("supplier %d does not exist", *req.SupplierID)
			}
			return nil, fmt.Errorf("failed to verify supplier: %w", err)
		}
	}

	var item *model.Item

	// Two concurrent creates can derive the same code; the unique index
	// rejects the loser and we derive a fresh one.
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		item = &model.Item{
			Name:          req.Name,
			Type:          req.Type,
			CategoryID:    req.CategoryID,
			SupplierID:    req.SupplierID,
			Unit:          req.Unit,
			Size:          req.Size,
			StockQuantity: req.StockQuantity,
			Photo:         req.Photo,
			Description:   req.Description,
		}

		err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			code, codeErr := nextItemCode(txCtx, s.itemRepo, req.Type)
			if codeErr != nil {
				return codeErr
			}
			item.Code = code

			if createErr := s.itemRepo.Create(txCtx, item); createErr != nil {
				return fmt.Errorf("failed to create item: %w", createErr)
			}

			return s.logAction(txCtx, caller, model.ActionCreateItem, item, req)
		})
		if !repository.IsUniqueViolation(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (s *itemService) UpdateItem(ctx context.Context, caller model.AuthUser, id uint, req UpdateItemRequest) (*model.Item, error) {
	if !caller.CanManageInventory() {
		return nil, apperror.Forbiddenf("only admins and superadmins can manage items")
	}
	if !model.ValidItemType(req.Type) {
		return nil, apperror.Validationf("unknown item type %q", req.Type)
	}

	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("item %d", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Validationf("category %d does not exist", req.CategoryID)
		}
		return nil, fmt.Errorf("failed to verify category: %w", err)
	}

	item.Name = req.Name
	item.Type = req.Type
	item.CategoryID = req.CategoryID
	item.SupplierID = req.SupplierID
	item.Unit = req.Unit
	item.Size = req.Size
	item.Photo = req.Photo
	item.Description = req.Description

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Stock is ledger-owned; the repository update never writes it.
		if updateErr := s.itemRepo.Update(txCtx, item); updateErr != nil {
			return fmt.Errorf("failed to update item: %w", updateErr)
		}
		return s.logAction(txCtx, caller, model.ActionUpdateItem, item, req)
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (s *itemService) DeleteItem(ctx context.Context, caller model.AuthUser, id uint) error {
	if !caller.CanManageInventory() {
		return apperror.Forbiddenf("only admins and superadmins can manage items")
	}

	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFoundf("item %d", id)
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Hard delete with cascade: receipts, dispatches and requests for
		// this item go with it, trading away historical ledger rows.
		if deleteErr := s.itemRepo.Delete(txCtx, id); deleteErr != nil {
			return fmt.Errorf("failed to delete item: %w", deleteErr)
		}
		return s.logAction(txCtx, caller, model.ActionDeleteItem, item, map[string]any{"deleted": true})
	})
}

func (s *itemService) GetItem(ctx context.Context, id uint) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("item %d", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return item, nil
}

func (s *itemService) ListItems(ctx context.Context, filter repository.ItemFilter, offset, limit int) ([]model.Item, int64, error) {
	if filter.Type != "" && !model.ValidItemType(filter.Type) {
		return nil, 0, apperror.Validationf("unknown item type %q", filter.Type)
	}
	return s.itemRepo.List(ctx, filter, offset, limit)
}

func (s *itemService) logAction(ctx context.Context, caller model.AuthUser, action string, item *model.Item, payload any) error {
	details, _ := json.Marshal(payload)
	entry := &model.AuditLog{
		UserID:     &caller.ID,
		Action:     action,
		EntityID:   item.Code,
		EntityName: item.Name,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
