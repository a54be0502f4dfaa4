package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"inventaris/internal/model"
	"inventaris/internal/repository"
	ws "inventaris/internal/websocket"
	"inventaris/pkg/apperror"

	"gorm.io/gorm"
)

// DTOs
type CreateReceiptRequest struct {
	NoSJ     string `json:"no_sj" binding:"required,max=100"`
	NoRKM    string `json:"no_rkm" binding:"required,max=100"`
	ItemID   uint   `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gte=1"`
	Unit     string `json:"unit" binding:"required,max=50"`
}

type IncomingItemService interface {
	CreateReceipt(ctx context.Context, caller model.AuthUser, req CreateReceiptRequest) (*model.IncomingItem, error)
	DeleteReceipt(ctx context.Context, caller model.AuthUser, id uint) error
	GetReceipt(ctx context.Context, caller model.AuthUser, id uint) (*model.IncomingItem, error)
	ListReceipts(ctx context.Context, caller model.AuthUser, filter repository.ReceiptFilter, offset, limit int) ([]model.IncomingItem, int64, error)
}

type incomingItemService struct {
	incomingRepo repository.IncomingItemRepository
	itemRepo     repository.ItemRepository
	ledger       repository.StockLedger
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub

	// strictReversal makes receipt deletion fail with ErrConflict when the
	// reversal would drive stock below zero (stock already consumed by
	// later dispatches). When false the reversal is applied regardless,
	// matching the historical behavior.
	strictReversal bool
}

func NewIncomingItemService(
	incomingRepo repository.IncomingItemRepository,
	itemRepo repository.ItemRepository,
	ledger repository.StockLedger,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	strictReversal bool,
) IncomingItemService {
	return &incomingItemService{
		incomingRepo:   incomingRepo,
		itemRepo:       itemRepo,
		ledger:         ledger,
		auditRepo:      auditRepo,
		txManager:      txManager,
		hub:            hub,
		strictReversal: strictReversal,
	}
}

func (s *incomingItemService) CreateReceipt(ctx context.Context, caller model.AuthUser, req CreateReceiptRequest) (*model.IncomingItem, error) {
	if !caller.CanManageInventory() {
		return nil, apperror.Forbiddenf("only admins and superadmins can record receipts")
	}
	if req.Quantity < 1 {
		return nil, apperror.Validationf("quantity must be at least 1")
	}

	item, err := s.itemRepo.FindByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("item %d", req.ItemID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	receipt := &model.IncomingItem{
		NoSJ:      req.NoSJ,
		NoRKM:     req.NoRKM,
		ItemID:    req.ItemID,
		Quantity:  req.Quantity,
		Unit:      req.Unit,
		CreatedBy: caller.ID,
	}

	// Row insert and ledger increase commit together or not at all.
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.incomingRepo.Create(txCtx, receipt); createErr != nil {
			return fmt.Errorf("failed to create receipt: %w", createErr)
		}
		if ledgerErr := s.ledger.Increase(txCtx, req.ItemID, req.Quantity); ledgerErr != nil {
			return ledgerErr
		}
		return s.logStockAction(txCtx, caller, model.ActionCreateReceipt, item, map[string]any{
			"no_sj":    req.NoSJ,
			"no_rkm":   req.NoRKM,
			"quantity": req.Quantity,
			"unit":     req.Unit,
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifyStockChange(ctx, req.ItemID)
	return receipt, nil
}

func (s *incomingItemService) DeleteReceipt(ctx context.Context, caller model.AuthUser, id uint) error {
	if !caller.CanManageInventory() {
		return apperror.Forbiddenf("only admins and superadmins can delete receipts")
	}

	receipt, err := s.incomingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFoundf("receipt %d", id)
		}
		return fmt.Errorf("database error: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if s.strictReversal {
			if ledgerErr := s.ledger.Decrease(txCtx, receipt.ItemID, receipt.Quantity); ledgerErr != nil {
				if errors.Is(ledgerErr, apperror.ErrInsufficientStock) {
					return fmt.Errorf("deleting receipt %d would drive stock negative: %w", id, apperror.ErrConflict)
				}
				return ledgerErr
			}
		} else {
			if ledgerErr := s.ledger.DecreaseUnchecked(txCtx, receipt.ItemID, receipt.Quantity); ledgerErr != nil {
				return ledgerErr
			}
		}
		if deleteErr := s.incomingRepo.Delete(txCtx, id); deleteErr != nil {
			return fmt.Errorf("failed to delete receipt: %w", deleteErr)
		}
		return s.logStockAction(txCtx, caller, model.ActionDeleteReceipt, receipt.Item, map[string]any{
			"receipt_id": id,
			"quantity":   receipt.Quantity,
		})
	})
	if err != nil {
		return err
	}

	s.notifyStockChange(ctx, receipt.ItemID)
	return nil
}

func (s *incomingItemService) GetReceipt(ctx context.Context, caller model.AuthUser, id uint) (*model.IncomingItem, error) {
	if !caller.CanManageInventory() {
		return nil, apperror.Forbiddenf("only admins and superadmins can view receipts")
	}
	receipt, err := s.incomingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("receipt %d", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return receipt, nil
}

func (s *incomingItemService) ListReceipts(ctx context.Context, caller model.AuthUser, filter repository.ReceiptFilter, offset, limit int) ([]model.IncomingItem, int64, error) {
	if !caller.CanManageInventory() {
		return nil, 0, apperror.Forbiddenf("only admins and superadmins can view receipts")
	}
	return s.incomingRepo.List(ctx, filter, offset, limit)
}

func (s *incomingItemService) logStockAction(ctx context.Context, caller model.AuthUser, action string, item *model.Item, payload map[string]any) error {
	entityID, entityName := "", ""
	if item != nil {
		entityID, entityName = item.Code, item.Name
	}
	details, _ := json.Marshal(payload)
	entry := &model.AuditLog{
		UserID:     &caller.ID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (s *incomingItemService) notifyStockChange(ctx context.Context, itemID uint) {
	if s.hub == nil {
		return
	}
	if item, err := s.itemRepo.FindByID(ctx, itemID); err == nil {
		broadcastStockChange(s.hub, item)
	}
}
