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
type CreateDispatchRequest struct {
	NoSJ     string `json:"no_sj" binding:"required,max=100"`
	Site     string `json:"site" binding:"required,oneof=project_a project_b project_c"`
	ItemID   uint   `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gte=1"`
	Unit     string `json:"unit" binding:"required,max=50"`
}

type OutgoingItemService interface {
	CreateDispatch(ctx context.Context, caller model.AuthUser, req CreateDispatchRequest) (*model.OutgoingItem, error)
	DeleteDispatch(ctx context.Context, caller model.AuthUser, id uint) error
	GetDispatch(ctx context.Context, caller model.AuthUser, id uint) (*model.OutgoingItem, error)
	ListDispatches(ctx context.Context, caller model.AuthUser, filter repository.DispatchFilter, offset, limit int) ([]model.OutgoingItem, int64, error)
}

type outgoingItemService struct {
	outgoingRepo repository.OutgoingItemRepository
	itemRepo     repository.ItemRepository
	ledger       repository.StockLedger
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
}

func NewOutgoingItemService(
	outgoingRepo repository.OutgoingItemRepository,
	itemRepo repository.ItemRepository,
	ledger repository.StockLedger,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) OutgoingItemService {
	return &outgoingItemService{
		outgoingRepo: outgoingRepo,
		itemRepo:     itemRepo,
		ledger:       ledger,
		auditRepo:    auditRepo,
		txManager:    txManager,
		hub:          hub,
	}
}

func (s *outgoingItemService) CreateDispatch(ctx context.Context, caller model.AuthUser, req CreateDispatchRequest) (*model.OutgoingItem, error) {
	if !caller.CanManageInventory() {
		return nil, apperror.Forbiddenf("only admins and superadmins can record dispatches")
	}
	if req.Quantity < 1 {
		return nil, apperror.Validationf("quantity must be at least 1")
	}
	if !model.ValidSite(req.Site) {
		return nil, apperror.Validationf("unknown project site %q", req.Site)
	}

	item, err := s.itemRepo.FindByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("item %d", req.ItemID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	dispatch := &model.OutgoingItem{
		NoSJ:      req.NoSJ,
		Site:      req.Site,
		ItemID:    req.ItemID,
		Quantity:  req.Quantity,
		Unit:      req.Unit,
		CreatedBy: caller.ID,
	}

	// The ledger decrease carries the sufficiency check atomically; if it
	// rejects, the transaction rolls back and no dispatch row survives.
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if ledgerErr := s.ledger.Decrease(txCtx, req.ItemID, req.Quantity); ledgerErr != nil {
			return ledgerErr
		}
		if createErr := s.outgoingRepo.Create(txCtx, dispatch); createErr != nil {
			return fmt.Errorf("failed to create dispatch: %w", createErr)
		}
		return s.logStockAction(txCtx, caller, model.ActionCreateDispatch, item, map[string]any{
			"no_sj":    req.NoSJ,
			"site":     req.Site,
			"quantity": req.Quantity,
			"unit":     req.Unit,
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifyStockChange(ctx, req.ItemID)
	return dispatch, nil
}

func (s *outgoingItemService) DeleteDispatch(ctx context.Context, caller model.AuthUser, id uint) error {
	if !caller.CanManageInventory() {
		return apperror.Forbiddenf("only admins and superadmins can delete dispatches")
	}

	dispatch, err := s.outgoingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFoundf("dispatch %d", id)
		}
		return fmt.Errorf("database error: %w", err)
	}

	// Reversal: stock goes back up, so no sufficiency check is needed.
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if ledgerErr := s.ledger.Increase(txCtx, dispatch.ItemID, dispatch.Quantity); ledgerErr != nil {
			return ledgerErr
		}
		if deleteErr := s.outgoingRepo.Delete(txCtx, id); deleteErr != nil {
			return fmt.Errorf("failed to delete dispatch: %w", deleteErr)
		}
		return s.logStockAction(txCtx, caller, model.ActionDeleteDispatch, dispatch.Item, map[string]any{
			"dispatch_id": id,
			"quantity":    dispatch.Quantity,
		})
	})
	if err != nil {
		return err
	}

	s.notifyStockChange(ctx, dispatch.ItemID)
	return nil
}

func (s *outgoingItemService) GetDispatch(ctx context.Context, caller model.AuthUser, id uint) (*model.OutgoingItem, error) {
	if !caller.CanManageInventory() {
		return nil, apperror.Forbiddenf("only admins and superadmins can view dispatches")
	}
	dispatch, err := s.outgoingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("dispatch %d", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return dispatch, nil
}

func (s *outgoingItemService) ListDispatches(ctx context.Context, caller model.AuthUser, filter repository.DispatchFilter, offset, limit int) ([]model.OutgoingItem, int64, error) {
	if !caller.CanManageInventory() {
		return nil, 0, apperror.Forbiddenf("only admins and superadmins can view dispatches")
	}
	if filter.Site != "" && !model.ValidSite(filter.Site) {
		return nil, 0, apperror.Validationf("unknown project site %q", filter.Site)
	}
	return s.outgoingRepo.List(ctx, filter, offset, limit)
}

func (s *outgoingItemService) logStockAction(ctx context.Context, caller model.AuthUser, action string, item *model.Item, payload map[string]any) error {
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

func (s *outgoingItemService) notifyStockChange(ctx context.Context, itemID uint) {
	if s.hub == nil {
		return
	}
	if item, err := s.itemRepo.FindByID(ctx, itemID); err == nil {
		broadcastStockChange(s.hub, item)
	}
}
