package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"inventaris/internal/model"
	"inventaris/internal/repository"
	ws "inventaris/internal/websocket"
	"inventaris/pkg/apperror"

	"gorm.io/gorm"
)

// Decision actions for DecideRequest.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// DTOs
type SubmitRequestRequest struct {
	ItemID   uint   `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gte=1"`
	Unit     string `json:"unit" binding:"required,max=50"`
	Notes    string `json:"notes" binding:"max=1000"`
}

type EditRequestRequest struct {
	Quantity int    `json:"quantity" binding:"required,gte=1"`
	Unit     string `json:"unit" binding:"required,max=50"`
	Notes    string `json:"notes" binding:"max=1000"`
}

// DecideRequestRequest carries an approval decision. The action is set
// by the route, so the body only ever supplies optional notes.
type DecideRequestRequest struct {
	Action string `json:"action" binding:"omitempty,oneof=approve reject"`
	Notes  string `json:"notes" binding:"max=1000"`
}

type ItemRequestService interface {
	SubmitRequest(ctx context.Context, caller model.AuthUser, req SubmitRequestRequest) (*model.ItemRequest, error)
	EditRequest(ctx context.Context, caller model.AuthUser, id uint, req EditRequestRequest) (*model.ItemRequest, error)
	CancelRequest(ctx context.Context, caller model.AuthUser, id uint) error
	DecideRequest(ctx context.Context, caller model.AuthUser, id uint, req DecideRequestRequest) (*model.ItemRequest, error)
	GetRequest(ctx context.Context, caller model.AuthUser, id uint) (*model.ItemRequest, error)
	ListRequests(ctx context.Context, caller model.AuthUser, filter repository.RequestFilter, offset, limit int) ([]model.ItemRequest, int64, error)
}

type itemRequestService struct {
	requestRepo repository.ItemRequestRepository
	itemRepo    repository.ItemRepository
	ledger      repository.StockLedger
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	hub         *ws.Hub
}

func NewItemRequestService(
	requestRepo repository.ItemRequestRepository,
	itemRepo repository.ItemRepository,
	ledger repository.StockLedger,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) ItemRequestService {
	return &itemRequestService{
		requestRepo: requestRepo,
		itemRepo:    itemRepo,
		ledger:      ledger,
		auditRepo:   auditRepo,
		txManager:   txManager,
		hub:         hub,
	}
}

// SubmitRequest creates a pending request. Stock is untouched: pending
// requests never reserve stock, only approval deducts it.
func (s *itemRequestService) SubmitRequest(ctx context.Context, caller model.AuthUser, req SubmitRequestRequest) (*model.ItemRequest, error) {
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

	request := &model.ItemRequest{
		UserID:   caller.ID,
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Status:   model.RequestPending,
		Notes:    req.Notes,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.requestRepo.Create(txCtx, request); createErr != nil {
			return fmt.Errorf("failed to create item request: %w", createErr)
		}
		return s.logAction(txCtx, caller, model.ActionSubmitRequest, item, map[string]any{
			"request_id": request.ID,
			"quantity":   req.Quantity,
			"unit":       req.Unit,
		})
	})
	if err != nil {
		return nil, err
	}

	return request, nil
}

// EditRequest changes quantity/unit/notes. Pending-only, owner-only.
func (s *itemRequestService) EditRequest(ctx context.Context, caller model.AuthUser, id uint, req EditRequestRequest) (*model.ItemRequest, error) {
	if req.Quantity < 1 {
		return nil, apperror.Validationf("quantity must be at least 1")
	}

	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("item request %d", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if request.UserID != caller.ID {
		return nil, apperror.Forbiddenf("only the requester can edit a request")
	}
	if !request.IsPending() {
		return nil, fmt.Errorf("request %d is already %s: %w", id, request.Status, apperror.ErrAlreadyProcessed)
	}

	request.Quantity = req.Quantity
	request.Unit = req.Unit
	request.Notes = req.Notes

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.requestRepo.Update(txCtx, request); updateErr != nil {
			return fmt.Errorf("failed to update item request: %w", updateErr)
		}
		return s.logAction(txCtx, caller, model.ActionEditRequest, request.Item, map[string]any{
			"request_id": id,
			"quantity":   req.Quantity,
			"unit":       req.Unit,
		})
	})
	if err != nil {
		return nil, err
	}

	return request, nil
}

// CancelRequest deletes a pending request. Owner or manager; no stock
// effect because nothing was reserved.
func (s *itemRequestService) CancelRequest(ctx context.Context, caller model.AuthUser, id uint) error {
	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFoundf("item request %d", id)
		}
		return fmt.Errorf("database error: %w", err)
	}

	if request.UserID != caller.ID && !caller.CanManageInventory() {
		return apperror.Forbiddenf("only the requester or a manager can cancel a request")
	}
	if !request.IsPending() {
		return fmt.Errorf("request %d is already %s: %w", id, request.Status, apperror.ErrAlreadyProcessed)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if deleteErr := s.requestRepo.Delete(txCtx, id); deleteErr != nil {
			return fmt.Errorf("failed to delete item request: %w", deleteErr)
		}
		return s.logAction(txCtx, caller, model.ActionCancelRequest, request.Item, map[string]any{
			"request_id": id,
		})
	})
}

// DecideRequest approves or rejects a pending request. Approval decrements
// stock through the ledger in the same transaction as the status change;
// when stock is insufficient the request STAYS pending so a manager can
// retry after a restock.
func (s *itemRequestService) DecideRequest(ctx context.Context, caller model.AuthUser, id uint, req DecideRequestRequest) (*model.ItemRequest, error) {
	if !caller.CanManageInventory() {
		return nil, apperror.Forbiddenf("only admins and superadmins can decide requests")
	}
	if req.Action != DecisionApprove && req.Action != DecisionReject {
		return nil, apperror.Validationf("unknown decision action %q", req.Action)
	}

	var decided *model.ItemRequest

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Locking the row serializes concurrent decisions: the loser
		// re-reads a non-pending status below.
		request, findErr := s.requestRepo.FindByIDForUpdate(txCtx, id)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return apperror.NotFoundf("item request %d", id)
			}
			return fmt.Errorf("database error: %w", findErr)
		}

		if !request.IsPending() {
			return fmt.Errorf("request %d is already %s: %w", id, request.Status, apperror.ErrAlreadyProcessed)
		}

		// The locking read skips association loading, so fetch the item
		// here; the audit row needs its code and name.
		item, itemErr := s.itemRepo.FindByID(txCtx, request.ItemID)
		if itemErr != nil {
			if errors.Is(itemErr, gorm.ErrRecordNotFound) {
				return apperror.NotFoundf("item %d", request.ItemID)
			}
			return fmt.Errorf("database error: %w", itemErr)
		}

		now := time.Now()
		approverID := caller.ID

		if req.Action == DecisionApprove {
			if ledgerErr := s.ledger.Decrease(txCtx, request.ItemID, request.Quantity); ledgerErr != nil {
				// Insufficient stock rolls everything back; the request
				// remains pending by virtue of the rollback.
				return ledgerErr
			}
			request.Status = model.RequestApproved
		} else {
			request.Status = model.RequestRejected
		}

		request.ApprovedBy = &approverID
		request.ApprovedAt = &now
		if req.Notes != "" {
			request.Notes = req.Notes
		}

		if updateErr := s.requestRepo.Update(txCtx, request); updateErr != nil {
			return fmt.Errorf("failed to update item request: %w", updateErr)
		}
		request.Item = item

		action := model.ActionApproveRequest
		if req.Action == DecisionReject {
			action = model.ActionRejectRequest
		}
		if logErr := s.logAction(txCtx, caller, action, item, map[string]any{
			"request_id": id,
			"quantity":   request.Quantity,
			"notes":      req.Notes,
		}); logErr != nil {
			return logErr
		}

		decided = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	if decided.Status == model.RequestApproved {
		s.notifyStockChange(ctx, decided.ItemID)
	}
	return decided, nil
}

func (s *itemRequestService) GetRequest(ctx context.Context, caller model.AuthUser, id uint) (*model.ItemRequest, error) {
	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("item request %d", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if request.UserID != caller.ID && !caller.CanManageInventory() {
		return nil, apperror.Forbiddenf("only the requester or a manager can view this request")
	}
	return request, nil
}

// ListRequests scopes visibility by role: plain users see only their own
// rows no matter what filters they pass; managers see everything and may
// filter by requester.
func (s *itemRequestService) ListRequests(ctx context.Context, caller model.AuthUser, filter repository.RequestFilter, offset, limit int) ([]model.ItemRequest, int64, error) {
	if filter.Status != "" && !model.ValidRequestStatus(filter.Status) {
		return nil, 0, apperror.Validationf("unknown request status %q", filter.Status)
	}
	if !caller.CanManageInventory() {
		filter.UserID = caller.ID
	}
	return s.requestRepo.List(ctx, filter, offset, limit)
}

func (s *itemRequestService) logAction(ctx context.Context, caller model.AuthUser, action string, item *model.Item, payload map[string]any) error {
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

func (s *itemRequestService) notifyStockChange(ctx context.Context, itemID uint) {
	if s.hub == nil {
		return
	}
	if item, err := s.itemRepo.FindByID(ctx, itemID); err == nil {
		broadcastStockChange(s.hub, item)
	}
}
