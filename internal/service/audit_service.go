package service

import (
	"context"

	"inventaris/internal/model"
	"inventaris/internal/repository"
	"inventaris/pkg/apperror"
)

type AuditLogResponse struct {
	ID         uint   `json:"id"`
	UserID     uint   `json:"user_id,omitempty"`
	UserName   string `json:"user_name"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, caller model.AuthUser, action string, offset, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) GetAuditLogs(ctx context.Context, caller model.AuthUser, action string, offset, limit int) ([]AuditLogResponse, int64, error) {
	if !caller.CanManageInventory() {
		return nil, 0, apperror.Forbiddenf("only admins and superadmins can view the audit log")
	}

	logs, total, err := s.auditRepo.List(ctx, action, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		userName := "System"
		var userID uint
		if l.User != nil {
			userName = l.User.Name
		}
		if l.UserID != nil {
			userID = *l.UserID
		}

		res = append(res, AuditLogResponse{
			ID:         l.ID,
			UserID:     userID,
			UserName:   userName,
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}
