package service

import (
	"context"
	"errors"
	"fmt"

	"inventaris/internal/model"
	"inventaris/internal/repository"
	"inventaris/pkg/apperror"

	"gorm.io/gorm"
)

type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

type SupplierRequest struct {
	Name          string `json:"name" binding:"required,max=255"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email" binding:"omitempty,email"`
	Address       string `json:"address"`
}

// ReferenceService manages the category and supplier reference data the
// item catalog points at.
type ReferenceService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, caller model.AuthUser, req CategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, caller model.AuthUser, id uint, req CategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, caller model.AuthUser, id uint) error

	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	CreateSupplier(ctx context.Context, caller model.AuthUser, req SupplierRequest) (*model.Supplier, error)
	UpdateSupplier(ctx context.Context, caller model.AuthUser, id uint, req SupplierRequest) (*model.Supplier, error)
	DeleteSupplier(ctx context.Context, caller model.AuthUser, id uint) error
}

type referenceService struct {
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
}

func NewReferenceService(categoryRepo repository.CategoryRepository, supplierRepo repository.SupplierRepository) ReferenceService {
	return &referenceService{categoryRepo: categoryRepo, supplierRepo: supplierRepo}
}

func (s *referenceService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.ListAll(ctx)
}

func (s *referenceService) CreateCategory(ctx context.Context, caller model.AuthUser, req CategoryRequest) (*model.Category, error) {
	if !caller.CanManageInventory() {
		return nil, apperror.Forbiddenf("only admins and superadmins can manage categories")
	}
	category := &model.Category{Name: req.Name, Description: req.Description}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *referenceService) UpdateCategory(ctx context.Context, caller model.AuthUser, id uint, req CategoryRequest) (*model.Category, error) {
	if !caller.CanManageInventory() {
		return nil, apperror.Forbiddenf("only admins and superadmins can manage categories")
	}
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("category %d", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	category.Name = req.Name
	category.Description = req.Description
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

func (s *referenceService) DeleteCategory(ctx context.Context, caller model.AuthUser, id uint) error {
	if !caller.CanManageInventory() {
		return apperror.Forbiddenf("only admins and superadmins can manage categories")
	}
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFoundf("category %d", id)
		}
		return fmt.Errorf("database error: %w", err)
	}
	return s.categoryRepo.Delete(ctx, id)
}

func (s *referenceService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return s.supplierRepo.ListAll(ctx)
}

func (s *referenceService) CreateSupplier(ctx context.Context, caller model.AuthUser, req SupplierRequest) (*model.Supplier, error) {
	if !caller.CanManageInventory() {
		return nil, apperror.Forbiddenf("only admins and superadmins can manage suppliers")
	}
	supplier := &model.Supplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return supplier, nil
}

func (s *referenceService) UpdateSupplier(ctx context.Context, caller model.AuthUser, id uint, req SupplierRequest) (*model.Supplier, error) {
	if !caller.CanManageInventory() {
		return nil, apperror.Forbiddenf("only admins and superadmins can manage suppliers")
	}
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("supplier %d", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	supplier.Name = req.Name
	supplier.ContactPerson = req.ContactPerson
	supplier.Phone = req.Phone
	supplier.Email = req.Email
	supplier.Address = req.Address
	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	return supplier, nil
}

func (s *referenceService) DeleteSupplier(ctx context.Context, caller model.AuthUser, id uint) error {
	if !caller.CanManageInventory() {
		return apperror.Forbiddenf("only admins and superadmins can manage suppliers")
	}
	if _, err := s.supplierRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFoundf("supplier %d", id)
		}
		return fmt.Errorf("database error: %w", err)
	}
	return s.supplierRepo.Delete(ctx, id)
}
