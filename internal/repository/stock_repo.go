package repository

import (
	"context"
	"fmt"

	"inventaris/internal/model"
	"inventaris/pkg/apperror"

	"gorm.io/gorm"
)

// StockLedger is the single authority for mutating an item's stock
// counter. Every receipt, dispatch and approval goes through these three
// primitives; no other code path writes items.stock_quantity.
type StockLedger interface {
	// Increase adds qty to the item's stock. qty must be positive.
	Increase(ctx context.Context, itemID uint, qty int) error
	// Decrease subtracts qty, but only if the current stock covers it.
	// The sufficiency check and the decrement execute as one conditional
	// UPDATE so two concurrent decreases can never jointly overdraw.
	// Returns apperror.ErrInsufficientStock when the guard rejects it.
	Decrease(ctx context.Context, itemID uint, qty int) error
	// DecreaseUnchecked subtracts qty without the sufficiency guard.
	// Used only to reverse receipts in lenient mode, where stock is
	// allowed to go negative if later dispatches already consumed it.
	DecreaseUnchecked(ctx context.Context, itemID uint, qty int) error
}

type stockLedger struct {
	db *gorm.DB
}

func NewStockLedger(db *gorm.DB) StockLedger {
	return &stockLedger{db: db}
}

func (l *stockLedger) Increase(ctx context.Context, itemID uint, qty int) error {
	if qty <= 0 {
		return apperror.Validationf("ledger increase quantity must be positive, got %d", qty)
	}
	res := GetDB(ctx, l.db).Model(&model.Item{}).
		Where("id = ?", itemID).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", qty))
	if res.Error != nil {
		return fmt.Errorf("failed to increase stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFoundf("item %d", itemID)
	}
	return nil
}

func (l *stockLedger) Decrease(ctx context.Context, itemID uint, qty int) error {
	if qty <= 0 {
		return apperror.Validationf("ledger decrease quantity must be positive, got %d", qty)
	}
	// Compare-and-decrement: the WHERE clause is the sufficiency check.
	res := GetDB(ctx, l.db).Model(&model.Item{}).
		Where("id = ? AND stock_quantity >= ?", itemID, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return fmt.Errorf("failed to decrease stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing item from an insufficient balance.
		var count int64
		if err := GetDB(ctx, l.db).Model(&model.Item{}).Where("id = ?", itemID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to verify item existence: %w", err)
		}
		if count == 0 {
			return apperror.NotFoundf("item %d", itemID)
		}
		return fmt.Errorf("item %d: %w", itemID, apperror.ErrInsufficientStock)
	}
	return nil
}

func (l *stockLedger) DecreaseUnchecked(ctx context.Context, itemID uint, qty int) error {
	if qty <= 0 {
		return apperror.Validationf("ledger decrease quantity must be positive, got %d", qty)
	}
	res := GetDB(ctx, l.db).Model(&model.Item{}).
		Where("id = ?", itemID).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return fmt.Errorf("failed to decrease stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFoundf("item %d", itemID)
	}
	return nil
}
