package service

import (
	"context"
	"testing"

	"inventaris/internal/model"
	"inventaris/internal/repository"
	"inventaris/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIncomingService(store *fakeStore, strict bool) IncomingItemService {
	return NewIncomingItemService(
		&fakeIncomingRepo{store: store},
		&fakeItemRepo{store: store},
		&fakeLedger{store: store},
		&fakeAuditRepo{store: store},
		fakeTxManager{},
		nil,
		strict,
	)
}

func TestCreateReceipt_IncreasesStock(t *testing.T) {
	store := newFakeStore()
	category := store.addCategory("ATK")
	item := store.addItem("CNS0001", "Kertas", model.ItemTypeConsumable, category.ID, 5)
	svc := newIncomingService(store, false)

	receipt, err := svc.CreateReceipt(context.Background(), adminCaller, CreateReceiptRequest{
		NoSJ: "SJ-100", NoRKM: "RKM-7", ItemID: item.ID, Quantity: 20, Unit: "rim",
	})
	require.NoError(t, err)
	assert.Equal(t, 25, store.items[item.ID].StockQuantity)
	assert.Equal(t, adminCaller.ID, receipt.CreatedBy)
	assert.Contains(t, store.auditActions(), model.ActionCreateReceipt)
}

func TestCreateReceipt_UnknownItem(t *testing.T) {
	store := newFakeStore()
	svc := newIncomingService(store, false)

	_, err := svc.CreateReceipt(context.Background(), adminCaller, CreateReceiptRequest{
		NoSJ: "SJ-100", NoRKM: "RKM-7", ItemID: 99, Quantity: 20, Unit: "rim",
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateReceipt_RequiresManagerRole(t *testing.T) {
	store := newFakeStore()
	svc := newIncomingService(store, false)

	_, err := svc.CreateReceipt(context.Background(), plainCaller, CreateReceiptRequest{
		NoSJ: "SJ-100", NoRKM: "RKM-7", ItemID: 1, Quantity: 1, Unit: "rim",
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestDeleteReceipt_ReversalIsExactInverse(t *testing.T) {
	store := newFakeStore()
	category := store.addCategory("ATK")
	item := store.addItem("CNS0001", "Kertas", model.ItemTypeConsumable, category.ID, 5)
	svc := newIncomingService(store, false)
	ctx := context.Background()

	receipt, err := svc.CreateReceipt(ctx, adminCaller, CreateReceiptRequest{
		NoSJ: "SJ-100", NoRKM: "RKM-7", ItemID: item.ID, Quantity: 20, Unit: "rim",
	})
	require.NoError(t, err)
	require.Equal(t, 25, store.items[item.ID].StockQuantity)

	err = svc.DeleteReceipt(ctx, adminCaller, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, store.items[item.ID].StockQuantity, "record-then-delete nets to the starting stock")
	assert.Empty(t, store.receipts)
}

func TestDeleteReceipt_LenientModeAllowsNegativeStock(t *testing.T) {
	store := newFakeStore()
	category := store.addCategory("ATK")
	item := store.addItem("CNS0001", "Kertas", model.ItemTypeConsumable, category.ID, 0)
	svc := newIncomingService(store, false)
	ctx := context.Background()

	receipt, err := svc.CreateReceipt(ctx, adminCaller, CreateReceiptRequest{
		NoSJ: "SJ-100", NoRKM: "RKM-7", ItemID: item.ID, Quantity: 10, Unit: "rim",
	})
	require.NoError(t, err)

	// Everything the receipt brought in has since been consumed.
	require.NoError(t, (&fakeLedger{store: store}).Decrease(ctx, item.ID, 10))

	err = svc.DeleteReceipt(ctx, adminCaller, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, -10, store.items[item.ID].StockQuantity, "lenient reversal applies regardless")
}

func TestDeleteReceipt_StrictModeRejectsOverdraw(t *testing.T) {
	store := newFakeStore()
	category := store.addCategory("ATK")
	item := store.addItem("CNS0001", "Kertas", model.ItemTypeConsumable, category.ID, 0)
	svc := newIncomingService(store, true)
	ctx := context.Background()

	receipt, err := svc.CreateReceipt(ctx, adminCaller, CreateReceiptRequest{
		NoSJ: "SJ-100", NoRKM: "RKM-7", ItemID: item.ID, Quantity: 10, Unit: "rim",
	})
	require.NoError(t, err)

	require.NoError(t, (&fakeLedger{store: store}).Decrease(ctx, item.ID, 10))

	err = svc.DeleteReceipt(ctx, adminCaller, receipt.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, 0, store.items[item.ID].StockQuantity, "stock untouched")
	assert.Len(t, store.receipts, 1, "receipt survives the rejected reversal")
}

func TestListReceipts_ManagerOnly(t *testing.T) {
	store := newFakeStore()
	svc := newIncomingService(store, false)

	_, _, err := svc.ListReceipts(context.Background(), plainCaller, repository.ReceiptFilter{}, 0, 10)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}
