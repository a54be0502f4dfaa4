package service

import (
	"context"
	"sync"
	"testing"

	"inventaris/internal/model"
	"inventaris/internal/repository"
	"inventaris/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOutgoingService(store *fakeStore) OutgoingItemService {
	return NewOutgoingItemService(
		&fakeOutgoingRepo{store: store},
		&fakeItemRepo{store: store},
		&fakeLedger{store: store},
		&fakeAuditRepo{store: store},
		fakeTxManager{},
		nil,
	)
}

func TestCreateDispatch_DecrementsStock(t *testing.T) {
	store := newFakeStore()
	category := store.addCategory("Material")
	item := store.addItem("MAT0001", "Kabel NYM", model.ItemTypeMaterial, category.ID, 10)
	svc := newOutgoingService(store)

	dispatch, err := svc.CreateDispatch(context.Background(), adminCaller, CreateDispatchRequest{
		NoSJ: "SJ-001", Site: model.SiteProjectA, ItemID: item.ID, Quantity: 4, Unit: "roll",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, store.items[item.ID].StockQuantity)
	assert.Equal(t, model.SiteProjectA, dispatch.Site)
	assert.Contains(t, store.auditActions(), model.ActionCreateDispatch)
}

func TestCreateDispatch_InsufficientStockCreatesNothing(t *testing.T) {
	store := newFakeStore()
	category := store.addCategory("Material")
	item := store.addItem("MAT0001", "Kabel NYM", model.ItemTypeMaterial, category.ID, 3)
	svc := newOutgoingService(store)

	_, err := svc.CreateDispatch(context.Background(), adminCaller, CreateDispatchRequest{
		NoSJ: "SJ-001", Site: model.SiteProjectA, ItemID: item.ID, Quantity: 5, Unit: "roll",
	})
	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)
	assert.Equal(t, 3, store.items[item.ID].StockQuantity, "stock untouched")
	assert.Empty(t, store.dispatches, "no dispatch row survives a rejected decrement")
	assert.Empty(t, store.audits)
}

func TestStockDecrease_ConcurrentCallsNeverOverdraw(t *testing.T) {
	store := newFakeStore()
	category := store.addCategory("Material")
	item := store.addItem("MAT0001", "Kabel NYM", model.ItemTypeMaterial, category.ID, 10)
	ledger := &fakeLedger{store: store}

	// Two dispatches of 6 against a stock of 10: only one may win.
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- ledger.Decrease(context.Background(), item.ID, 6)
		}()
	}
	wg.Wait()
	close(errs)

	var rejected int
	for err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, apperror.ErrInsufficientStock)
			rejected++
		}
	}
	assert.Equal(t, 1, rejected, "exactly one decrease may go through")
	assert.Equal(t, 4, store.items[item.ID].StockQuantity)
}

func TestCreateDispatch_ExactBalanceDrainsToZero(t *testing.T) {
	store := newFakeStore()
	category := store.addCategory("Material")
	item := store.addItem("MAT0001", "Kabel NYM", model.ItemTypeMaterial, category.ID, 5)
	svc := newOutgoingService(store)

	_, err := svc.CreateDispatch(context.Background(), adminCaller, CreateDispatchRequest{
		NoSJ: "SJ-001", Site: model.SiteProjectB, ItemID: item.ID, Quantity: 5, Unit: "roll",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, store.items[item.ID].StockQuantity)
}

func TestCreateDispatch_RejectsUnknownSite(t *testing.T) {
	store := newFakeStore()
	category := store.addCategory("Material")
	item := store.addItem("MAT0001", "Kabel NYM", model.ItemTypeMaterial, category.ID, 5)
	svc := newOutgoingService(store)

	_, err := svc.CreateDispatch(context.Background(), adminCaller, CreateDispatchRequest{
		NoSJ: "SJ-001", Site: "warehouse_z", ItemID: item.ID, Quantity: 1, Unit: "roll",
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestCreateDispatch_RequiresManagerRole(t *testing.T) {
	store := newFakeStore()
	svc := newOutgoingService(store)

	_, err := svc.CreateDispatch(context.Background(), plainCaller, CreateDispatchRequest{
		NoSJ: "SJ-001", Site: model.SiteProjectA, ItemID: 1, Quantity: 1, Unit: "pcs",
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestDeleteDispatch_RestoresStock(t *testing.T) {
	store := newFakeStore()
	category := store.addCategory("Material")
	item := store.addItem("MAT0001", "Kabel NYM", model.ItemTypeMaterial, category.ID, 10)
	svc := newOutgoingService(store)

	dispatch, err := svc.CreateDispatch(context.Background(), adminCaller, CreateDispatchRequest{
		NoSJ: "SJ-001", Site: model.SiteProjectA, ItemID: item.ID, Quantity: 4, Unit: "roll",
	})
	require.NoError(t, err)
	require.Equal(t, 6, store.items[item.ID].StockQuantity)

	err = svc.DeleteDispatch(context.Background(), adminCaller, dispatch.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, store.items[item.ID].StockQuantity, "reversal is the exact inverse")
	assert.Empty(t, store.dispatches)
}

func TestListDispatches_FiltersBySite(t *testing.T) {
	store := newFakeStore()
	category := store.addCategory("Material")
	item := store.addItem("MAT0001", "Kabel NYM", model.ItemTypeMaterial, category.ID, 100)
	svc := newOutgoingService(store)
	ctx := context.Background()

	for _, site := range []string{model.SiteProjectA, model.SiteProjectB, model.SiteProjectA} {
		_, err := svc.CreateDispatch(ctx, adminCaller, CreateDispatchRequest{
			NoSJ: "SJ", Site: site, ItemID: item.ID, Quantity: 1, Unit: "roll",
		})
		require.NoError(t, err)
	}

	dispatches, total, err := svc.ListDispatches(ctx, adminCaller, repository.DispatchFilter{Site: model.SiteProjectA}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, dispatches, 2)

	_, _, err = svc.ListDispatches(ctx, adminCaller, repository.DispatchFilter{Site: "nowhere"}, 0, 10)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, _, err = svc.ListDispatches(ctx, plainCaller, repository.DispatchFilter{}, 0, 10)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}
