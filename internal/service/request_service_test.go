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

func newRequestService(store *fakeStore) ItemRequestService {
	return NewItemRequestService(
		&fakeRequestRepo{store: store},
		&fakeItemRepo{store: store},
		&fakeLedger{store: store},
		&fakeAuditRepo{store: store},
		fakeTxManager{},
		nil,
	)
}

func TestSubmitRequest_DoesNotReserveStock(t *testing.T) {
	store := newFakeStore()
	category := store.addCategory("ATK")
	item := store.addItem("CNS0001", "Kertas", model.ItemTypeConsumable, category.ID, 10)
	svc := newRequestService(store)

	request, err := svc.SubmitRequest(context.Background(), plainCaller, SubmitRequestRequest{
		ItemID: item.ID, Quantity: 4, Unit: "rim",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RequestPending, request.Status)
	assert.Equal(t, plainCaller.ID, request.UserID)
	assert.Equal(t, 10, store.items[item.ID].StockQuantity, "submission never touches stock")
}

func TestApproveRequest_DecrementsStockAndStampsApprover(t *testing.T) {
	store := newFakeStore()
	category := store.addCategory("ATK")
	item := store.addItem("CNS0001", "Kertas", model.ItemTypeConsumable, category.ID, 10)
	request := store.addRequest(plainCaller.ID, item.ID, 4, model.RequestPending)
	svc := newRequestService(store)

	decided, err := svc.DecideRequest(context.Background(), adminCaller, request.ID, DecideRequestRequest{Action: DecisionApprove})
	require.NoError(t, err)
	assert.Equal(t, model.RequestApproved, decided.Status)
	require.NotNil(t, decided.ApprovedBy)
	assert.Equal(t, adminCaller.ID, *decided.ApprovedBy)
	assert.NotNil(t, decided.ApprovedAt)
	assert.Equal(t, 6, store.items[item.ID].StockQuantity)

	// The audit row carries the item's identity even though the locking
	// read loads the bare request row.
	require.Len(t, store.audits, 1)
	assert.Equal(t, model.ActionApproveRequest, store.audits[0].Action)
	assert.Equal(t, item.Code, store.audits[0].EntityID)
	assert.Equal(t, item.Name, store.audits[0].EntityName)
}

func TestApproveRequest_InsufficientStockLeavesRequestPending(t *testing.T) {
	store := newFakeStore()
	category := store.addCategory("ATK")
	item := store.addItem("CNS0001", "Kertas", model.ItemTypeConsumable, category.ID, 3)
	request := store.addRequest(plainCaller.ID, item.ID, 5, model.RequestPending)
	svc := newRequestService(store)

	_, err := svc.DecideRequest(context.Background(), adminCaller, request.ID, DecideRequestRequest{Action: DecisionApprove})
	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)
	assert.Equal(t, model.RequestPending, store.requests[request.ID].Status, "a manager can retry after a restock")
	assert.Equal(t, 3, store.items[item.ID].StockQuantity)
}

func TestRejectRequest_NeverTouchesStock(t *testing.T) {
	store := newFakeStore()
	category := store.addCategory("ATK")
	item := store.addItem("CNS0001", "Kertas", model.ItemTypeConsumable, category.ID, 10)
	request := store.addRequest(plainCaller.ID, item.ID, 4, model.RequestPending)
	svc := newRequestService(store)

	decided, err := svc.DecideRequest(context.Background(), adminCaller, request.ID, DecideRequestRequest{
		Action: DecisionReject, Notes: "budget freeze",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RequestRejected, decided.Status)
	assert.Equal(t, "budget freeze", decided.Notes)
	assert.Equal(t, 10, store.items[item.ID].StockQuantity)
	require.Len(t, store.audits, 1)
	assert.Equal(t, model.ActionRejectRequest, store.audits[0].Action)
	assert.Equal(t, item.Code, store.audits[0].EntityID)
	assert.Equal(t, item.Name, store.audits[0].EntityName)
}

func TestDecideRequest_TerminalStatesAreFinal(t *testing.T) {
	store := newFakeStore()
	category := store.addCategory("ATK")
	item := store.addItem("CNS0001", "Kertas", model.ItemTypeConsumable, category.ID, 10)
	svc := newRequestService(store)
	ctx := context.Background()

	for _, status := range []string{model.RequestApproved, model.RequestRejected} {
		request := store.addRequest(plainCaller.ID, item.ID, 1, status)

		_, err := svc.DecideRequest(ctx, adminCaller, request.ID, DecideRequestRequest{Action: DecisionApprove})
		assert.ErrorIs(t, err, apperror.ErrAlreadyProcessed, "deciding a %s request", status)

		_, err = svc.EditRequest(ctx, plainCaller, request.ID, EditRequestRequest{Quantity: 2, Unit: "pcs"})
		assert.ErrorIs(t, err, apperror.ErrAlreadyProcessed, "editing a %s request", status)

		err = svc.CancelRequest(ctx, plainCaller, request.ID)
		assert.ErrorIs(t, err, apperror.ErrAlreadyProcessed, "cancelling a %s request", status)
	}
	assert.Equal(t, 10, store.items[item.ID].StockQuantity, "no double deduction")
}

func TestDecideRequest_RequiresManagerRole(t *testing.T) {
	store := newFakeStore()
	category := store.addCategory("ATK")
	item := store.addItem("CNS0001", "Kertas", model.ItemTypeConsumable, category.ID, 10)
	request := store.addRequest(plainCaller.ID, item.ID, 1, model.RequestPending)
	svc := newRequestService(store)

	_, err := svc.DecideRequest(context.Background(), plainCaller, request.ID, DecideRequestRequest{Action: DecisionApprove})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestEditRequest_OwnerOnly(t *testing.T) {
	store := newFakeStore()
	category := store.addCategory("ATK")
	item := store.addItem("CNS0001", "Kertas", model.ItemTypeConsumable, category.ID, 10)
	request := store.addRequest(plainCaller.ID, item.ID, 1, model.RequestPending)
	svc := newRequestService(store)
	ctx := context.Background()

	other := model.AuthUser{ID: 77, Role: model.RoleUser}
	_, err := svc.EditRequest(ctx, other, request.ID, EditRequestRequest{Quantity: 2, Unit: "pcs"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	edited, err := svc.EditRequest(ctx, plainCaller, request.ID, EditRequestRequest{Quantity: 3, Unit: "box", Notes: "more"})
	require.NoError(t, err)
	assert.Equal(t, 3, edited.Quantity)
	assert.Equal(t, "box", edited.Unit)
}

func TestCancelRequest_OwnerOrManager(t *testing.T) {
	store := newFakeStore()
	category := store.addCategory("ATK")
	item := store.addItem("CNS0001", "Kertas", model.ItemTypeConsumable, category.ID, 10)
	svc := newRequestService(store)
	ctx := context.Background()

	mine := store.addRequest(plainCaller.ID, item.ID, 1, model.RequestPending)
	theirs := store.addRequest(77, item.ID, 1, model.RequestPending)

	err := svc.CancelRequest(ctx, plainCaller, theirs.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden, "a plain user cannot cancel someone else's request")

	require.NoError(t, svc.CancelRequest(ctx, plainCaller, mine.ID))
	require.NoError(t, svc.CancelRequest(ctx, adminCaller, theirs.ID), "managers may cancel any pending request")
	assert.Empty(t, store.requests)
}

func TestListRequests_ScopesPlainUsersToTheirOwn(t *testing.T) {
	store := newFakeStore()
	category := store.addCategory("ATK")
	item := store.addItem("CNS0001", "Kertas", model.ItemTypeConsumable, category.ID, 10)
	store.addRequest(plainCaller.ID, item.ID, 1, model.RequestPending)
	store.addRequest(77, item.ID, 2, model.RequestPending)
	store.addRequest(78, item.ID, 3, model.RequestApproved)
	svc := newRequestService(store)
	ctx := context.Background()

	// A plain user asking for someone else's rows still only gets their own.
	mine, total, err := svc.ListRequests(ctx, plainCaller, repository.RequestFilter{UserID: 77}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	for _, request := range mine {
		assert.Equal(t, plainCaller.ID, request.UserID)
	}

	all, total, err := svc.ListRequests(ctx, adminCaller, repository.RequestFilter{}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)

	_, _, err = svc.ListRequests(ctx, adminCaller, repository.RequestFilter{Status: "stalled"}, 0, 10)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestGetRequest_OwnerOrManager(t *testing.T) {
	store := newFakeStore()
	category := store.addCategory("ATK")
	item := store.addItem("CNS0001", "Kertas", model.ItemTypeConsumable, category.ID, 10)
	request := store.addRequest(plainCaller.ID, item.ID, 1, model.RequestPending)
	svc := newRequestService(store)
	ctx := context.Background()

	_, err := svc.GetRequest(ctx, model.AuthUser{ID: 77, Role: model.RoleUser}, request.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	got, err := svc.GetRequest(ctx, plainCaller, request.ID)
	require.NoError(t, err)
	assert.Equal(t, request.ID, got.ID)

	got, err = svc.GetRequest(ctx, superCaller, request.ID)
	require.NoError(t, err)
	assert.Equal(t, request.ID, got.ID)
}
