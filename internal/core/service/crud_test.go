package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodbank/lisreceiver/internal/core/domain"
)

func TestGetInventory_FilterAndEmptyFilter(t *testing.T) {
	store := newMemStore(storedDocument())
	svc, _ := newTestService(store)
	ctx := context.Background()

	all, err := svc.GetInventory(ctx, domain.FilterCriteria{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := svc.GetInventory(ctx, domain.FilterCriteria{ABO: "A", Rh: "-"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "PLT", filtered[0].ElementID)
}

func TestCreateInventoryRecord_AssignsStableID(t *testing.T) {
	store := newMemStore(storedDocument())
	svc, _ := newTestService(store)

	created, err := svc.CreateInventoryRecord(context.Background(), domain.InventoryRecord{
		ABO: "B", Rh: "+", ElementID: "FFP", ElementName: "Fresh frozen plasma", Volume: 200, Quantity: 4,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.RecordID)

	doc := store.snapshot()
	require.Len(t, doc.Inventory, 3)
	assert.Equal(t, created.RecordID, doc.Inventory[2].RecordID)
}

func TestUpdateInventoryRecord_PreservesID(t *testing.T) {
	store := newMemStore(storedDocument())
	svc, _ := newTestService(store)

	err := svc.UpdateInventoryRecord(context.Background(), 0, domain.InventoryRecord{
		RecordID: "attacker-chosen", ABO: "O", Rh: "+", ElementID: "RBC", Volume: 250, Quantity: 7,
	})
	require.NoError(t, err)

	doc := store.snapshot()
	assert.Equal(t, "r1", doc.Inventory[0].RecordID)
	assert.Equal(t, 7, doc.Inventory[0].Quantity)
}

func TestInventoryCRUD_OutOfRangeIsNotFound(t *testing.T) {
	store := newMemStore(storedDocument())
	svc, _ := newTestService(store)
	ctx := context.Background()

	assert.ErrorIs(t, svc.UpdateInventoryRecord(ctx, 5, domain.InventoryRecord{}), ErrNotFound)
	assert.ErrorIs(t, svc.DeleteInventoryRecord(ctx, -1), ErrNotFound)
	assert.ErrorIs(t, svc.DeleteInventoryRecord(ctx, 2), ErrNotFound)

	// Rejections must not have written anything.
	assert.Len(t, store.snapshot().Inventory, 2)
}

func TestDeleteInventoryRecord(t *testing.T) {
	store := newMemStore(storedDocument())
	svc, _ := newTestService(store)

	require.NoError(t, svc.DeleteInventoryRecord(context.Background(), 0))

	doc := store.snapshot()
	require.Len(t, doc.Inventory, 1)
	assert.Equal(t, "r2", doc.Inventory[0].RecordID)
}

func TestCreateOrder_ValidatesButSkipsStockCheck(t *testing.T) {
	store := newMemStore(storedDocument())
	svc, _ := newTestService(store)
	ctx := context.Background()

	// Quantity far beyond stock: the maintenance path appends without
	// touching inventory.
	order := validOrder()
	order.ListOrder[0].Quantity = "100"
	created, err := svc.CreateOrder(ctx, order)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	doc := store.snapshot()
	assert.Equal(t, 5, doc.Inventory[0].Quantity)
	assert.Len(t, doc.PatientOrders, 1)

	bad := validOrder()
	bad.Sex = "X"
	_, err = svc.CreateOrder(ctx, bad)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUpdateOrder_PreservesIDAndValidates(t *testing.T) {
	store := newMemStore(storedDocument())
	svc, _ := newTestService(store)
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, validOrder())
	require.NoError(t, err)

	updated := validOrder()
	updated.ID = "replacement-id"
	updated.PatientName = "Tran Thi B"
	require.NoError(t, svc.UpdateOrder(ctx, 0, updated))

	doc := store.snapshot()
	assert.Equal(t, created.ID, doc.PatientOrders[0].ID)
	assert.Equal(t, "Tran Thi B", doc.PatientOrders[0].PatientName)

	bad := validOrder()
	bad.Age = "200"
	err = svc.UpdateOrder(ctx, 0, bad)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	assert.ErrorIs(t, svc.UpdateOrder(ctx, 3, validOrder()), ErrNotFound)
}

func TestDeleteOrder_OutOfRangeIsNotFound(t *testing.T) {
	store := newMemStore(storedDocument())
	svc, _ := newTestService(store)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, validOrder())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteOrder(ctx, 1), ErrNotFound)
	require.NoError(t, svc.DeleteOrder(ctx, 0))
	assert.Empty(t, store.snapshot().PatientOrders)
}
