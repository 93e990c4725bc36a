package services_test

import (
	"context"
	"testing"
	"time"

	"inventory-grid-service/models"
	"inventory-grid-service/repository"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ---- bulk sync ----

func TestBulkSync_StripsTransientFields(t *testing.T) {
	repo := &mockInventoryRepo{bulkUpsertOut: &models.BulkWriteSummary{Matched: 1, Modified: 1}}
	svc := newTestService(repo)

	rows := []map[string]interface{}{
		{
			"sku":             "SKU-1",
			"quantityInStock": 5,
			"isDirty":         true,
			"isNew":           false,
			"_isDirty":        true,
			"__changed":       true,
			"_id":             primitive.NewObjectID().Hex(),
			"createdAt":       "2024-01-01T00:00:00Z",
		},
	}
	summary, err := svc.BulkSync(context.Background(), rows)

	assert.Nil(t, err)
	assert.Equal(t, int64(1), summary.Matched)
	assert.Len(t, repo.bulkUpsertIn, 1)

	doc := repo.bulkUpsertIn[0]
	assert.Equal(t, "SKU-1", doc["sku"])
	assert.Equal(t, 5, doc["quantityInStock"])
	assert.NotContains(t, doc, "isDirty")
	assert.NotContains(t, doc, "isNew")
	assert.NotContains(t, doc, "_isDirty")
	assert.NotContains(t, doc, "__changed")
	assert.NotContains(t, doc, "_id")
	assert.NotContains(t, doc, "createdAt")
}

func TestBulkSync_SkipsRowsWithoutSKU(t *testing.T) {
	repo := &mockInventoryRepo{bulkUpsertOut: &models.BulkWriteSummary{Upserted: 1}}
	svc := newTestService(repo)

	rows := []map[string]interface{}{
		{"name": "no sku here"},
		{"sku": "", "name": "empty sku"},
		{"sku": "SKU-NEW", "quantityInStock": 5},
	}
	summary, err := svc.BulkSync(context.Background(), rows)

	assert.Nil(t, err)
	assert.Len(t, repo.bulkUpsertIn, 1)
	assert.Equal(t, int64(2), summary.Skipped)
	assert.Equal(t, int64(1), summary.Upserted)
}

func TestBulkSync_AllRowsInvalidIsBadRequest(t *testing.T) {
	svc := newTestService(&mockInventoryRepo{})

	summary, err := svc.BulkSync(context.Background(), []map[string]interface{}{
		{"name": "orphan row"},
	})

	assert.Nil(t, summary)
	assert.NotNil(t, err)
	assert.Equal(t, 400, err.StatusCode)
}

func TestBulkSync_SameBatchProducesSameDocuments(t *testing.T) {
	repo := &mockInventoryRepo{bulkUpsertOut: &models.BulkWriteSummary{}}
	svc := newTestService(repo)

	rows := []map[string]interface{}{
		{"sku": "SKU-1", "quantityInStock": 5, "isDirty": true},
	}

	_, err := svc.BulkSync(context.Background(), rows)
	assert.Nil(t, err)
	first := repo.bulkUpsertIn

	_, err = svc.BulkSync(context.Background(), rows)
	assert.Nil(t, err)

	assert.Equal(t, first, repo.bulkUpsertIn)
}

// ---- bulk update ----

func TestBulkUpdate_ResolvesIDAndStripsItFromPayload(t *testing.T) {
	repo := &mockInventoryRepo{bulkUpdateOut: &models.BulkWriteSummary{Matched: 1, Modified: 1}}
	svc := newTestService(repo)

	id := primitive.NewObjectID()
	rows := []map[string]interface{}{
		{"_id": id.Hex(), "sellingPrice": 120.0, "_isDirty": true},
	}
	summary, err := svc.BulkUpdate(context.Background(), rows)

	assert.Nil(t, err)
	assert.Equal(t, int64(1), summary.Matched)
	assert.Len(t, repo.bulkUpdateIn, 1)
	assert.Equal(t, id, repo.bulkUpdateIn[0].ID)
	assert.Equal(t, 120.0, repo.bulkUpdateIn[0].Fields["sellingPrice"])
	assert.NotContains(t, repo.bulkUpdateIn[0].Fields, "_id")
	assert.NotContains(t, repo.bulkUpdateIn[0].Fields, "_isDirty")
}

func TestBulkUpdate_AcceptsPlainIDKey(t *testing.T) {
	repo := &mockInventoryRepo{bulkUpdateOut: &models.BulkWriteSummary{}}
	svc := newTestService(repo)

	id := primitive.NewObjectID()
	_, err := svc.BulkUpdate(context.Background(), []map[string]interface{}{
		{"id": id.Hex(), "notes": "x"},
	})

	assert.Nil(t, err)
	assert.Equal(t, id, repo.bulkUpdateIn[0].ID)
}

func TestBulkUpdate_SkipsRowsWithoutResolvableID(t *testing.T) {
	repo := &mockInventoryRepo{bulkUpdateOut: &models.BulkWriteSummary{Matched: 1}}
	svc := newTestService(repo)

	rows := []map[string]interface{}{
		{"notes": "no id"},
		{"_id": "not-a-hex-id", "notes": "bad id"},
		{"_id": primitive.NewObjectID().Hex(), "notes": "good"},
	}
	summary, err := svc.BulkUpdate(context.Background(), rows)

	assert.Nil(t, err)
	assert.Len(t, repo.bulkUpdateIn, 1)
	assert.Equal(t, int64(2), summary.Skipped)
}

func TestBulkUpdate_AllRowsInvalidIsBadRequest(t *testing.T) {
	svc := newTestService(&mockInventoryRepo{})

	summary, err := svc.BulkUpdate(context.Background(), []map[string]interface{}{
		{"notes": "no id"},
	})

	assert.Nil(t, summary)
	assert.NotNil(t, err)
	assert.Equal(t, 400, err.StatusCode)
}

// ---- bulk create ----

func TestBulkCreate_AssignsIDsAndTimestamps(t *testing.T) {
	repo := &mockInventoryRepo{}
	svc := newTestService(repo)

	records := []models.InventoryRecord{
		{SKU: "SKU-1", Name: "Product 1", DiscountPercent: 20, TaxPercent: 18},
	}
	created, err := svc.BulkCreate(context.Background(), records)

	assert.Nil(t, err)
	assert.Len(t, created, 1)
	assert.False(t, created[0].ID.IsZero())
	assert.False(t, created[0].CreatedAt.IsZero())
	assert.Equal(t, created[0].CreatedAt, created[0].UpdatedAt)
	assert.WithinDuration(t, time.Now().UTC(), created[0].CreatedAt, 5*time.Second)
}

func TestBulkCreate_RejectsInvariantViolations(t *testing.T) {
	svc := newTestService(&mockInventoryRepo{})

	cases := []models.InventoryRecord{
		{},                               // missing sku
		{SKU: "S", DiscountPercent: 120}, // discount out of range
		{SKU: "S", DiscountPercent: 10, TaxPercent: 20}, // tax above discount
		{SKU: "S", SellingPrice: -1},                    // negative price
		{SKU: "S", QuantityInStock: -3},                 // negative stock
	}
	for _, rec := range cases {
		created, err := svc.BulkCreate(context.Background(), []models.InventoryRecord{rec})
		assert.Nil(t, created)
		assert.NotNil(t, err)
		assert.Equal(t, 400, err.StatusCode)
	}
}

func TestBulkCreate_DuplicateSKUIsConflict(t *testing.T) {
	repo := &mockInventoryRepo{
		insertErr: mongo.BulkWriteException{
			WriteErrors: []mongo.BulkWriteError{
				{WriteError: mongo.WriteError{Code: 11000, Message: "E11000 duplicate key error"}},
			},
		},
	}
	svc := newTestService(repo)

	created, err := svc.BulkCreate(context.Background(), []models.InventoryRecord{
		{SKU: "SKU-1"},
	})

	assert.Nil(t, created)
	assert.NotNil(t, err)
	assert.Equal(t, 409, err.StatusCode)
}

// ---- single update ----

func TestUpdateOne_InvalidIDIsBadRequest(t *testing.T) {
	svc := newTestService(&mockInventoryRepo{})

	updated, err := svc.UpdateOne(context.Background(), "not-hex", map[string]interface{}{"notes": "x"})

	assert.Nil(t, updated)
	assert.Equal(t, 400, err.StatusCode)
}

func TestUpdateOne_MissingRecordIsNotFound(t *testing.T) {
	svc := newTestService(&mockInventoryRepo{updateErr: repository.ErrNotFound})

	updated, err := svc.UpdateOne(context.Background(), primitive.NewObjectID().Hex(), map[string]interface{}{"notes": "x"})

	assert.Nil(t, updated)
	assert.Equal(t, 404, err.StatusCode)
}

func TestUpdateOne_EmptyPayloadIsBadRequest(t *testing.T) {
	svc := newTestService(&mockInventoryRepo{})

	// only transient fields, nothing left after stripping
	updated, err := svc.UpdateOne(context.Background(), primitive.NewObjectID().Hex(), map[string]interface{}{
		"isDirty": true,
	})

	assert.Nil(t, updated)
	assert.Equal(t, 400, err.StatusCode)
}
