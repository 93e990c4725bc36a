package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"inventory-grid-service/models"
	"inventory-grid-service/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// transientFields are client-side bookkeeping markers and server-owned
// fields that must never be written from an edited row. Both naming
// variants of the dirty marker are stripped because different grid
// revisions used both.
var transientFields = []string{
	"_id", "id",
	"isDirty", "isNew",
	"_isDirty", "_isNew", "__changed",
	"createdAt", "updatedAt",
}

// sanitizeRow copies an edited row into a store document, dropping
// transient fields.
func sanitizeRow(row map[string]interface{}) bson.M {
	doc := bson.M{}
	for k, v := range row {
		doc[k] = v
	}
	for _, f := range transientFields {
		delete(doc, f)
	}
	return doc
}

// resolveRowID extracts the document id from an edited row, accepting
// either "_id" or "id" as a hex string.
func resolveRowID(row map[string]interface{}) (primitive.ObjectID, bool) {
	for _, key := range []string{"_id", "id"} {
		if raw, ok := row[key]; ok {
			if hex, ok := raw.(string); ok {
				if id, err := primitive.ObjectIDFromHex(hex); err == nil {
					return id, true
				}
			}
		}
	}
	return primitive.NilObjectID, false
}

// BulkUpdate applies id-keyed partial updates. Rows without a resolvable
// identifier are skipped individually; a row whose id matches nothing just
// lowers the matched count.
func (s *gridServiceImpl) BulkUpdate(ctx context.Context, rows []map[string]interface{}) (*models.BulkWriteSummary, *ServiceError) {
	updates := make([]models.RowUpdate, 0, len(rows))
	var skipped int64
	for _, row := range rows {
		id, ok := resolveRowID(row)
		if !ok {
			skipped++
			continue
		}
		updates = append(updates, models.RowUpdate{ID: id, Fields: sanitizeRow(row)})
	}

	if len(updates) == 0 {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "No rows carry a usable id"}
	}

	summary, err := s.repo.BulkUpdateByID(ctx, updates)
	if err != nil {
		s.logger.Error("bulk update failed", zap.Int("rows", len(updates)), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Bulk update failed"}
	}
	summary.Skipped = skipped

	s.logger.Info("bulk update applied",
		zap.Int64("matched", summary.Matched),
		zap.Int64("modified", summary.Modified),
		zap.Int64("skipped", skipped),
	)
	return summary, nil
}

// BulkSync is the canonical save path for grid edits: a per-row upsert
// matched by sku. Transient fields are stripped server-side, so dirty
// markers never reach the store, and re-submitting a batch is idempotent.
func (s *gridServiceImpl) BulkSync(ctx context.Context, rows []map[string]interface{}) (*models.BulkWriteSummary, *ServiceError) {
	docs := make([]bson.M, 0, len(rows))
	var skipped int64
	for _, row := range rows {
		sku, ok := row["sku"].(string)
		if !ok || sku == "" {
			skipped++
			continue
		}
		docs = append(docs, sanitizeRow(row))
	}

	if len(docs) == 0 {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "No rows carry a sku"}
	}

	summary, err := s.repo.BulkUpsertBySKU(ctx, docs)
	if err != nil {
		s.logger.Error("bulk sync failed", zap.Int("rows", len(docs)), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Bulk sync failed"}
	}
	summary.Skipped = skipped

	s.logger.Info("bulk sync applied",
		zap.Int64("matched", summary.Matched),
		zap.Int64("upserted", summary.Upserted),
		zap.Int64("skipped", skipped),
	)
	return summary, nil
}

// BulkCreate inserts a batch of new records. Ids and timestamps are
// server-assigned. The insert is ordered, so a duplicate sku fails the
// whole batch.
func (s *gridServiceImpl) BulkCreate(ctx context.Context, records []models.InventoryRecord) ([]models.InventoryRecord, *ServiceError) {
	now := time.Now().UTC()
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: err.Error()}
		}
		records[i].ID = primitive.NewObjectID()
		records[i].CreatedAt = now
		records[i].UpdatedAt = now
	}

	if err := s.repo.InsertMany(ctx, records); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &ServiceError{StatusCode: http.StatusConflict, Message: "A record with one of these skus already exists"}
		}
		s.logger.Error("bulk create failed", zap.Int("rows", len(records)), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Bulk create failed"}
	}

	s.logger.Info("bulk create applied", zap.Int("rows", len(records)))
	return records, nil
}

// UpdateOne applies a partial update to a single record by id.
func (s *gridServiceImpl) UpdateOne(ctx context.Context, id string, fields map[string]interface{}) (*models.InventoryRecord, *ServiceError) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Invalid record id"}
	}

	doc := sanitizeRow(fields)
	if len(doc) == 0 {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "No update fields provided"}
	}

	updated, err := s.repo.UpdateByID(ctx, objectID, doc)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Record not found"}
		}
		s.logger.Error("update failed", zap.String("id", id), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to update record"}
	}
	return updated, nil
}
