package repository

import (
	"context"
	"errors"
	"time"

	"inventory-grid-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when an update targets a record that does not exist.
var ErrNotFound = errors.New("inventory record not found")

// InventoryRepository defines the store primitives used by the grid service.
// Filters and orderings arrive pre-compiled as bson documents; the repository
// owns document ids, timestamps and write-model construction.
type InventoryRepository interface {
	Find(ctx context.Context, filter bson.M, sort bson.D, skip, limit int64) ([]models.InventoryRecord, error)
	FindAll(ctx context.Context, filter bson.M, sort bson.D) ([]models.InventoryRecord, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	GroupSummaries(ctx context.Context, field string, filter bson.M, skip, limit int64) ([]models.GroupSummary, error)
	CountGroups(ctx context.Context, field string, filter bson.M) (int64, error)
	InsertMany(ctx context.Context, records []models.InventoryRecord) error
	UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.InventoryRecord, error)
	BulkUpdateByID(ctx context.Context, rows []models.RowUpdate) (*models.BulkWriteSummary, error)
	BulkUpsertBySKU(ctx context.Context, docs []bson.M) (*models.BulkWriteSummary, error)
	EnsureIndexes(ctx context.Context) error
}

// MongoInventoryRepository is the MongoDB implementation of InventoryRepository.
type MongoInventoryRepository struct {
	collection *mongo.Collection
}

// NewMongoInventoryRepository creates a repository over the inventories collection.
func NewMongoInventoryRepository(db *mongo.Database) *MongoInventoryRepository {
	return &MongoInventoryRepository{
		collection: db.Collection("inventories"),
	}
}

// EnsureIndexes creates the unique sku index the upsert path relies on.
func (r *MongoInventoryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sku", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *MongoInventoryRepository) Find(ctx context.Context, filter bson.M, sort bson.D, skip, limit int64) ([]models.InventoryRecord, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit)
	if len(sort) > 0 {
		findOptions.SetSort(sort)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.InventoryRecord{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *MongoInventoryRepository) FindAll(ctx context.Context, filter bson.M, sort bson.D) ([]models.InventoryRecord, error) {
	findOptions := options.Find()
	if len(sort) > 0 {
		findOptions.SetSort(sort)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.InventoryRecord{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *MongoInventoryRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.collection.CountDocuments(ctx, filter)
}

// GroupSummaries partitions the filtered records by the given field and
// returns one aggregate document per distinct value, ordered by key. The
// skip/limit window applies to the ordered groups, not member records.
func (r *MongoInventoryRepository) GroupSummaries(ctx context.Context, field string, filter bson.M, skip, limit int64) ([]models.GroupSummary, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "childCount", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "quantityInStock", Value: bson.D{{Key: "$sum", Value: "$quantityInStock"}}},
			{Key: "sellingPrice", Value: bson.D{{Key: "$avg", Value: "$sellingPrice"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		bson.D{{Key: "$skip", Value: skip}},
		bson.D{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	summaries := []models.GroupSummary{}
	if err = cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// CountGroups returns the number of distinct values of the grouping field
// among the filtered records.
func (r *MongoInventoryRepository) CountGroups(ctx context.Context, field string, filter bson.M) (int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$" + field}}}},
		bson.D{{Key: "$count", Value: "total"}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var result []struct {
		Total int64 `bson:"total"`
	}
	if err = cursor.All(ctx, &result); err != nil {
		return 0, err
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Total, nil
}

func (r *MongoInventoryRepository) InsertMany(ctx context.Context, records []models.InventoryRecord) error {
	docs := make([]interface{}, 0, len(records))
	for _, rec := range records {
		docs = append(docs, rec)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// UpdateByID applies a partial update and returns the updated record.
func (r *MongoInventoryRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.InventoryRecord, error) {
	fields["updatedAt"] = time.Now().UTC()

	var updated models.InventoryRecord
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// BulkUpdateByID applies one $set per row, matched by document id. The batch
// is ordered, so a failing operation aborts the remainder.
func (r *MongoInventoryRepository) BulkUpdateByID(ctx context.Context, rows []models.RowUpdate) (*models.BulkWriteSummary, error) {
	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(rows))
	for _, row := range rows {
		row.Fields["updatedAt"] = now
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": row.ID}).
			SetUpdate(bson.M{"$set": row.Fields}))
	}

	result, err := r.collection.BulkWrite(ctx, writes)
	if err != nil {
		return nil, err
	}
	return &models.BulkWriteSummary{
		Matched:  result.MatchedCount,
		Modified: result.ModifiedCount,
	}, nil
}

// BulkUpsertBySKU performs one update-or-insert per document, matched by the
// sku business key. Re-submitting the same batch converges to the same
// stored state: matched documents are overwritten in place and createdAt is
// only assigned on first insert.
func (r *MongoInventoryRepository) BulkUpsertBySKU(ctx context.Context, docs []bson.M) (*models.BulkWriteSummary, error) {
	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(docs))
	for _, doc := range docs {
		sku := doc["sku"]
		doc["updatedAt"] = now
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"sku": sku}).
			SetUpdate(bson.M{
				"$set":         doc,
				"$setOnInsert": bson.M{"createdAt": now},
			}).
			SetUpsert(true))
	}

	result, err := r.collection.BulkWrite(ctx, writes)
	if err != nil {
		return nil, err
	}
	return &models.BulkWriteSummary{
		Matched:  result.MatchedCount,
		Modified: result.ModifiedCount,
		Upserted: result.UpsertedCount,
	}, nil
}
