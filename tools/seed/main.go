// Command seed populates the inventories collection with generated records
// for grid testing. Existing data is cleared first unless -keep is set.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"inventory-grid-service/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	categories    = []string{"Electronics", "Furniture", "Office", "Accessories"}
	subCategories = []string{"Mobile", "Laptop", "Chair", "Table", "Monitor"}
	brands        = []string{"Apple", "Samsung", "Dell", "HP", "Lenovo", "Sony"}
	warehouses    = []string{"A1", "B2", "C3", "D4"}
	suppliers     = []string{"ABC Traders", "Global Supply", "Prime Distributors"}
)

func pick(items []string) string {
	return items[rand.Intn(len(items))]
}

func randomBetween(min, max int) int {
	return min + rand.Intn(max-min+1)
}

func generateRecord(i int, runID string) models.InventoryRecord {
	cost := float64(randomBetween(1000, 40000))
	price := cost + float64(randomBetween(500, 8000))
	discount := float64(randomBetween(18, 30))

	manufacture := time.Date(2022, time.Month(randomBetween(1, 12)), randomBetween(1, 28), 0, 0, 0, 0, time.UTC)
	expiry := time.Date(2026, time.Month(randomBetween(1, 12)), randomBetween(1, 28), 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	return models.InventoryRecord{
		ID:          primitive.NewObjectID(),
		SKU:         fmt.Sprintf("SKU-%s-%06d", runID, 100000+i),
		Name:        fmt.Sprintf("Product %d", i+1),
		Description: fmt.Sprintf("Auto generated inventory item %d", i+1),

		Category:    pick(categories),
		SubCategory: pick(subCategories),
		Brand:       pick(brands),

		CostPrice:       cost,
		SellingPrice:    price,
		DiscountPercent: discount,
		TaxPercent:      18,

		QuantityInStock:   randomBetween(0, 500),
		MinimumStockLevel: randomBetween(5, 20),
		WarehouseLocation: pick(warehouses),

		SupplierName:    pick(suppliers),
		SupplierContact: fmt.Sprintf("9%09d", randomBetween(100000000, 999999999)),

		IsActive:     rand.Float64() > 0.1,
		IsReturnable: rand.Float64() > 0.2,

		ManufactureDate: &manufacture,
		ExpiryDate:      &expiry,
		LastRestockedAt: &now,

		CreatedBy: "seed-tool",
		Notes:     "Inserted for grid testing",

		CreatedAt: now,
		UpdatedAt: now,
	}
}

func main() {
	var mongoURI, dbName string
	var total int
	var keep bool
	flag.StringVar(&mongoURI, "mongo", os.Getenv("MONGO_DB_URL"), "MongoDB URI")
	flag.StringVar(&dbName, "db", os.Getenv("MONGO_DB_NAME"), "MongoDB database name")
	flag.IntVar(&total, "count", 6000, "number of records to insert")
	flag.BoolVar(&keep, "keep", false, "keep existing records")
	flag.Parse()

	if mongoURI == "" {
		mongoURI = "mongodb://127.0.0.1:27017"
	}
	if dbName == "" {
		dbName = "aggrid"
	}

	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer client.Disconnect(ctx)

	coll := client.Database(dbName).Collection("inventories")

	if !keep {
		if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("clear collection: %v", err)
		}
		log.Println("old inventory cleared")
	}

	// A short run id keeps generated skus unique across repeated -keep runs.
	runID := uuid.NewString()[:8]

	const batchSize = 500
	for start := 0; start < total; start += batchSize {
		end := start + batchSize
		if end > total {
			end = total
		}
		docs := make([]interface{}, 0, end-start)
		for i := start; i < end; i++ {
			docs = append(docs, generateRecord(i, runID))
		}
		if _, err := coll.InsertMany(ctx, docs); err != nil {
			log.Fatalf("insert batch at %d: %v", start, err)
		}
	}

	log.Printf("%d inventory records inserted", total)
}
