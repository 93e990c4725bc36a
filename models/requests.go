package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter kinds and number operators accepted in a FilterDescriptor.
// Unknown values are ignored rather than rejected.
const (
	FilterKindText   = "text"
	FilterKindNumber = "number"
	FilterKindSet    = "set"

	OpEquals             = "equals"
	OpGreaterThan        = "greaterThan"
	OpLessThan           = "lessThan"
	OpGreaterThanOrEqual = "greaterThanOrEqual"
	OpLessThanOrEqual    = "lessThanOrEqual"
	OpInRange            = "inRange"
)

// SortEntry is one column of the grid's sort model.
type SortEntry struct {
	ColID string `json:"colId"`
	Sort  string `json:"sort"` // "asc" or "desc"
}

// ColumnSpec names a column used for row grouping.
type ColumnSpec struct {
	Field string `json:"field"`
}

// FilterDescriptor is the per-field filter sent by the grid. Filter holds a
// string for text filters and a number for number filters, so it stays
// untyped here and is interpreted by the filter compiler.
type FilterDescriptor struct {
	FilterType string      `json:"filterType"`
	Type       string      `json:"type,omitempty"`
	Filter     interface{} `json:"filter,omitempty"`
	FilterTo   interface{} `json:"filterTo,omitempty"`
	Values     []string    `json:"values,omitempty"`
}

// DataRequest is one server-side row model request: a page window plus the
// sort, filter and grouping state of the grid.
type DataRequest struct {
	Start        int                         `json:"start"`
	Limit        int                         `json:"limit"`
	SortModel    []SortEntry                 `json:"sortModel"`
	FilterModel  map[string]FilterDescriptor `json:"filterModel"`
	GroupKeys    []string                    `json:"groupKeys"`
	RowGroupCols []ColumnSpec                `json:"rowGroupCols"`
}

// DataResponse carries one page of rows. Rows are either InventoryRecord
// projections or group summary documents depending on the request mode.
type DataResponse struct {
	Rows  []interface{} `json:"rows"`
	Total int64         `json:"total"`
}

// GroupSummary is one aggregated group produced by the grouping pipeline.
type GroupSummary struct {
	Key             interface{} `bson:"_id"`
	ChildCount      int64       `bson:"childCount"`
	QuantityInStock float64     `bson:"quantityInStock"`
	SellingPrice    float64     `bson:"sellingPrice"`
}

// BulkRowsRequest is the shared request body of the bulk write endpoints.
// Rows are loosely typed because edited grid rows carry transient
// bookkeeping fields that never reach the store.
type BulkRowsRequest struct {
	Rows []map[string]interface{} `json:"rows"`
}

// BulkCreateRequest carries fully-specified new records.
type BulkCreateRequest struct {
	Rows []InventoryRecord `json:"rows"`
}

// RowUpdate is a single id-keyed partial update inside a bulk batch.
type RowUpdate struct {
	ID     primitive.ObjectID
	Fields bson.M
}

// BulkWriteSummary reports the outcome of a bulk write. Skipped counts rows
// dropped before the write because they had no usable identifier.
type BulkWriteSummary struct {
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
	Upserted int64 `json:"upserted,omitempty"`
	Skipped  int64 `json:"skipped,omitempty"`
}
