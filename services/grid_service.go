package services

import (
	"context"
	"net/http"

	"inventory-grid-service/models"
	"inventory-grid-service/repository"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// DefaultPageSize is applied when a request carries no usable limit.
const DefaultPageSize = 20

// ServiceError is a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string { return e.Message }

// GridService defines the business logic behind the grid protocol.
type GridService interface {
	Query(ctx context.Context, req *models.DataRequest) (*models.DataResponse, *ServiceError)
	UpdateOne(ctx context.Context, id string, fields map[string]interface{}) (*models.InventoryRecord, *ServiceError)
	BulkUpdate(ctx context.Context, rows []map[string]interface{}) (*models.BulkWriteSummary, *ServiceError)
	BulkSync(ctx context.Context, rows []map[string]interface{}) (*models.BulkWriteSummary, *ServiceError)
	BulkCreate(ctx context.Context, records []models.InventoryRecord) ([]models.InventoryRecord, *ServiceError)
	Export(ctx context.Context, req *models.DataRequest) (*excelize.File, *ServiceError)
}

type gridServiceImpl struct {
	repo   repository.InventoryRepository
	logger *zap.Logger
}

// NewGridService creates a new GridService.
func NewGridService(repo repository.InventoryRepository, logger *zap.Logger) GridService {
	return &gridServiceImpl{repo: repo, logger: logger}
}

// Query answers one server-side row model request. Three mutually exclusive
// modes, selected from the grouping state:
//
//   - flat: no grouping columns; a page of records plus the filtered count.
//   - group summary: grouping columns but no selected group; one aggregate
//     row per distinct value of the first grouping field, windowed over the
//     ordered groups, total = number of groups.
//   - group detail: a group key is selected; member records of that group
//     with flat pagination semantics.
//
// Only the first grouping field is honored; the request shape permits an
// array but deeper nesting is not supported.
func (s *gridServiceImpl) Query(ctx context.Context, req *models.DataRequest) (*models.DataResponse, *ServiceError) {
	start := int64(req.Start)
	if start < 0 {
		start = 0
	}
	limit := int64(req.Limit)
	if limit <= 0 {
		limit = DefaultPageSize
	}

	filter := BuildFilter(req.FilterModel)

	groupField := ""
	if len(req.RowGroupCols) > 0 {
		groupField = req.RowGroupCols[0].Field
	}

	if groupField != "" && len(req.GroupKeys) == 0 {
		return s.queryGroupSummary(ctx, groupField, filter, start, limit)
	}

	if groupField != "" && len(req.GroupKeys) > 0 {
		// The selected group key becomes an equality constraint on the
		// grouping field; the rest is a flat query within the group. No
		// ordering is applied unless the request asks for one.
		filter[groupField] = req.GroupKeys[0]
		var sort bson.D
		if len(req.SortModel) > 0 {
			sort = BuildSort(req.SortModel)
		}
		return s.queryFlat(ctx, filter, sort, start, limit)
	}

	return s.queryFlat(ctx, filter, BuildSort(req.SortModel), start, limit)
}

// queryFlat runs the windowed find and the count concurrently against the
// same resolved filter. The two reads are independent, so a concurrent
// writer may land between them; the grid tolerates a momentarily stale
// total.
func (s *gridServiceImpl) queryFlat(ctx context.Context, filter bson.M, sort bson.D, skip, limit int64) (*models.DataResponse, *ServiceError) {
	type countResult struct {
		total int64
		err   error
	}
	countCh := make(chan countResult, 1)
	go func() {
		total, err := s.repo.Count(ctx, filter)
		countCh <- countResult{total, err}
	}()

	records, err := s.repo.Find(ctx, filter, sort, skip, limit)
	if err != nil {
		s.logger.Error("grid find failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to fetch rows"}
	}

	count := <-countCh
	if count.err != nil {
		s.logger.Error("grid count failed", zap.Error(count.err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to count rows"}
	}

	rows := make([]interface{}, 0, len(records))
	for i := range records {
		rows = append(rows, records[i])
	}
	return &models.DataResponse{Rows: rows, Total: count.total}, nil
}

func (s *gridServiceImpl) queryGroupSummary(ctx context.Context, field string, filter bson.M, skip, limit int64) (*models.DataResponse, *ServiceError) {
	type countResult struct {
		total int64
		err   error
	}
	countCh := make(chan countResult, 1)
	go func() {
		total, err := s.repo.CountGroups(ctx, field, filter)
		countCh <- countResult{total, err}
	}()

	summaries, err := s.repo.GroupSummaries(ctx, field, filter, skip, limit)
	if err != nil {
		s.logger.Error("group summary failed", zap.String("field", field), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to aggregate groups"}
	}

	count := <-countCh
	if count.err != nil {
		s.logger.Error("group count failed", zap.String("field", field), zap.Error(count.err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to count groups"}
	}

	// Summary rows carry the grouping field under its own name so the grid
	// can render them without knowing the group column in advance.
	rows := make([]interface{}, 0, len(summaries))
	for _, g := range summaries {
		rows = append(rows, map[string]interface{}{
			field:             g.Key,
			"childCount":      g.ChildCount,
			"quantityInStock": g.QuantityInStock,
			"sellingPrice":    g.SellingPrice,
		})
	}
	return &models.DataResponse{Rows: rows, Total: count.total}, nil
}

// Export writes the filtered, sorted record set to an xlsx workbook. The
// page window is ignored: an export always covers the full filtered set.
func (s *gridServiceImpl) Export(ctx context.Context, req *models.DataRequest) (*excelize.File, *ServiceError) {
	filter := BuildFilter(req.FilterModel)
	if len(req.RowGroupCols) > 0 && len(req.GroupKeys) > 0 {
		filter[req.RowGroupCols[0].Field] = req.GroupKeys[0]
	}

	records, err := s.repo.FindAll(ctx, filter, BuildSort(req.SortModel))
	if err != nil {
		s.logger.Error("export find failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to fetch rows for export"}
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []interface{}{
		"sku", "name", "category", "subCategory", "brand",
		"costPrice", "sellingPrice", "discountPercent", "taxPercent",
		"quantityInStock", "minimumStockLevel", "warehouseLocation",
		"supplierName", "supplierContact", "isActive", "isReturnable",
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to build export sheet"}
	}

	for i, rec := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			rec.SKU, rec.Name, rec.Category, rec.SubCategory, rec.Brand,
			rec.CostPrice, rec.SellingPrice, rec.DiscountPercent, rec.TaxPercent,
			rec.QuantityInStock, rec.MinimumStockLevel, rec.WarehouseLocation,
			rec.SupplierName, rec.SupplierContact, rec.IsActive, rec.IsReturnable,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to build export sheet"}
		}
	}

	return f, nil
}
