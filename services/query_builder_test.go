package services_test

import (
	"testing"

	"inventory-grid-service/models"
	"inventory-grid-service/services"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildFilter_TextIsCaseInsensitiveSubstring(t *testing.T) {
	filter := services.BuildFilter(map[string]models.FilterDescriptor{
		"name": {FilterType: "text", Filter: "lap"},
	})

	clause, ok := filter["name"].(bson.M)
	assert.True(t, ok)
	assert.Equal(t, "lap", clause["$regex"])
	assert.Equal(t, "i", clause["$options"])
}

func TestBuildFilter_TextEscapesRegexMetacharacters(t *testing.T) {
	filter := services.BuildFilter(map[string]models.FilterDescriptor{
		"name": {FilterType: "text", Filter: "a.b (1)"},
	})

	clause := filter["name"].(bson.M)
	assert.Equal(t, `a\.b \(1\)`, clause["$regex"])
}

func TestBuildFilter_NumberOperators(t *testing.T) {
	cases := []struct {
		op       string
		expected interface{}
	}{
		{"equals", float64(100)},
		{"greaterThan", bson.M{"$gt": float64(100)}},
		{"lessThan", bson.M{"$lt": float64(100)}},
		{"greaterThanOrEqual", bson.M{"$gte": float64(100)}},
		{"lessThanOrEqual", bson.M{"$lte": float64(100)}},
	}

	for _, tc := range cases {
		filter := services.BuildFilter(map[string]models.FilterDescriptor{
			"sellingPrice": {FilterType: "number", Type: tc.op, Filter: float64(100)},
		})
		assert.Equal(t, tc.expected, filter["sellingPrice"], "operator %s", tc.op)
	}
}

func TestBuildFilter_NumberInRange(t *testing.T) {
	filter := services.BuildFilter(map[string]models.FilterDescriptor{
		"sellingPrice": {FilterType: "number", Type: "inRange", Filter: float64(50), FilterTo: float64(150)},
	})

	assert.Equal(t, bson.M{"$gte": float64(50), "$lte": float64(150)}, filter["sellingPrice"])
}

func TestBuildFilter_SetCoercesBooleanStrings(t *testing.T) {
	filter := services.BuildFilter(map[string]models.FilterDescriptor{
		"isActive": {FilterType: "set", Values: []string{"true"}},
	})

	clause := filter["isActive"].(bson.M)
	in, ok := clause["$in"].([]interface{})
	assert.True(t, ok)
	assert.Contains(t, in, "true")
	assert.Contains(t, in, true)
}

func TestBuildFilter_SetKeepsPlainStrings(t *testing.T) {
	filter := services.BuildFilter(map[string]models.FilterDescriptor{
		"category": {FilterType: "set", Values: []string{"Electronics", "Office"}},
	})

	clause := filter["category"].(bson.M)
	assert.Equal(t, []interface{}{"Electronics", "Office"}, clause["$in"])
}

func TestBuildFilter_IgnoresMalformedDescriptors(t *testing.T) {
	filter := services.BuildFilter(map[string]models.FilterDescriptor{
		"a": {FilterType: "geo", Filter: "x"},                      // unknown kind
		"b": {FilterType: "number", Type: "between", Filter: 1.0},  // unknown operator
		"c": {FilterType: "number", Type: "equals", Filter: "abc"}, // non-numeric operand
		"d": {FilterType: "text", Filter: 42},                      // non-string pattern
		"e": {FilterType: "set", Values: nil},                      // empty set
	})

	assert.Empty(t, filter)
}

func TestBuildFilter_AbsentFieldsUnconstrained(t *testing.T) {
	filter := services.BuildFilter(map[string]models.FilterDescriptor{
		"brand": {FilterType: "text", Filter: "dell"},
	})

	assert.Len(t, filter, 1)
	assert.NotContains(t, filter, "category")
}

func TestBuildFilter_Deterministic(t *testing.T) {
	model := map[string]models.FilterDescriptor{
		"name":         {FilterType: "text", Filter: "pro"},
		"sellingPrice": {FilterType: "number", Type: "greaterThan", Filter: float64(100)},
	}

	assert.Equal(t, services.BuildFilter(model), services.BuildFilter(model))
}

func TestBuildSort_DefaultIsNewestFirst(t *testing.T) {
	sort := services.BuildSort(nil)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, sort)
}

func TestBuildSort_HonorsFirstEntryOnly(t *testing.T) {
	sort := services.BuildSort([]models.SortEntry{
		{ColID: "sellingPrice", Sort: "asc"},
		{ColID: "name", Sort: "desc"},
	})

	assert.Equal(t, bson.D{{Key: "sellingPrice", Value: 1}}, sort)
}

func TestBuildSort_DescDirection(t *testing.T) {
	sort := services.BuildSort([]models.SortEntry{{ColID: "quantityInStock", Sort: "desc"}})
	assert.Equal(t, bson.D{{Key: "quantityInStock", Value: -1}}, sort)
}
