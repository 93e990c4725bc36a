package services

import (
	"encoding/json"
	"regexp"
	"strconv"

	"inventory-grid-service/models"

	"go.mongodb.org/mongo-driver/bson"
)

// BuildFilter compiles the grid's filter model into a Mongo predicate: the
// logical AND of one clause per filtered field. Malformed descriptors and
// unknown filter kinds or operators add no clause, so a bad filter widens
// the result set instead of failing the request.
func BuildFilter(filterModel map[string]models.FilterDescriptor) bson.M {
	filter := bson.M{}

	for field, desc := range filterModel {
		switch desc.FilterType {
		case models.FilterKindText:
			pattern, ok := desc.Filter.(string)
			if !ok || pattern == "" {
				continue
			}
			// QuoteMeta keeps substring semantics for patterns containing
			// regex metacharacters.
			filter[field] = bson.M{"$regex": regexp.QuoteMeta(pattern), "$options": "i"}

		case models.FilterKindNumber:
			value, ok := toFloat(desc.Filter)
			if !ok {
				continue
			}
			switch desc.Type {
			case models.OpEquals:
				filter[field] = value
			case models.OpGreaterThan:
				filter[field] = bson.M{"$gt": value}
			case models.OpLessThan:
				filter[field] = bson.M{"$lt": value}
			case models.OpGreaterThanOrEqual:
				filter[field] = bson.M{"$gte": value}
			case models.OpLessThanOrEqual:
				filter[field] = bson.M{"$lte": value}
			case models.OpInRange:
				to, okTo := toFloat(desc.FilterTo)
				if !okTo {
					continue
				}
				filter[field] = bson.M{"$gte": value, "$lte": to}
			}

		case models.FilterKindSet:
			if len(desc.Values) == 0 {
				continue
			}
			filter[field] = bson.M{"$in": coerceSetValues(desc.Values)}
		}
	}

	return filter
}

// BuildSort compiles the grid's sort model into a Mongo ordering. Only the
// first entry is honored; an empty model falls back to newest-first.
func BuildSort(sortModel []models.SortEntry) bson.D {
	if len(sortModel) == 0 || sortModel[0].ColID == "" {
		return bson.D{{Key: "createdAt", Value: -1}}
	}

	direction := 1
	if sortModel[0].Sort == "desc" {
		direction = -1
	}
	return bson.D{{Key: sortModel[0].ColID, Value: direction}}
}

// coerceSetValues widens a set filter's string values so that membership
// tests also match stored booleans: "true"/"false" contribute both the
// string and the boolean form to the $in list.
func coerceSetValues(values []string) []interface{} {
	out := make([]interface{}, 0, len(values))
	for _, v := range values {
		out = append(out, v)
		switch v {
		case "true":
			out = append(out, true)
		case "false":
			out = append(out, false)
		}
	}
	return out
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
