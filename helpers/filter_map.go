package helpers

import (
	"fmt"

	"github.com/turbot/pipe-fittings/filter"
)

// BuildFilterMap parses the provided filter strings and returns a map of field name to SQL filter
// Every filter must refer to exactly one field; a later filter on the same field replaces an earlier one
func BuildFilterMap(filterStrings []string) (map[string]*filter.SqlFilter, error) {
	filters := make(map[string]*filter.SqlFilter)
	for _, filterString := range filterStrings {
		f, err := filter.NewSqlFilter(filterString)
		if err != nil {
			return nil, fmt.Errorf("failed to parse filter %s: %w", filterString, err)
		}

		// the LHS property names of the filter
		fieldNames, err := f.GetFieldNames()
		if err != nil {
			return nil, fmt.Errorf("failed to get field names for filter %s: %w", filterString, err)
		}
		if len(fieldNames) != 1 {
			return nil, fmt.Errorf("expected a single field name for filter %s, got %v", filterString, fieldNames)
		}

		filters[fieldNames[0]] = f
	}
	return filters, nil
}

// PropertiesSatisfyFilters returns whether every property with a filter satisfies it
// properties without a filter, and filters without a property, are ignored
func PropertiesSatisfyFilters(properties map[string]string, filters map[string]*filter.SqlFilter) bool {
	for key, value := range properties {
		if f, exists := filters[key]; exists {
			if !f.Satisfied(map[string]string{key: value}) {
				return false
			}
		}
	}
	return true
}
