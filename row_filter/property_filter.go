package row_filter

import (
	"context"
	"log/slog"
	"slices"

	"github.com/turbot/pipe-fittings/filter"
	"golang.org/x/exp/maps"

	"github.com/turbot/tailpipe-plugin-envi/context_values"
	"github.com/turbot/tailpipe-plugin-envi/helpers"
	"github.com/turbot/tailpipe-plugin-envi/types"
)

const PropertyFilterIdentifier = "property_filter"

// PropertyFilter accepts records whose properties satisfy a set of SQL style filters, e.g. "sensor = 'BLA'"
// each filter refers to a single property; a filter on a property the record does not have is ignored
type PropertyFilter struct {
	filters map[string]*filter.SqlFilter
}

func NewPropertyFilter(filterStrings ...string) (*PropertyFilter, error) {
	filters, err := helpers.BuildFilterMap(filterStrings)
	if err != nil {
		return nil, err
	}
	return &PropertyFilter{filters: filters}, nil
}

func (f *PropertyFilter) Identifier() string {
	return PropertyFilterIdentifier
}

// Fields returns the sorted names of the filtered properties
func (f *PropertyFilter) Fields() []string {
	res := maps.Keys(f.filters)
	slices.Sort(res)
	return res
}

func (f *PropertyFilter) Filter(ctx context.Context, record *types.SceneRecord) (bool, error) {
	if helpers.PropertiesSatisfyFilters(record.Properties, f.filters) {
		return true, nil
	}
	n := context_values.CountersFromContext(ctx).Inc(f.Identifier()+".rejected", 1)
	slog.Debug("PropertyFilter rejected record", "scene id", record.SceneId, "artifact", record.Artifact, "rejected", n)
	return false, nil
}
