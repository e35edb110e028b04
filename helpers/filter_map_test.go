package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFilterMap(t *testing.T) {
	tests := []struct {
		name       string
		filters    []string
		wantFields []string
		wantErr    bool
	}{
		{name: "nil", filters: nil, wantFields: []string{}},
		{name: "single", filters: []string{"sensor = 'BLA'"}, wantFields: []string{"sensor"}},
		{name: "multiple", filters: []string{"sensor = 'BLA'", "path_row = '227064'"}, wantFields: []string{"sensor", "path_row"}},
		{name: "invalid syntax", filters: []string{"sensor =="}, wantErr: true},
		{name: "two fields", filters: []string{"sensor = 'BLA' and frame = '1'"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildFilterMap(tt.filters)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			var fields []string
			for k := range got {
				fields = append(fields, k)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestPropertiesSatisfyFilters(t *testing.T) {
	filters, err := BuildFilterMap([]string{"sensor = 'BLA'"})
	require.NoError(t, err)

	assert.True(t, PropertiesSatisfyFilters(map[string]string{"sensor": "BLA", "frame": "1"}, filters))
	assert.False(t, PropertiesSatisfyFilters(map[string]string{"sensor": "OLI"}, filters))
	assert.True(t, PropertiesSatisfyFilters(map[string]string{"frame": "1"}, filters))
}
