package catalog

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turbot/tailpipe-plugin-envi/types"
)

func TestSampleCatalog(t *testing.T) {
	c := NewSampleCatalog()
	files, err := c.LookupFiles(context.Background(), 26184107)
	require.NoError(t, err)
	assert.Equal(t, SamplePaths, files)

	// the returned slice is a copy
	files[0] = "changed"
	assert.Equal(t, "file:/opt/gms_sample/227064_000202_BLA_SR.bsq", SamplePaths[0])
}

func TestStaticCatalog(t *testing.T) {
	c := NewStaticCatalog(map[int64][]string{1: {"file:/a.bsq"}})

	files, err := c.LookupFiles(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"file:/a.bsq"}, files)

	_, err = c.LookupFiles(context.Background(), 2)
	assert.ErrorIs(t, err, ErrJobNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.LookupFiles(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPostgresCatalog_LookupFiles(t *testing.T) {
	filter, err := types.NewNameFilter(types.DefaultSceneFilter)
	require.NoError(t, err)

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		want    []string
		wantErr error
	}{
		{
			name: "filenames filtered to bsq",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(sceneIdsQuery)).
					WithArgs(int64(26184107)).
					WillReturnRows(sqlmock.NewRows([]string{"sceneids"}).AddRow("{202,321}"))
				mock.ExpectQuery(regexp.QuoteMeta(filenamesQuery)).
					WithArgs(sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows([]string{"filename"}).
						AddRow("file:/opt/gms_sample/227064_000202_BLA_SR.bsq").
						AddRow("file:/opt/gms_sample/227064_000202_BLA_SR.hdr").
						AddRow("file:/opt/gms_sample/227064_000321_BLA_SR.bsq"))
			},
			want: []string{
				"file:/opt/gms_sample/227064_000202_BLA_SR.bsq",
				"file:/opt/gms_sample/227064_000321_BLA_SR.bsq",
			},
		},
		{
			name: "job without scenes",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(sceneIdsQuery)).
					WithArgs(int64(26184107)).
					WillReturnRows(sqlmock.NewRows([]string{"sceneids"}).AddRow("{}"))
			},
		},
		{
			name: "unknown job",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(sceneIdsQuery)).
					WithArgs(int64(26184107)).
					WillReturnRows(sqlmock.NewRows([]string{"sceneids"}))
			},
			wantErr: ErrJobNotFound,
		},
		{
			name: "query error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(sceneIdsQuery)).
					WithArgs(int64(26184107)).
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: errors.New("connection reset"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setup(mock)

			c := NewPostgresCatalog(db, filter)
			got, err := c.LookupFiles(context.Background(), 26184107)
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, ErrJobNotFound) {
					assert.ErrorIs(t, err, ErrJobNotFound)
				} else {
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
