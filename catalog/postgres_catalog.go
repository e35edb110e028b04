package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/turbot/tailpipe-plugin-envi/types"
)

const (
	sceneIdsQuery  = `SELECT sceneids FROM scenejobs WHERE id = $1`
	filenamesQuery = `SELECT filename FROM scenes WHERE id = ANY($1) ORDER BY id`
)

// PostgresCatalog resolves job scenes from the scenejobs and scenes tables
type PostgresCatalog struct {
	db *sql.DB
	// only file names accepted by the filter are returned
	filter *types.NameFilter
}

// OpenPostgresCatalog opens a catalog database using a lib/pq connection string or URL
func OpenPostgresCatalog(ctx context.Context, connectionString string, filter *types.NameFilter) (*PostgresCatalog, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to catalog database: %w", err)
	}
	return NewPostgresCatalog(db, filter), nil
}

func NewPostgresCatalog(db *sql.DB, filter *types.NameFilter) *PostgresCatalog {
	return &PostgresCatalog{db: db, filter: filter}
}

func (c *PostgresCatalog) LookupFiles(ctx context.Context, jobId int64) ([]string, error) {
	var sceneIds []int64
	err := c.db.QueryRowContext(ctx, sceneIdsQuery, jobId).Scan(pq.Array(&sceneIds))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrJobNotFound, jobId)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query scene ids for job %d: %w", jobId, err)
	}
	if len(sceneIds) == 0 {
		return nil, nil
	}

	rows, err := c.db.QueryContext(ctx, filenamesQuery, pq.Array(sceneIds))
	if err != nil {
		return nil, fmt.Errorf("failed to query file names for job %d: %w", jobId, err)
	}
	defer rows.Close()

	var files []string
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, fmt.Errorf("failed to read file name: %w", err)
		}
		if c.filter != nil && !c.filter.Accept(filename) {
			slog.Debug("PostgresCatalog skipping file", "job", jobId, "file", filename, "filter", c.filter.String())
			continue
		}
		files = append(files, filename)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file names for job %d: %w", jobId, err)
	}

	slog.Info("PostgresCatalog resolved job", "job", jobId, "scenes", len(sceneIds), "files", len(files))
	return files, nil
}

func (c *PostgresCatalog) Close() error {
	return c.db.Close()
}
