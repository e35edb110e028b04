package artifact_mapper

import (
	"context"
	"log/slog"

	"github.com/turbot/tailpipe-plugin-envi/context_values"
	"github.com/turbot/tailpipe-plugin-envi/types"
)

const IdentityMapperIdentifier = "identity"

// IdentityMapper is a [Mapper] which passes every record on unchanged
type IdentityMapper struct{}

func NewIdentityMapper() Mapper {
	return &IdentityMapper{}
}

func (m *IdentityMapper) Identifier() string {
	return IdentityMapperIdentifier
}

func (m *IdentityMapper) Map(ctx context.Context, record *types.SceneRecord) ([]*types.SceneRecord, error) {
	n := context_values.CountersFromContext(ctx).Inc(m.Identifier()+".processed", 1)
	slog.Debug("IdentityMapper.Map", "scene id", record.SceneId, "processed", n)
	return []*types.SceneRecord{record}, nil
}
