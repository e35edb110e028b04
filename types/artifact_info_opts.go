package types

import "time"

type ArtifactInfoOpts func(*ArtifactInfo)

func WithSource(sourceType, location string) ArtifactInfoOpts {
	return func(i *ArtifactInfo) {
		i.SourceType = sourceType
		i.SourceLocation = location
	}
}

func WithSize(size int64) ArtifactInfoOpts {
	return func(i *ArtifactInfo) {
		i.Size = size
	}
}

func WithTimestamp(t time.Time) ArtifactInfoOpts {
	return func(i *ArtifactInfo) {
		i.Timestamp = t
	}
}
