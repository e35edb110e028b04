package constants

const (
	EnvLogLevel = "ENVI_LOG_LEVEL"
	// EnvLogFormat selects the log handler: json (default) or text
	EnvLogFormat = "ENVI_LOG_FORMAT"
	// EnvPrefix is the prefix of environment variables bound to command line flags
	EnvPrefix = "ENVI"
	// EnvCatalogConnectionString is read when a catalog source has no connection string configured
	EnvCatalogConnectionString = "ENVI_CATALOG_CONNECTION_STRING"
)

const (
	DefaultParallelism = 1
	// SampleJobId is the job id used by the sample catalog
	SampleJobId int64 = 26184107
)
