package parse

// Config is an interface that all configuration structs must implement - this includes:
// - source config
// - output config
type Config interface {
	Validate() error
	Identifier() string
}
