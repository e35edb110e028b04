package constants

// path property names which are used to build the artifact timestamp
// (all other fields are only put into the properties map)
const (
	PathFieldYear  = "year"
	PathFieldMonth = "month"
	PathFieldDay   = "day"
)
