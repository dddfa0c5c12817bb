package config

const (
	fmtErrEmptyConfig     = "config %s cannot be empty"
	fmtErrMissingFields   = "missing required config: %s"
	fmtErrInvalidDuration = "config field '%s' is not a valid duration: %s"
	fmtErrInvalidPort     = "config field '%s' must be in the range 1-65535"
)

const (
	ModeServer   = "server"
	ModeSentinel = "sentinel"
)
