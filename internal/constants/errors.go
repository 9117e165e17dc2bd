package constants

import "errors"

// Configuration errors surfaced by the CLI.
var (
	ErrNoDomainConfigured      = errors.New("no domain configured, use --domain or MGMT_DOMAIN")
	ErrNoCredentialsConfigured = errors.New("no credentials configured, provide --token or --client-id/--client-secret")
	ErrInvalidFieldSpec        = errors.New("invalid export field, expected name or name:alias")
	ErrUnknownOutputFormat     = errors.New("unknown output format")
)
