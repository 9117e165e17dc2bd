package client

import (
	"reflect"

	"github.com/fivetwenty-io/mgmt-client/pkg/mgmt"
)

// Argument labels used in validation errors.
const (
	fieldJobID        = "job id"
	fieldConnectionID = "connection id"
	fieldUserID       = "user id"
	fieldUsersFile    = "users file"
)

// requireNonEmpty rejects a missing required string argument.
func requireNonEmpty(field, value string) error {
	if value == "" {
		return &mgmt.InvalidArgumentError{Field: field}
	}

	return nil
}

// requireFile rejects a missing required file argument, including a typed
// nil pointer wrapped in the interface.
func requireFile(field string, file mgmt.File) error {
	if file == nil {
		return &mgmt.InvalidArgumentError{Field: field}
	}

	if value := reflect.ValueOf(file); value.Kind() == reflect.Ptr && value.IsNil() {
		return &mgmt.InvalidArgumentError{Field: field}
	}

	return nil
}
