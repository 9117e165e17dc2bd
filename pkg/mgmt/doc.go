// Package mgmt provides types, interfaces, and helpers for working with the
// Jobs resource of the Management API v2.
//
// # Overview
//
// The mgmt package defines the domain types (Job, UsersExportField,
// UsersExportFilter, JobErrorDetails) and the interfaces of the resource
// clients. A concrete implementation is provided by the mgmtclient package,
// which wires configuration, transport, and authentication. Most consumers
// should import mgmtclient to construct a client and then work with the
// interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/mgmt-client/pkg/mgmt"
//	  "github.com/fivetwenty-io/mgmt-client/pkg/mgmtclient"
//	)
//
//	func example() {
//	  cli, err := mgmtclient.NewWithToken("tenant.example.com", "api-token")
//	  if err != nil { log.Fatal(err) }
//
//	  filter := mgmt.NewUsersExportFilter().
//	    WithFormat("csv").
//	    WithFields([]mgmt.UsersExportField{mgmt.NewUsersExportField("email")})
//
//	  req, err := cli.Jobs().ExportUsers("con_123456789", filter)
//	  if err != nil { log.Fatal(err) }
//
//	  job, err := req.Execute(context.Background())
//	  if err != nil { log.Fatal(err) }
//	  _ = job
//	}
//
// # Deferred requests
//
// Entity operations validate their arguments and return a Request without
// performing any I/O. Nothing is sent until Execute is called, and every call
// to Execute sends exactly one request.
//
// # Errors
//
// Missing required arguments are reported synchronously with an
// *InvalidArgumentError (errors.Is(err, ErrInvalidArgument)). Execute reports
// non-2xx responses as *APIError and connection failures wrapping
// ErrTransport; both match errors.Is(err, ErrTransport). Responses that do not
// decode into the expected type are reported as *DecodeError.
package mgmt
