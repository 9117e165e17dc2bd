// Package mgmtclient provides the primary entry point for constructing a
// management API client that implements the mgmt.Client interface.
//
// It layers configuration, HTTP transport and authentication on top of the
// request builders and types defined in the mgmt package. Most applications
// import mgmtclient to build a client, then use the returned mgmt.Client to
// reach the jobs resource.
//
// Quick start
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
//	  ctx := context.Background()
//
//	  // With an API token you already have:
//	  cli, err := mgmtclient.NewWithToken("tenant.example.com", "eyJhbGciOi...")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with client credentials; the token URL and audience default to
//	  // the tenant's /oauth/token and /api/v2/.
//	  cli, err = mgmtclient.NewWithClientCredentials("tenant.example.com", "id", "secret")
//
//	  // Or from MGMT_* environment variables.
//	  cli, err = mgmtclient.NewFromEnv()
//
//	  req, err := cli.Jobs().ExportUsers("con_123", mgmt.NewUsersExportFilter().WithFormat("csv"))
//	  if err != nil { log.Fatal(err) }
//
//	  job, err := req.Execute(ctx)
//	  if err != nil { log.Fatal(err) }
//
//	  job, err = cli.Jobs().WaitUntilComplete(ctx, job.ID)
//	  _ = job
//	}
package mgmtclient
