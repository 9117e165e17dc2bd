package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/mgmt-client/pkg/mgmt"
)

// NewJobsCommand creates the jobs command group.
func NewJobsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "jobs",
		Aliases: []string{"job"},
		Short:   "Manage asynchronous jobs",
		Long:    "Create users export, users import and verification email jobs and follow their progress",
	}

	cmd.AddCommand(newJobsGetCommand())
	cmd.AddCommand(newJobsErrorsCommand())
	cmd.AddCommand(newJobsExportUsersCommand())
	cmd.AddCommand(newJobsImportUsersCommand())
	cmd.AddCommand(newJobsSendVerificationEmailCommand())
	cmd.AddCommand(newJobsWaitCommand())

	return cmd
}

func newJobsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get JOB_ID",
		Short: "Get job details",
		Long:  "Display detailed information about a specific job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			req, err := client.Jobs().Get(args[0])
			if err != nil {
				return err
			}

			job, err := req.Execute(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get job: %w", err)
			}

			return writeJob(cmd, job)
		},
	}
}

func newJobsErrorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "errors JOB_ID",
		Short: "List failed records of an import job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			req, err := client.Jobs().GetErrorDetails(args[0])
			if err != nil {
				return err
			}

			details, err := req.Execute(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get job errors: %w", err)
			}

			if len(details) == 0 && outputFormat() == OutputFormatTable {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No failed records")

				return nil
			}

			return writeOutput(cmd.OutOrStdout(), outputFormat(), details, errorDetailsTable(details))
		},
	}
}

func newJobsExportUsersCommand() *cobra.Command {
	var (
		limit  int
		format string
		fields []string
		wait   bool
	)

	cmd := &cobra.Command{
		Use:   "export-users CONNECTION_ID",
		Short: "Export the users of a connection",
		Long: `Create a users export job for a connection.

Fields are given as name or name:alias, e.g. --field email --field user_metadata.plan:plan`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exportFields, err := ParseFieldSpecs(fields)
			if err != nil {
				return err
			}

			filter := mgmt.NewUsersExportFilter()

			if cmd.Flags().Changed("limit") {
				filter.WithLimit(limit)
			}

			if format != "" {
				filter.WithFormat(format)
			}

			if len(exportFields) > 0 {
				filter.WithFields(exportFields)
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			req, err := client.Jobs().ExportUsers(args[0], filter)
			if err != nil {
				return err
			}

			return runJob(cmd, client, req, wait)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of users to export")
	cmd.Flags().StringVar(&format, "format", "", "export file format (json or csv)")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "user attribute to export, as name or name:alias (repeatable)")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for the job to finish")

	return cmd
}

func newJobsImportUsersCommand() *cobra.Command {
	var (
		upsert              bool
		externalID          string
		sendCompletionEmail bool
		wait                bool
	)

	cmd := &cobra.Command{
		Use:   "import-users CONNECTION_ID FILE",
		Short: "Import users into a connection",
		Long:  "Upload a JSON file of users and create a users import job for a connection",
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &mgmt.UsersImportOptions{}

			if cmd.Flags().Changed("upsert") {
				opts.WithUpsert(upsert)
			}

			if externalID != "" {
				opts.WithExternalID(externalID)
			}

			if cmd.Flags().Changed("send-completion-email") {
				opts.WithSendCompletionEmail(sendCompletionEmail)
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			req, err := client.Jobs().ImportUsersWithOptions(args[0], mgmt.LocalFile(args[1]), opts)
			if err != nil {
				return err
			}

			return runJob(cmd, client, req, wait)
		},
	}

	cmd.Flags().BoolVar(&upsert, "upsert", false, "update users that already exist")
	cmd.Flags().StringVar(&externalID, "external-id", "", "identifier to tag the job with")
	cmd.Flags().BoolVar(&sendCompletionEmail, "send-completion-email", true, "email tenant owners when the job finishes")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for the job to finish")

	return cmd
}

func newJobsSendVerificationEmailCommand() *cobra.Command {
	var (
		clientID string
		wait     bool
	)

	cmd := &cobra.Command{
		Use:   "send-verification-email USER_ID",
		Short: "Send a verification email to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			req, err := client.Jobs().SendVerificationEmail(args[0], clientID)
			if err != nil {
				return err
			}

			return runJob(cmd, client, req, wait)
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "application whose email template is used")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for the job to finish")

	return cmd
}

func newJobsWaitCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "wait JOB_ID",
		Short: "Wait for a job to finish",
		Long:  "Poll a job until it completes, fails, or times out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			if timeout > 0 {
				var cancel context.CancelFunc

				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			return waitForJob(ctx, cmd, client, args[0])
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "give up after this long (default is the client poll timeout)")

	return cmd
}

// runJob executes a job creating request, then prints the job or, with wait,
// its final state.
func runJob(cmd *cobra.Command, client mgmt.Client, req mgmt.Request[*mgmt.Job], wait bool) error {
	job, err := req.Execute(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	if !wait {
		return writeJob(cmd, job)
	}

	if viper.GetBool("verbose") {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Waiting for job %s...\n", job.ID)
	}

	return waitForJob(cmd.Context(), cmd, client, job.ID)
}

// waitForJob prints the final state of a job. A failed job is printed before
// its error is returned.
func waitForJob(ctx context.Context, cmd *cobra.Command, client mgmt.Client, jobID string) error {
	job, err := client.Jobs().WaitUntilComplete(ctx, jobID)
	if job != nil {
		writeErr := writeJob(cmd, job)
		if writeErr != nil {
			return writeErr
		}
	}

	if err != nil {
		return fmt.Errorf("job did not complete: %w", err)
	}

	return nil
}

func writeJob(cmd *cobra.Command, job *mgmt.Job) error {
	return writeOutput(cmd.OutOrStdout(), outputFormat(), job, jobTable(job))
}

func outputFormat() string {
	format := viper.GetString("output")
	if format == "" {
		return OutputFormatTable
	}

	return format
}
