package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/mgmt-client/internal/constants"
	"github.com/fivetwenty-io/mgmt-client/pkg/mgmt"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "N/A"
	Masked       = "***"

	// OutputFormatTable is the default output format.
	OutputFormatTable = "table"

	timeLayout = "2006-01-02 15:04:05"
)

// Common static errors used throughout the commands package.
var (
	ErrUnknownSetting = errors.New("unknown setting")
)

// tableFunc fills a table for the table output format.
type tableFunc func(table *tablewriter.Table) error

// writeOutput renders value as json or yaml, or calls fill for table output.
func writeOutput(w io.Writer, format string, value interface{}, fill tableFunc) error {
	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(value)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(w)

		err := encoder.Encode(value)
		if err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}

		return encoder.Close()
	case OutputFormatTable:
		table := tablewriter.NewWriter(w)

		err := fill(table)
		if err != nil {
			return err
		}

		err = table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownOutputFormat, format)
	}
}

// jobTable lists the populated properties of a job.
func jobTable(job *mgmt.Job) tableFunc {
	return func(table *tablewriter.Table) error {
		table.Header("Property", "Value")

		rows := [][2]string{
			{"ID", job.ID},
			{"Type", job.Type},
			{"Status", job.Status},
			{"Created", formatTime(job.CreatedAt)},
		}

		optional := [][2]string{
			{"Connection ID", job.ConnectionID},
			{"Connection", job.Connection},
			{"Format", job.Format},
			{"Location", job.Location},
			{"External ID", job.ExternalID},
		}

		if job.Limit > 0 {
			optional = append(optional, [2]string{"Limit", strconv.Itoa(job.Limit)})
		}

		if len(job.Fields) > 0 {
			optional = append(optional, [2]string{"Fields", formatFields(job.Fields)})
		}

		if job.PercentageDone > 0 {
			optional = append(optional, [2]string{"Done", strconv.Itoa(job.PercentageDone) + "%"})
		}

		if job.Summary != nil {
			optional = append(optional, [2]string{"Summary", fmt.Sprintf("%d inserted, %d updated, %d failed of %d",
				job.Summary.Inserted, job.Summary.Updated, job.Summary.Failed, job.Summary.Total)})
		}

		for _, row := range optional {
			if row[1] != "" {
				rows = append(rows, row)
			}
		}

		for _, row := range rows {
			err := table.Append([]string{row[0], row[1]})
			if err != nil {
				return fmt.Errorf("appending row: %w", err)
			}
		}

		return nil
	}
}

// errorDetailsTable lists one row per failed record and error.
func errorDetailsTable(details []mgmt.JobErrorDetails) tableFunc {
	return func(table *tablewriter.Table) error {
		table.Header("User", "Code", "Message", "Path")

		for _, detail := range details {
			user := describeUser(detail.User)

			for _, jobErr := range detail.Errors {
				err := table.Append([]string{user, jobErr.Code, jobErr.Message, jobErr.Path})
				if err != nil {
					return fmt.Errorf("appending row: %w", err)
				}
			}
		}

		return nil
	}
}

func describeUser(user map[string]interface{}) string {
	for _, key := range []string{"email", "user_id", "username"} {
		if value, ok := user[key].(string); ok && value != "" {
			return value
		}
	}

	return NotAvailable
}

func formatTime(t *time.Time) string {
	if t == nil {
		return NotAvailable
	}

	return t.Format(timeLayout)
}

func formatFields(fields []mgmt.UsersExportField) string {
	names := make([]string, 0, len(fields))

	for _, field := range fields {
		if field.ExportAs != "" {
			names = append(names, field.Name+" as "+field.ExportAs)
		} else {
			names = append(names, field.Name)
		}
	}

	return strings.Join(names, ", ")
}

// ParseFieldSpecs turns "name" or "name:alias" flags into export fields.
func ParseFieldSpecs(specs []string) ([]mgmt.UsersExportField, error) {
	fields := make([]mgmt.UsersExportField, 0, len(specs))

	for _, spec := range specs {
		name, alias, hasAlias := strings.Cut(spec, ":")

		name = strings.TrimSpace(name)
		alias = strings.TrimSpace(alias)

		if name == "" || (hasAlias && alias == "") {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidFieldSpec, spec)
		}

		if hasAlias {
			fields = append(fields, mgmt.NewUsersExportFieldAs(name, alias))
		} else {
			fields = append(fields, mgmt.NewUsersExportField(name))
		}
	}

	return fields, nil
}

// maskSecret hides all but the last four characters of a secret.
func maskSecret(secret string) string {
	const visible = 4

	if secret == "" {
		return ""
	}

	if len(secret) <= visible {
		return Masked
	}

	return Masked + secret[len(secret)-visible:]
}
