package mgmt

import (
	"time"
)

// Job represents an asynchronous job.
type Job struct {
	ID              string             `json:"id"                          yaml:"id"`
	Type            string             `json:"type"                        yaml:"type"`
	Status          string             `json:"status"                      yaml:"status"`
	CreatedAt       *time.Time         `json:"created_at,omitempty"        yaml:"created_at,omitempty"`
	ConnectionID    string             `json:"connection_id,omitempty"     yaml:"connection_id,omitempty"`
	Connection      string             `json:"connection,omitempty"        yaml:"connection,omitempty"`
	Format          string             `json:"format,omitempty"            yaml:"format,omitempty"`
	Limit           int                `json:"limit,omitempty"             yaml:"limit,omitempty"`
	Fields          []UsersExportField `json:"fields,omitempty"            yaml:"fields,omitempty"`
	Location        string             `json:"location,omitempty"          yaml:"location,omitempty"`
	PercentageDone  int                `json:"percentage_done,omitempty"   yaml:"percentage_done,omitempty"`
	TimeLeftSeconds int                `json:"time_left_seconds,omitempty" yaml:"time_left_seconds,omitempty"`
	ExternalID      string             `json:"external_id,omitempty"       yaml:"external_id,omitempty"`
	Upsert          *bool              `json:"upsert,omitempty"            yaml:"upsert,omitempty"`
	Summary         *JobSummary        `json:"summary,omitempty"           yaml:"summary,omitempty"`
}

// JobSummary counts the outcome of an import job.
type JobSummary struct {
	Failed   int `json:"failed"   yaml:"failed"`
	Updated  int `json:"updated"  yaml:"updated"`
	Inserted int `json:"inserted" yaml:"inserted"`
	Total    int `json:"total"    yaml:"total"`
}

// UsersExportField selects a user attribute for an export. ExportAs renames
// the column and is left out of the JSON when empty.
type UsersExportField struct {
	Name     string `json:"name"                yaml:"name"`
	ExportAs string `json:"export_as,omitempty" yaml:"export_as,omitempty"`
}

// NewUsersExportField exports the attribute under its own name.
func NewUsersExportField(name string) UsersExportField {
	return UsersExportField{Name: name}
}

// NewUsersExportFieldAs exports the attribute under an alias.
func NewUsersExportFieldAs(name, exportAs string) UsersExportField {
	return UsersExportField{Name: name, ExportAs: exportAs}
}

// JobErrorDetails is one failed record of an import job.
type JobErrorDetails struct {
	User   map[string]interface{} `json:"user"   yaml:"user"`
	Errors []JobError             `json:"errors" yaml:"errors"`
}

// JobError describes why a record failed.
type JobError struct {
	Code    string `json:"code"           yaml:"code"`
	Message string `json:"message"        yaml:"message"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
}

// UsersImportOptions are the optional form fields of a users import. Unset
// options are not sent.
type UsersImportOptions struct {
	Upsert              *bool
	ExternalID          string
	SendCompletionEmail *bool
}

// WithUpsert updates users that already exist instead of failing them.
func (o *UsersImportOptions) WithUpsert(upsert bool) *UsersImportOptions {
	o.Upsert = &upsert

	return o
}

// WithExternalID tags the job with a caller supplied identifier.
func (o *UsersImportOptions) WithExternalID(externalID string) *UsersImportOptions {
	o.ExternalID = externalID

	return o
}

// WithSendCompletionEmail toggles the completion email to tenant owners.
func (o *UsersImportOptions) WithSendCompletionEmail(send bool) *UsersImportOptions {
	o.SendCompletionEmail = &send

	return o
}
