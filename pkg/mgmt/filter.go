package mgmt

import "slices"

// Export filter keys.
const (
	FilterKeyLimit  = "limit"
	FilterKeyFormat = "format"
	FilterKeyFields = "fields"
)

// UsersExportFilter collects the optional parameters of a users export.
// Only keys that were set are rendered; calling a setter again replaces the
// earlier value. Values are passed through unchecked.
//
// A filter is not safe for concurrent mutation. Requests snapshot it when
// they are built, so later changes do not affect them.
type UsersExportFilter struct {
	params Params
}

// NewUsersExportFilter creates an empty filter.
func NewUsersExportFilter() *UsersExportFilter {
	return &UsersExportFilter{}
}

// WithLimit limits the number of exported users.
func (f *UsersExportFilter) WithLimit(limit int) *UsersExportFilter {
	f.params.Set(FilterKeyLimit, limit)

	return f
}

// WithFormat sets the export file format, e.g. "csv" or "json".
func (f *UsersExportFilter) WithFormat(format string) *UsersExportFilter {
	f.params.Set(FilterKeyFormat, format)

	return f
}

// WithFields selects the exported user attributes. An empty selection
// removes the key so the server exports its default attributes.
func (f *UsersExportFilter) WithFields(fields []UsersExportField) *UsersExportFilter {
	if len(fields) == 0 {
		f.params.Delete(FilterKeyFields)

		return f
	}

	f.params.Set(FilterKeyFields, slices.Clone(fields))

	return f
}

// AsParams renders the filter in the order its keys were first set.
func (f *UsersExportFilter) AsParams() Params {
	if f == nil {
		return nil
	}

	return f.params.Clone()
}

