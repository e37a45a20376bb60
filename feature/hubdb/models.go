package hubdb

// KeyColumn is the column holding the course url key.
const KeyColumn = "url_key"

// Row is a HubDB row as returned by the API.
type Row struct {
	ID     string         `json:"id"`
	Name   string         `json:"name,omitempty"`
	Path   string         `json:"path,omitempty"`
	Values map[string]any `json:"values"`
}

// Key returns the url key column of the row, or an empty string.
func (r Row) Key() string {
	if v, ok := r.Values[KeyColumn].(string); ok {
		return v
	}
	return ""
}

// DisplayName returns the title column, then the row name, then the key.
func (r Row) DisplayName() string {
	if v, ok := r.Values["title"].(string); ok && v != "" {
		return v
	}
	if r.Name != "" {
		return r.Name
	}
	return r.Key()
}

// RowInput is the body of a create or update call.
type RowInput struct {
	Name   string         `json:"name,omitempty"`
	Path   string         `json:"path,omitempty"`
	Values map[string]any `json:"values"`
}

// Table is the table metadata returned by the schema endpoint.
type Table struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Label     string   `json:"label"`
	Published bool     `json:"published"`
	RowCount  int      `json:"rowCount"`
	Columns   []Column `json:"columns"`
}

// Column describes one table column.
type Column struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// rowsPage is one page of the rows endpoint.
// Current API versions answer with results; older ones used objects.
type rowsPage struct {
	Results []Row `json:"results"`
	Objects []Row `json:"objects"`
}

func (p rowsPage) rows() []Row {
	if len(p.Results) > 0 {
		return p.Results
	}
	return p.Objects
}
