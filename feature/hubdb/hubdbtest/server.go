// Package hubdbtest provides an in-memory HubDB API server for tests.
package hubdbtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"catalog-sync/feature/hubdb"
)

// Server is a fake HubDB v3 API backed by memory.
// Failure switches may be toggled between calls; they are read under the server lock.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	token     string
	tables    map[string]*table
	nextID    int
	calls     []string
	published map[string]int

	// LegacyObjects answers row listings under "objects" instead of "results".
	LegacyObjects bool
	// FailList makes row listings and lookups return 500.
	FailList bool
	// FailPing makes the table listing return 500.
	FailPing bool
	// FailPublish makes publish calls return 500.
	FailPublish bool
	// FailCreateKeys rejects creates for the given url keys with 400.
	FailCreateKeys map[string]bool
	// FailUpdateIDs rejects updates of the given row ids with 400.
	FailUpdateIDs map[string]bool
	// FailDeleteIDs rejects deletes of the given row ids with 400.
	FailDeleteIDs map[string]bool
}

type table struct {
	rows []hubdb.Row
}

// NewServer starts a fake server that requires the given bearer token.
func NewServer(token string) *Server {
	s := &Server{
		token:          token,
		tables:         map[string]*table{},
		published:      map[string]int{},
		nextID:         1000,
		FailCreateKeys: map[string]bool{},
		FailUpdateIDs:  map[string]bool{},
		FailDeleteIDs:  map[string]bool{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// AddTable registers an empty table.
func (s *Server) AddTable(tableID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[tableID]; !ok {
		s.tables[tableID] = &table{}
	}
}

// SeedRow inserts a row directly and returns its id.
func (s *Server) SeedRow(tableID, key, title string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[tableID]
	if !ok {
		t = &table{}
		s.tables[tableID] = t
	}
	id := s.newID()
	values := map[string]any{}
	if key != "" {
		values[hubdb.KeyColumn] = key
	}
	if title != "" {
		values["title"] = title
	}
	t.rows = append(t.rows, hubdb.Row{ID: id, Name: title, Path: key, Values: values})
	return id
}

// Rows returns a copy of the rows of a table.
func (s *Server) Rows(tableID string) []hubdb.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[tableID]
	if !ok {
		return nil
	}
	return append([]hubdb.Row(nil), t.rows...)
}

// Keys returns the url keys of a table in store order.
func (s *Server) Keys(tableID string) []string {
	var keys []string
	for _, r := range s.Rows(tableID) {
		keys = append(keys, r.Key())
	}
	return keys
}

// Published returns how many times the table was published.
func (s *Server) Published(tableID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.published[tableID]
}

// Calls returns the "METHOD path" log of every request received.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// CountCalls returns how many requests matched method and a path suffix.
func (s *Server) CountCalls(method, suffix string) int {
	n := 0
	for _, c := range s.Calls() {
		parts := strings.SplitN(c, " ", 2)
		if parts[0] == method && strings.HasSuffix(parts[1], suffix) {
			n++
		}
	}
	return n
}

func (s *Server) newID() string {
	s.nextID++
	return strconv.Itoa(s.nextID)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, r.Method+" "+r.URL.Path)

	if r.Header.Get("Authorization") != "Bearer "+s.token {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid token"})
		return
	}

	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/cms/v3/hubdb/tables"), "/"), "/")

	switch {
	case len(parts) == 1 && parts[0] == "" && r.Method == http.MethodGet:
		if s.FailPing {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "down"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"results": []any{}})
	case len(parts) == 1 && r.Method == http.MethodGet:
		s.getTable(w, parts[0])
	case len(parts) == 2 && parts[1] == "rows" && r.Method == http.MethodGet:
		s.listRows(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "rows" && r.Method == http.MethodPost:
		s.createRow(w, r, parts[0])
	case len(parts) == 3 && parts[1] == "rows" && r.Method == http.MethodPut:
		s.updateRow(w, r, parts[0], parts[2])
	case len(parts) == 3 && parts[1] == "rows" && r.Method == http.MethodDelete:
		s.deleteRow(w, parts[0], parts[2])
	case len(parts) == 3 && parts[1] == "draft" && parts[2] == "publish" && r.Method == http.MethodPost:
		s.publish(w, parts[0])
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "no route"})
	}
}

func (s *Server) getTable(w http.ResponseWriter, tableID string) {
	t, ok := s.tables[tableID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "table not found"})
		return
	}
	writeJSON(w, http.StatusOK, hubdb.Table{
		ID:       tableID,
		Name:     "table_" + tableID,
		RowCount: len(t.rows),
		Columns: []hubdb.Column{
			{ID: "1", Name: "title", Type: "TEXT"},
			{ID: "2", Name: hubdb.KeyColumn, Type: "TEXT"},
		},
	})
}

func (s *Server) listRows(w http.ResponseWriter, r *http.Request, tableID string) {
	t, ok := s.tables[tableID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "table not found"})
		return
	}
	if s.FailList {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "down"})
		return
	}

	q := r.URL.Query()
	var rows []hubdb.Row
	if key := q.Get(hubdb.KeyColumn + "__eq"); key != "" {
		for _, row := range t.rows {
			if row.Key() == key {
				rows = append(rows, row)
			}
		}
	} else {
		limit, _ := strconv.Atoi(q.Get("limit"))
		offset, _ := strconv.Atoi(q.Get("offset"))
		if limit <= 0 {
			limit = 1000
		}
		if offset < len(t.rows) {
			end := offset + limit
			if end > len(t.rows) {
				end = len(t.rows)
			}
			rows = t.rows[offset:end]
		}
	}
	if rows == nil {
		rows = []hubdb.Row{}
	}

	field := "results"
	if s.LegacyObjects {
		field = "objects"
	}
	writeJSON(w, http.StatusOK, map[string]any{field: rows, "total": len(t.rows)})
}

func (s *Server) createRow(w http.ResponseWriter, r *http.Request, tableID string) {
	t, ok := s.tables[tableID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "table not found"})
		return
	}

	var input hubdb.RowInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	key, _ := input.Values[hubdb.KeyColumn].(string)
	if s.FailCreateKeys[key] {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "rejected"})
		return
	}

	row := hubdb.Row{ID: s.newID(), Name: input.Name, Path: input.Path, Values: input.Values}
	t.rows = append(t.rows, row)
	writeJSON(w, http.StatusCreated, row)
}

func (s *Server) updateRow(w http.ResponseWriter, r *http.Request, tableID, rowID string) {
	t, ok := s.tables[tableID]
	if !ok || s.FailUpdateIDs[rowID] {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "rejected"})
		return
	}

	var input hubdb.RowInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	for i := range t.rows {
		if t.rows[i].ID == rowID {
			t.rows[i] = hubdb.Row{ID: rowID, Name: input.Name, Path: input.Path, Values: input.Values}
			writeJSON(w, http.StatusOK, t.rows[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "row not found"})
}

func (s *Server) deleteRow(w http.ResponseWriter, tableID, rowID string) {
	t, ok := s.tables[tableID]
	if !ok || s.FailDeleteIDs[rowID] {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "rejected"})
		return
	}
	for i := range t.rows {
		if t.rows[i].ID == rowID {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "row not found"})
}

func (s *Server) publish(w http.ResponseWriter, tableID string) {
	if _, ok := s.tables[tableID]; !ok || s.FailPublish {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "publish failed"})
		return
	}
	s.published[tableID]++
	writeJSON(w, http.StatusOK, map[string]any{"id": tableID, "published": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
