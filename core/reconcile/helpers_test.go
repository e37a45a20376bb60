package reconcile

import (
	"context"
	"fmt"
)

// testItem is the source model used by the engine tests.
type testItem struct {
	key   string
	name  string
	value string
}

// testPayload is what testAdapter produces and memStore stores.
type testPayload struct {
	key   string
	value string
}

type testAdapter struct {
	transformErr map[string]error
	panicOn      map[string]bool
}

func (a *testAdapter) Name() string {
	return "test"
}

func (a *testAdapter) SourceKey(item SourceItem) string {
	return item.(testItem).key
}

func (a *testAdapter) SourceName(item SourceItem) string {
	return item.(testItem).name
}

func (a *testAdapter) Transform(item SourceItem) (Payload, error) {
	it := item.(testItem)
	if a.panicOn[it.key] {
		panic("malformed attributes")
	}
	if err := a.transformErr[it.key]; err != nil {
		return nil, err
	}
	return testPayload{key: it.key, value: it.value}, nil
}

type memRow struct {
	TargetRow
	value string
}

// memStore is an in-memory table with per-operation failure injection.
type memStore struct {
	rows   []memRow
	nextID int

	listErr    error
	findErr    map[string]error
	createErr  map[string]error
	updateErr  map[string]error
	deleteErr  map[string]error
	publishErr error

	listCalls    int
	findCalls    int
	creates      []string
	updates      []string
	deletes      []string
	publishCalls int
}

func newMemStore(rows ...TargetRow) *memStore {
	s := &memStore{nextID: 100}
	for _, row := range rows {
		s.rows = append(s.rows, memRow{TargetRow: row})
	}
	return s
}

func (s *memStore) ListRows(ctx context.Context) ([]TargetRow, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]TargetRow, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row.TargetRow)
	}
	return out, nil
}

func (s *memStore) FindRow(ctx context.Context, key string) (*TargetRow, error) {
	s.findCalls++
	if err := s.findErr[key]; err != nil {
		return nil, err
	}
	for _, row := range s.rows {
		if row.Key == key {
			r := row.TargetRow
			return &r, nil
		}
	}
	return nil, nil
}

func (s *memStore) CreateRow(ctx context.Context, payload Payload) (string, error) {
	p := payload.(testPayload)
	if err := s.createErr[p.key]; err != nil {
		return "", err
	}
	s.nextID++
	id := fmt.Sprint(s.nextID)
	s.rows = append(s.rows, memRow{TargetRow: TargetRow{ID: id, Key: p.key, Name: p.key}, value: p.value})
	s.creates = append(s.creates, p.key)
	return id, nil
}

func (s *memStore) UpdateRow(ctx context.Context, id string, payload Payload) error {
	p := payload.(testPayload)
	if err := s.updateErr[id]; err != nil {
		return err
	}
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows[i].Key = p.key
			s.rows[i].value = p.value
			s.updates = append(s.updates, id)
			return nil
		}
	}
	return fmt.Errorf("row %s not found", id)
}

func (s *memStore) DeleteRow(ctx context.Context, id string) error {
	if err := s.deleteErr[id]; err != nil {
		return err
	}
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			s.deletes = append(s.deletes, id)
			return nil
		}
	}
	return fmt.Errorf("row %s not found", id)
}

func (s *memStore) Publish(ctx context.Context) error {
	s.publishCalls++
	return s.publishErr
}

// keys returns the multiset of keys currently stored, as a count map.
func (s *memStore) keys() map[string]int {
	out := make(map[string]int)
	for _, row := range s.rows {
		out[row.Key]++
	}
	return out
}

func (s *memStore) valueOf(key string) string {
	for _, row := range s.rows {
		if row.Key == key {
			return row.value
		}
	}
	return ""
}

func items(keys ...string) []SourceItem {
	out := make([]SourceItem, 0, len(keys))
	for _, k := range keys {
		out = append(out, testItem{key: k, name: "Course " + k, value: "v-" + k})
	}
	return out
}

func fullSync() Options {
	return Options{Lookup: LookupBulk, Prune: true, Publish: true}
}
