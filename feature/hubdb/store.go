package hubdb

import (
	"context"
	"fmt"

	"catalog-sync/core/reconcile"
)

// TableStore exposes one HubDB table as a reconcile.Store.
// Rows are matched on the url_key column.
type TableStore struct {
	client  *Client
	tableID string
}

var _ reconcile.Store = (*TableStore)(nil)

// TableID returns the bound table.
func (s *TableStore) TableID() string {
	return s.tableID
}

func (s *TableStore) ListRows(ctx context.Context) ([]reconcile.TargetRow, error) {
	rows, err := s.client.ListRows(ctx, s.tableID)
	if err != nil {
		return nil, err
	}

	out := make([]reconcile.TargetRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, toTarget(r))
	}
	return out, nil
}

func (s *TableStore) FindRow(ctx context.Context, key string) (*reconcile.TargetRow, error) {
	row, err := s.client.FindRowByKey(ctx, s.tableID, key)
	if err != nil || row == nil {
		return nil, err
	}
	t := toTarget(*row)
	return &t, nil
}

func (s *TableStore) CreateRow(ctx context.Context, payload reconcile.Payload) (string, error) {
	input, err := asInput(payload)
	if err != nil {
		return "", err
	}
	row, err := s.client.CreateRow(ctx, s.tableID, input)
	if err != nil {
		return "", err
	}
	return row.ID, nil
}

func (s *TableStore) UpdateRow(ctx context.Context, rowID string, payload reconcile.Payload) error {
	input, err := asInput(payload)
	if err != nil {
		return err
	}
	return s.client.UpdateRow(ctx, s.tableID, rowID, input)
}

func (s *TableStore) DeleteRow(ctx context.Context, rowID string) error {
	return s.client.DeleteRow(ctx, s.tableID, rowID)
}

func (s *TableStore) Publish(ctx context.Context) error {
	return s.client.PublishTable(ctx, s.tableID)
}

func toTarget(r Row) reconcile.TargetRow {
	return reconcile.TargetRow{ID: r.ID, Key: r.Key(), Name: r.DisplayName()}
}

func asInput(payload reconcile.Payload) (RowInput, error) {
	switch p := payload.(type) {
	case RowInput:
		return p, nil
	case *RowInput:
		if p != nil {
			return *p, nil
		}
	}
	return RowInput{}, fmt.Errorf("%w: unexpected payload type %T", ErrStoreWriteFailed, payload)
}
