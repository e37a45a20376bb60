package courses

import (
	"fmt"

	"catalog-sync/core/reconcile"
	"catalog-sync/feature/catalog"
)

// Adapter reconciles catalog courses into HubDB rows keyed by url key.
type Adapter struct {
	transformer *Transformer
}

var _ reconcile.Adapter = (*Adapter)(nil)

// NewAdapter creates an adapter around the transformer.
func NewAdapter(t *Transformer) *Adapter {
	if t == nil {
		t = NewTransformer()
	}
	return &Adapter{transformer: t}
}

func (a *Adapter) Name() string {
	return "courses"
}

func (a *Adapter) SourceKey(item reconcile.SourceItem) string {
	c, ok := asCourse(item)
	if !ok {
		return ""
	}
	return c.URLKey
}

func (a *Adapter) SourceName(item reconcile.SourceItem) string {
	c, ok := asCourse(item)
	if !ok {
		return ""
	}
	if c.Name == "" {
		return c.URLKey
	}
	return c.Name
}

func (a *Adapter) Transform(item reconcile.SourceItem) (reconcile.Payload, error) {
	c, ok := asCourse(item)
	if !ok {
		return nil, fmt.Errorf("unexpected item type %T", item)
	}
	return a.transformer.Transform(c), nil
}

// Items converts courses into reconcile source items, preserving order.
func Items(courses []catalog.Course) []reconcile.SourceItem {
	items := make([]reconcile.SourceItem, len(courses))
	for i, c := range courses {
		items[i] = c
	}
	return items
}

func asCourse(item reconcile.SourceItem) (catalog.Course, bool) {
	switch c := item.(type) {
	case catalog.Course:
		return c, true
	case *catalog.Course:
		if c != nil {
			return *c, true
		}
	}
	return catalog.Course{}, false
}
