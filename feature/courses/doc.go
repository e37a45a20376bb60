// Package courses turns catalog courses into HubDB rows.
//
// Transform is a pure mapping apart from the last_updated timestamp: attribute lists are
// flattened to comma separated text, missing attributes become empty strings, raw credits
// are divided by 50 and SEO keywords are derived from the name, vendor and classification
// attributes. Adapter plugs the mapping into the reconcile engine, keyed by url key.
package courses
