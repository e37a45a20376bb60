// Package utils provides common utility functions for catalog-sync.
// It includes helpers for coercing the loosely typed values found in upstream
// attribute bags (strings, JSON numbers, lists) into the shapes the target table expects.
package utils
