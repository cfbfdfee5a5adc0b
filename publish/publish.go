// Package publish merges snapshots into remote stores.
//
// Every Publisher performs a field-level merge of one document path: keys it
// is given are overwritten, keys it is not given are left alone, and nothing
// is ever deleted. Publishing the same fields twice leaves the store as it was
// after the first publish.
package publish

import (
	"context"
	"fmt"
)

// DefaultPath is the document the dashboard reads
const DefaultPath = "/params"

// Publisher merges fields into the document at path
type Publisher interface {
	Publish(ctx context.Context, path string, fields map[string]any) error
}

// Multi publishes to each publisher in order and stops at the first failure
type Multi []Publisher

// Publish implements Publisher
func (m Multi) Publish(ctx context.Context, path string, fields map[string]any) error {
	for i, p := range m {
		if err := p.Publish(ctx, path, fields); err != nil {
			return fmt.Errorf("publisher %d: %w", i, err)
		}
	}
	return nil
}
