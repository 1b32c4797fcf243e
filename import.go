package eventmap

import (
	"context"
	"io"

	"github.com/agentstation/eventmap/pkg/errors"
	"github.com/agentstation/eventmap/pkg/events"
	"github.com/agentstation/eventmap/pkg/gapfill"
	"github.com/agentstation/eventmap/pkg/logging"
	"github.com/agentstation/eventmap/pkg/reconcile"
)

// Compile-time interface check to ensure proper implementation.
var _ Importer = (*client)(nil)

// Importer adds records from external files to a collection.
type Importer interface {
	// ImportGaps appends gap-filler rows read from a CSV stream
	ImportGaps(ctx context.Context, collection *events.Collection, r io.Reader) (*ImportResult, error)
}

// ImportResult reports an import and the reconciliation pass that followed it.
type ImportResult struct {
	Import    *gapfill.Summary  `json:"import" yaml:"import"`
	Reconcile *reconcile.Result `json:"reconcile" yaml:"reconcile"`
}

// ImportGaps reconciles collection, appends the CSV rows as gap records and
// reconciles again so the new rows are canonical and merged with any real
// record they duplicate.
func (c *client) ImportGaps(ctx context.Context, collection *events.Collection, r io.Reader) (*ImportResult, error) {
	if collection == nil {
		return nil, &errors.ValidationError{
			Field:   "collection",
			Message: "cannot be nil",
		}
	}
	rows, err := gapfill.Parse(r)
	if err != nil {
		return nil, err
	}

	ctx = logging.WithOperation(logging.WithLogger(ctx, c.logger(ctx)), "import")

	c.Reconcile(ctx, collection)
	summary := gapfill.Apply(ctx, collection, rows, c.Index(), c.options.gapPrefix)
	result := c.Reconcile(ctx, collection)

	logging.FromContext(ctx).Info().
		Int("rows", summary.Rows).
		Int("added", summary.Added).
		Int("updated", summary.Updated).
		Int("skipped", len(summary.Skipped)).
		Msg("Gap rows imported")

	return &ImportResult{Import: summary, Reconcile: result}, nil
}
