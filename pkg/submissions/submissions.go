// Package submissions persists validated form submissions.
//
// Form blocks hand their submissions to an injected [forms.SubmitFunc].
// [Handler] adapts a [Store] into one, so the HTTP server can record every
// submission before an optional downstream handler forwards it.
//
// Backends:
//   - [FileStore]: JSON files in a directory, for local development and the CLI
//   - [MongoStore]: a MongoDB collection, for multi-instance deployments
package submissions

import (
	"context"
	"sort"
	"time"

	"github.com/matzehuels/storeblocks/pkg/errors"
	"github.com/matzehuels/storeblocks/pkg/forms"
)

// Record is a stored submission.
type Record struct {
	ID            string            `json:"id" bson:"_id"`
	Form          string            `json:"form" bson:"form"`
	PageID        string            `json:"page_id,omitempty" bson:"page_id,omitempty"`
	BlockID       string            `json:"block_id,omitempty" bson:"block_id,omitempty"`
	Values        map[string]string `json:"values" bson:"values"`
	ReceiverEmail string            `json:"receiver_email,omitempty" bson:"receiver_email,omitempty"`
	CreatedAt     time.Time         `json:"created_at" bson:"created_at"`
}

// FromSubmission converts a form submission into a record.
func FromSubmission(s forms.Submission) Record {
	values := make(map[string]string, len(s.Values))
	for k, v := range s.Values {
		values[k] = v
	}
	return Record{
		ID:            s.ID.String(),
		Form:          s.Form,
		PageID:        s.PageID,
		BlockID:       s.BlockID,
		Values:        values,
		ReceiverEmail: s.ReceiverEmail,
		CreatedAt:     s.Timestamp.UTC(),
	}
}

// Filter narrows a listing. Zero fields match everything.
type Filter struct {
	Form   string
	PageID string
	// Limit caps the number of records returned, newest first.
	Limit int
}

func (f Filter) match(r Record) bool {
	return (f.Form == "" || r.Form == f.Form) && (f.PageID == "" || r.PageID == f.PageID)
}

// Store is the interface for submission storage backends.
type Store interface {
	// Save stores a record. Saving an existing id replaces it.
	Save(ctx context.Context, r Record) error

	// Get retrieves a record by id. Returns nil, nil if it doesn't exist.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns matching records, newest first.
	List(ctx context.Context, f Filter) ([]Record, error)

	Close() error
}

// Handler returns a SubmitFunc that saves every submission to store and
// then calls next, when set. A storage failure fails the submission.
func Handler(store Store, next forms.SubmitFunc) forms.SubmitFunc {
	return func(ctx context.Context, s forms.Submission) error {
		if err := store.Save(ctx, FromSubmission(s)); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "store submission")
		}
		if next != nil {
			return next(ctx, s)
		}
		return nil
	}
}

// newestFirst sorts records by creation time, newest first, and applies limit.
func newestFirst(records []Record, limit int) []Record {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records
}
