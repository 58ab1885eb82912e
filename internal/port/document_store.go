package port

import (
	"context"
	"errors"

	"github.com/bloodbank/lisreceiver/internal/core/domain"
)

// Revision is an opaque optimistic-concurrency token returned by Load and
// consumed by Save. Revision 0 means "the document does not exist yet".
type Revision int64

var (
	// ErrRevisionConflict reports that the document changed between Load and
	// Save. Callers retry the whole Load-mutate-Save cycle.
	ErrRevisionConflict = errors.New("document revision conflict")

	// ErrStoreUnavailable reports that the persistence medium could not be
	// read or written. The underlying cause is wrapped for logging; callers
	// surface a generic failure.
	ErrStoreUnavailable = errors.New("document store unavailable")
)

// DocumentStore is the only sanctioned access path to persisted state.
// The document is loaded and saved as a whole; there are no partial reads
// or writes.
type DocumentStore interface {
	// Load returns a snapshot of the full document and its revision.
	// An empty medium yields an empty document and revision 0.
	Load(ctx context.Context) (domain.Document, Revision, error)

	// Save replaces the full document if the stored revision still equals
	// rev, returning ErrRevisionConflict otherwise.
	Save(ctx context.Context, doc domain.Document, rev Revision) error
}
