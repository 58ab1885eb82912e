package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bloodbank/lisreceiver/internal/core/domain"
	"github.com/bloodbank/lisreceiver/internal/port"
)

const documentRowID = 1

// MySQLStore keeps the whole document as JSON in a single row, with a
// revision column checked on every write. Rows-affected zero on the
// conditional UPDATE means somebody else saved first.
type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

// EnsureSchema creates the document table if it does not exist yet.
func (m *MySQLStore) EnsureSchema(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS document (
			id       TINYINT    NOT NULL PRIMARY KEY,
			doc      MEDIUMTEXT NOT NULL,
			revision BIGINT     NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("%w: ensure schema: %v", port.ErrStoreUnavailable, err)
	}
	return nil
}

func (m *MySQLStore) Load(ctx context.Context) (domain.Document, port.Revision, error) {
	var (
		raw string
		rev int64
	)
	err := m.db.QueryRowContext(ctx,
		`SELECT doc, revision FROM document WHERE id = ?`, documentRowID,
	).Scan(&raw, &rev)

	if errors.Is(err, sql.ErrNoRows) {
		return emptyDocument(), 0, nil
	}
	if err != nil {
		return domain.Document{}, 0, fmt.Errorf("%w: query document: %v", port.ErrStoreUnavailable, err)
	}

	doc, err := decodeDocument([]byte(raw))
	if err != nil {
		return domain.Document{}, 0, fmt.Errorf("%w: decode document: %v", port.ErrStoreUnavailable, err)
	}
	return doc, port.Revision(rev), nil
}

func (m *MySQLStore) Save(ctx context.Context, doc domain.Document, rev port.Revision) error {
	data, err := encodeDocument(doc)
	if err != nil {
		return fmt.Errorf("%w: encode document: %v", port.ErrStoreUnavailable, err)
	}

	var result sql.Result
	if rev == 0 {
		// First revision. INSERT IGNORE so a concurrent first writer shows
		// up as zero rows affected rather than a duplicate-key error.
		result, err = m.db.ExecContext(ctx, `
			INSERT IGNORE INTO document (id, doc, revision)
			VALUES (?, ?, 1)`,
			documentRowID, string(data),
		)
	} else {
		result, err = m.db.ExecContext(ctx, `
			UPDATE document
			SET doc = ?, revision = revision + 1
			WHERE id = ? AND revision = ?`,
			string(data), documentRowID, int64(rev),
		)
	}
	if err != nil {
		return fmt.Errorf("%w: save document: %v", port.ErrStoreUnavailable, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return port.ErrRevisionConflict
	}
	return nil
}
