package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/bloodbank/lisreceiver/internal/core/domain"
	"github.com/bloodbank/lisreceiver/internal/port"
)

const (
	documentKey = "bloodbank:document"
	revisionKey = "bloodbank:document:rev"
)

// saveDocumentScript compares the stored revision against the caller's and
// replaces the document only on a match, atomically bumping the revision.
var saveDocumentScript = redis.NewScript(`
local rev = redis.call('GET', KEYS[2])
if not rev then
	rev = 0
else
	rev = tonumber(rev)
end

if rev ~= tonumber(ARGV[2]) then
	return 0
end

redis.call('SET', KEYS[1], ARGV[1])
redis.call('SET', KEYS[2], rev + 1)
return 1
`)

// RedisStore keeps the document JSON and its revision counter under two keys,
// with a Lua script making Save an atomic compare-and-swap.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Load(ctx context.Context) (domain.Document, port.Revision, error) {
	vals, err := r.client.MGet(ctx, documentKey, revisionKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return domain.Document{}, 0, fmt.Errorf("%w: mget: %v", port.ErrStoreUnavailable, err)
	}

	raw, _ := vals[0].(string)
	if raw == "" {
		return emptyDocument(), 0, nil
	}

	var rev int64
	if revStr, ok := vals[1].(string); ok {
		if _, err := fmt.Sscanf(revStr, "%d", &rev); err != nil {
			return domain.Document{}, 0, fmt.Errorf("%w: bad revision %q", port.ErrStoreUnavailable, revStr)
		}
	}

	doc, err := decodeDocument([]byte(raw))
	if err != nil {
		return domain.Document{}, 0, fmt.Errorf("%w: decode document: %v", port.ErrStoreUnavailable, err)
	}
	return doc, port.Revision(rev), nil
}

func (r *RedisStore) Save(ctx context.Context, doc domain.Document, rev port.Revision) error {
	data, err := encodeDocument(doc)
	if err != nil {
		return fmt.Errorf("%w: encode document: %v", port.ErrStoreUnavailable, err)
	}

	result, err := saveDocumentScript.Run(ctx, r.client,
		[]string{documentKey, revisionKey},
		string(data), int64(rev),
	).Int()
	if err != nil {
		return fmt.Errorf("%w: save script: %v", port.ErrStoreUnavailable, err)
	}
	if result == 0 {
		return port.ErrRevisionConflict
	}
	return nil
}
