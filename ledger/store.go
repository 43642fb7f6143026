/*
store.go - Persistence interface for the ledger state

PURPOSE:
  The whole dataset is persisted as one JSON document under one key. The
  engine writes a full snapshot after every successful command and reads it
  once at startup. There are no partial writes and no write batching.

CONTRACT:
  Load:  returns (state, true, nil) when a document exists,
         (EmptyState, false, nil) when it does not.
         A document that exists but cannot be parsed is a *ParseError.
  Save:  replaces the stored document. The engine commits to memory only
         after Save returns nil.

IMPLEMENTATIONS:
  - ledger/store/memory.go: in-memory blob (tests, dev)
  - store/sqlite/sqlite.go: SQLite key-value table

SEE ALSO:
  - state.go: The document format
  - engine.go: Snapshot-on-write
*/
package ledger

import "context"

// Store persists the state document.
type Store interface {
	Load(ctx context.Context) (State, bool, error)
	Save(ctx context.Context, state State) error
}

// BlobStore is the key-value primitive both store implementations share.
// KeyedStore adapts any BlobStore to Store under a fixed key.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// DefaultStateKey is the key the state document lives under.
const DefaultStateKey = "btels-data"

// KeyedStore stores the state document in a BlobStore under Key.
type KeyedStore struct {
	Blobs BlobStore
	Key   string
}

func NewKeyedStore(blobs BlobStore, key string) *KeyedStore {
	if key == "" {
		key = DefaultStateKey
	}
	return &KeyedStore{Blobs: blobs, Key: key}
}

func (s *KeyedStore) Load(ctx context.Context) (State, bool, error) {
	data, ok, err := s.Blobs.Get(ctx, s.Key)
	if err != nil {
		return State{}, false, err
	}
	if !ok {
		return EmptyState(), false, nil
	}
	state, err := DecodeState(data)
	if err != nil {
		return State{}, true, err
	}
	return state, true, nil
}

func (s *KeyedStore) Save(ctx context.Context, state State) error {
	data, err := EncodeState(state)
	if err != nil {
		return err
	}
	return s.Blobs.Put(ctx, s.Key, data)
}
