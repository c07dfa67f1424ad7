package store

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when a path holds no value.
var ErrNotFound = errors.New("store: path not found")

// ChangeOp enumerates mutation kinds surfaced on the change feed.
type ChangeOp string

const (
	OpWrite  ChangeOp = "write"
	OpMerge  ChangeOp = "merge"
	OpDelete ChangeOp = "delete"
)

// Change describes a mutation observed at a path.
type Change struct {
	Path string   `json:"path"`
	Op   ChangeOp `json:"op"`
}

// Gateway is the single persistence contract every engine component depends
// on. Records live at slash-separated paths (users/<id>, grievances/<key>,
// creditRequests/<key>, notifications/<recipient>/<key>).
type Gateway interface {
	// Read unmarshals the value at path into out. ErrNotFound when absent.
	Read(ctx context.Context, path string, out any) error
	// Write stores value at path, replacing any existing value.
	Write(ctx context.Context, path string, value any) error
	// Merge shallow-merges fields into the object at path, creating it when
	// absent.
	Merge(ctx context.Context, path string, fields map[string]any) error
	// Append stores value under a store-generated key below path and returns
	// the key. Keys generated within one process are strictly increasing;
	// across processes they order only at second granularity.
	Append(ctx context.Context, path string, value any) (string, error)
	// Delete removes the value at path and anything below it.
	Delete(ctx context.Context, path string) error
	// List returns the direct children of path keyed by child key. Sorting
	// the keys recovers creation order; see SortedKeys.
	List(ctx context.Context, path string) (map[string]json.RawMessage, error)
}

// Transactor is an optional gateway capability: atomic read-modify-write at a
// single path. Callers that need check-then-act safety (credit consumption)
// probe for it and fall back to plain reads and writes when unavailable.
type Transactor interface {
	// Update invokes fn with the current value at path (nil when absent) and
	// stores the returned value under the same atomicity guarantee the backend
	// offers. Returning an error from fn aborts without writing.
	Update(ctx context.Context, path string, fn func(current json.RawMessage) (any, error)) error
}

// Subscriber is the read-side change feed. The write path never waits on it.
type Subscriber interface {
	// Subscribe invokes fn for every change at or below path until the
	// returned cancel function is called or ctx is done.
	Subscribe(ctx context.Context, path string, fn func(Change)) (func(), error)
}
