package bantam

import (
	"context"
	"time"
)

// ResolveHook observes every resolution, nested ones included, after it
// finishes. typeID is the registration key that was resolved.
type ResolveHook func(typeID string, duration time.Duration, err error)

// ResolveInterceptor wraps every resolution, nested ones included. It runs
// before typeID is built and may return a derived context; the dependencies
// of typeID are resolved with that context and its constructor receives it.
// finish is called once with the outcome. A nil context or finish is
// ignored.
type ResolveInterceptor func(ctx context.Context, typeID string) (_ context.Context, finish func(error))
