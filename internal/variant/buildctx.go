package variant

import (
	"context"
	"sync/atomic"
)

// frameKey is an unexported type to prevent collisions with context keys from other packages.
type frameKey struct{}

// frame is one entry of the build context stack. Frames are immutable except
// for closed, which pop sets once the construction that owns the frame ends.
type frame struct {
	unit   *Unit
	parent *frame
	chain  string
	depth  int
	obs    Observer
	closed atomic.Bool
}

// push starts a new innermost build scope for u. The returned pop function
// must run on every exit path; it closes the frame so contexts leaked out of
// the construction no longer resolve to u.
func push(ctx context.Context, u *Unit, obs Observer, newChain func() string) (context.Context, func()) {
	f := &frame{unit: u, obs: obs, depth: 1}
	if parent := frameFrom(ctx); parent != nil && !parent.closed.Load() {
		f.parent = parent
		f.chain = parent.chain
		f.depth = parent.depth + 1
	} else {
		f.chain = newChain()
	}
	return context.WithValue(ctx, frameKey{}, f), func() { f.closed.Store(true) }
}

func frameFrom(ctx context.Context) *frame {
	if ctx == nil {
		return nil
	}
	f, _ := ctx.Value(frameKey{}).(*frame)
	return f
}

func currentFrame(ctx context.Context) (*frame, error) {
	f := frameFrom(ctx)
	if f == nil || f.closed.Load() {
		return nil, ErrNoActiveContext
	}
	return f, nil
}

func currentUnit(ctx context.Context) (*Unit, error) {
	f, err := currentFrame(ctx)
	if err != nil {
		return nil, err
	}
	return f.unit, nil
}

func observerFrom(ctx context.Context) Observer {
	if f := frameFrom(ctx); f != nil && f.obs != nil {
		return f.obs
	}
	return NopObserver{}
}

// Current returns the identifier of the unit under construction in the
// innermost open build frame of ctx.
func Current(ctx context.Context) (ID, error) {
	u, err := currentUnit(ctx)
	if err != nil {
		return "", err
	}
	return u.ID(), nil
}

// Depth returns the number of open build frames in ctx.
func Depth(ctx context.Context) int {
	f, err := currentFrame(ctx)
	if err != nil {
		return 0
	}
	return f.depth
}

// Stack returns the identifiers of the open build frames, innermost first.
func Stack(ctx context.Context) []ID {
	f, err := currentFrame(ctx)
	if err != nil {
		return nil
	}
	ids := make([]ID, 0, f.depth)
	for ; f != nil; f = f.parent {
		ids = append(ids, f.unit.ID())
	}
	return ids
}

// ChainID returns the identifier shared by every nested construction started
// from the same outermost Construct call, or "" outside any construction.
func ChainID(ctx context.Context) string {
	f, err := currentFrame(ctx)
	if err != nil {
		return ""
	}
	return f.chain
}
