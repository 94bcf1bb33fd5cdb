package screen

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Factory builds a controller of one kind.
type Factory func(deps Deps, nav Navigator) (Controller, error)

// Root owns the back stack of screens. The top of the stack is the visible
// screen. Root implements Navigator for the controllers it builds.
//
// Root is not safe for concurrent use.
type Root struct {
	deps      Deps
	log       *zap.SugaredLogger
	factories map[Kind]Factory
	stack     []Controller
}

// RootOption configures a Root.
type RootOption func(*Root)

// WithFactory overrides the constructor used for kind.
func WithFactory(kind Kind, f Factory) RootOption {
	return func(r *Root) {
		r.factories[kind] = f
	}
}

// NewRoot returns an empty Root. Call Start to show the first screen.
func NewRoot(deps Deps, opts ...RootOption) *Root {
	r := &Root{
		deps: deps,
		log:  deps.logger("root"),
		factories: map[Kind]Factory{
			KindCreate: func(deps Deps, nav Navigator) (Controller, error) {
				return NewCreate(deps, nav)
			},
			KindSummary: func(deps Deps, _ Navigator) (Controller, error) {
				return NewSummary(deps)
			},
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start installs the create screen as the only screen. It is the first-launch
// path; a root that already shows a screen returns ErrStarted.
func (r *Root) Start() error {
	if len(r.stack) > 0 {
		return ErrStarted
	}
	return r.push(KindCreate)
}

// Navigate builds a screen of the given kind and puts it on top of the stack.
func (r *Root) Navigate(kind Kind) error {
	return r.push(kind)
}

// Back closes the top screen and reveals the one below it. The last screen is
// never popped; Back reports whether a screen was removed.
func (r *Root) Back() (bool, error) {
	if len(r.stack) <= 1 {
		return false, nil
	}
	top := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	r.log.Debugw("Back", "closed", top.Kind().String(), "depth", len(r.stack))
	if err := top.Close(); err != nil {
		return true, err
	}
	return true, nil
}

// Recreate tears every screen down and rebuilds the same stack, the way a
// device rotation destroys and restores all fragments. Screens read back
// whatever they cached in application state.
func (r *Root) Recreate() error {
	kinds := r.Kinds()
	r.log.Debugw("Recreating", "depth", len(kinds))
	if err := r.Close(); err != nil {
		return fmt.Errorf("screen: recreate: %w", err)
	}
	return r.Restore(kinds)
}

// Restore rebuilds a stack of the given kinds, bottom first, without going
// through Start. If one screen fails to build, the screens built so far are
// closed again.
func (r *Root) Restore(kinds []Kind) error {
	if len(r.stack) > 0 {
		return ErrStarted
	}
	for _, kind := range kinds {
		if err := r.push(kind); err != nil {
			return errors.Join(err, r.Close())
		}
	}
	return nil
}

// Top returns the visible screen, or nil before Start.
func (r *Root) Top() Controller {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// Kinds returns the stack's screen kinds, bottom first.
func (r *Root) Kinds() []Kind {
	kinds := make([]Kind, len(r.stack))
	for i, c := range r.stack {
		kinds[i] = c.Kind()
	}
	return kinds
}

// Close closes every screen, top first, and empties the stack.
func (r *Root) Close() error {
	var errs []error
	for i := len(r.stack) - 1; i >= 0; i-- {
		if err := r.stack[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.stack = nil
	return errors.Join(errs...)
}

func (r *Root) push(kind Kind) error {
	f, ok := r.factories[kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	c, err := f(r.deps, r)
	if err != nil {
		return err
	}
	r.stack = append(r.stack, c)
	r.log.Debugw("Showing screen", "kind", kind.String(), "depth", len(r.stack))
	return nil
}
