// Package screen implements the contact screens as UI-agnostic controllers.
// Controllers never reference each other: the create screen produces the
// current contact on the bus and the summary screen subscribes to it.
package screen

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/smileynet/contactbus/internal/bus"
	"github.com/smileynet/contactbus/internal/locale"
	"github.com/smileynet/contactbus/internal/state"
)

var (
	// ErrDestroyed indicates a controller was used or closed after Close.
	ErrDestroyed = errors.New("screen: controller destroyed")
	// ErrStarted indicates Root.Start was called on a root that already shows a screen.
	ErrStarted = errors.New("screen: root already started")
	// ErrUnknownKind indicates navigation to a screen kind with no constructor.
	ErrUnknownKind = errors.New("screen: unknown screen kind")
)

// Kind identifies a screen type.
type Kind int

const (
	KindCreate  Kind = iota // Contact entry form.
	KindSummary             // Read-only contact summary.
)

func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindSummary:
		return "summary"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Phase is a controller's lifecycle position.
type Phase int

const (
	PhaseCreated   Phase = iota // Constructed, not yet registered on the bus.
	PhaseActive                 // Registered and receiving or producing events.
	PhaseDestroyed              // Unregistered; terminal.
)

func (p Phase) String() string {
	switch p {
	case PhaseCreated:
		return "created"
	case PhaseActive:
		return "active"
	case PhaseDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Controller is a screen managed by Root.
type Controller interface {
	Kind() Kind
	Phase() Phase
	Close() error
}

// Navigator switches the visible screen.
type Navigator interface {
	Navigate(kind Kind) error
}

// Deps are the resolved collaborators every controller is built from.
type Deps struct {
	Bus     *bus.Bus
	State   *state.App
	Strings locale.Strings
	Log     *zap.SugaredLogger
}

func (d Deps) logger(name string) *zap.SugaredLogger {
	if d.Log == nil {
		return zap.NewNop().Sugar()
	}
	return d.Log.Named(name)
}
