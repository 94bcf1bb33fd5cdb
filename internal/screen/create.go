package screen

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/smileynet/contactbus/internal/bus"
	"github.com/smileynet/contactbus/internal/contact"
)

// Field names one input of the create form.
type Field int

const (
	FieldName Field = iota
	FieldSurname
	FieldTelNum
)

func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldSurname:
		return "surname"
	case FieldTelNum:
		return "telnum"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// Fields is the current content of the create form.
type Fields struct {
	Name    string
	Surname string
	TelNum  string
}

// CreateController backs the contact entry form. It is the producer of
// contact.AvailableTopic: whoever subscribes receives the latest contact.
type CreateController struct {
	deps     Deps
	nav      Navigator
	log      *zap.SugaredLogger
	fields   Fields
	producer *latestProducer
	reg      *bus.Registration
	phase    Phase
}

// latestProducer is the object registered on the bus on behalf of the
// controller. It only exposes Produce, so the bus never sees the controller.
type latestProducer struct {
	latest *contact.Contact
}

func (p *latestProducer) Produce() (contact.Available, bool) {
	if p.latest == nil {
		return contact.Available{}, false
	}
	return contact.Available{Contact: p.latest}, true
}

// NewCreate builds the create screen. A contact cached in deps.State (from a
// previous instance torn down by a recreate) is restored into the form and
// offered to subscribers again.
func NewCreate(deps Deps, nav Navigator) (*CreateController, error) {
	c := &CreateController{
		deps:     deps,
		nav:      nav,
		log:      deps.logger("create"),
		producer: &latestProducer{},
	}

	if latest, ok := deps.State.Latest(); ok {
		c.producer.latest = latest
		c.fields = Fields{Name: latest.Name(), Surname: latest.Surname(), TelNum: latest.TelNum()}
		c.log.Debugw("Restored cached contact")
	}

	reg, err := bus.Produce(deps.Bus, contact.AvailableTopic, c.producer)
	if err != nil {
		c.phase = PhaseDestroyed
		return nil, fmt.Errorf("screen: create: %w", err)
	}
	c.reg = reg
	c.phase = PhaseActive
	return c, nil
}

// Kind returns KindCreate.
func (c *CreateController) Kind() Kind { return KindCreate }

// Phase returns the controller's lifecycle phase.
func (c *CreateController) Phase() Phase { return c.phase }

// Fields returns the current form content.
func (c *CreateController) Fields() Fields { return c.fields }

// SetField replaces one form input. Values are kept verbatim.
func (c *CreateController) SetField(f Field, value string) {
	switch f {
	case FieldName:
		c.fields.Name = value
	case FieldSurname:
		c.fields.Surname = value
	case FieldTelNum:
		c.fields.TelNum = value
	}
}

// SetFields replaces the whole form content.
func (c *CreateController) SetFields(f Fields) {
	c.fields = f
}

// Latest returns the contact this controller currently produces.
func (c *CreateController) Latest() (*contact.Contact, bool) {
	return c.producer.latest, c.producer.latest != nil
}

// ViewSummary turns the form into a new contact, caches it application-wide
// and navigates to the summary screen. No validation is applied.
func (c *CreateController) ViewSummary() (*contact.Contact, error) {
	if c.phase == PhaseDestroyed {
		return nil, ErrDestroyed
	}

	created := contact.New(c.fields.Name, c.fields.Surname, c.fields.TelNum)
	c.producer.latest = created
	c.deps.State.SetLatest(created)

	// Screens already listening see the replacement right away.
	delivered := bus.Post(c.deps.Bus, contact.AvailableTopic, contact.Available{Contact: created})
	c.log.Debugw("Created contact", "delivered", delivered)

	if c.nav != nil {
		if err := c.nav.Navigate(KindSummary); err != nil {
			return created, fmt.Errorf("screen: create: navigating to summary: %w", err)
		}
	}
	return created, nil
}

// Close unregisters the producer. Calling Close twice returns ErrDestroyed.
func (c *CreateController) Close() error {
	if c.phase == PhaseDestroyed {
		return ErrDestroyed
	}
	c.phase = PhaseDestroyed
	if err := c.deps.Bus.Unregister(c.reg); err != nil {
		return fmt.Errorf("screen: create: %w", err)
	}
	return nil
}
