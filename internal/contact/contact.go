// Package contact defines the record handed between screens and the bus
// event that carries it.
package contact

import "github.com/smileynet/contactbus/internal/bus"

// Contact is a name, surname and telephone number captured by the create
// screen. Values are stored exactly as entered. A Contact is never mutated
// after New returns; a new creation replaces the reference instead.
type Contact struct {
	name    string
	surname string
	telNum  string
}

// New returns a Contact holding the given values verbatim.
func New(name, surname, telNum string) *Contact {
	return &Contact{name: name, surname: surname, telNum: telNum}
}

// Name returns the contact's first name.
func (c *Contact) Name() string { return c.name }

// Surname returns the contact's surname.
func (c *Contact) Surname() string { return c.surname }

// TelNum returns the contact's telephone number.
func (c *Contact) TelNum() string { return c.telNum }

// Available announces the current contact on the bus.
type Available struct {
	Contact *Contact
}

// AvailableTopic is the bus topic for Available events.
var AvailableTopic = bus.NewTopic[Available]("contact.available")
