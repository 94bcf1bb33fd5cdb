// Package state holds application-scoped values that outlive individual
// screens for the lifetime of the process.
package state

import "github.com/smileynet/contactbus/internal/contact"

// App caches the latest contact so a recreated create screen can pick up
// where the torn-down one left off. Nothing is written to disk.
//
// App is not safe for concurrent use; the UI drives it from its update loop.
type App struct {
	latest *contact.Contact
}

// NewApp returns an App with no cached contact.
func NewApp() *App {
	return &App{}
}

// Latest returns the cached contact, or (nil, false) if none was created yet.
func (a *App) Latest() (*contact.Contact, bool) {
	return a.latest, a.latest != nil
}

// SetLatest replaces the cached contact.
func (a *App) SetLatest(c *contact.Contact) {
	a.latest = c
}

// Reset drops the cached contact.
func (a *App) Reset() {
	a.latest = nil
}
