package screen

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/smileynet/contactbus/internal/bus"
	"github.com/smileynet/contactbus/internal/contact"
	"github.com/smileynet/contactbus/internal/locale"
)

// SummaryController shows the contact announced on the bus. It subscribes as
// soon as it is built, so an existing contact is delivered before NewSummary
// returns.
type SummaryController struct {
	deps    Deps
	log     *zap.SugaredLogger
	handler *contactHandler
	reg     *bus.Registration
	phase   Phase
}

// contactHandler is the object registered on the bus on behalf of the
// controller.
type contactHandler struct {
	contact  *contact.Contact
	received int
}

func (h *contactHandler) Handle(ev contact.Available) {
	h.contact = ev.Contact
	h.received++
}

// NewSummary builds the summary screen and subscribes it to
// contact.AvailableTopic.
func NewSummary(deps Deps) (*SummaryController, error) {
	s := &SummaryController{
		deps:    deps,
		log:     deps.logger("summary"),
		handler: &contactHandler{},
	}

	reg, err := bus.Subscribe(deps.Bus, contact.AvailableTopic, s.handler)
	if err != nil {
		s.phase = PhaseDestroyed
		return nil, fmt.Errorf("screen: summary: %w", err)
	}
	s.reg = reg
	s.phase = PhaseActive
	s.log.Debugw("Subscribed", "has_contact", s.handler.contact != nil)
	return s, nil
}

// Kind returns KindSummary.
func (s *SummaryController) Kind() Kind { return KindSummary }

// Phase returns the controller's lifecycle phase.
func (s *SummaryController) Phase() Phase { return s.phase }

// Contact returns the displayed contact, or (nil, false) when none has been
// delivered.
func (s *SummaryController) Contact() (*contact.Contact, bool) {
	return s.handler.contact, s.handler.contact != nil
}

// Received returns how many contact events reached this screen.
func (s *SummaryController) Received() int {
	return s.handler.received
}

// Title returns the localized screen title.
func (s *SummaryController) Title() string {
	return s.deps.Strings.SummaryTitle
}

// Lines returns the labeled contact fields, or nil when no contact is present.
func (s *SummaryController) Lines() []string {
	c, ok := s.Contact()
	if !ok {
		return nil
	}
	str := s.deps.Strings
	return []string{
		locale.Prefixed(str.ContactName, c.Name()),
		locale.Prefixed(str.ContactSurname, c.Surname()),
		locale.Prefixed(str.ContactTelNum, c.TelNum()),
	}
}

// Render returns the summary as newline-separated text, or the localized
// empty-state message when no contact is present.
func (s *SummaryController) Render() string {
	lines := s.Lines()
	if lines == nil {
		return s.deps.Strings.EmptySummary
	}
	return strings.Join(lines, "\n")
}

// Close unregisters the subscriber. Calling Close twice returns ErrDestroyed.
func (s *SummaryController) Close() error {
	if s.phase == PhaseDestroyed {
		return ErrDestroyed
	}
	s.phase = PhaseDestroyed
	if err := s.deps.Bus.Unregister(s.reg); err != nil {
		return fmt.Errorf("screen: summary: %w", err)
	}
	return nil
}
