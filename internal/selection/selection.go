// Package selection tracks which book, if any, the reader has opened.
package selection

// State is either no selection (the zero value) or a selected book id.
type State struct {
	ID       string
	Selected bool
}

// NoSelection returns the initial state: the list view.
func NoSelection() State {
	return State{}
}

// Selected returns the state for an opened book.
func Selected(id string) State {
	return State{ID: id, Selected: true}
}

// FromQuery maps an identifier from a request or command to a state.
// An empty id means no selection.
func FromQuery(id string) State {
	if id == "" {
		return NoSelection()
	}
	return Selected(id)
}

func (s State) String() string {
	if !s.Selected {
		return "NoSelection"
	}
	return "Selected(" + s.ID + ")"
}

// Controller holds the selection for a single session. It is not safe for
// concurrent use; a session has one thread of control.
type Controller struct {
	state State
}

func NewController() *Controller {
	return &Controller{}
}

func (c *Controller) State() State {
	return c.state
}

// SelectBook moves to Selected(id) from any state. The id is opaque.
func (c *Controller) SelectBook(id string) {
	c.state = Selected(id)
}

// ClearSelection returns to the list state. Clearing twice is a no-op.
func (c *Controller) ClearSelection() {
	c.state = NoSelection()
}
