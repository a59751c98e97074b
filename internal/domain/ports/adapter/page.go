package adapter

import "context"

// SubmitEvent is delivered to submit listeners. Hosts perform their native
// submission unless a listener calls PreventDefault.
type SubmitEvent interface {
	PreventDefault()
}

type SubmitListener func(ctx context.Context, ev SubmitEvent)

type Form interface {
	AddSubmitListener(l SubmitListener)
}

// Document exposes the elements of the access page.
type Document interface {
	// FormByID fails with domain.ErrElementNotFound when the form is absent.
	FormByID(id string) (Form, error)
	// InputValue returns the current value of an input, "" if absent.
	InputValue(id string) string
	SetDisplay(id string, visible bool)
}

// Window is the user-facing side of the host.
type Window interface {
	Alert(msg string)
	// Navigate leaves the page for rawURL.
	Navigate(rawURL string)
}
