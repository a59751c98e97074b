package web

import (
	"context"
	"fmt"
	"net/url"

	"voevoda-access/internal/domain"
	"voevoda-access/internal/domain/model"
	"voevoda-access/internal/domain/ports/adapter"
)

var (
	_ adapter.Document = (*pageDocument)(nil)
	_ adapter.Window   = (*pageDocument)(nil)
)

type submitEvent struct{ prevented bool }

func (e *submitEvent) PreventDefault() { e.prevented = true }

type pageForm struct{ listeners []adapter.SubmitListener }

func (f *pageForm) AddSubmitListener(l adapter.SubmitListener) {
	f.listeners = append(f.listeners, l)
}

// pageDocument is the access page as seen by one request: inputs come from the
// posted form, visibility and alerts go to the visitor's PageState.
type pageDocument struct {
	state    *model.PageState
	inputs   url.Values
	forms    map[string]*pageForm
	location string
}

func newPageDocument(state *model.PageState, inputs url.Values, formIDs ...string) *pageDocument {
	d := &pageDocument{state: state, inputs: inputs, forms: make(map[string]*pageForm, len(formIDs))}
	for _, id := range formIDs {
		d.forms[id] = &pageForm{}
	}
	return d
}

func (d *pageDocument) FormByID(id string) (adapter.Form, error) {
	f, ok := d.forms[id]
	if !ok {
		return nil, fmt.Errorf("%w: form %q", domain.ErrElementNotFound, id)
	}
	return f, nil
}

func (d *pageDocument) InputValue(id string) string { return d.inputs.Get(id) }

func (d *pageDocument) SetDisplay(id string, visible bool) { d.state.SetVisible(id, visible) }

func (d *pageDocument) Alert(msg string) { d.state.Alerts = append(d.state.Alerts, msg) }

func (d *pageDocument) Navigate(rawURL string) { d.location = rawURL }

// submit fires a submit event at formID. ok is false for unknown forms.
func (d *pageDocument) submit(ctx context.Context, formID string) (prevented, ok bool) {
	f, ok := d.forms[formID]
	if !ok {
		return false, false
	}
	ev := &submitEvent{}
	for _, l := range f.listeners {
		l(ctx, ev)
	}
	return ev.prevented, true
}
