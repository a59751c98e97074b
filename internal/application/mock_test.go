package application_test

import (
	"context"
	"fmt"

	"voevoda-access/internal/domain"
	"voevoda-access/internal/domain/ports/adapter"
)

// ---- in-memory document/window used to drive the page like a browser would ----

type fakeEvent struct{ prevented bool }

func (e *fakeEvent) PreventDefault() { e.prevented = true }

type fakeForm struct{ listeners []adapter.SubmitListener }

func (f *fakeForm) AddSubmitListener(l adapter.SubmitListener) { f.listeners = append(f.listeners, l) }

type fakeDoc struct {
	forms   map[string]*fakeForm
	inputs  map[string]string
	visible map[string]bool
}

func newFakeDoc(formIDs ...string) *fakeDoc {
	d := &fakeDoc{forms: map[string]*fakeForm{}, inputs: map[string]string{}, visible: map[string]bool{}}
	for _, id := range formIDs {
		d.forms[id] = &fakeForm{}
	}
	return d
}

func (d *fakeDoc) FormByID(id string) (adapter.Form, error) {
	f, ok := d.forms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrElementNotFound, id)
	}
	return f, nil
}

func (d *fakeDoc) InputValue(id string) string { return d.inputs[id] }

func (d *fakeDoc) SetDisplay(id string, visible bool) { d.visible[id] = visible }

// submit dispatches a submit event to formID and reports whether it was prevented.
func (d *fakeDoc) submit(ctx context.Context, formID string) bool {
	ev := &fakeEvent{}
	for _, l := range d.forms[formID].listeners {
		l(ctx, ev)
	}
	return ev.prevented
}

type fakeWin struct {
	alerts    []string
	navigated []string
}

func (w *fakeWin) Alert(msg string)       { w.alerts = append(w.alerts, msg) }
func (w *fakeWin) Navigate(rawURL string) { w.navigated = append(w.navigated, rawURL) }

// ---- scripted usecase ----

type mockAccessUC struct {
	issueText string
	issueErr  error
	target    string
	redeemErr error

	names []string
	codes []string
}

func (m *mockAccessUC) IssueAccessCode(ctx context.Context, name string) (string, error) {
	m.names = append(m.names, name)
	return m.issueText, m.issueErr
}

func (m *mockAccessUC) RedeemAccessCode(ctx context.Context, code string) (string, error) {
	m.codes = append(m.codes, code)
	return m.target, m.redeemErr
}
