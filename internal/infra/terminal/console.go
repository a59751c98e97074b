// Package terminal hosts the access page on a line-oriented terminal. Each
// visible form becomes a prompt, alerts are printed, and navigation ends
// the session with the target URL.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"voevoda-access/internal/application"
	"voevoda-access/internal/config"
	"voevoda-access/internal/domain"
	"voevoda-access/internal/domain/model"
	"voevoda-access/internal/domain/ports/adapter"
)

var (
	_ adapter.Document = (*Console)(nil)
	_ adapter.Window   = (*Console)(nil)
)

type submitEvent struct{ prevented bool }

func (e *submitEvent) PreventDefault() { e.prevented = true }

type consoleForm struct{ listeners []adapter.SubmitListener }

func (f *consoleForm) AddSubmitListener(l adapter.SubmitListener) {
	f.listeners = append(f.listeners, l)
}

type Console struct {
	page     *application.AccessPage
	ids      config.PageConfig
	in       *bufio.Scanner
	out      io.Writer
	state    *model.PageState
	forms    map[string]*consoleForm
	inputs   map[string]string
	location string
}

// maxLine bounds one input line.
const maxLine = 1 << 20

func NewConsole(page *application.AccessPage, ids config.PageConfig, in io.Reader, out io.Writer) *Console {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	return &Console{
		page:  page,
		ids:   ids,
		in:    sc,
		out:   out,
		state: model.NewPageState(ids.IssueForm, ids.RedeemForm),
		forms: map[string]*consoleForm{
			ids.IssueForm:  {},
			ids.RedeemForm: {},
		},
		inputs: make(map[string]string),
	}
}

func (c *Console) FormByID(id string) (adapter.Form, error) {
	f, ok := c.forms[id]
	if !ok {
		return nil, fmt.Errorf("%w: form %q", domain.ErrElementNotFound, id)
	}
	return f, nil
}

func (c *Console) InputValue(id string) string { return c.inputs[id] }

func (c *Console) SetDisplay(id string, visible bool) { c.state.SetVisible(id, visible) }

func (c *Console) Alert(msg string) { fmt.Fprintf(c.out, "! %s\n", msg) }

func (c *Console) Navigate(rawURL string) { c.location = rawURL }

// Run bootstraps the page and keeps prompting for the visible form until the
// page navigates, input ends or ctx is done. It returns the navigation target,
// or "" if the session ended without one.
func (c *Console) Run(ctx context.Context) (string, error) {
	if err := c.page.Bootstrap(c, c); err != nil {
		return "", err
	}
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		formID, field, label := c.prompt()
		fmt.Fprintf(c.out, "%s: ", label)
		if !c.in.Scan() {
			fmt.Fprintln(c.out)
			return "", c.in.Err()
		}
		c.inputs[field] = c.in.Text()
		c.submit(ctx, formID)

		if c.location != "" {
			fmt.Fprintf(c.out, "-> %s\n", c.location)
			return c.location, nil
		}
	}
}

// prompt picks the form to fill: the issue form while it is shown, the
// redeem form otherwise.
func (c *Console) prompt() (formID, field, label string) {
	if c.state.IsVisible(c.ids.IssueForm) {
		return c.ids.IssueForm, c.ids.NameField, "Name"
	}
	return c.ids.RedeemForm, c.ids.CodeField, "Code"
}

func (c *Console) submit(ctx context.Context, formID string) {
	ev := &submitEvent{}
	for _, l := range c.forms[formID].listeners {
		l(ctx, ev)
	}
}
