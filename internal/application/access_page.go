package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"voevoda-access/internal/config"
	"voevoda-access/internal/domain"
	"voevoda-access/internal/domain/ports/adapter"
	"voevoda-access/internal/infra/logging"
	"voevoda-access/internal/infra/metrics"
)

// Messages shown to the user on a rejected request.
const (
	AlertInvalidName = "Invalid name"
	AlertInvalidCode = "Invalid code"
)

const (
	FlowIssue  = "issue"
	FlowRedeem = "redeem"
)

// Flow outcomes, also used as metric labels.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeDeclined = "declined"
	OutcomeFailed   = "failed"
)

// AccessPage binds the issue and redeem forms of a document to the access flows.
// Failures never escape a handler: rejections become alerts, everything else
// is written to the logger only.
type AccessPage struct {
	uc  AccessUseCaseIface
	ids config.PageConfig
	log *zerolog.Logger
}

func NewAccessPage(uc AccessUseCaseIface, ids config.PageConfig, logger *zerolog.Logger) *AccessPage {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &AccessPage{uc: uc, ids: ids, log: logger}
}

// Bootstrap attaches one submit interceptor to each form. Both forms must exist.
func (p *AccessPage) Bootstrap(doc adapter.Document, win adapter.Window) error {
	issue, err := doc.FormByID(p.ids.IssueForm)
	if err != nil {
		return fmt.Errorf("bootstrap %s: %w", p.ids.IssueForm, err)
	}
	redeem, err := doc.FormByID(p.ids.RedeemForm)
	if err != nil {
		return fmt.Errorf("bootstrap %s: %w", p.ids.RedeemForm, err)
	}

	issue.AddSubmitListener(func(ctx context.Context, ev adapter.SubmitEvent) {
		ev.PreventDefault()
		p.GenerateAccessCode(ctx, doc, win)
	})
	redeem.AddSubmitListener(func(ctx context.Context, ev adapter.SubmitEvent) {
		ev.PreventDefault()
		p.ValidateAccessCode(ctx, doc, win)
	})
	return nil
}

// GenerateAccessCode runs the issue flow and returns its outcome.
func (p *AccessPage) GenerateAccessCode(ctx context.Context, doc adapter.Document, win adapter.Window) string {
	ctx = logging.WithFlow(ctx, FlowIssue)
	l := logging.With(ctx, p.log)

	name := doc.InputValue(p.ids.NameField)
	l.Debug().Str("name", name).Msg("generate access code")

	text, err := p.uc.IssueAccessCode(ctx, name)
	outcome := p.outcome(l, err)
	switch outcome {
	case OutcomeOK:
		win.Alert(text)
		doc.SetDisplay(p.ids.IssueForm, false)
		doc.SetDisplay(p.ids.RedeemForm, true)
	case OutcomeRejected:
		win.Alert(AlertInvalidName)
	}
	metrics.IncFlow(FlowIssue, outcome)
	return outcome
}

// ValidateAccessCode runs the redeem flow and returns its outcome.
// It never changes form visibility.
func (p *AccessPage) ValidateAccessCode(ctx context.Context, doc adapter.Document, win adapter.Window) string {
	ctx = logging.WithFlow(ctx, FlowRedeem)
	l := logging.With(ctx, p.log)

	code := doc.InputValue(p.ids.CodeField)
	l.Debug().Msg("validate access code")

	target, err := p.uc.RedeemAccessCode(ctx, code)
	outcome := p.outcome(l, err)
	switch outcome {
	case OutcomeOK:
		l.Debug().Msg("redirect")
		win.Navigate(target)
	case OutcomeRejected:
		win.Alert(AlertInvalidCode)
	}
	metrics.IncFlow(FlowRedeem, outcome)
	return outcome
}

func (p *AccessPage) outcome(l *zerolog.Logger, err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrInvalidName), errors.Is(err, domain.ErrInvalidCode):
		l.Warn().Err(err).Msg("request rejected")
		return OutcomeRejected
	case errors.Is(err, domain.ErrDeclined):
		// silent: success=false gets no user feedback
		l.Debug().Msg("request declined")
		return OutcomeDeclined
	default:
		l.Error().Err(err).Msg("access flow failed")
		return OutcomeFailed
	}
}
