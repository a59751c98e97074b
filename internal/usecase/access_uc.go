// File: internal/usecase/access_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"voevoda-access/internal/domain"
	"voevoda-access/internal/domain/model"
	"voevoda-access/internal/domain/ports/adapter"
	"voevoda-access/internal/infra/logging"
)

// Compile-time check
var _ AccessUseCase = (*accessUC)(nil)

type AccessUseCase interface {
	// IssueAccessCode asks the key service for a code for name and returns the
	// text to show the user. Errors: domain.ErrInvalidName on a non-2xx answer,
	// domain.ErrDeclined on success=false, anything else is a transport/decode failure.
	IssueAccessCode(ctx context.Context, name string) (string, error)
	// RedeemAccessCode validates code and returns the URL to navigate to.
	// Errors mirror IssueAccessCode with domain.ErrInvalidCode.
	RedeemAccessCode(ctx context.Context, code string) (string, error)
}

type accessUC struct {
	keys   adapter.KeyService
	subKey string
	root   *url.URL
	log    *zerolog.Logger
	dev    bool
}

func NewAccessUseCase(keys adapter.KeyService, subKey, rootURL string, logger *zerolog.Logger, dev bool) (*accessUC, error) {
	if keys == nil {
		return nil, errors.New("key service is required")
	}
	root, err := url.Parse(rootURL)
	if err != nil {
		return nil, fmt.Errorf("invalid root url: %w", err)
	}
	if subKey == "" {
		subKey = model.SubKeyRender
	}
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &accessUC{keys: keys, subKey: subKey, root: root, log: logger, dev: dev}, nil
}

func (u *accessUC) IssueAccessCode(ctx context.Context, name string) (string, error) {
	l := logging.With(ctx, u.log)
	defer logging.TraceDuration(l, "AccessUseCase.IssueAccessCode")()

	resp, err := u.keys.Issue(ctx, model.IssueRequest{SubKey: u.subKey, Name: name})
	var se *domain.StatusError
	switch {
	case errors.As(err, &se):
		l.Debug().Int("status", se.Code).Str("provider", u.keys.Name()).Msg("issue rejected")
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidName, err)
	case err != nil:
		return "", fmt.Errorf("issue access code: %w", err)
	case !resp.Success:
		return "", domain.ErrDeclined
	}
	text := resp.Text()
	l.Info().Str("sub_key", u.subKey).Str("code", logging.Redact(text, u.dev)).Msg("access code issued")
	return text, nil
}

func (u *accessUC) RedeemAccessCode(ctx context.Context, code string) (string, error) {
	l := logging.With(ctx, u.log)
	defer logging.TraceDuration(l, "AccessUseCase.RedeemAccessCode")()

	resp, err := u.keys.Redeem(ctx, model.RedeemRequest{Code: code})
	var se *domain.StatusError
	switch {
	case errors.As(err, &se):
		l.Debug().Int("status", se.Code).Str("provider", u.keys.Name()).Msg("redeem rejected")
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidCode, err)
	case err != nil:
		return "", fmt.Errorf("redeem access code: %w", err)
	case !resp.Success:
		return "", domain.ErrDeclined
	}
	target := RedeemURL(u.root, code)
	l.Info().Str("code", logging.Redact(code, u.dev)).Msg("access code redeemed")
	return target, nil
}

// RedeemURL returns root with the code as its only query parameter,
// encoded the way browsers' encodeURIComponent does it.
func RedeemURL(root *url.URL, code string) string {
	u := *root
	u.RawQuery = "code=" + EncodeURIComponent(code)
	u.Fragment = ""
	return u.String()
}

var uriComponentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent escapes everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ).
func EncodeURIComponent(s string) string {
	return uriComponentUnescape.Replace(url.QueryEscape(s))
}
