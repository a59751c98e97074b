package application_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"voevoda-access/internal/application"
	"voevoda-access/internal/config"
	"voevoda-access/internal/domain"
	"voevoda-access/internal/infra/adapters/keys"
	"voevoda-access/internal/usecase"
)

var ids = config.PageConfig{
	IssueForm:  "access_code_form",
	RedeemForm: "validate_code_form",
	NameField:  "name",
	CodeField:  "code",
}

func bootstrapped(t *testing.T, uc application.AccessUseCaseIface) (*fakeDoc, *fakeWin) {
	t.Helper()
	doc := newFakeDoc(ids.IssueForm, ids.RedeemForm)
	win := &fakeWin{}
	if err := application.NewAccessPage(uc, ids, nil).Bootstrap(doc, win); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	return doc, win
}

func TestBootstrap_MissingForm(t *testing.T) {
	page := application.NewAccessPage(&mockAccessUC{}, ids, nil)

	for _, present := range []string{ids.IssueForm, ids.RedeemForm} {
		err := page.Bootstrap(newFakeDoc(present), &fakeWin{})
		if !errors.Is(err, domain.ErrElementNotFound) {
			t.Fatalf("with only %s: expected ErrElementNotFound, got %v", present, err)
		}
	}
}

func TestBootstrap_InterceptorsPreventDefault(t *testing.T) {
	uc := &mockAccessUC{issueErr: domain.ErrDeclined, redeemErr: domain.ErrDeclined}
	doc, _ := bootstrapped(t, uc)

	if !doc.submit(context.Background(), ids.IssueForm) {
		t.Fatal("issue submit was not prevented")
	}
	if !doc.submit(context.Background(), ids.RedeemForm) {
		t.Fatal("redeem submit was not prevented")
	}
	if len(uc.names) != 1 || len(uc.codes) != 1 {
		t.Fatalf("each form should run exactly its own flow: names=%v codes=%v", uc.names, uc.codes)
	}
}

func TestIssueFlow(t *testing.T) {
	cases := []struct {
		name        string
		uc          *mockAccessUC
		wantAlerts  []string
		wantSwapped bool
		wantOutcome string
	}{
		{
			name:        "success alerts data and swaps forms",
			uc:          &mockAccessUC{issueText: "X"},
			wantAlerts:  []string{"X"},
			wantSwapped: true,
			wantOutcome: application.OutcomeOK,
		},
		{
			name:        "non-2xx alerts invalid name",
			uc:          &mockAccessUC{issueErr: fmt.Errorf("%w: key service http 404", domain.ErrInvalidName)},
			wantAlerts:  []string{application.AlertInvalidName},
			wantOutcome: application.OutcomeRejected,
		},
		{
			name:        "success false is silent",
			uc:          &mockAccessUC{issueErr: domain.ErrDeclined},
			wantOutcome: application.OutcomeDeclined,
		},
		{
			name:        "network failure is console only",
			uc:          &mockAccessUC{issueErr: errors.New("dial tcp: connection refused")},
			wantOutcome: application.OutcomeFailed,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := application.NewAccessPage(tc.uc, ids, nil)
			doc := newFakeDoc(ids.IssueForm, ids.RedeemForm)
			doc.inputs["name"] = "Ivan"
			win := &fakeWin{}

			got := page.GenerateAccessCode(context.Background(), doc, win)
			if got != tc.wantOutcome {
				t.Fatalf("outcome %q, want %q", got, tc.wantOutcome)
			}
			if fmt.Sprint(win.alerts) != fmt.Sprint(tc.wantAlerts) {
				t.Fatalf("alerts %v, want %v", win.alerts, tc.wantAlerts)
			}
			if tc.wantSwapped {
				if doc.visible[ids.IssueForm] || !doc.visible[ids.RedeemForm] {
					t.Fatalf("forms not swapped: %v", doc.visible)
				}
			} else if len(doc.visible) != 0 {
				t.Fatalf("visibility must not change: %v", doc.visible)
			}
			if len(win.navigated) != 0 {
				t.Fatalf("issue flow must not navigate: %v", win.navigated)
			}
			if len(tc.uc.names) != 1 || tc.uc.names[0] != "Ivan" {
				t.Fatalf("unexpected names %v", tc.uc.names)
			}
		})
	}
}

func TestRedeemFlow(t *testing.T) {
	cases := []struct {
		name        string
		uc          *mockAccessUC
		wantAlerts  []string
		wantNav     []string
		wantOutcome string
	}{
		{
			name:        "success navigates",
			uc:          &mockAccessUC{target: "http://127.0.0.1:8000/?code=CODE123"},
			wantNav:     []string{"http://127.0.0.1:8000/?code=CODE123"},
			wantOutcome: application.OutcomeOK,
		},
		{
			name:        "non-2xx alerts invalid code",
			uc:          &mockAccessUC{redeemErr: domain.ErrInvalidCode},
			wantAlerts:  []string{application.AlertInvalidCode},
			wantOutcome: application.OutcomeRejected,
		},
		{
			name:        "success false is silent",
			uc:          &mockAccessUC{redeemErr: domain.ErrDeclined},
			wantOutcome: application.OutcomeDeclined,
		},
		{
			name:        "decode failure is console only",
			uc:          &mockAccessUC{redeemErr: errors.New("redeem decode: invalid character")},
			wantOutcome: application.OutcomeFailed,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := application.NewAccessPage(tc.uc, ids, nil)
			doc := newFakeDoc(ids.IssueForm, ids.RedeemForm)
			doc.inputs["code"] = "CODE123"
			win := &fakeWin{}

			got := page.ValidateAccessCode(context.Background(), doc, win)
			if got != tc.wantOutcome {
				t.Fatalf("outcome %q, want %q", got, tc.wantOutcome)
			}
			if fmt.Sprint(win.alerts) != fmt.Sprint(tc.wantAlerts) {
				t.Fatalf("alerts %v, want %v", win.alerts, tc.wantAlerts)
			}
			if fmt.Sprint(win.navigated) != fmt.Sprint(tc.wantNav) {
				t.Fatalf("navigated %v, want %v", win.navigated, tc.wantNav)
			}
			if len(doc.visible) != 0 {
				t.Fatalf("redeem flow must not touch visibility: %v", doc.visible)
			}
			if len(tc.uc.codes) != 1 || tc.uc.codes[0] != "CODE123" {
				t.Fatalf("unexpected codes %v", tc.uc.codes)
			}
		})
	}
}

// TestEndToEnd drives the real usecase and HTTP client against a fake key endpoint.
func TestEndToEnd(t *testing.T) {
	var issueQuery, redeemBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			issueQuery = r.URL.RawQuery
			_, _ = w.Write([]byte(`{"success":true,"data":"CODE123"}`))
		case http.MethodPost:
			b, _ := io.ReadAll(r.Body)
			redeemBody = string(b)
			_, _ = w.Write([]byte(`{"success":true}`))
		}
	}))
	defer srv.Close()

	ks, err := keys.NewHTTPKeyService(srv.URL+"/api/keys/", 0)
	if err != nil {
		t.Fatalf("NewHTTPKeyService: %v", err)
	}
	uc, err := usecase.NewAccessUseCase(ks.WithHTTPClient(srv.Client()), "render", "http://127.0.0.1:8000/", nil, false)
	if err != nil {
		t.Fatalf("NewAccessUseCase: %v", err)
	}
	doc, win := bootstrapped(t, uc)
	ctx := context.Background()

	doc.inputs["name"] = "Ivan"
	doc.submit(ctx, ids.IssueForm)
	if issueQuery != "sub_key=render&name=Ivan" {
		t.Fatalf("unexpected issue query %q", issueQuery)
	}
	if len(win.alerts) != 1 || win.alerts[0] != "CODE123" {
		t.Fatalf("unexpected alerts %v", win.alerts)
	}
	if doc.visible[ids.IssueForm] || !doc.visible[ids.RedeemForm] {
		t.Fatalf("redeem form should be visible: %v", doc.visible)
	}

	doc.inputs["code"] = "CODE123"
	doc.submit(ctx, ids.RedeemForm)
	if redeemBody != `{"code":"CODE123"}` {
		t.Fatalf("unexpected redeem body %q", redeemBody)
	}
	if len(win.navigated) != 1 || win.navigated[0] != "http://127.0.0.1:8000/?code=CODE123" {
		t.Fatalf("unexpected navigation %v", win.navigated)
	}
}

func TestEndToEnd_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL + "/api/keys/"
	srv.Close()

	ks, err := keys.NewHTTPKeyService(base, 0)
	if err != nil {
		t.Fatalf("NewHTTPKeyService: %v", err)
	}
	uc, err := usecase.NewAccessUseCase(ks, "render", "http://127.0.0.1:8000/", nil, false)
	if err != nil {
		t.Fatalf("NewAccessUseCase: %v", err)
	}
	doc, win := bootstrapped(t, uc)

	doc.inputs["name"] = "Ivan"
	doc.submit(context.Background(), ids.IssueForm)
	doc.inputs["code"] = "1"
	doc.submit(context.Background(), ids.RedeemForm)

	if len(win.alerts) != 0 || len(win.navigated) != 0 {
		t.Fatalf("network failures must stay silent: alerts=%v nav=%v", win.alerts, win.navigated)
	}
	if len(doc.visible) != 0 {
		t.Fatalf("visibility must not change: %v", doc.visible)
	}
}
