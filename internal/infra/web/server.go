package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"voevoda-access/internal/application"
	"voevoda-access/internal/config"
	"voevoda-access/internal/domain"
	"voevoda-access/internal/domain/model"
	"voevoda-access/internal/domain/ports/repository"
	"voevoda-access/internal/infra/logging"
)

// Server hosts the access page: it renders the forms, turns form posts into
// submit events for application.AccessPage and persists what the flows did.
type Server struct {
	page     *application.AccessPage
	states   repository.PageStateRepository
	locks    repository.SessionLocker
	sessions *SessionManager
	ids      config.PageConfig
	metrics  bool
	log      *zerolog.Logger
}

func NewServer(
	page *application.AccessPage,
	states repository.PageStateRepository,
	locks repository.SessionLocker,
	sessions *SessionManager,
	ids config.PageConfig,
	withMetrics bool,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		page:     page,
		states:   states,
		locks:    locks,
		sessions: sessions,
		ids:      ids,
		metrics:  withMetrics,
		log:      logger,
	}
}

// Routes builds the router with the request middleware applied.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(), RequestLog(s.log), Recover(s.log))

	r.Get("/", s.handleIndex)
	r.Post("/forms/{formID}", s.handleSubmit)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if s.metrics {
		r.Handle("/metrics", promhttp.Handler())
	}
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sid, err := s.sessions.Ensure(w, r)
	if err != nil {
		s.fail(w, r, err, "session")
		return
	}
	ctx := logging.WithSessID(r.Context(), sid)
	r = r.WithContext(ctx)

	unlock, err := s.locks.Lock(ctx, sid)
	if err != nil {
		s.fail(w, r, err, "lock session")
		return
	}
	defer unlock()

	state, err := s.loadState(ctx, sid)
	if err != nil {
		s.fail(w, r, err, "load page state")
		return
	}
	alerts := state.DrainAlerts()
	if len(alerts) > 0 {
		if err := s.states.Save(ctx, sid, state); err != nil {
			s.fail(w, r, err, "save page state")
			return
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	err = page.Execute(w, pageView{
		IssueForm:     s.ids.IssueForm,
		RedeemForm:    s.ids.RedeemForm,
		NameField:     s.ids.NameField,
		CodeField:     s.ids.CodeField,
		IssueVisible:  state.IsVisible(s.ids.IssueForm),
		RedeemVisible: state.IsVisible(s.ids.RedeemForm),
		Alerts:        alerts,
	})
	if err != nil {
		logging.With(ctx, s.log).Error().Err(err).Msg("render page")
	}
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")
	if formID != s.ids.IssueForm && formID != s.ids.RedeemForm {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	sid, err := s.sessions.Ensure(w, r)
	if err != nil {
		s.fail(w, r, err, "session")
		return
	}
	ctx := logging.WithSessID(r.Context(), sid)
	r = r.WithContext(ctx)

	// load, dispatch and save run under the session lock
	unlock, err := s.locks.Lock(ctx, sid)
	if err != nil {
		s.fail(w, r, err, "lock session")
		return
	}
	defer unlock()

	state, err := s.loadState(ctx, sid)
	if err != nil {
		s.fail(w, r, err, "load page state")
		return
	}

	doc := newPageDocument(state, r.PostForm, s.ids.IssueForm, s.ids.RedeemForm)
	if err := s.page.Bootstrap(doc, doc); err != nil {
		s.fail(w, r, err, "bootstrap page")
		return
	}
	prevented, _ := doc.submit(ctx, formID)
	if !prevented {
		logging.With(ctx, s.log).Warn().Str("form", formID).Msg("submit not intercepted")
	}

	// navigating away ends the page; a later visit starts over
	if doc.location != "" {
		if err := s.states.Clear(ctx, sid); err != nil {
			s.fail(w, r, err, "clear page state")
			return
		}
		http.Redirect(w, r, doc.location, http.StatusSeeOther)
		return
	}
	if err := s.states.Save(ctx, sid, state); err != nil {
		s.fail(w, r, err, "save page state")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// loadState returns the visitor's state, starting a fresh page for new or
// expired sessions.
func (s *Server) loadState(ctx context.Context, sid string) (*model.PageState, error) {
	state, err := s.states.Load(ctx, sid)
	if errors.Is(err, domain.ErrNotFound) {
		return model.NewPageState(s.ids.IssueForm, s.ids.RedeemForm), nil
	}
	return state, err
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, what string) {
	logging.With(r.Context(), s.log).Error().Err(err).Msg(what)
	http.Error(w, "Internal error", http.StatusInternalServerError)
}
