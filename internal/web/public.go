// internal/web/public.go
//
// Anonymous routes for published sites.
//
// Workflow
// --------
//  1. Every handler resolves the slug through the site cache; a missing
//     slug is a plain 404.
//  2. Page views from crawlers still render, but never touch counters
//     or fire automation events.
//  3. Lead capture validates against the published form-field list, so
//     a disabled field can never block a visitor.
package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/brokerkit/brokerkit/internal/lead"
	"github.com/brokerkit/brokerkit/internal/metrics"
	"github.com/brokerkit/brokerkit/internal/property"
	"github.com/brokerkit/brokerkit/internal/render"
	"github.com/brokerkit/brokerkit/internal/requestinfo"
	"github.com/brokerkit/brokerkit/internal/sitecache"
	"github.com/brokerkit/brokerkit/internal/siteconfig"
	"github.com/brokerkit/brokerkit/internal/webhook"
	"github.com/brokerkit/brokerkit/internal/whatsapp"
)

// site resolves the slug route param, writing a 404 on a miss.
func (s *Server) site(w http.ResponseWriter, r *http.Request) *sitecache.Site {
	slug := chi.URLParam(r, "slug")
	site, err := s.cache.Get(r.Context(), slug)
	if err != nil {
		if err == siteconfig.ErrNotFound {
			http.NotFound(w, r)
		} else {
			zap.S().Errorw("resolve site", "slug", slug, "error", err)
			httpError(w, http.StatusInternalServerError, "site unavailable")
		}
		return nil
	}
	return site
}

// publicPage renders the published single-page site.
func (s *Server) publicPage(w http.ResponseWriter, r *http.Request) {
	site := s.site(w, r)
	if site == nil {
		return
	}

	featured, err := property.Featured(r.Context(), s.db, site.OwnerID, 6)
	if err != nil {
		// The catalog is decoration on this page; render without it.
		zap.S().Warnw("load featured properties", "slug", site.Config.Subdomain, "error", err)
	}

	token, err := GenerateToken()
	if err != nil {
		httpError(w, http.StatusInternalServerError, "token generation failed")
		return
	}

	data := &render.PageData{
		Config:     site.Config,
		Properties: featured,
		Fields:     site.Config.EnabledFields(),
		Slug:       site.Config.Subdomain,
		CSRFToken:  token,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.Page(w, site.Theme, data); err != nil {
		zap.S().Errorw("render page", "slug", site.Config.Subdomain, "error", err)
		return
	}

	if !requestinfo.IsBot(r.Context()) {
		metrics.PublicRenderTotal.Inc()
	}
}

// publicLead captures a visitor form submission.
func (s *Server) publicLead(w http.ResponseWriter, r *http.Request) {
	site := s.site(w, r)
	if site == nil {
		return
	}

	if err := r.ParseForm(); err != nil {
		httpError(w, http.StatusBadRequest, "malformed form")
		return
	}
	if !VerifyToken(r.PostFormValue("csrf_token")) {
		httpError(w, http.StatusForbidden, "form expired, reload the page")
		return
	}

	rec, fieldErrs := lead.FromSubmission(site.Config, site.OwnerID, r.PostForm)
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": fieldErrs,
		})
		return
	}

	if err := lead.Create(r.Context(), s.db, rec); err != nil {
		zap.S().Errorw("store lead", "slug", site.Config.Subdomain, "error", err)
		httpError(w, http.StatusInternalServerError, "could not save your message")
		return
	}
	metrics.LeadsCapturedTotal.Inc()

	// An evaluation request is a lead whose interest names the broker's
	// pricing service; automation routes it to a different flow.
	event := webhook.EventNewLead
	if rec.Interest == "evaluation" {
		event = webhook.EventNewEvaluation
	}
	propCode := ""
	if rec.PropertyCode != nil {
		propCode = *rec.PropertyCode
	}
	s.fireEvent(event, webhook.Payload{
		LeadName:  rec.Name,
		LeadPhone: rec.Phone,
		Property:  propCode,
	})

	writeJSON(w, http.StatusCreated, map[string]string{
		"code":        rec.Code,
		"whatsappUrl": whatsapp.DeepLink(s.cfg.Broker.Phone, "Olá! Vim pelo site."),
	})
}

// publicProperty serves one listing as JSON and counts the view.
func (s *Server) publicProperty(w http.ResponseWriter, r *http.Request) {
	site := s.site(w, r)
	if site == nil {
		return
	}

	code := chi.URLParam(r, "code")
	rec, err := property.ByCode(r.Context(), s.db, code)
	if err != nil || rec.OwnerID != site.OwnerID {
		http.NotFound(w, r)
		return
	}

	if !requestinfo.IsBot(r.Context()) {
		if err := property.IncrementView(r.Context(), s.db, code); err != nil {
			zap.S().Warnw("count view", "property", code, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, rec)
}

// trackClick counts a listing click-through.
func (s *Server) trackClick(w http.ResponseWriter, r *http.Request) {
	site := s.site(w, r)
	if site == nil {
		return
	}
	if requestinfo.IsBot(r.Context()) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	code := chi.URLParam(r, "code")
	if err := property.IncrementClick(r.Context(), s.db, code); err != nil {
		zap.S().Warnw("count click", "property", code, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// fireEvent delivers a webhook without blocking the response.  Failures
// are logged and counted inside the notifier; there are no retries.
func (s *Server) fireEvent(ev webhook.Event, p webhook.Payload) {
	go func() {
		ctx, cancel := newDetachedContext()
		defer cancel()
		_ = s.notify.Notify(ctx, ev, p)
	}()
}
