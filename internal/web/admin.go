// internal/web/admin.go
//
// Back-office JSON API.
//
// Every handler runs behind requireOwner, so ownerFrom is always set.
// Row ownership is re-checked on reads and mutations that address a
// record by its public code, because codes are guessable URLs.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/brokerkit/brokerkit/internal/ai"
	"github.com/brokerkit/brokerkit/internal/editor"
	"github.com/brokerkit/brokerkit/internal/lead"
	"github.com/brokerkit/brokerkit/internal/metrics"
	"github.com/brokerkit/brokerkit/internal/property"
	"github.com/brokerkit/brokerkit/internal/render"
	"github.com/brokerkit/brokerkit/internal/schedule"
	"github.com/brokerkit/brokerkit/internal/siteconfig"
	"github.com/brokerkit/brokerkit/internal/webhook"
	"github.com/brokerkit/brokerkit/internal/whatsapp"
)

const maxBodyBytes = 4 << 20 // request body cap, covers base64 logos

// decodeJSON reads the request body into v with a size cap.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

//
// Site configuration
//

// siteLoad returns the owner's configuration, falling back to the
// default document so a first-time operator starts from something
// editable.
func (s *Server) siteLoad(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r.Context())

	cfg, err := siteconfig.Load(r.Context(), s.db, owner)
	switch {
	case errors.Is(err, siteconfig.ErrNotFound):
		writeJSON(w, http.StatusOK, map[string]any{
			"published": false,
			"config":    siteconfig.Default(s.cfg.Broker.Name),
		})
	case err != nil:
		zap.S().Errorw("load site config", "owner", owner, "error", err)
		httpError(w, http.StatusInternalServerError, "could not load configuration")
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"published": true,
			"config":    cfg,
		})
	}
}

type publishRequest struct {
	Slug   string            `json:"slug"`
	Config siteconfig.Config `json:"config"`
}

// sitePublish validates and persists the document, then drops any
// cached copy so the public route serves the new version at once.
func (s *Server) sitePublish(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r.Context())

	var req publishRequest
	if err := decodeJSON(r, &req); err != nil {
		httpError(w, http.StatusBadRequest, "malformed document: "+err.Error())
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = siteconfig.MakeSlug(req.Config.Title)
	}

	d := editor.NewDraft(owner, &req.Config)
	d.SetSubdomain(slug)
	err := d.Publish(r.Context(), s.db)
	switch {
	case errors.Is(err, siteconfig.ErrSlugTaken):
		httpError(w, http.StatusConflict, "address already in use")
		return
	case err != nil:
		httpError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	metrics.PublishTotal.Inc()
	s.cache.Invalidate(owner)

	writeJSON(w, http.StatusOK, map[string]string{
		"slug": slug,
		"url":  "/s/" + slug,
	})
}

type previewRequest struct {
	Config siteconfig.Config `json:"config"`
}

// sitePreview renders the posted draft inside the requested device
// frame without persisting anything.
func (s *Server) sitePreview(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r.Context())

	var req previewRequest
	if err := decodeJSON(r, &req); err != nil {
		httpError(w, http.StatusBadRequest, "malformed document: "+err.Error())
		return
	}
	if !req.Config.Template.Valid() {
		httpError(w, http.StatusUnprocessableEntity, "unknown template variant")
		return
	}

	th, err := s.themes.Load(string(req.Config.Template))
	if err != nil {
		zap.S().Errorw("load theme", "variant", req.Config.Template, "error", err)
		httpError(w, http.StatusInternalServerError, "theme unavailable")
		return
	}

	featured, _ := property.Featured(r.Context(), s.db, owner, 6)

	device := render.Device(r.URL.Query().Get("device"))
	data := &render.PageData{
		Config:     &req.Config,
		Properties: featured,
		Fields:     req.Config.EnabledFields(),
		Slug:       req.Config.Subdomain,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.Preview(w, th, device, data); err != nil {
		zap.S().Errorw("render preview", "owner", owner, "error", err)
	}
}

// siteLogo converts an uploaded image into the data URI the editor
// stores in the document.
func (s *Server) siteLogo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		httpError(w, http.StatusBadRequest, "malformed upload")
		return
	}
	file, hdr, err := r.FormFile("logo")
	if err != nil {
		httpError(w, http.StatusBadRequest, "missing logo file")
		return
	}
	defer file.Close()

	contentType := hdr.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		httpError(w, http.StatusUnsupportedMediaType, "logo must be an image")
		return
	}

	d := editor.NewDraft(ownerFrom(r.Context()), nil)
	if err := d.UploadLogo(file, contentType); err != nil {
		httpError(w, http.StatusInternalServerError, "could not read upload")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"logoUrl": d.Config().LogoURL,
	})
}

//
// Property catalog
//

func (s *Server) propertyList(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r.Context())
	list, err := property.ByOwner(r.Context(), s.db, owner)
	if err != nil {
		zap.S().Errorw("list properties", "owner", owner, "error", err)
		httpError(w, http.StatusInternalServerError, "could not list properties")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) propertyCreate(w http.ResponseWriter, r *http.Request) {
	var rec property.Record
	if err := decodeJSON(r, &rec); err != nil {
		httpError(w, http.StatusBadRequest, "malformed property: "+err.Error())
		return
	}
	rec.OwnerID = ownerFrom(r.Context())
	if strings.TrimSpace(rec.Title) == "" {
		httpError(w, http.StatusUnprocessableEntity, "title is required")
		return
	}

	if err := property.Create(r.Context(), s.db, &rec); err != nil {
		zap.S().Errorw("create property", "owner", rec.OwnerID, "error", err)
		httpError(w, http.StatusInternalServerError, "could not save property")
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// ownedProperty loads a property and confirms it belongs to the caller.
func (s *Server) ownedProperty(w http.ResponseWriter, r *http.Request) *property.Record {
	code := chi.URLParam(r, "code")
	rec, err := property.ByCode(r.Context(), s.db, code)
	if err != nil || rec.OwnerID != ownerFrom(r.Context()) {
		http.NotFound(w, r)
		return nil
	}
	return rec
}

func (s *Server) propertyGet(w http.ResponseWriter, r *http.Request) {
	if rec := s.ownedProperty(w, r); rec != nil {
		writeJSON(w, http.StatusOK, rec)
	}
}

func (s *Server) propertyUpdate(w http.ResponseWriter, r *http.Request) {
	existing := s.ownedProperty(w, r)
	if existing == nil {
		return
	}

	var rec property.Record
	if err := decodeJSON(r, &rec); err != nil {
		httpError(w, http.StatusBadRequest, "malformed property: "+err.Error())
		return
	}
	rec.OwnerID = existing.OwnerID

	if err := property.Update(r.Context(), s.db, existing.Code, &rec); err != nil {
		zap.S().Errorw("update property", "code", existing.Code, "error", err)
		httpError(w, http.StatusInternalServerError, "could not update property")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"code": existing.Code})
}

func (s *Server) propertyDelete(w http.ResponseWriter, r *http.Request) {
	existing := s.ownedProperty(w, r)
	if existing == nil {
		return
	}
	if err := property.Delete(r.Context(), s.db, existing.Code); err != nil {
		zap.S().Errorw("delete property", "code", existing.Code, "error", err)
		httpError(w, http.StatusInternalServerError, "could not delete property")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

//
// Lead funnel
//

func (s *Server) leadList(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r.Context())
	status := lead.Status(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		httpError(w, http.StatusBadRequest, "unknown status filter")
		return
	}

	list, err := lead.ByOwner(r.Context(), s.db, owner, status)
	if err != nil {
		zap.S().Errorw("list leads", "owner", owner, "error", err)
		httpError(w, http.StatusInternalServerError, "could not list leads")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) leadSetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		httpError(w, http.StatusBadRequest, "malformed body")
		return
	}
	status := lead.Status(req.Status)
	if !status.Valid() {
		httpError(w, http.StatusUnprocessableEntity, "unknown status")
		return
	}

	code := chi.URLParam(r, "code")
	rec, err := lead.ByCode(r.Context(), s.db, code)
	if err != nil || rec.OwnerID != ownerFrom(r.Context()) {
		http.NotFound(w, r)
		return
	}

	if err := lead.SetStatus(r.Context(), s.db, code, status); err != nil {
		zap.S().Errorw("set lead status", "code", code, "error", err)
		httpError(w, http.StatusInternalServerError, "could not update lead")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"code": code, "status": string(status)})
}

//
// Visit scheduling
//

func (s *Server) visitList(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r.Context())
	list, err := schedule.ByOwner(r.Context(), s.db, owner)
	if err != nil {
		zap.S().Errorw("list visits", "owner", owner, "error", err)
		httpError(w, http.StatusInternalServerError, "could not list visits")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) visitCreate(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r.Context())

	var rec schedule.Record
	if err := decodeJSON(r, &rec); err != nil {
		httpError(w, http.StatusBadRequest, "malformed visit: "+err.Error())
		return
	}
	rec.OwnerID = owner
	if rec.ScheduledAt.IsZero() {
		httpError(w, http.StatusUnprocessableEntity, "scheduled_at is required")
		return
	}

	// The visit must reference a lead the caller owns; the lead also
	// supplies the contact details for the automation event.
	visitor, err := lead.ByCode(r.Context(), s.db, rec.LeadCode)
	if err != nil || visitor.OwnerID != owner {
		httpError(w, http.StatusUnprocessableEntity, "unknown lead")
		return
	}

	if err := schedule.Create(r.Context(), s.db, &rec); err != nil {
		zap.S().Errorw("create visit", "owner", owner, "error", err)
		httpError(w, http.StatusInternalServerError, "could not save visit")
		return
	}

	s.fireEvent(webhook.EventNewVisit, webhook.Payload{
		LeadName:  visitor.Name,
		LeadPhone: visitor.Phone,
		Property:  rec.PropertyCode,
	})

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) visitSetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		httpError(w, http.StatusBadRequest, "malformed body")
		return
	}
	status := schedule.Status(req.Status)
	if !status.Valid() {
		httpError(w, http.StatusUnprocessableEntity, "unknown status")
		return
	}

	code := chi.URLParam(r, "code")
	if err := schedule.SetStatus(r.Context(), s.db, ownerFrom(r.Context()), code, status); err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		zap.S().Errorw("set visit status", "code", code, "error", err)
		httpError(w, http.StatusInternalServerError, "could not update visit")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"code": code, "status": string(status)})
}

//
// Messaging gateway
//

func (s *Server) gatewaySettings(r *http.Request) (whatsapp.Settings, error) {
	fallback := whatsapp.Settings{
		BaseURL:  s.cfg.Messaging.BaseURL,
		APIKey:   s.cfg.Messaging.APIKey,
		Instance: s.cfg.Messaging.Instance,
	}
	return whatsapp.LoadSettings(r.Context(), s.db, ownerFrom(r.Context()), fallback)
}

func (s *Server) gatewayGet(w http.ResponseWriter, r *http.Request) {
	settings, err := s.gatewaySettings(r)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "could not load gateway settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) gatewayPut(w http.ResponseWriter, r *http.Request) {
	var settings whatsapp.Settings
	if err := decodeJSON(r, &settings); err != nil {
		httpError(w, http.StatusBadRequest, "malformed settings")
		return
	}
	if !settings.Complete() {
		httpError(w, http.StatusUnprocessableEntity, "base url, api key, and instance are all required")
		return
	}
	if err := whatsapp.SaveSettings(r.Context(), s.db, ownerFrom(r.Context()), settings); err != nil {
		httpError(w, http.StatusInternalServerError, "could not save gateway settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// gatewayTest lists the gateway's instances, which doubles as a
// connectivity and credential check.
func (s *Server) gatewayTest(w http.ResponseWriter, r *http.Request) {
	settings, err := s.gatewaySettings(r)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "could not load gateway settings")
		return
	}

	instances, err := whatsapp.NewGateway(settings).ListInstances(r.Context())
	if err != nil {
		httpError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"connected": true,
		"instances": instances,
	})
}

type sendRequest struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

// gatewaySend pushes one WhatsApp message through the configured
// instance, typically a follow-up to a captured lead.
func (s *Server) gatewaySend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := decodeJSON(r, &req); err != nil ||
		strings.TrimSpace(req.Number) == "" || strings.TrimSpace(req.Text) == "" {
		httpError(w, http.StatusBadRequest, "number and text are required")
		return
	}

	settings, err := s.gatewaySettings(r)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "could not load gateway settings")
		return
	}
	if err := whatsapp.NewGateway(settings).SendText(r.Context(), req.Number, req.Text); err != nil {
		httpError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"sent": true})
}

//
// Assisted copywriting
//

type promptRequest struct {
	Prompt string `json:"prompt"`
}

func (s *Server) aiText(w http.ResponseWriter, r *http.Request) {
	s.aiGenerate(w, r, s.ai.GenerateText, "text")
}

func (s *Server) aiImage(w http.ResponseWriter, r *http.Request) {
	s.aiGenerate(w, r, s.ai.GenerateImage, "image")
}

// aiGenerate shares the prompt plumbing between the two endpoints.  The
// provider's quota and billing messages pass through to the operator
// untouched.
func (s *Server) aiGenerate(w http.ResponseWriter, r *http.Request,
	gen func(context.Context, string) (string, error), field string) {

	var req promptRequest
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		httpError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	out, err := gen(r.Context(), req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrQuotaExceeded):
			httpError(w, http.StatusTooManyRequests, err.Error())
		case errors.Is(err, ai.ErrBillingRequired):
			httpError(w, http.StatusPaymentRequired, err.Error())
		default:
			httpError(w, http.StatusBadGateway, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{field: out})
}
