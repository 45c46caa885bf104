package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/diewo77/quotes/httpx"
	"github.com/diewo77/quotes/i18n"
	"github.com/diewo77/quotes/internal/config"
	"github.com/diewo77/quotes/internal/messaging"
	"github.com/diewo77/quotes/internal/services"
	pdfgen "github.com/diewo77/quotes/pdf"
	"github.com/diewo77/quotes/validation"
)

// Messenger delivers a rendered quote to a phone number.
type Messenger interface {
	SendDocument(ctx context.Context, phone string, data []byte, fileName string) (*messaging.Response, error)
	SendText(ctx context.Context, phone, text string) (*messaging.Response, error)
}

// QuoteHandler serves quote documents.
type QuoteHandler struct {
	Svc      *services.QuoteService
	Defaults config.Render
	Themes   config.ThemeSet
	Images   pdfgen.ImageLoader
	// Messenger is nil when no gateway is configured.
	Messenger Messenger
	Logger    *log.Logger
}

func NewQuoteHandler(svc *services.QuoteService, defaults config.Render, themes config.ThemeSet) *QuoteHandler {
	return &QuoteHandler{Svc: svc, Defaults: defaults, Themes: themes, Logger: log.Default()}
}

type renderRequest struct {
	id    uint
	opts  pdfgen.Options
	lang  string
	bad   validation.Violations
	badID bool
}

// parse reads the quote id from the path and render options from the query,
// falling back to the configured defaults.
func (h *QuoteHandler) parse(r *http.Request) renderRequest {
	q := r.URL.Query()
	req := renderRequest{bad: validation.Violations{}}
	idv := validation.Violations{}
	req.id = validation.ID("id", r.PathValue("id"), idv)
	req.badID = !idv.Empty()

	paper := firstNonEmpty(q.Get("paper"), h.Defaults.Paper)
	orient := firstNonEmpty(q.Get("orientation"), h.Defaults.Orientation)
	req.opts.Paper = validation.Paper("paper", paper, req.bad)
	req.opts.Orientation = validation.Orientation("orientation", orient, req.bad)

	lang := q.Get("lang")
	if lang == "" && r.Header.Get("Accept-Language") != "" {
		lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
	}
	req.lang = i18n.Normalize(firstNonEmpty(lang, h.Defaults.Lang))
	req.opts.Lang = req.lang
	req.opts.Images = h.Images
	req.opts.Logger = h.Logger
	return req
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// render loads the quote, checks its totals and produces the PDF. On failure
// it has already written the error response.
func (h *QuoteHandler) render(w http.ResponseWriter, r *http.Request, req renderRequest) (pdfgen.Input, []byte, bool) {
	in, err := h.Svc.LoadInput(r.Context(), req.id)
	if err != nil {
		if errors.Is(err, services.ErrQuoteNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return in, nil, false
		}
		h.Logger.Printf("quote %d: load: %v", req.id, err)
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_generation_failed", nil)
		return in, nil, false
	}
	if err := services.CheckTotals(in); err != nil {
		h.Logger.Printf("quote %d: %v", req.id, err)
		httpx.JSONError(w, http.StatusUnprocessableEntity, "pdf_generation_failed", map[string]string{"reason": "totals_mismatch"})
		return in, nil, false
	}
	theme := h.Themes.For(in.Company.TaxID)
	req.opts.Theme = &theme
	data, err := pdfgen.QuotePDF(in, req.opts)
	if err != nil {
		h.Logger.Printf("quote %d: %v", req.id, err)
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_generation_failed", nil)
		return in, nil, false
	}
	return in, data, true
}

// PDF: GET /quotes/{id}/pdf
func (h *QuoteHandler) PDF(w http.ResponseWriter, r *http.Request) {
	req := h.parse(r)
	if req.badID {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	disposition := r.URL.Query().Get("disposition")
	if disposition != "" && disposition != "inline" && disposition != "attachment" {
		req.bad["disposition"] = "out_of_range"
	}
	if !req.bad.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_options", req.bad)
		return
	}
	in, data, ok := h.render(w, r, req)
	if !ok {
		return
	}
	httpx.PDF(w, pdfgen.FileName(in.Quote, req.lang), data, disposition != "inline")
}

// Confirm: POST /quotes/{id}/confirm
func (h *QuoteHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	v := validation.Violations{}
	id := validation.ID("id", r.PathValue("id"), v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	code, err := h.Svc.Confirm(r.Context(), id)
	switch {
	case errors.Is(err, services.ErrQuoteNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, services.ErrAlreadyConfirmed):
		httpx.JSONError(w, http.StatusConflict, "already_confirmed", nil)
	case err != nil:
		h.Logger.Printf("quote %d: confirm: %v", id, err)
		httpx.JSONError(w, http.StatusInternalServerError, "confirm_failed", nil)
	default:
		httpx.JSON(w, http.StatusOK, map[string]string{"code": code})
	}
}

type sendRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Send: POST /quotes/{id}/send renders the quote and delivers it, followed
// by a text message.
func (h *QuoteHandler) Send(w http.ResponseWriter, r *http.Request) {
	req := h.parse(r)
	if req.badID {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var body sendRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	validation.Required("phone", body.Phone, req.bad)
	if req.bad.Empty() {
		body.Phone = validation.Phone("phone", body.Phone, req.bad)
	}
	if !req.bad.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_options", req.bad)
		return
	}
	if h.Messenger == nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "send_failed", map[string]string{"reason": "messaging_disabled"})
		return
	}

	in, data, ok := h.render(w, r, req)
	if !ok {
		return
	}
	fileName := pdfgen.FileName(in.Quote, req.lang)
	if _, err := h.Messenger.SendDocument(r.Context(), body.Phone, data, fileName); err != nil {
		h.Logger.Printf("quote %d: send document: %v", req.id, err)
		httpx.JSONError(w, http.StatusBadGateway, "send_failed", nil)
		return
	}
	text := body.Message
	if strings.TrimSpace(text) == "" {
		code := i18n.T(req.lang, "draft")
		if in.Quote.Code != nil {
			code = *in.Quote.Code
		}
		text = i18n.Tf(req.lang, "send_text", in.Quote.Customer.Name, code)
	}
	if _, err := h.Messenger.SendText(r.Context(), body.Phone, text); err != nil {
		h.Logger.Printf("quote %d: send text: %v", req.id, err)
		httpx.JSONError(w, http.StatusBadGateway, "send_failed", map[string]string{"reason": "document_sent_text_failed"})
		return
	}
	if err := h.Svc.RecordSend(r.Context(), req.id, body.Phone, fileName); err != nil {
		h.Logger.Printf("quote %d: audit send: %v", req.id, err)
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "sent", "file": fileName})
}
