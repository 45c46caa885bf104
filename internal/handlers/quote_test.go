package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/quotes/internal/config"
	"github.com/diewo77/quotes/internal/messaging"
	"github.com/diewo77/quotes/internal/models"
	"github.com/diewo77/quotes/internal/services"
)

func setupQuoteTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedQuoteFixtures(t *testing.T, db *gorm.DB) models.Quote {
	t.Helper()
	if err := db.Create(&models.CompanyProfile{Name: "Servicios Técnicos SRL", TaxID: "20111111111"}).Error; err != nil {
		t.Fatalf("company: %v", err)
	}
	customer := models.Customer{Name: "Comercial Andina SAC", TaxID: "20987654321"}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("customer: %v", err)
	}
	q := models.Quote{
		Status:       models.QuoteStatusDraft,
		CustomerID:   customer.ID,
		IssueDate:    time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		ValidityDays: 15,
		Currency:     "PEN",
		Items: []models.QuoteItem{
			{Name: "Cable UTP", Quantity: 10, Unit: "m", UnitPrice: 3.5, DiscountKind: models.DiscountPercent, Taxable: true, Position: 1},
			{Name: "Instalación", Quantity: 1, Unit: "und", UnitPrice: 200, DiscountKind: models.DiscountPercent, Taxable: true, Position: 2},
		},
	}
	services.ApplyTotals(&q, services.DefaultTaxRate)
	if err := db.Create(&q).Error; err != nil {
		t.Fatalf("quote: %v", err)
	}
	return q
}

func newTestHandler(db *gorm.DB) (*QuoteHandler, *http.ServeMux) {
	h := NewQuoteHandler(services.NewQuoteService(db), config.Render{Paper: "a4", Orientation: "p", Lang: "es"}, config.ThemeSet{})
	h.Logger = log.New(io.Discard, "", 0)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /quotes/{id}/pdf", h.PDF)
	mux.HandleFunc("POST /quotes/{id}/confirm", h.Confirm)
	mux.HandleFunc("POST /quotes/{id}/send", h.Send)
	return h, mux
}

func TestQuotePDFDownload(t *testing.T) {
	db := setupQuoteTestDB(t)
	q := seedQuoteFixtures(t, db)
	_, mux := newTestHandler(db)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/quotes/%d/pdf?paper=letter&orientation=l", q.ID), nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="Cotizacion-Borrador.pdf"` {
		t.Fatalf("unexpected disposition %q", cd)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("body is not a PDF")
	}
}

func TestQuotePDFInlineEnglish(t *testing.T) {
	db := setupQuoteTestDB(t)
	q := seedQuoteFixtures(t, db)
	_, mux := newTestHandler(db)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/quotes/%d/pdf?disposition=inline", q.ID), nil)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.8")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `inline; filename="Quote-Draft.pdf"` {
		t.Fatalf("unexpected disposition %q", cd)
	}
}

func TestQuotePDFErrors(t *testing.T) {
	db := setupQuoteTestDB(t)
	q := seedQuoteFixtures(t, db)
	_, mux := newTestHandler(db)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"bad id", "/quotes/abc/pdf", http.StatusBadRequest, "invalid_id"},
		{"zero id", "/quotes/0/pdf", http.StatusBadRequest, "invalid_id"},
		{"bad paper", fmt.Sprintf("/quotes/%d/pdf?paper=a3", q.ID), http.StatusBadRequest, "invalid_options"},
		{"bad orientation", fmt.Sprintf("/quotes/%d/pdf?orientation=diagonal", q.ID), http.StatusBadRequest, "invalid_options"},
		{"bad disposition", fmt.Sprintf("/quotes/%d/pdf?disposition=print", q.ID), http.StatusBadRequest, "invalid_options"},
		{"missing", "/quotes/999/pdf", http.StatusNotFound, "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.status {
				t.Fatalf("expected %d got %d body=%s", tt.status, w.Code, w.Body.String())
			}
			var resp map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp["error"] != tt.code {
				t.Fatalf("expected error %q got %v", tt.code, resp["error"])
			}
		})
	}
}

func TestQuotePDFRejectsInconsistentTotals(t *testing.T) {
	db := setupQuoteTestDB(t)
	q := seedQuoteFixtures(t, db)
	if err := db.Model(&models.Quote{}).Where("id = ?", q.ID).Update("total", q.Total+10).Error; err != nil {
		t.Fatal(err)
	}
	_, mux := newTestHandler(db)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/quotes/%d/pdf", q.ID), nil))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "totals_mismatch") {
		t.Fatalf("expected totals_mismatch reason, got %s", w.Body.String())
	}
}

func TestQuoteConfirm(t *testing.T) {
	db := setupQuoteTestDB(t)
	q := seedQuoteFixtures(t, db)
	h, mux := newTestHandler(db)
	h.Svc.Now = func() time.Time { return time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC) }

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/quotes/%d/confirm", q.ID), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["code"] != "COT-2025001" {
		t.Fatalf("unexpected code %q", resp["code"])
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/quotes/%d/confirm", q.ID), nil))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", w.Code)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/quotes/%d/pdf", q.ID), nil))
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="Cotizacion-COT-2025001.pdf"` {
		t.Fatalf("unexpected disposition after confirm %q", cd)
	}
}

type fakeMessenger struct {
	phone, fileName, text string
	doc                   []byte
	docErr                error
}

func (m *fakeMessenger) SendDocument(_ context.Context, phone string, data []byte, fileName string) (*messaging.Response, error) {
	if m.docErr != nil {
		return nil, m.docErr
	}
	m.phone, m.doc, m.fileName = phone, data, fileName
	return &messaging.Response{Status: http.StatusOK}, nil
}

func (m *fakeMessenger) SendText(_ context.Context, phone, text string) (*messaging.Response, error) {
	m.text = text
	return &messaging.Response{Status: http.StatusOK}, nil
}

func TestQuoteSend(t *testing.T) {
	db := setupQuoteTestDB(t)
	q := seedQuoteFixtures(t, db)
	h, mux := newTestHandler(db)
	fake := &fakeMessenger{}
	h.Messenger = fake

	body := `{"phone":"+51 987 654 321"}`
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/quotes/%d/send", q.ID), strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if fake.phone != "51987654321" {
		t.Fatalf("phone not normalized: %q", fake.phone)
	}
	if !bytes.HasPrefix(fake.doc, []byte("%PDF-")) || fake.fileName != "Cotizacion-Borrador.pdf" {
		t.Fatalf("unexpected document %q (%d bytes)", fake.fileName, len(fake.doc))
	}
	if !strings.Contains(fake.text, "Comercial Andina SAC") {
		t.Fatalf("default text should greet the customer: %q", fake.text)
	}
	var audits int64
	db.Model(&models.AuditLog{}).Where("action = ?", "send").Count(&audits)
	if audits != 1 {
		t.Fatalf("expected one send audit row, got %d", audits)
	}
}

func TestQuoteSendErrors(t *testing.T) {
	db := setupQuoteTestDB(t)
	q := seedQuoteFixtures(t, db)
	h, mux := newTestHandler(db)
	path := fmt.Sprintf("/quotes/%d/send", q.ID)

	post := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
		return w
	}

	if w := post(`{"phone":"123"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("short phone: expected 400 got %d", w.Code)
	}
	if w := post(`not json`); w.Code != http.StatusBadRequest {
		t.Fatalf("bad json: expected 400 got %d", w.Code)
	}
	if w := post(`{"phone":"987654321"}`); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("no messenger: expected 503 got %d", w.Code)
	}
	h.Messenger = &fakeMessenger{docErr: errors.New("gateway down")}
	if w := post(`{"phone":"987654321"}`); w.Code != http.StatusBadGateway {
		t.Fatalf("gateway failure: expected 502 got %d", w.Code)
	}
}
