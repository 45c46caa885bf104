package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/quotes/internal/models"
	pdfgen "github.com/diewo77/quotes/pdf"
)

var (
	ErrQuoteNotFound    = errors.New("quote not found")
	ErrTotalsMismatch   = errors.New("quote totals do not add up")
	ErrAlreadyConfirmed = errors.New("quote already confirmed")
)

var errCounterRace = errors.New("quote counter changed concurrently")

// QuoteService reads quotes for rendering and confirms drafts.
type QuoteService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewQuoteService(db *gorm.DB) *QuoteService {
	return &QuoteService{DB: db, Now: time.Now}
}

func (s *QuoteService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// LoadInput assembles everything the document is rendered from. A missing
// company profile yields an empty issuer, printed with default labels.
func (s *QuoteService) LoadInput(ctx context.Context, id uint) (pdfgen.Input, error) {
	db := s.DB.WithContext(ctx)
	var q models.Quote
	err := db.Preload("Customer").
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("position, id") }).
		First(&q, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pdfgen.Input{}, ErrQuoteNotFound
		}
		return pdfgen.Input{}, fmt.Errorf("load quote %d: %w", id, err)
	}
	var company models.CompanyProfile
	if err := db.Order("id").First(&company).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return pdfgen.Input{}, fmt.Errorf("load company profile: %w", err)
	}
	return toInput(q, company), nil
}

func toInput(q models.Quote, company models.CompanyProfile) pdfgen.Input {
	in := pdfgen.Input{
		Quote: pdfgen.Quote{
			ID:           q.ID,
			Code:         q.Code,
			Status:       string(q.Status),
			IssueDate:    q.IssueDate,
			ValidityDays: q.ValidityDays,
			Currency:     q.Currency,
			Subtotal:     q.Subtotal,
			Tax:          q.Tax,
			Total:        q.Total,
			Notes:        q.Notes,
			Conditions:   q.Conditions,
		},
		Company: pdfgen.Company{
			Name:    company.Name,
			TaxID:   company.TaxID,
			Address: company.Address,
			Phone:   company.Phone,
			Email:   company.Email,
			LogoRef: company.LogoURL,
			Slogan:  company.Slogan,
		},
	}
	if c := q.Customer; c != nil {
		in.Quote.Customer = pdfgen.Customer{Name: c.Name, TaxID: c.TaxID, Address: c.Address, Phone: c.Phone, Email: c.Email}
	}
	in.Items = make([]pdfgen.LineItem, 0, len(q.Items))
	for _, it := range q.Items {
		in.Items = append(in.Items, pdfgen.LineItem{
			Name:          it.Name,
			Description:   it.Description,
			Quantity:      it.Quantity,
			Unit:          it.Unit,
			UnitPrice:     it.UnitPrice,
			DiscountKind:  pdfgen.DiscountKind(it.DiscountKind),
			DiscountValue: it.DiscountValue,
			Subtotal:      it.Subtotal,
			Tax:           it.Tax,
			Total:         it.Total,
			Position:      it.Position,
		})
	}
	return in
}

// Confirm assigns the next quote code to a draft and marks it generated.
func (s *QuoteService) Confirm(ctx context.Context, id uint) (string, error) {
	var code string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var q models.Quote
		if err := tx.First(&q, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuoteNotFound
			}
			return err
		}
		if !q.IsDraft() || q.Code != nil {
			return ErrAlreadyConfirmed
		}

		next, err := s.nextCode(tx)
		if err != nil {
			return err
		}
		res := tx.Model(&models.Quote{}).
			Where("id = ? AND status = ?", q.ID, models.QuoteStatusDraft).
			Updates(map[string]any{"code": next, "status": models.QuoteStatusGenerated})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrAlreadyConfirmed
		}
		code = next
		return tx.Create(&models.AuditLog{EntityType: "quote", EntityID: q.ID, Action: "confirm", Detail: next}).Error
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// nextCode takes a value from the quote counter, creating it on first use.
func (s *QuoteService) nextCode(tx *gorm.DB) (string, error) {
	var c models.Counter
	if err := tx.Where("name = ?", models.QuoteCounter).First(&c).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
		c = models.Counter{Name: models.QuoteCounter, Prefix: "COT-", Next: 1, Padding: 3, ResetYearly: true}
		if err := tx.Create(&c).Error; err != nil {
			return "", fmt.Errorf("create counter: %w", err)
		}
	}
	year := s.now().Year()
	n := c.Next
	if c.ResetYearly && c.LastYear != 0 && c.LastYear != year {
		n = 1
	}
	res := tx.Model(&models.Counter{}).
		Where("id = ? AND next = ? AND last_year = ?", c.ID, c.Next, c.LastYear).
		Updates(map[string]any{"next": n + 1, "last_year": year})
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected != 1 {
		return "", errCounterRace
	}
	return c.Format(year, n), nil
}

// RecordSend keeps an audit trail of documents delivered by message.
func (s *QuoteService) RecordSend(ctx context.Context, id uint, phone, fileName string) error {
	return s.DB.WithContext(ctx).Create(&models.AuditLog{
		EntityType: "quote",
		EntityID:   id,
		Action:     "send",
		Detail:     fileName + " -> " + phone,
	}).Error
}
