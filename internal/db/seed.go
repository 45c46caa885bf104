package db

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/quotes/internal/models"
	"github.com/diewo77/quotes/internal/services"
)

var baseCatalog = []models.CatalogItem{
	{Code: "ART-001", Name: "Cable UTP Cat6", Kind: models.CatalogKindGoods, Unit: "m", UnitPrice: 3.5, Taxable: true, Active: true},
	{Code: "ART-002", Name: "Switch 24 puertos", Kind: models.CatalogKindGoods, Unit: "und", UnitPrice: 780, Taxable: true, Active: true},
	{Code: "SRV-001", Name: "Instalación de punto de red", Kind: models.CatalogKindService, Unit: "und", UnitPrice: 45, Taxable: true, Active: true},
	{Code: "SRV-002", Name: "Visita técnica", Kind: models.CatalogKindService, Unit: "und", UnitPrice: 60, Taxable: false, Active: true},
}

// Seed loads development data: a company profile, the quote counter, a small
// catalog and one draft quote. Running it twice changes nothing.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var company models.CompanyProfile
		if err := tx.Order("id").First(&company).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			company = models.CompanyProfile{
				Name:            "Servicios Técnicos SRL",
				TaxID:           "20111111111",
				Address:         "Jr. de la Unión 456, Lima",
				Phone:           "+51 1 555 0101",
				Email:           "ventas@example.com",
				Slogan:          "Soluciones que conectan",
				DefaultCurrency: "PEN",
				TaxRate:         services.DefaultTaxRate,
			}
			if err := tx.Create(&company).Error; err != nil {
				return fmt.Errorf("company profile: %w", err)
			}
		} else if err != nil {
			return err
		}

		counter := models.Counter{Name: models.QuoteCounter, Prefix: "COT-", Next: 1, Padding: 3, ResetYearly: true}
		if err := tx.Where(models.Counter{Name: models.QuoteCounter}).FirstOrCreate(&counter).Error; err != nil {
			return fmt.Errorf("counter: %w", err)
		}

		for _, ci := range baseCatalog {
			item := ci
			if err := tx.Where(models.CatalogItem{Code: ci.Code}).FirstOrCreate(&item).Error; err != nil {
				return fmt.Errorf("catalog %s: %w", ci.Code, err)
			}
		}

		customer := models.Customer{Name: "Comercial Andina SAC", TaxID: "20987654321", Address: "Av. Arequipa 123, Lima", Phone: "987654321", Email: "compras@andina.example"}
		if err := tx.Where(models.Customer{TaxID: customer.TaxID}).FirstOrCreate(&customer).Error; err != nil {
			return fmt.Errorf("customer: %w", err)
		}

		var quotes int64
		if err := tx.Model(&models.Quote{}).Where("customer_id = ?", customer.ID).Count(&quotes).Error; err != nil {
			return err
		}
		if quotes > 0 {
			return nil
		}
		q := models.Quote{
			Status:       models.QuoteStatusDraft,
			CustomerID:   customer.ID,
			IssueDate:    time.Now().Truncate(24 * time.Hour),
			ValidityDays: 15,
			Currency:     company.DefaultCurrency,
			Notes:        "Precios incluyen instalación en Lima Metropolitana.",
			Conditions:   "Pago 50% adelantado, saldo contra entrega.",
			Items: []models.QuoteItem{
				{Name: "Cable UTP Cat6", Quantity: 120, Unit: "m", UnitPrice: 3.5, DiscountKind: models.DiscountPercent, DiscountValue: 5, Taxable: true, Position: 1},
				{Name: "Switch 24 puertos", Quantity: 1, Unit: "und", UnitPrice: 780, DiscountKind: models.DiscountAmount, DiscountValue: 30, Taxable: true, Position: 2},
				{Name: "Instalación de punto de red", Quantity: 12, Unit: "und", UnitPrice: 45, DiscountKind: models.DiscountPercent, Taxable: true, Position: 3},
				{Name: "Visita técnica", Quantity: 1, Unit: "und", UnitPrice: 60, DiscountKind: models.DiscountPercent, Taxable: false, Position: 4},
			},
		}
		if q.Currency == "" {
			q.Currency = "PEN"
		}
		services.ApplyTotals(&q, company.TaxRate)
		if err := tx.Create(&q).Error; err != nil {
			return fmt.Errorf("draft quote: %w", err)
		}
		return nil
	})
}
