package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// CatalogKind separates goods from services.
type CatalogKind string

const (
	CatalogKindGoods   CatalogKind = "articulo"
	CatalogKindService CatalogKind = "servicio"
)

// CatalogItem is a reusable product or service offered in quotes.
type CatalogItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Code        string      `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"size:255;not null" json:"name"`
	Description string      `gorm:"size:1000" json:"description,omitempty"`
	Kind        CatalogKind `gorm:"size:20;not null;default:'articulo'" json:"kind"`
	Unit        string      `gorm:"size:20;default:'und'" json:"unit"`
	UnitPrice   float64     `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Taxable     bool        `json:"taxable"`
	Active      bool        `json:"active"`
}

// QuoteCounter is the name of the sequence used for quote codes.
const QuoteCounter = "quotes"

// Counter is a named numbering sequence.
type Counter struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UpdatedAt time.Time `json:"updated_at"`

	Name    string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Prefix  string `gorm:"size:20" json:"prefix"`
	Suffix  string `gorm:"size:20" json:"suffix"`
	Next    int64  `gorm:"not null;default:1" json:"next"`
	Padding int    `gorm:"not null;default:3" json:"padding"`

	// ResetYearly restarts Next at 1 when LastYear differs from the current year.
	ResetYearly bool `json:"reset_yearly"`
	LastYear    int  `json:"last_year"`
}

// Format renders sequence value n for the given year.
// Format: <prefix><year><n zero-padded><suffix> (e.g., COT-2025001)
func (c *Counter) Format(year int, n int64) string {
	pad := c.Padding
	if pad <= 0 {
		pad = 3
	}
	digits := strconv.FormatInt(n, 10)
	if len(digits) < pad {
		digits = strings.Repeat("0", pad-len(digits)) + digits
	}
	return fmt.Sprintf("%s%d%s%s", c.Prefix, year, digits, c.Suffix)
}

// AuditLog records actions performed on an entity.
type AuditLog struct {
	ID         uint   `gorm:"primaryKey"`
	EntityType string // ex: "quote"
	EntityID   uint   `gorm:"index"`
	Action     string // ex: "confirm", "send"
	Detail     string `gorm:"type:text"`
	CreatedAt  time.Time
}

// All lists every model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&Customer{}, &CompanyProfile{}, &CatalogItem{}, &Counter{},
		&Quote{}, &QuoteItem{}, &AuditLog{},
	}
}
