package models

import (
	"time"

	"gorm.io/gorm"
)

// QuoteStatus is the lifecycle state of a quote.
type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "borrador"
	QuoteStatusGenerated QuoteStatus = "generada"
)

// DiscountKind mirrors the engine's discount kinds.
type DiscountKind string

const (
	DiscountPercent DiscountKind = "%"
	DiscountAmount  DiscountKind = "M"
)

// Quote is a priced proposal addressed to a customer.
type Quote struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Code is assigned on confirmation; nil while draft.
	Code   *string     `gorm:"size:40;uniqueIndex" json:"code,omitempty"`
	Status QuoteStatus `gorm:"size:20;not null;default:'borrador'" json:"status"`

	CustomerID uint      `gorm:"index;not null" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	IssueDate    time.Time `gorm:"not null" json:"issue_date"`
	ValidityDays int       `gorm:"not null;default:15" json:"validity_days"`
	Currency     string    `gorm:"size:3;not null;default:'PEN'" json:"currency"`

	Subtotal float64 `gorm:"type:decimal(12,2);not null;default:0" json:"subtotal"`
	Tax      float64 `gorm:"type:decimal(12,2);not null;default:0" json:"tax"`
	Total    float64 `gorm:"type:decimal(12,2);not null;default:0" json:"total"`

	Notes      string `gorm:"type:text" json:"notes,omitempty"`
	Conditions string `gorm:"type:text" json:"conditions,omitempty"`

	Items []QuoteItem `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// IsDraft returns true while no code has been assigned.
func (q *Quote) IsDraft() bool {
	return q.Status == QuoteStatusDraft
}

// ValidUntil is the issue date plus the validity period.
func (q *Quote) ValidUntil() time.Time {
	return q.IssueDate.AddDate(0, 0, q.ValidityDays)
}

// QuoteItem is one priced line of a quote.
type QuoteItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	QuoteID uint `gorm:"index;not null" json:"quote_id"`

	// Optional catalog reference; custom lines have none.
	CatalogItemID *uint        `gorm:"index" json:"catalog_item_id,omitempty"`
	CatalogItem   *CatalogItem `gorm:"foreignKey:CatalogItemID" json:"catalog_item,omitempty"`

	Name          string       `gorm:"size:255;not null" json:"name"`
	Description   string       `gorm:"size:1000" json:"description,omitempty"`
	Quantity      int          `gorm:"not null;default:1" json:"quantity"`
	Unit          string       `gorm:"size:20;default:'und'" json:"unit"`
	UnitPrice     float64      `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	DiscountKind  DiscountKind `gorm:"size:1;not null;default:'%'" json:"discount_kind"`
	DiscountValue float64      `gorm:"type:decimal(12,2);not null;default:0" json:"discount_value"`
	Taxable       bool         `json:"taxable"`

	Subtotal float64 `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax      float64 `gorm:"type:decimal(12,2);not null" json:"tax"`
	Total    float64 `gorm:"type:decimal(12,2);not null" json:"total"`

	// Position for ordering
	Position int `gorm:"default:0" json:"position"`
}
