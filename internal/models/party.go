package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer is the party a quote is addressed to.
type Customer struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name    string `gorm:"size:255;not null;index" json:"name"`
	TaxID   string `gorm:"size:20;index" json:"tax_id,omitempty"`
	Address string `gorm:"size:500" json:"address,omitempty"`
	Phone   string `gorm:"size:50" json:"phone,omitempty"`
	Email   string `gorm:"size:255" json:"email,omitempty"`
}

// CompanyProfile is the issuer printed on every quote. A single row is used.
type CompanyProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name    string `gorm:"size:255;not null" json:"name"`
	TaxID   string `gorm:"size:20" json:"tax_id,omitempty"`
	Address string `gorm:"size:500" json:"address,omitempty"`
	Phone   string `gorm:"size:50" json:"phone,omitempty"`
	Email   string `gorm:"size:255" json:"email,omitempty"`
	Slogan  string `gorm:"size:255" json:"slogan,omitempty"`

	// Branding
	LogoURL string `gorm:"size:500" json:"logo_url,omitempty"`

	DefaultCurrency string  `gorm:"size:3;default:'PEN'" json:"default_currency"`
	TaxRate         float64 `gorm:"type:decimal(5,4);default:0.18" json:"tax_rate"`
}
