package pdf

import (
	"sort"
	"time"
)

// DiscountKind tells how a line discount value is read.
type DiscountKind string

const (
	DiscountPercent DiscountKind = "%"
	DiscountAmount  DiscountKind = "M"
)

// Customer is the party the quote is addressed to.
type Customer struct {
	Name    string
	TaxID   string
	Address string
	Phone   string
	Email   string
}

// Quote carries the header data of a priced proposal. Totals are already
// computed by the caller.
type Quote struct {
	ID           uint
	Code         *string // nil while draft
	Status       string
	IssueDate    time.Time
	ValidityDays int
	Currency     string
	Subtotal     float64
	Tax          float64
	Total        float64
	Notes        string
	Conditions   string
	Customer     Customer
}

// ValidUntil is the issue date plus the validity period.
func (q Quote) ValidUntil() time.Time {
	return q.IssueDate.AddDate(0, 0, q.ValidityDays)
}

// LineItem is one priced row of the quote.
type LineItem struct {
	Name          string
	Description   string
	Quantity      int
	Unit          string
	UnitPrice     float64
	DiscountKind  DiscountKind
	DiscountValue float64
	Subtotal      float64
	Tax           float64
	Total         float64
	Position      int
}

// Company is the issuer shown on the document.
type Company struct {
	Name    string
	TaxID   string
	Address string
	Phone   string
	Email   string
	LogoRef string
	Slogan  string
}

// Input is everything a document is generated from.
type Input struct {
	Quote   Quote
	Items   []LineItem
	Company Company
}

// orderedItems returns a copy of items sorted by Position.
func orderedItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}
