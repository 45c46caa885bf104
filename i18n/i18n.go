// Package i18n holds the label catalogs used on rendered quotes.
package i18n

import (
	"fmt"
	"strings"
)

// DefaultLang is used when no supported language is requested.
const DefaultLang = "es"

var catalogs = map[string]map[string]string{
	"es": {
		"title":              "COTIZACIÓN",
		"draft":              "Borrador",
		"continued":          "Continúa...",
		"company":            "Empresa",
		"customer":           "Cliente",
		"tax_id":             "RUC",
		"phone":              "Tel",
		"email":              "Email",
		"issue_date":         "Fecha de Emisión:",
		"valid_until":        "Válida hasta:",
		"currency":           "Moneda:",
		"col.index":          "Ítem",
		"col.description":    "Descripción",
		"col.quantity":       "Cant.",
		"col.unit":           "Unidad",
		"col.unit_price":     "P.Unitario",
		"col.discount":       "Desc.",
		"col.subtotal":       "Subtotal",
		"col.tax":            "Impuesto",
		"col.total":          "Total",
		"subtotal":           "Subtotal:",
		"tax":                "Impuesto:",
		"total":              "TOTAL:",
		"notes":              "Notas:",
		"conditions":         "Condiciones:",
		"page_of":            "Página %d de %d",
		"slogan":             "Calidad y compromiso en cada cotización",
		"attribution":        "Generado por CotizaPro",
		"default_company":    "Mi Empresa",
		"default_customer":   "Cliente",
		"file_prefix":        "Cotizacion",
		"send_text":          "Hola %s, adjunto tu cotización %s. ¡Gracias por tu interés!",
		"date_layout":        "2/1/2006",
		"required":           "Requerido",
		"invalid_paper":      "Tamaño de papel inválido",
		"invalid_orient":     "Orientación inválida",
		"invalid_phone":      "Número de teléfono inválido",
		"must_be_positive":   "Debe ser positivo",
		"out_of_range":       "Fuera de rango",
		"totals_mismatch":    "Los totales no cuadran",
		"already_confirmed":  "La cotización ya fue generada",
		"generation_failure": "No se pudo generar el PDF",
	},
	"en": {
		"title":              "QUOTE",
		"draft":              "Draft",
		"continued":          "Continued...",
		"company":            "Company",
		"customer":           "Customer",
		"tax_id":             "Tax ID",
		"phone":              "Phone",
		"email":              "Email",
		"issue_date":         "Issue date:",
		"valid_until":        "Valid until:",
		"currency":           "Currency:",
		"col.index":          "#",
		"col.description":    "Description",
		"col.quantity":       "Qty",
		"col.unit":           "Unit",
		"col.unit_price":     "Unit price",
		"col.discount":       "Disc.",
		"col.subtotal":       "Subtotal",
		"col.tax":            "Tax",
		"col.total":          "Total",
		"subtotal":           "Subtotal:",
		"tax":                "Tax:",
		"total":              "TOTAL:",
		"notes":              "Notes:",
		"conditions":         "Terms:",
		"page_of":            "Page %d of %d",
		"slogan":             "Quality and commitment in every quote",
		"attribution":        "Generated by CotizaPro",
		"default_company":    "My Company",
		"default_customer":   "Customer",
		"file_prefix":        "Quote",
		"send_text":          "Hi %s, please find attached quote %s. Thank you for your interest!",
		"date_layout":        "1/2/2006",
		"required":           "Required",
		"invalid_paper":      "Invalid paper size",
		"invalid_orient":     "Invalid orientation",
		"invalid_phone":      "Invalid phone number",
		"must_be_positive":   "Must be positive",
		"out_of_range":       "Out of range",
		"totals_mismatch":    "Totals do not add up",
		"already_confirmed":  "Quote already generated",
		"generation_failure": "Could not generate the PDF",
	},
}

// Supported reports whether lang has a catalog.
func Supported(lang string) bool {
	_, ok := catalogs[lang]
	return ok
}

// Normalize maps a language tag to a supported catalog, or DefaultLang.
func Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if Supported(lang) {
		return lang
	}
	return DefaultLang
}

// DetectLanguage picks the first supported language of an Accept-Language header.
func DetectLanguage(accept string) string {
	for _, part := range strings.Split(accept, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		if l := Normalize(tag); l != DefaultLang || strings.HasPrefix(strings.ToLower(tag), DefaultLang) {
			return l
		}
	}
	return DefaultLang
}

// T translates key. Unknown languages fall back to DefaultLang, unknown keys
// to the key itself.
func T(lang, key string) string {
	if c, ok := catalogs[lang]; ok {
		if v, ok := c[key]; ok {
			return v
		}
	}
	if v, ok := catalogs[DefaultLang][key]; ok {
		return v
	}
	return key
}

// Tf translates key and formats it with args.
func Tf(lang, key string, args ...any) string {
	return fmt.Sprintf(T(lang, key), args...)
}
