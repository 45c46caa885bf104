package i18n

import "testing"

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("en-US,en;q=0.9") != "en" {
		t.Fatalf("expected en")
	}
	if DetectLanguage("EN-gb") != "en" {
		t.Fatalf("expected en for EN-gb")
	}
	if DetectLanguage("es-PE,es;q=0.8") != "es" {
		t.Fatalf("expected es")
	}
	if DetectLanguage("fr-FR,en;q=0.5") != "en" {
		t.Fatalf("expected en as first supported language")
	}
	if DetectLanguage("") != "es" {
		t.Fatalf("expected default es")
	}
}

func TestTranslations(t *testing.T) {
	if T("en", "required") != "Required" {
		t.Fatalf("expected Required")
	}
	if T("es", "required") != "Requerido" {
		t.Fatalf("expected Requerido")
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> fallback to es translation
	if T("fr", "required") != "Requerido" {
		t.Fatalf("expected es fallback for fr lang")
	}
}

func TestTf(t *testing.T) {
	if got := Tf("es", "page_of", 2, 4); got != "Página 2 de 4" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Tf("en", "page_of", 1, 1); got != "Page 1 of 1" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range catalogs[DefaultLang] {
		for lang, c := range catalogs {
			if _, ok := c[key]; !ok {
				t.Errorf("catalog %s missing key %s", lang, key)
			}
		}
	}
}
