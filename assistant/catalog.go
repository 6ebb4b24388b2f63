package assistant

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FallbackPrice is charged for treatments the catalog does not know.
const FallbackPrice = 50

// CatalogEntry maps a treatment to its display name, the tooth-status code it
// leaves behind on the odontogram, and a default price for budgeting.
type CatalogEntry struct {
	CanonicalName string
	StatusCode    string
	DefaultPrice  float64
}

// CatalogResult tags whether the entry came from the catalog or was
// synthesized as a best-effort fallback for an unknown treatment name.
type CatalogResult struct {
	CatalogEntry
	Fallback bool
}

// Catalog normalizes free-text treatment names. Lookup is insensitive to
// case and diacritics, so "Endodoncia", "endodoncia" and "ENDODONCIA" all hit
// the same entry.
type Catalog struct {
	entries map[string]CatalogEntry
}

// NewCatalog builds the clinic's static treatment catalog.
func NewCatalog() *Catalog {
	entries := map[string]CatalogEntry{
		"limpieza":    {CanonicalName: "Limpieza dental", StatusCode: "HEALTHY", DefaultPrice: 50},
		"empaste":     {CanonicalName: "Empaste", StatusCode: "FILLING", DefaultPrice: 60},
		"caries":      {CanonicalName: "Tratamiento de caries", StatusCode: "CARIES", DefaultPrice: 60},
		"endodoncia":  {CanonicalName: "Endodoncia", StatusCode: "ENDODONTICS", DefaultPrice: 250},
		"corona":      {CanonicalName: "Corona", StatusCode: "CROWN", DefaultPrice: 400},
		"implante":    {CanonicalName: "Implante", StatusCode: "IMPLANT", DefaultPrice: 900},
		"extraccion":  {CanonicalName: "Extracción", StatusCode: "EXTRACTED", DefaultPrice: 80},
		"puente":      {CanonicalName: "Puente", StatusCode: "BRIDGE", DefaultPrice: 600},
		"blanqueador": {CanonicalName: "Blanqueamiento", StatusCode: "HEALTHY", DefaultPrice: 150},
	}
	return &Catalog{entries: entries}
}

// Normalize resolves a raw treatment name to a catalog entry. Unknown names
// never fail: they degrade to a fallback entry that keeps the original text
// as the label and upper-cases it as the status code.
func (c *Catalog) Normalize(raw string) CatalogResult {
	key := normalizeKey(raw)
	if entry, ok := c.entries[key]; ok {
		return CatalogResult{CatalogEntry: entry}
	}
	trimmed := strings.TrimSpace(raw)
	return CatalogResult{
		CatalogEntry: CatalogEntry{
			CanonicalName: trimmed,
			StatusCode:    strings.ToUpper(trimmed),
			DefaultPrice:  FallbackPrice,
		},
		Fallback: true,
	}
}

// normalizeKey strips diacritics, lower-cases and trims the raw name so that
// accentuated or mixed-case input matches the unaccented lowercase key.
func normalizeKey(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, raw)
	if err != nil {
		stripped = raw
	}
	return strings.ToLower(strings.TrimSpace(stripped))
}
