package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIgnoresAccentsAndCase(t *testing.T) {
	catalog := NewCatalog()

	variants := []string{"extraccion", "Extracción", "EXTRACCIÓN", "  extracción "}
	for _, variant := range variants {
		result := catalog.Normalize(variant)
		assert.False(t, result.Fallback, "expected catalog hit for %q", variant)
		assert.Equal(t, "Extracción", result.CanonicalName)
		assert.Equal(t, "EXTRACTED", result.StatusCode)
		assert.Equal(t, 80.0, result.DefaultPrice)
	}
}

func TestNormalizeKnownTreatments(t *testing.T) {
	catalog := NewCatalog()

	result := catalog.Normalize("limpieza")
	assert.False(t, result.Fallback)
	assert.Equal(t, "Limpieza dental", result.CanonicalName)
	assert.Equal(t, "HEALTHY", result.StatusCode)

	result = catalog.Normalize("Endodoncia")
	assert.False(t, result.Fallback)
	assert.Equal(t, "ENDODONTICS", result.StatusCode)
}

func TestNormalizeUnknownTreatmentFallsBack(t *testing.T) {
	catalog := NewCatalog()

	result := catalog.Normalize("sellado de fisuras")
	assert.True(t, result.Fallback)
	assert.Equal(t, "sellado de fisuras", result.CanonicalName)
	assert.Equal(t, "SELLADO DE FISURAS", result.StatusCode)
	assert.Equal(t, float64(FallbackPrice), result.DefaultPrice)
}

func TestNormalizeIsIdempotentPerInput(t *testing.T) {
	catalog := NewCatalog()

	first := catalog.Normalize("Implante")
	second := catalog.Normalize("implanté")
	// Same entry modulo accents/case.
	assert.Equal(t, first.CatalogEntry, second.CatalogEntry)
}
