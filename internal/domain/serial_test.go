package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"invfisico/internal/domain"
)

// TestNormalizeSerial testa a validação e remoção do prefixo S/M.
func TestNormalizeSerial(t *testing.T) {
	cases := []struct {
		raw      string
		expected string
		ok       bool
	}{
		{"S000123", "000123", true},
		{"s000123", "000123", true},
		{"M000456", "000456", true},
		{"m000456", "000456", true},
		{"X000123", "", false}, // prefixo inválido
		{"S", "", false},       // prefixo sem corpo
		{"", "", false},
		{"000123", "", false}, // sem prefixo não é serial escaneado válido
	}

	for _, c := range cases {
		serial, ok := domain.NormalizeSerial(c.raw)
		assert.Equal(t, c.ok, ok, "raw=%q", c.raw)
		if c.ok {
			assert.Equal(t, c.expected, serial, "raw=%q", c.raw)
		}
	}
}

// TestStripSerialPrefix testa a remoção tolerante usada nas consultas.
func TestStripSerialPrefix(t *testing.T) {
	// Com prefixo: remove.
	assert.Equal(t, "000123", domain.StripSerialPrefix("S000123"))
	assert.Equal(t, "000456", domain.StripSerialPrefix("m000456"))
	// Sem prefixo: passa como está (o operador pode digitar o serial cru).
	assert.Equal(t, "000123", domain.StripSerialPrefix("000123"))
}

// TestNormalizePartNumber testa a remoção do prefixo P.
func TestNormalizePartNumber(t *testing.T) {
	assert.Equal(t, "55", domain.NormalizePartNumber("P55"))
	assert.Equal(t, "55", domain.NormalizePartNumber("p55"))
	assert.Equal(t, "55", domain.NormalizePartNumber("55"))
}
