package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFullBlob(t *testing.T) {
	raw := "Cabinet : Dupont & Associés\n" +
		"Adresse : 10 rue de la Paix, 75002 Paris\n" +
		"Tel : 01 23 45 67 89\n" +
		"contact@dupont-avocats.fr\n" +
		"Ouverture : lundi au vendredi"

	p := Parse(raw)

	assert.Equal(t, "Dupont & Associés", p.Name)
	assert.Equal(t, "10 rue de la Paix, 75002 Paris", p.Address)
	assert.Equal(t, "01 23 45 67 89", p.Phone)
	assert.Equal(t, "contact@dupont-avocats.fr", p.Email)
	assert.Equal(t, "lundi au vendredi", p.Hours)
	assert.Equal(t, raw, p.Raw)
}

func TestParseEmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		p := Parse(raw)
		assert.Equal(t, Profile{}, p, "input %q should yield an all-empty profile", raw)
	}
}

func TestParsePartialBlob(t *testing.T) {
	p := Parse("Vous pouvez nous joindre au +33 6 01 02 03 04.")
	assert.Equal(t, "+33 6 01 02 03 04.", p.Phone)
	assert.Empty(t, p.Email)
	assert.Empty(t, p.Name)
	assert.Empty(t, p.Address)
	assert.Empty(t, p.Hours)
}

func TestParseIdempotent(t *testing.T) {
	raw := "Entreprise : Werner Immobilier\nagence@werner-immo.fr"
	first := Parse(raw)
	second := Parse(first.Raw)
	assert.Equal(t, first, second)
}

func TestParseNoPanicOnArbitraryInput(t *testing.T) {
	inputs := []string{
		"{{unclosed template",
		"nom:",
		"@@@ 123",
		"horaire",
	}
	for _, raw := range inputs {
		assert.NotPanics(t, func() { Parse(raw) })
	}
}
