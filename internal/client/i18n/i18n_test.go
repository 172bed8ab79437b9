package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Negotiation(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "en", want: "en"},
		{in: "fr", want: "fr"},
		{in: "fr-CA", want: "fr"},
		{in: "de, fr;q=0.8", want: "fr"},
		{in: "de", want: "en"},
		{in: "", want: "en"},
		{in: "!!bogus!!", want: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.in).Locale())
		})
	}
}

func TestT_Interpolation(t *testing.T) {
	assert.Equal(t, "Welcome back, Ann", New("en").T(DashboardWelcome, map[string]string{"name": "Ann"}))
	assert.Equal(t, "Bon retour, Ann", New("fr").T(DashboardWelcome, map[string]string{"name": "Ann"}))
}

func TestT_ValuesAreNotReexpanded(t *testing.T) {
	tr := New("en")
	args := map[string]string{"name": "{clinic}", "clinic": "DentaCare"}

	for range 20 {
		assert.Equal(t, "{clinic} at DentaCare", tr.T("{name} at {clinic}", args))
	}
	assert.Equal(t, "Welcome back, Bob", tr.T(DashboardWelcome, map[string]string{"name": "Ann"}, map[string]string{"name": "Bob"}))
}

func TestT_Fallbacks(t *testing.T) {
	fr := New("fr")

	// No French entry: English is used.
	assert.Equal(t, "User is not authenticated.", fr.T(ChatNotAuthenticated))

	// Unknown everywhere: the key itself.
	assert.Equal(t, "no.such.key", fr.T("no.such.key"))
}

func TestCatalogs_FrenchKeysExistInEnglish(t *testing.T) {
	for k := range fr {
		_, ok := en[k]
		assert.True(t, ok, "key %q has no English text", k)
	}
}
