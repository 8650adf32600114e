package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"blank", " \t\n ", ""},
		{"trim and upper", "  brake pad  ", "BRAKE PAD"},
		{"collapse runs", "oil\t\tfilter   5w", "OIL FILTER 5W"},
		{"already canonical", "SPARK PLUG", "SPARK PLUG"},
		{"cyrillic", "  масляный   фильтр ", "МАСЛЯНЫЙ ФИЛЬТР"},
		{"non-breaking space", "air\u00a0filter", "AIR FILTER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func FuzzNormalize_Idempotent(f *testing.F) {
	for _, seed := range []string{"", "  a  b ", "Brake\tPad", "ß straße", "x y"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", s, once, twice)
		}
	})
}
