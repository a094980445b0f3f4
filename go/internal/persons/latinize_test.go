package persons

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatinize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jan Kowalski", "Jan Kowalski"},
		{"Łukasz Żółć", "Lukasz Zolc"},
		{"Zażółć gęślą jaźń", "Zazolc gesla jazn"},
		{"ĄĆĘŁŃÓŚŹŻ", "ACELNOSZZ"},
		{"Søren Müller", "Soren Muller"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Latinize(tt.in))
		})
	}
}
