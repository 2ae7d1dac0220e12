package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{input: "25.99", expected: "25.99"},
		{input: "3,500.00", expected: "3500.00"},
		{input: "1,234.56", expected: "1234.56"},
		{input: "£25.99", expected: "25.99"},
		{input: "$1,234,567.89", expected: "1234567.89"},
		{input: "-25.99", expected: "-25.99"},
		{input: " 25.99 ", expected: "25.99"},
		{input: "0.00", expected: "0.00"},
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "12.34.56", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.StringFixed(2))
		})
	}
}

func TestSanitizeRecognizedPunct(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"semicolon as period", "1,234; 56", "1,234.56"},
		{"colon as period", "1,234:56", "1,234.56"},
		{"trailing colon", "19,720.15:", "19,720.15"},
		{"colon before space", "45: and more", "45 and more"},
		{"clean line untouched", "01/05/2024 GROCERY MART 45.50", "01/05/2024 GROCERY MART 45.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeRecognizedPunct(tt.input))
		})
	}
}
