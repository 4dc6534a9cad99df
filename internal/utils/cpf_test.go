package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCPF(t *testing.T) {
	tests := []struct {
		name  string
		cpf   string
		valid bool
	}{
		// Valid CPFs
		{
			name:  "Valid CPF without formatting",
			cpf:   "52998224725",
			valid: true,
		},
		{
			name:  "Valid CPF with formatting",
			cpf:   "529.982.247-25",
			valid: true,
		},
		{
			name:  "Valid CPF - second example",
			cpf:   "11144477735",
			valid: true,
		},
		{
			name:  "Valid CPF - third example",
			cpf:   "12345678909",
			valid: true,
		},

		// Invalid CPFs
		{
			name:  "Invalid CPF - wrong first check digit",
			cpf:   "52998224715",
			valid: false,
		},
		{
			name:  "Invalid CPF - wrong second check digit",
			cpf:   "52998224726",
			valid: false,
		},
		{
			name:  "Invalid CPF - all zeros",
			cpf:   "00000000000",
			valid: false,
		},
		{
			name:  "Invalid CPF - all ones",
			cpf:   "11111111111",
			valid: false,
		},
		{
			name:  "Invalid CPF - all repeated with formatting",
			cpf:   "111.111.111-11",
			valid: false,
		},
		{
			name:  "Invalid CPF - too short",
			cpf:   "123456789",
			valid: false,
		},
		{
			name:  "Invalid CPF - too long",
			cpf:   "123456789012",
			valid: false,
		},
		{
			name:  "Invalid CPF - empty string",
			cpf:   "",
			valid: false,
		},
		{
			name:  "Invalid CPF - only letters",
			cpf:   "abcdefghijk",
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateCPF(tt.cpf)
			assert.Equal(t, tt.valid, result, "ValidateCPF(%q) should be %v", tt.cpf, tt.valid)
		})
	}
}

// Corrupting any single body digit of a valid CPF must invalidate at least
// one of the two check digits.
func TestValidateCPF_SingleDigitCorruption(t *testing.T) {
	const valid = "52998224725"

	for pos := 0; pos < 9; pos++ {
		original := valid[pos]
		for d := byte('0'); d <= '9'; d++ {
			if d == original {
				continue
			}
			corrupted := valid[:pos] + string(d) + valid[pos+1:]
			assert.False(t, ValidateCPF(corrupted),
				"corrupting position %d to %c should invalidate the CPF", pos, d)
		}
	}
}

func TestStripCPF(t *testing.T) {
	assert.Equal(t, "52998224725", StripCPF("529.982.247-25"))
	assert.Equal(t, "52998224725", StripCPF("52998224725"))
	assert.Equal(t, "", StripCPF("abc"))
}

func TestFormatCPF(t *testing.T) {
	assert.Equal(t, "529.982.247-25", FormatCPF("52998224725"))
	assert.Equal(t, "529.982.247-25", FormatCPF("529.982.247-25"))
	assert.Equal(t, "12345", FormatCPF("12345"))
}
