package crypto

import (
	"strings"
	"testing"
)

func TestPolicyNumberGenerator_Generate(t *testing.T) {
	tests := []struct {
		name       string
		length     []int
		wantDigits int
	}{
		{name: "default length", length: nil, wantDigits: 10},
		{name: "zero uses default", length: []int{0}, wantDigits: 10},
		{name: "negative uses default", length: []int{-5}, wantDigits: 10},
		{name: "custom length 6", length: []int{6}, wantDigits: 6},
		{name: "custom length 21", length: []int{21}, wantDigits: 21},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			gen, err := NewPolicyNumberGenerator()
			if err != nil {
				t.Fatalf("NewPolicyNumberGenerator() error = %v", err)
			}

			// Act
			number, err := gen.Generate(test.length...)

			// Assert
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if !strings.HasPrefix(number, "POL-") {
				t.Errorf("Generate() = %q, want POL- prefix", number)
			}
			body := strings.TrimPrefix(number, "POL-")
			if len(body) != test.wantDigits {
				t.Errorf("Generate() body length = %d, want %d", len(body), test.wantDigits)
			}
			for _, char := range body {
				if !strings.ContainsRune(policyAlphabet, char) {
					t.Errorf("Generate() produced character %q outside the alphabet", char)
				}
			}
		})
	}
}

func TestPolicyNumberGenerator_ExcludesLookalikes(t *testing.T) {
	// Arrange
	gen, err := NewPolicyNumberGenerator()
	if err != nil {
		t.Fatalf("NewPolicyNumberGenerator() error = %v", err)
	}

	// Act & Assert
	for i := 0; i < 200; i++ {
		number, err := gen.Generate()
		if err != nil {
			t.Fatalf("iteration %d: Generate() error = %v", i, err)
		}
		if strings.ContainsAny(strings.TrimPrefix(number, "POL-"), "ILOU") {
			t.Fatalf("policy number %q contains a lookalike character", number)
		}
	}
}

func TestPolicyNumberGenerator_Unique(t *testing.T) {
	// Arrange
	gen, _ := NewPolicyNumberGenerator()
	seen := make(map[string]bool)
	iterations := 1000

	// Act
	for i := 0; i < iterations; i++ {
		number, err := gen.Generate()
		if err != nil {
			t.Fatalf("iteration %d: Generate() error = %v", i, err)
		}
		if seen[number] {
			t.Fatalf("duplicate policy number generated: %q", number)
		}
		seen[number] = true
	}

	// Assert
	if len(seen) != iterations {
		t.Errorf("expected %d unique numbers, got %d", iterations, len(seen))
	}
}

func TestNewPolicyNumberGenerator_AlphabetValidation(t *testing.T) {
	tests := []struct {
		name     string
		alphabet string
		wantErr  error
	}{
		{name: "too short", alphabet: "ABC", wantErr: ErrAlphabetTooShort},
		{name: "too long", alphabet: strings.Repeat("ABCDEFGH", 32), wantErr: ErrAlphabetTooLong},
		{name: "non-ascii", alphabet: "ABCDEFGHЖ", wantErr: ErrAlphabetNotASCII},
		{name: "valid custom", alphabet: "0123456789", wantErr: nil},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Act
			gen, err := NewPolicyNumberGenerator(test.alphabet)

			// Assert
			if err != test.wantErr {
				t.Fatalf("NewPolicyNumberGenerator() error = %v, want %v", err, test.wantErr)
			}
			if test.wantErr == nil && gen == nil {
				t.Error("NewPolicyNumberGenerator() should return a generator")
			}
		})
	}
}
