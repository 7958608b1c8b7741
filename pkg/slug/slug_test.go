// Copyright (c) 2026 JanaSewa. All rights reserved.

package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Passport Renewal", "passport-renewal"},
		{"accents", "Café Régistration", "cafe-registration"},
		{"punctuation", "Birth Certificate (Copy)", "birth-certificate-copy"},
		{"multiple spaces", "Land   Ownership   Transfer", "land-ownership-transfer"},
		{"leading and trailing", "  Driving License  ", "driving-license"},
		{"digits", "Form 2B Request", "form-2b-request"},
		{"empty", "", ""},
		{"only specials", "!!!", ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, From(testCase.input))
		})
	}
}
