package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"a@b.com", true},
		{"jane.doe@mail.example.org", true},
		{"jane-doe@mail-host.com", true},
		{"", false},
		{"plainaddress", false},
		{"@no-local.com", false},
		{"no-domain@", false},
		{"a@b", false},
		{"two@@b.com", false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.ok, ValidEmail(tc.in), "email %q", tc.in)
	}
}

func TestValidPassword(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"Abcdef12", true},
		{"xY3abcdefg", true},
		{"short1A", false},    // 7 chars
		{"abcdefg1", false},   // no uppercase
		{"ABCDEFG1", false},   // no lowercase
		{"Abcdefgh", false},   // no digit
		{"", false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.ok, ValidPassword(tc.in), "password %q", tc.in)
	}
}

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"jo", "Jo"},
		{"  joHN   doE ", "John Doe"},
		{"MARIA", "Maria"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, NormalizeName(tc.in), "name %q", tc.in)
	}
}
