package merge

import (
	"strings"
	"testing"
)

func TestDecodeProblem(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"empty", "", ""},
		{"ascii", "pragma solidity ^0.8.0;\n", ""},
		{"utf8", "// © 2024 — ünïcödé\n", ""},
		{"nul bytes", "abc\x00def\xff", "binary content"},
		{"latin1", "caf\xe9\n", "not valid UTF-8"},
		{"mostly non-printable", strings.Repeat("\x01\x02\x80", 20), "binary content"},
	}
	for _, tc := range cases {
		if got := decodeProblem([]byte(tc.content)); got != tc.want {
			t.Errorf("%s: decodeProblem() = %q, want %q", tc.name, got, tc.want)
		}
	}
}
