package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandMultiValueFlags(t *testing.T) {
	cases := []struct {
		in   []string
		want []string
	}{
		{
			in:   []string{"src", "out.sol"},
			want: []string{"src", "out.sol"},
		},
		{
			in:   []string{"src", "out.ts", "-e", "ts", "tsx"},
			want: []string{"src", "out.ts", "-e", "ts", "-e", "tsx"},
		},
		{
			in:   []string{"src", "out.sol", "--exclude", "test", "mocks", "-v"},
			want: []string{"src", "out.sol", "--exclude", "test", "--exclude", "mocks", "-v"},
		},
		{
			in:   []string{"--extensions=py", "src", "out.py"},
			want: []string{"--extensions=py", "src", "out.py"},
		},
		{
			in:   []string{"-e", "sol", "--", "-odd-dir", "out"},
			want: []string{"-e", "sol", "--", "-odd-dir", "out"},
		},
		{
			in:   []string{"src", "out", "-e"},
			want: []string{"src", "out", "-e"},
		},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, expandMultiValueFlags(tc.in), "%v", tc.in)
	}
}
