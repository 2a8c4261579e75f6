package cmd

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srcmerge/pkg/merge"
)

func TestPrintSummary_TruncatesList(t *testing.T) {
	scan, err := merge.NewScanConfig("src", nil, nil)
	require.NoError(t, err)

	res := merge.Result{OutputPath: "merged.sol", Bytes: 2 * 1024 * 1024, Digest: 0xabc}
	for i := 0; i < 12; i++ {
		res.Files = append(res.Files, merge.Candidate{RelPath: fmt.Sprintf("C%02d.sol", i)})
	}

	var buf bytes.Buffer
	printSummary(&buf, scan, res)
	out := buf.String()

	assert.Contains(t, out, "✓ Merged 12 files into merged.sol\n")
	assert.Contains(t, out, "Total size: 2,097,152 bytes (2.00 MB)\n")
	assert.Contains(t, out, "Digest: xxhash64:0000000000000abc\n")
	assert.Contains(t, out, "  - C09.sol\n")
	assert.NotContains(t, out, "C10.sol")
	assert.True(t, strings.HasSuffix(out, "  ... and 2 more files\n"), out)
}

func TestPrintSummary_SizeUsesThousandsSeparators(t *testing.T) {
	scan, err := merge.NewScanConfig("src", nil, nil)
	require.NoError(t, err)

	cases := map[int64]string{
		999:     "Total size: 999 bytes",
		1000:    "Total size: 1,000 bytes",
		1234567: "Total size: 1,234,567 bytes",
	}
	for n, want := range cases {
		var buf bytes.Buffer
		printSummary(&buf, scan, merge.Result{
			OutputPath: "merged.sol",
			Bytes:      n,
			Files:      []merge.Candidate{{RelPath: "A.sol"}},
		})
		assert.Contains(t, buf.String(), want)
	}
}
