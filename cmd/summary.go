package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/term"

	"srcmerge/pkg/merge"
)

// summaryListLimit caps how many merged paths the summary lists.
const summaryListLimit = 10

// printSummary reports the outcome of a merge on w.
func printSummary(w io.Writer, scan merge.ScanConfig, res merge.Result) {
	ok := color.New(color.FgGreen, color.Bold)
	warn := color.New(color.FgYellow)
	label := color.New(color.FgCyan)
	if !isTerminal(w) {
		ok.DisableColor()
		warn.DisableColor()
		label.DisableColor()
	}

	if len(res.Files) == 0 {
		exts := scan.Extensions()
		for i, e := range exts {
			exts[i] = "." + e
		}
		warn.Fprintf(w, "No files with extensions %s found in %s\n", strings.Join(exts, ", "), scan.RootDir())
		fmt.Fprintf(w, "  Wrote empty merge to %s\n", res.OutputPath)
		return
	}

	ok.Fprintf(w, "✓ Merged %d files into %s\n", len(res.Files), res.OutputPath)
	fmt.Fprintf(w, "  %s %s bytes (%.2f MB)\n", label.Sprint("Total size:"), humanize.Comma(res.Bytes), float64(res.Bytes)/1024/1024)
	fmt.Fprintf(w, "  %s xxhash64:%016x\n", label.Sprint("Digest:"), res.Digest)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Merged files:")
	for i, f := range res.Files {
		if i == summaryListLimit {
			fmt.Fprintf(w, "  ... and %d more files\n", len(res.Files)-summaryListLimit)
			break
		}
		fmt.Fprintf(w, "  - %s\n", f.RelPath)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
