// File: pkg/merge/binary.go
package merge

import (
	"bytes"
	"unicode/utf8"
)

// sniffLen is how much of a file is inspected when classifying content.
const sniffLen = 512

// decodeProblem returns a non-empty reason when content cannot be merged as
// UTF-8 text.
func decodeProblem(content []byte) string {
	if utf8.Valid(content) {
		return ""
	}
	if looksBinary(content) {
		return "binary content"
	}
	return "not valid UTF-8"
}

// looksBinary checks the first bytes for null bytes or a high ratio of
// non-printable characters.
func looksBinary(content []byte) bool {
	buffer := content
	if len(buffer) > sniffLen {
		buffer = buffer[:sniffLen]
	}
	if len(buffer) == 0 {
		return false
	}

	if bytes.IndexByte(buffer, 0) >= 0 {
		return true
	}

	nonPrintable := 0
	for _, b := range buffer {
		if !isPrintable(b) {
			nonPrintable++
		}
	}
	// More than 30% non-printable bytes
	return float64(nonPrintable)/float64(len(buffer)) > 0.3
}

// isPrintable checks if a byte represents a printable ASCII character
func isPrintable(b byte) bool {
	return (b >= 32 && b <= 126) || b == '\n' || b == '\r' || b == '\t'
}
