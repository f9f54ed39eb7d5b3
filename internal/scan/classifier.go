// Package scan walks a project tree and classifies filesystem entries into
// indexable documents.
package scan

import (
	"path/filepath"
	"strings"

	"github.com/syedafeezu/DevScope/internal/types"
)

// codeExtensions maps lowercased extensions to the code document type.
// Anything not listed here or in logExtensions is rejected.
var codeExtensions = map[string]bool{
	".go":   true,
	".py":   true,
	".js":   true,
	".ts":   true,
	".c":    true,
	".cpp":  true,
	".java": true,
	".md":   true,
	".txt":  true,
	".json": true,
}

var logExtensions = map[string]bool{
	".log": true,
}

// Classify maps a file path to its document type by lowercased extension.
// The second return value is false when the file should be skipped.
func Classify(path string) (types.DocType, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case logExtensions[ext]:
		return types.DocTypeLog, true
	case codeExtensions[ext]:
		return types.DocTypeCode, true
	default:
		return 0, false
	}
}
