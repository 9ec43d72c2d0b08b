package resolve

import "errors"

var (
	// ErrInputNotFound indicates the input spec matched neither a file, an
	// extension-less file, nor a directory under the source root.
	ErrInputNotFound = errors.New("input not found")

	// ErrNoMatchingDocuments indicates the input spec resolved to a directory
	// containing zero source documents.
	ErrNoMatchingDocuments = errors.New("no matching documents in directory")
)
