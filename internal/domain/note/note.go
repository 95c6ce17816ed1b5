package note

import "time"

// File is an eligible note file discovered under an ingestion root.
// RelPath is slash-separated and identifies the file.
type File struct {
	AbsPath string
	RelPath string
}

// Document is a loaded note: normalized text plus the file modification time.
type Document struct {
	Text    string
	ModTime time.Time
	// Replaced is true when malformed UTF-8 was replaced during decoding.
	Replaced bool
}
