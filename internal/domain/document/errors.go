package document

import "errors"

var (
	ErrDocumentNotFound    = errors.New("document not found")
	ErrFileRequired        = errors.New("file is required")
	ErrUnsupportedFileType = errors.New("documents must be pdf, jpg, png, doc or docx")
	ErrFileTooLarge        = errors.New("document exceeds the 10MB limit")
	ErrUnauthorized        = errors.New("unauthorized to access this document")
)
