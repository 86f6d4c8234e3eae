package domain

import "errors"

var (
	ErrIncompleteInputs    = errors.New("incomplete_inputs")
	ErrInvalidDocumentType = errors.New("invalid_document_type")
	ErrNotFound            = errors.New("not_found")
)
