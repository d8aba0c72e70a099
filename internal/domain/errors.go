package domain

import "errors"

var (
	ErrNotFound            = errors.New("purchase order not found")
	ErrUnsupportedFileType = errors.New("only PDF uploads are supported")
	ErrFileTooLarge        = errors.New("PDF exceeds the 20 MB size limit")
	ErrEmptyFile           = errors.New("uploaded PDF appears to be empty")
	ErrInvalidOrderID      = errors.New("purchase order id is invalid")
	ErrInvalidPayload      = errors.New("request body must be a JSON object")
	ErrSourceUnavailable   = errors.New("source document is not archived")
)
