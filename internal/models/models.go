package models

// Validator is implemented by all records checked before persistence.
type Validator interface {
	Validate() error // Validate checks if the record's data is valid and returns an error if not
}
