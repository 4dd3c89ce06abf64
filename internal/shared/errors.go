package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed         = fmt.Errorf("authentication failed")
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")
	ErrInvalidCredentials = fmt.Errorf("invalid login credentials")
	ErrEmailRegistered    = fmt.Errorf("user already registered")
	ErrWeakPassword       = fmt.Errorf("password should be at least 6 characters")
	ErrSessionExpired     = fmt.Errorf("session expired")

	// Store errors
	ErrSongNotFound     = fmt.Errorf("song not found")
	ErrCategoryNotFound = fmt.Errorf("category not found")
	ErrCategoryExists   = fmt.Errorf("category already exists")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidCSV      = fmt.Errorf("invalid CSV")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrEmptyLibrary    = fmt.Errorf("library is empty")
)
