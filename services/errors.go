package services

import (
	"errors"

	"github.com/Dosada05/sportsmeet/standings"
)

// Errors shared by the services and the HTTP error mapping.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	// authentication
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrPasswordTooShort     = errors.New("password is too short")

	// entities
	ErrFacultyNotFound = errors.New("faculty not found")
	ErrSportNotFound   = errors.New("sport not found")
	ErrResultNotFound  = errors.New("result not found")
	ErrMediaNotFound   = errors.New("media not found")
	ErrUserNotFound    = errors.New("user not found")

	// conflicts
	ErrFacultyNameConflict = errors.New("faculty name already exists")
	ErrFacultyInUse        = errors.New("faculty cannot be deleted as it has results")
	ErrUserEmailConflict   = errors.New("email address is already in use")

	// points allocation
	ErrInvalidPlace              = standings.ErrInvalidPlace
	ErrInvalidParticipantPoints  = standings.ErrInvalidParticipantPoints
	ErrInvalidPlacement          = errors.New("placement must reference a faculty")
	ErrDuplicatePlacementFaculty = errors.New("faculty appears more than once in placements")
	ErrInvalidPointsMode         = errors.New("points mode must be 'overall-only' or 'always'")
	ErrInvalidCustomPoints       = errors.New("custom points must map positive places to non-negative values")
	ErrResultFacultyInvalid      = errors.New("result references an unknown faculty")
	ErrPointsOperationFailed     = errors.New("points operation failed")

	// file uploads
	ErrUploadsDisabled      = errors.New("file uploads are not configured")
	ErrUnsupportedMediaType = errors.New("only image uploads are supported")
	ErrFileTooLarge         = errors.New("file is too large")
)
