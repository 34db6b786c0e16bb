package models

import (
	"errors"
)

var (
	ErrGeneral           = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound  = errors.New("there is no")
	ErrReferenceNotFound = errors.New("a resource ID you specified does not identify an existing resource")
	ErrResourceInUse     = errors.New("the resource is still referenced by other resources and cannot be deleted")
	ErrAmountNotPositive = errors.New("the amount must be positive")
)
