package services

import "errors"

var (
	ErrUnauthenticated   = errors.New("not authenticated")
	ErrTechniqueNotFound = errors.New("technique not found")
	ErrInvalidProfile    = errors.New("invalid profile")
)
