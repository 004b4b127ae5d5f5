package service

import "errors"

var (
	ErrInvalidID       = errors.New("invalid product ID")
	ErrProductNotFound = errors.New("product not found")
	ErrEmptyUpdate     = errors.New("no updatable fields provided")
)
