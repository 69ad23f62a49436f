package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrActionReverted = errors.New("action already reverted")
	ErrUndoExpired    = errors.New("undo window expired")
	ErrUnavailable    = errors.New("not configured")
)
