package models

import "errors"

var (
	ErrBranchNotFound    = errors.New("branch not found")
	ErrTableNotFound     = errors.New("table not found")
	ErrTableNotAvailable = errors.New("table not available")
	ErrMenuItemNotFound  = errors.New("menu item not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderFinalized    = errors.New("order already finalized")
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrInvalidInput      = errors.New("invalid input")
)
