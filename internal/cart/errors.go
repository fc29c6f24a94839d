package cart

import "errors"

var (
	ErrInvalidDateRange    = errors.New("end date must be after start date")
	ErrIncompleteSelection = errors.New("size, color, start and end date are required")
	ErrUnknownOption       = errors.New("size or color not offered for this product")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrExceedsStock        = errors.New("quantity exceeds available stock")
	ErrOutOfStock          = errors.New("product is out of stock")
)
