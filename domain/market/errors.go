package market

import "errors"

// Refusal reasons surfaced to command callers. None are fatal; a rejected
// operation leaves shared state untouched.
var (
	ErrUnknownSymbol      = errors.New("unknown symbol")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrInvalidArgument    = errors.New("invalid argument")
)
