package auction

import "math/big"

// The engine treats the payment token and the collectible contracts as
// untrusted external collaborators. Each binding is scoped to the engine: a
// TransferFrom pull consumes the allowance granted to the engine operator,
// and Transfer pushes out of engine custody.

// PaymentToken is the fungible token used for all escrow movement of one
// auction.
type PaymentToken interface {
	BalanceOf(owner [20]byte) (*big.Int, error)
	// TransferFrom pulls amount from the owner into the destination using
	// the allowance granted to the engine operator.
	TransferFrom(from, to [20]byte, amount *big.Int) error
	// Transfer pushes amount out of engine custody.
	Transfer(to [20]byte, amount *big.Int) error
}

// UniqueUnitToken is the custody surface for collectibles where each id has
// exactly one owner.
type UniqueUnitToken interface {
	OwnerOf(id [32]byte) ([20]byte, error)
	IsApprovedForAll(owner, operator [20]byte) (bool, error)
	TransferFrom(from, to [20]byte, id [32]byte) error
}

// MultiUnitToken is the custody surface for collectibles where each id
// carries a per-owner quantity.
type MultiUnitToken interface {
	BalanceOf(owner [20]byte, id [32]byte) (*big.Int, error)
	IsApprovedForAll(owner, operator [20]byte) (bool, error)
	SafeTransferFrom(from, to [20]byte, id [32]byte, quantity *big.Int) error
}

// TokenRegistry resolves contract addresses to live bindings and answers the
// caller classification used by the no-contracts bid guard.
type TokenRegistry interface {
	PaymentToken(addr [20]byte) (PaymentToken, error)
	UniqueUnitToken(addr [20]byte) (UniqueUnitToken, error)
	MultiUnitToken(addr [20]byte) (MultiUnitToken, error)
	IsContract(addr [20]byte) (bool, error)
}
