package token

import (
	"errors"
	"math/big"
	"sync"
)

var (
	ErrUnknownAsset       = errors.New("token: unknown asset id")
	ErrNotAssetOwner      = errors.New("token: transfer from non-owner")
	ErrOperatorNotAllowed = errors.New("token: operator not approved")
	ErrInsufficientUnits  = errors.New("token: insufficient units")
)

// UniqueUnitLedger is an in-process collectible where each id has exactly one
// owner. Operator transfers require a standing approval from the owner, as in
// the on-chain custody model it stands in for.
type UniqueUnitLedger struct {
	mu        sync.RWMutex
	operator  [20]byte
	owners    map[[32]byte][20]byte
	approvals map[[20]byte]map[[20]byte]bool
}

func NewUniqueUnitLedger(operator [20]byte) *UniqueUnitLedger {
	return &UniqueUnitLedger{
		operator:  operator,
		owners:    make(map[[32]byte][20]byte),
		approvals: make(map[[20]byte]map[[20]byte]bool),
	}
}

// Mint assigns a fresh id to an owner.
func (l *UniqueUnitLedger) Mint(to [20]byte, id [32]byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.owners[id]; ok {
		return errors.New("token: id already minted")
	}
	l.owners[id] = to
	return nil
}

// SetApprovalForAll grants or revokes an operator over all of the owner's
// assets in this ledger.
func (l *UniqueUnitLedger) SetApprovalForAll(owner, operator [20]byte, approved bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.approvals[owner] == nil {
		l.approvals[owner] = make(map[[20]byte]bool)
	}
	l.approvals[owner][operator] = approved
}

// OwnerOf implements auction.UniqueUnitToken.
func (l *UniqueUnitLedger) OwnerOf(id [32]byte) ([20]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	owner, ok := l.owners[id]
	if !ok {
		return [20]byte{}, ErrUnknownAsset
	}
	return owner, nil
}

// IsApprovedForAll implements auction.UniqueUnitToken.
func (l *UniqueUnitLedger) IsApprovedForAll(owner, operator [20]byte) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.approvals[owner][operator], nil
}

// TransferFrom moves one id between owners on behalf of the ledger's bound
// operator. Implements auction.UniqueUnitToken.
func (l *UniqueUnitLedger) TransferFrom(from, to [20]byte, id [32]byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	owner, ok := l.owners[id]
	if !ok {
		return ErrUnknownAsset
	}
	if owner != from {
		return ErrNotAssetOwner
	}
	if from != l.operator && !l.approvals[from][l.operator] {
		return ErrOperatorNotAllowed
	}
	l.owners[id] = to
	return nil
}

// MultiUnitLedger is an in-process collectible where each id carries a
// quantity held per owner.
type MultiUnitLedger struct {
	mu        sync.RWMutex
	operator  [20]byte
	balances  map[[32]byte]map[[20]byte]*big.Int
	approvals map[[20]byte]map[[20]byte]bool
}

func NewMultiUnitLedger(operator [20]byte) *MultiUnitLedger {
	return &MultiUnitLedger{
		operator:  operator,
		balances:  make(map[[32]byte]map[[20]byte]*big.Int),
		approvals: make(map[[20]byte]map[[20]byte]bool),
	}
}

// Mint credits quantity of an id to an owner.
func (l *MultiUnitLedger) Mint(to [20]byte, id [32]byte, quantity *big.Int) error {
	if quantity == nil || quantity.Sign() < 0 {
		return ErrNegativeAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[id] == nil {
		l.balances[id] = make(map[[20]byte]*big.Int)
	}
	current := l.balances[id][to]
	if current == nil {
		current = big.NewInt(0)
	}
	l.balances[id][to] = new(big.Int).Add(current, quantity)
	return nil
}

// SetApprovalForAll grants or revokes an operator over all of the owner's
// holdings in this ledger.
func (l *MultiUnitLedger) SetApprovalForAll(owner, operator [20]byte, approved bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.approvals[owner] == nil {
		l.approvals[owner] = make(map[[20]byte]bool)
	}
	l.approvals[owner][operator] = approved
}

// BalanceOf implements auction.MultiUnitToken.
func (l *MultiUnitLedger) BalanceOf(owner [20]byte, id [32]byte) (*big.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if held, ok := l.balances[id]; ok {
		if b, ok := held[owner]; ok && b != nil {
			return new(big.Int).Set(b), nil
		}
	}
	return big.NewInt(0), nil
}

// IsApprovedForAll implements auction.MultiUnitToken.
func (l *MultiUnitLedger) IsApprovedForAll(owner, operator [20]byte) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.approvals[owner][operator], nil
}

// SafeTransferFrom moves quantity of an id between owners on behalf of the
// ledger's bound operator. Implements auction.MultiUnitToken.
func (l *MultiUnitLedger) SafeTransferFrom(from, to [20]byte, id [32]byte, quantity *big.Int) error {
	if quantity == nil || quantity.Sign() < 0 {
		return ErrNegativeAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	held, ok := l.balances[id]
	if !ok {
		return ErrUnknownAsset
	}
	current := held[from]
	if current == nil || current.Cmp(quantity) < 0 {
		return ErrInsufficientUnits
	}
	if from != l.operator && !l.approvals[from][l.operator] {
		return ErrOperatorNotAllowed
	}
	held[from] = new(big.Int).Sub(current, quantity)
	prev := held[to]
	if prev == nil {
		prev = big.NewInt(0)
	}
	held[to] = new(big.Int).Add(prev, quantity)
	return nil
}
