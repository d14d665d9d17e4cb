package token

import (
	"errors"
	"math/big"
	"sync"
)

var (
	ErrInsufficientBalance   = errors.New("token: insufficient balance")
	ErrInsufficientAllowance = errors.New("token: insufficient allowance")
	ErrNegativeAmount        = errors.New("token: negative amount")
)

// FungibleLedger is an in-process payment token with ERC20-style balances and
// allowances. The ledger is bound to the engine operator address: pulls spend
// the allowance granted to that operator and pushes move out of its balance.
type FungibleLedger struct {
	mu         sync.RWMutex
	operator   [20]byte
	balances   map[[20]byte]*big.Int
	allowances map[[20]byte]map[[20]byte]*big.Int
}

func NewFungibleLedger(operator [20]byte) *FungibleLedger {
	return &FungibleLedger{
		operator:   operator,
		balances:   make(map[[20]byte]*big.Int),
		allowances: make(map[[20]byte]map[[20]byte]*big.Int),
	}
}

func (l *FungibleLedger) balance(addr [20]byte) *big.Int {
	if b, ok := l.balances[addr]; ok && b != nil {
		return b
	}
	return big.NewInt(0)
}

// Mint credits newly issued units to an address.
func (l *FungibleLedger) Mint(to [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[to] = new(big.Int).Add(l.balance(to), amount)
	return nil
}

// Approve sets the allowance a spender may pull from the owner.
func (l *FungibleLedger) Approve(owner, spender [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.allowances[owner] == nil {
		l.allowances[owner] = make(map[[20]byte]*big.Int)
	}
	l.allowances[owner][spender] = new(big.Int).Set(amount)
	return nil
}

// Allowance returns the remaining amount the spender may pull from the owner.
func (l *FungibleLedger) Allowance(owner, spender [20]byte) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if granted, ok := l.allowances[owner]; ok {
		if a, ok := granted[spender]; ok && a != nil {
			return new(big.Int).Set(a)
		}
	}
	return big.NewInt(0)
}

// BalanceOf implements auction.PaymentToken.
func (l *FungibleLedger) BalanceOf(owner [20]byte) (*big.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return new(big.Int).Set(l.balance(owner)), nil
}

// TransferFrom pulls amount from the owner using the allowance granted to the
// ledger's bound operator. Implements auction.PaymentToken.
func (l *FungibleLedger) TransferFrom(from, to [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	granted := big.NewInt(0)
	if owned, ok := l.allowances[from]; ok {
		if a, ok := owned[l.operator]; ok && a != nil {
			granted = a
		}
	}
	if granted.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}
	if l.balance(from).Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	l.allowances[from][l.operator] = new(big.Int).Sub(granted, amount)
	l.balances[from] = new(big.Int).Sub(l.balance(from), amount)
	l.balances[to] = new(big.Int).Add(l.balance(to), amount)
	return nil
}

// Transfer pushes amount out of the operator's custody. Implements
// auction.PaymentToken.
func (l *FungibleLedger) Transfer(to [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balance(l.operator).Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	l.balances[l.operator] = new(big.Int).Sub(l.balance(l.operator), amount)
	l.balances[to] = new(big.Int).Add(l.balance(to), amount)
	return nil
}
