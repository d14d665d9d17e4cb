package token

import (
	"errors"
	"sync"

	"github.com/PRIVI-Social-apps/privi-nft-auction/native/auction"
)

var ErrNoTokenAtAddress = errors.New("token: no token registered at address")

// Registry maps contract addresses to live ledger bindings and records which
// addresses carry executable code. It implements auction.TokenRegistry.
type Registry struct {
	mu        sync.RWMutex
	payment   map[[20]byte]auction.PaymentToken
	unique    map[[20]byte]auction.UniqueUnitToken
	multi     map[[20]byte]auction.MultiUnitToken
	contracts map[[20]byte]bool
}

func NewRegistry() *Registry {
	return &Registry{
		payment:   make(map[[20]byte]auction.PaymentToken),
		unique:    make(map[[20]byte]auction.UniqueUnitToken),
		multi:     make(map[[20]byte]auction.MultiUnitToken),
		contracts: make(map[[20]byte]bool),
	}
}

// RegisterPaymentToken binds a fungible ledger to an address. Token addresses
// are contract accounts, so the address is also marked for the no-contracts
// bid guard.
func (r *Registry) RegisterPaymentToken(addr [20]byte, t auction.PaymentToken) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payment[addr] = t
	r.contracts[addr] = true
}

func (r *Registry) RegisterUniqueUnitToken(addr [20]byte, t auction.UniqueUnitToken) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unique[addr] = t
	r.contracts[addr] = true
}

func (r *Registry) RegisterMultiUnitToken(addr [20]byte, t auction.MultiUnitToken) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.multi[addr] = t
	r.contracts[addr] = true
}

// MarkContract records a non-token contract account so bids from it are
// rejected.
func (r *Registry) MarkContract(addr [20]byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contracts[addr] = true
}

// PaymentToken implements auction.TokenRegistry.
func (r *Registry) PaymentToken(addr [20]byte) (auction.PaymentToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.payment[addr]
	if !ok {
		return nil, ErrNoTokenAtAddress
	}
	return t, nil
}

// UniqueUnitToken implements auction.TokenRegistry.
func (r *Registry) UniqueUnitToken(addr [20]byte) (auction.UniqueUnitToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.unique[addr]
	if !ok {
		return nil, ErrNoTokenAtAddress
	}
	return t, nil
}

// MultiUnitToken implements auction.TokenRegistry.
func (r *Registry) MultiUnitToken(addr [20]byte) (auction.MultiUnitToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.multi[addr]
	if !ok {
		return nil, ErrNoTokenAtAddress
	}
	return t, nil
}

// IsContract implements auction.TokenRegistry.
func (r *Registry) IsContract(addr [20]byte) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.contracts[addr], nil
}
