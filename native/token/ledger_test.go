package token

import (
	"bytes"
	"errors"
	"math/big"
	"testing"
)

func addr(fill byte) [20]byte {
	var a [20]byte
	copy(a[:], bytes.Repeat([]byte{fill}, 20))
	return a
}

func assetID(fill byte) [32]byte {
	var id [32]byte
	copy(id[:], bytes.Repeat([]byte{fill}, 32))
	return id
}

func TestFungibleTransferFromSpendsAllowance(t *testing.T) {
	operator := addr(0xEE)
	owner := addr(0x01)
	l := NewFungibleLedger(operator)
	if err := l.Mint(owner, big.NewInt(1000)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := l.TransferFrom(owner, operator, big.NewInt(100)); !errors.Is(err, ErrInsufficientAllowance) {
		t.Fatalf("expected allowance failure, got %v", err)
	}
	if err := l.Approve(owner, operator, big.NewInt(150)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := l.TransferFrom(owner, operator, big.NewInt(100)); err != nil {
		t.Fatalf("transferFrom: %v", err)
	}
	if got := l.Allowance(owner, operator); got.Cmp(big.NewInt(50)) != 0 {
		t.Fatalf("allowance must be consumed, got %s", got)
	}
	if err := l.TransferFrom(owner, operator, big.NewInt(100)); !errors.Is(err, ErrInsufficientAllowance) {
		t.Fatalf("expected exhausted allowance, got %v", err)
	}
	got, _ := l.BalanceOf(operator)
	if got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("custody balance mismatch: %s", got)
	}
}

func TestFungibleTransferRequiresCustodyBalance(t *testing.T) {
	operator := addr(0xEE)
	l := NewFungibleLedger(operator)
	if err := l.Transfer(addr(0x01), big.NewInt(1)); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected balance failure, got %v", err)
	}
}

func TestUniqueUnitOperatorTransfer(t *testing.T) {
	operator := addr(0xEE)
	owner := addr(0x01)
	buyer := addr(0x02)
	id := assetID(0x22)
	l := NewUniqueUnitLedger(operator)
	if err := l.Mint(owner, id); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := l.TransferFrom(owner, buyer, id); !errors.Is(err, ErrOperatorNotAllowed) {
		t.Fatalf("expected approval failure, got %v", err)
	}
	l.SetApprovalForAll(owner, operator, true)
	ok, _ := l.IsApprovedForAll(owner, operator)
	if !ok {
		t.Fatalf("approval not recorded")
	}
	if err := l.TransferFrom(owner, buyer, id); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	got, err := l.OwnerOf(id)
	if err != nil || got != buyer {
		t.Fatalf("unexpected owner after transfer: %v %v", got, err)
	}
	if err := l.TransferFrom(owner, buyer, id); !errors.Is(err, ErrNotAssetOwner) {
		t.Fatalf("expected non-owner failure, got %v", err)
	}
}

func TestMultiUnitQuantityTransfer(t *testing.T) {
	operator := addr(0xEE)
	owner := addr(0x01)
	buyer := addr(0x02)
	id := assetID(0x22)
	l := NewMultiUnitLedger(operator)
	if err := l.Mint(owner, id, big.NewInt(5)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	l.SetApprovalForAll(owner, operator, true)
	if err := l.SafeTransferFrom(owner, buyer, id, big.NewInt(6)); !errors.Is(err, ErrInsufficientUnits) {
		t.Fatalf("expected unit failure, got %v", err)
	}
	if err := l.SafeTransferFrom(owner, buyer, id, big.NewInt(5)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	got, _ := l.BalanceOf(buyer, id)
	if got.Cmp(big.NewInt(5)) != 0 {
		t.Fatalf("buyer holding mismatch: %s", got)
	}
	got, _ = l.BalanceOf(owner, id)
	if got.Sign() != 0 {
		t.Fatalf("owner holding must be empty: %s", got)
	}
}

func TestRegistryResolution(t *testing.T) {
	operator := addr(0xEE)
	r := NewRegistry()
	payAddr := addr(0xC1)
	r.RegisterPaymentToken(payAddr, NewFungibleLedger(operator))

	if _, err := r.PaymentToken(payAddr); err != nil {
		t.Fatalf("resolve payment token: %v", err)
	}
	if _, err := r.PaymentToken(addr(0xC2)); !errors.Is(err, ErrNoTokenAtAddress) {
		t.Fatalf("expected unknown address failure, got %v", err)
	}
	isContract, _ := r.IsContract(payAddr)
	if !isContract {
		t.Fatalf("token address must be classified as a contract")
	}
	isContract, _ = r.IsContract(addr(0x01))
	if isContract {
		t.Fatalf("plain account misclassified as contract")
	}
}
