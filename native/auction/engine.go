package auction

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/PRIVI-Social-apps/privi-nft-auction/core/events"
	"github.com/PRIVI-Social-apps/privi-nft-auction/core/types"
	nativecommon "github.com/PRIVI-Social-apps/privi-nft-auction/native/common"
)

const moduleName = "auction"

var (
	errNilState    = errors.New("auction engine: state not configured")
	errNilRegistry = errors.New("auction engine: token registry not configured")
	errNilOperator = errors.New("auction engine: operator address not configured")
)

type engineState interface {
	AuctionPut(*Auction) error
	AuctionGet(id [32]byte) (*Auction, bool)
}

type auctionEvent struct {
	evt *types.Event
}

func (e auctionEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e auctionEvent) Event() *types.Event { return e.evt }

// Engine owns the auction registry and escrow ledger. Every entry point takes
// the caller address explicitly, re-validates auction existence and caller
// identity, and persists the mutated record only after the external token
// calls it depends on have succeeded. A per-auction busy flag rejects
// reentrant re-invocation while an external call is in flight.
type Engine struct {
	state    engineState
	tokens   TokenRegistry
	operator [20]byte
	emitter  events.Emitter
	nowFn    func() int64
	pauses   nativecommon.PauseView

	mu   sync.Mutex
	busy map[[32]byte]bool
}

// NewEngine creates an auction engine with a no-op emitter. Callers override
// the collaborators via the Set* methods before serving traffic.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
		busy:    make(map[[32]byte]bool),
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetTokenRegistry configures the resolver for payment and collectible
// contract bindings.
func (e *Engine) SetTokenRegistry(tokens TokenRegistry) { e.tokens = tokens }

// SetOperator configures the address the engine transacts as. Sellers must
// grant this address operator approval over their collectibles, and bidders
// must grant it a payment-token allowance.
func (e *Engine) SetOperator(addr [20]byte) { e.operator = addr }

// SetEmitter configures the event emitter. Passing nil resets to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source, primarily used in tests.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetPauses configures the module pause view consulted by every mutation.
func (e *Engine) SetPauses(p nativecommon.PauseView) { e.pauses = p }

func (e *Engine) emit(event *types.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(auctionEvent{evt: event})
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) ready() error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if e.tokens == nil {
		return errNilRegistry
	}
	if e.operator == ([20]byte{}) {
		return errNilOperator
	}
	return nativecommon.Guard(e.pauses, moduleName)
}

// lock marks the auction key busy for the duration of one operation. An
// external token call that re-enters the engine observes the flag and fails
// instead of reading a ledger that is mid-mutation.
func (e *Engine) lock(id [32]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy[id] {
		return ErrReentrantCall
	}
	e.busy[id] = true
	return nil
}

func (e *Engine) unlock(id [32]byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.busy, id)
}

// loadCreated resolves the live record for a key, enforcing the
// onlyCreatedAuction guard shared by every post-creation operation.
func (e *Engine) loadCreated(id [32]byte) (*Auction, error) {
	a, ok := e.state.AuctionGet(id)
	if !ok || a == nil || !a.Created {
		return nil, ErrAuctionNotFound
	}
	return a, nil
}

// Create lists an asset for auction. The seller keeps custody of the
// collectible; the engine only verifies current control and its own operator
// approval. No funds move at creation time.
func (e *Engine) Create(caller [20]byte, model AssetModel, assetContract [20]byte, assetID [32]byte, startBidPrice *big.Int, startTime, endTime int64, minBidStep *big.Int, paymentToken [20]byte) (*Auction, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if !model.Valid() {
		return nil, ErrInvalidAssetModel
	}
	price := cloneBigInt(startBidPrice)
	step := cloneBigInt(minBidStep)
	if price.Sign() < 0 || step.Sign() < 0 {
		return nil, ErrInvalidAmount
	}
	if _, err := e.tokens.PaymentToken(paymentToken); err != nil {
		return nil, err
	}

	id := AuctionID(assetContract, assetID)
	if err := e.lock(id); err != nil {
		return nil, err
	}
	defer e.unlock(id)

	switch model {
	case AssetUniqueUnit:
		binding, err := e.tokens.UniqueUnitToken(assetContract)
		if err != nil {
			return nil, err
		}
		owner, err := binding.OwnerOf(assetID)
		if err != nil {
			return nil, err
		}
		if owner != caller {
			return nil, ErrCallerNotOwner
		}
		approved, err := binding.IsApprovedForAll(caller, e.operator)
		if err != nil {
			return nil, err
		}
		if !approved {
			return nil, ErrOwnerNotApproved
		}
	case AssetMultiUnit:
		binding, err := e.tokens.MultiUnitToken(assetContract)
		if err != nil {
			return nil, err
		}
		held, err := binding.BalanceOf(caller, assetID)
		if err != nil {
			return nil, err
		}
		if held.Sign() <= 0 {
			return nil, ErrCallerNotOwner
		}
		approved, err := binding.IsApprovedForAll(caller, e.operator)
		if err != nil {
			return nil, err
		}
		if !approved {
			return nil, ErrOwnerNotApproved
		}
	}
	if endTime <= startTime {
		return nil, ErrEndBeforeStart
	}
	now := e.now()
	if endTime <= now {
		return nil, ErrEndTimePassed
	}
	if existing, ok := e.state.AuctionGet(id); ok && existing != nil && existing.Created && !existing.Ended {
		return nil, ErrAuctionExists
	}

	a := &Auction{
		AssetContract:     assetContract,
		AssetID:           assetID,
		Model:             model,
		Seller:            caller,
		StartBidPrice:     price,
		MinBidStep:        step,
		StartTime:         startTime,
		EndTime:           endTime,
		PaymentToken:      paymentToken,
		HighestBid:        big.NewInt(0),
		EscrowedPot:       big.NewInt(0),
		WithdrawnBySeller: big.NewInt(0),
		Created:           true,
		CreatedAt:         now,
	}
	if err := e.state.AuctionPut(a); err != nil {
		return nil, err
	}
	e.emit(NewCreatedEvent(a))
	return a.Clone(), nil
}

// Get returns the auction record for a key, or false when none was created.
func (e *Engine) Get(assetContract [20]byte, assetID [32]byte) (*Auction, bool) {
	if e == nil || e.state == nil {
		return nil, false
	}
	a, ok := e.state.AuctionGet(AuctionID(assetContract, assetID))
	if !ok || a == nil || !a.Created {
		return nil, false
	}
	return a.Clone(), true
}

// PlaceBid escrows a new leading bid. The previous leader is refunded in the
// same call, so the pot always tracks exactly the live highest bid plus any
// amount the seller has not withdrawn.
func (e *Engine) PlaceBid(caller [20]byte, assetContract [20]byte, assetID [32]byte, amount *big.Int) error {
	if err := e.ready(); err != nil {
		return err
	}
	id := AuctionID(assetContract, assetID)
	if err := e.lock(id); err != nil {
		return err
	}
	defer e.unlock(id)

	a, err := e.loadCreated(id)
	if err != nil {
		return err
	}
	if a.Ended {
		return ErrAuctionEnded
	}
	isContract, err := e.tokens.IsContract(caller)
	if err != nil {
		return err
	}
	if isContract {
		return ErrNoContracts
	}
	bid := cloneBigInt(amount)
	if bid.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if !a.HasBid() {
		if bid.Cmp(a.StartBidPrice) <= 0 {
			return ErrBidBelowStart
		}
	} else {
		floor := new(big.Int).Add(a.HighestBid, a.MinBidStep)
		if bid.Cmp(floor) < 0 {
			return ErrFailedOutbid
		}
	}

	tok, err := e.tokens.PaymentToken(a.PaymentToken)
	if err != nil {
		return err
	}
	// Pull the new bid first, then refund the outgoing leader from custody.
	// The refund happens even when the same address outbids itself.
	if err := tok.TransferFrom(caller, e.operator, bid); err != nil {
		return fmt.Errorf("auction: bid transfer failed: %w", err)
	}
	if a.HasBid() {
		if err := tok.Transfer(a.HighestBidder, a.HighestBid); err != nil {
			// Undo the pull so the failed call leaves no net movement.
			if compErr := tok.Transfer(caller, bid); compErr != nil {
				return fmt.Errorf("auction: refund failed (%v) and bid return failed: %w", err, compErr)
			}
			return fmt.Errorf("auction: refund of previous bid failed: %w", err)
		}
		a.EscrowedPot = new(big.Int).Sub(a.EscrowedPot, a.HighestBid)
	}
	a.EscrowedPot = new(big.Int).Add(a.EscrowedPot, bid)
	a.HighestBidder = caller
	a.HighestBid = bid
	if err := e.state.AuctionPut(a); err != nil {
		return err
	}
	e.emit(NewBidPlacedEvent(a))
	return nil
}

// WithdrawFunds lets the seller pull escrowed proceeds ahead of settlement.
// The withdrawn counter keeps the pot's outstanding obligation visible so
// returnFunds stays bounded.
func (e *Engine) WithdrawFunds(caller [20]byte, assetContract [20]byte, assetID [32]byte, amount *big.Int) error {
	if err := e.ready(); err != nil {
		return err
	}
	id := AuctionID(assetContract, assetID)
	if err := e.lock(id); err != nil {
		return err
	}
	defer e.unlock(id)

	a, err := e.loadCreated(id)
	if err != nil {
		return err
	}
	if a.Seller != caller {
		return ErrNotAuctionOwner
	}
	if a.Ended {
		return ErrAuctionEnded
	}
	amt := cloneBigInt(amount)
	if amt.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if amt.Cmp(a.EscrowedPot) > 0 {
		return ErrNotEnoughFunds
	}
	tok, err := e.tokens.PaymentToken(a.PaymentToken)
	if err != nil {
		return err
	}
	if err := tok.Transfer(a.Seller, amt); err != nil {
		return fmt.Errorf("auction: withdraw transfer failed: %w", err)
	}
	a.EscrowedPot = new(big.Int).Sub(a.EscrowedPot, amt)
	a.WithdrawnBySeller = new(big.Int).Add(a.WithdrawnBySeller, amt)
	if err := e.state.AuctionPut(a); err != nil {
		return err
	}
	e.emit(NewFundsWithdrawnEvent(a, amt))
	return nil
}

// ReturnFunds is the inverse of WithdrawFunds, bounded by the cumulative
// withdrawn counter. The seller must pre-approve the allowance pull.
func (e *Engine) ReturnFunds(caller [20]byte, assetContract [20]byte, assetID [32]byte, amount *big.Int) error {
	if err := e.ready(); err != nil {
		return err
	}
	id := AuctionID(assetContract, assetID)
	if err := e.lock(id); err != nil {
		return err
	}
	defer e.unlock(id)

	a, err := e.loadCreated(id)
	if err != nil {
		return err
	}
	if a.Seller != caller {
		return ErrNotAuctionOwner
	}
	if a.Ended {
		return ErrAuctionEnded
	}
	amt := cloneBigInt(amount)
	if amt.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if amt.Cmp(a.WithdrawnBySeller) > 0 {
		return ErrReturnExceeds
	}
	tok, err := e.tokens.PaymentToken(a.PaymentToken)
	if err != nil {
		return err
	}
	if err := tok.TransferFrom(a.Seller, e.operator, amt); err != nil {
		return fmt.Errorf("auction: return transfer failed: %w", err)
	}
	a.EscrowedPot = new(big.Int).Add(a.EscrowedPot, amt)
	a.WithdrawnBySeller = new(big.Int).Sub(a.WithdrawnBySeller, amt)
	if err := e.state.AuctionPut(a); err != nil {
		return err
	}
	e.emit(NewFundsReturnedEvent(a, amt))
	return nil
}

// End settles the auction once the bidding window has elapsed: the
// collectible moves from the seller to the highest bidder under the operator
// approval, the remaining pot is swept to the seller, and the record is
// marked ended. A failed collectible transfer aborts before any state flip so
// the call can be retried once custody or approval is restored.
func (e *Engine) End(caller [20]byte, assetContract [20]byte, assetID [32]byte) error {
	if err := e.ready(); err != nil {
		return err
	}
	id := AuctionID(assetContract, assetID)
	if err := e.lock(id); err != nil {
		return err
	}
	defer e.unlock(id)

	a, err := e.loadCreated(id)
	if err != nil {
		return err
	}
	if a.Ended {
		return ErrAuctionEnded
	}
	if e.now() < a.EndTime {
		return ErrAuctionRunning
	}
	if !a.HasBid() {
		return ErrNoBids
	}

	switch a.Model {
	case AssetUniqueUnit:
		binding, err := e.tokens.UniqueUnitToken(a.AssetContract)
		if err != nil {
			return err
		}
		owner, err := binding.OwnerOf(a.AssetID)
		if err != nil {
			return err
		}
		if owner != a.Seller {
			return ErrAssetCustody
		}
		if err := binding.TransferFrom(a.Seller, a.HighestBidder, a.AssetID); err != nil {
			return fmt.Errorf("auction: asset transfer failed: %w", err)
		}
	case AssetMultiUnit:
		binding, err := e.tokens.MultiUnitToken(a.AssetContract)
		if err != nil {
			return err
		}
		held, err := binding.BalanceOf(a.Seller, a.AssetID)
		if err != nil {
			return err
		}
		if held.Sign() <= 0 {
			return ErrAssetCustody
		}
		if err := binding.SafeTransferFrom(a.Seller, a.HighestBidder, a.AssetID, held); err != nil {
			return fmt.Errorf("auction: asset transfer failed: %w", err)
		}
	default:
		return ErrInvalidAssetModel
	}

	// Sweep the residual pot to the seller so no funds stay stuck behind an
	// ended record.
	if a.EscrowedPot.Sign() > 0 {
		tok, err := e.tokens.PaymentToken(a.PaymentToken)
		if err != nil {
			return err
		}
		if err := tok.Transfer(a.Seller, a.EscrowedPot); err != nil {
			return fmt.Errorf("auction: settlement payout failed: %w", err)
		}
		a.EscrowedPot = big.NewInt(0)
	}
	a.Ended = true
	if err := e.state.AuctionPut(a); err != nil {
		return err
	}
	e.emit(NewEndedEvent(a))
	return nil
}
