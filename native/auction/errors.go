package auction

import "errors"

// Every caller-facing failure carries a stable identifying message so API
// clients can match on it. Precondition order within each operation is part
// of the contract: the first violated condition determines the error.
var (
	// createAuction preconditions, in check order.
	ErrCallerNotOwner   = errors.New("auction: caller is not the owner")
	ErrOwnerNotApproved = errors.New("auction: owner has not approved")
	ErrEndBeforeStart   = errors.New("auction: end time must be greater than start")
	ErrEndTimePassed    = errors.New("auction: end time passed, nobody can bid")
	ErrAuctionExists    = errors.New("auction: auction already exists")

	// Cross-cutting lifecycle guards.
	ErrAuctionNotFound = errors.New("auction: auction does not exist")
	ErrNotAuctionOwner = errors.New("auction: not auction owner")
	ErrAuctionEnded    = errors.New("auction: auction already ended")

	// placeBid.
	ErrNoContracts   = errors.New("auction: no contracts permitted")
	ErrBidBelowStart = errors.New("auction: bid amount should be higher than start price")
	ErrFailedOutbid  = errors.New("auction: failed to outbid highest bidder")

	// Seller ledger.
	ErrNotEnoughFunds = errors.New("auction: not enough funds")
	ErrReturnExceeds  = errors.New("auction: auction owner has not enough return amount")

	// endAuction.
	ErrAuctionRunning = errors.New("auction: end time not reached")
	ErrNoBids         = errors.New("auction: no bids to settle")
	ErrAssetCustody   = errors.New("auction: seller no longer holds the asset")

	// Parameter and concurrency violations.
	ErrInvalidAssetModel = errors.New("auction: unsupported asset model")
	ErrInvalidAmount     = errors.New("auction: amount must be positive")
	ErrReentrantCall     = errors.New("auction: reentrant call")
)
