package auction

import (
	"encoding/hex"
	"math/big"
	"strconv"

	"github.com/PRIVI-Social-apps/privi-nft-auction/core/types"
)

const (
	EventTypeAuctionCreated = "auction.created"
	EventTypeBidPlaced      = "auction.bid_placed"
	EventTypeFundsWithdrawn = "auction.funds_withdrawn"
	EventTypeFundsReturned  = "auction.funds_returned"
	EventTypeAuctionEnded   = "auction.ended"
)

// NewCreatedEvent returns the canonical payload for a newly listed auction.
func NewCreatedEvent(a *Auction) *types.Event {
	return newAuctionEvent(EventTypeAuctionCreated, a, nil)
}

// NewBidPlacedEvent returns the payload emitted when a bid becomes the new
// leader.
func NewBidPlacedEvent(a *Auction) *types.Event {
	return newAuctionEvent(EventTypeBidPlaced, a, nil)
}

// NewFundsWithdrawnEvent returns the payload for a seller withdrawal of
// escrowed proceeds.
func NewFundsWithdrawnEvent(a *Auction, amount *big.Int) *types.Event {
	return newAuctionEvent(EventTypeFundsWithdrawn, a, amount)
}

// NewFundsReturnedEvent returns the payload for a seller repayment into
// escrow.
func NewFundsReturnedEvent(a *Auction, amount *big.Int) *types.Event {
	return newAuctionEvent(EventTypeFundsReturned, a, amount)
}

// NewEndedEvent returns the payload emitted at settlement.
func NewEndedEvent(a *Auction) *types.Event {
	return newAuctionEvent(EventTypeAuctionEnded, a, nil)
}

func newAuctionEvent(eventType string, a *Auction, amount *big.Int) *types.Event {
	attrs := make(map[string]string)
	if a == nil {
		return &types.Event{Type: eventType, Attributes: attrs}
	}
	sanitized, err := SanitizeAuction(a)
	if err != nil {
		return &types.Event{Type: eventType, Attributes: attrs}
	}
	attrs["assetContract"] = hex.EncodeToString(sanitized.AssetContract[:])
	attrs["assetId"] = hex.EncodeToString(sanitized.AssetID[:])
	attrs["model"] = sanitized.Model.String()
	attrs["seller"] = hex.EncodeToString(sanitized.Seller[:])
	attrs["startBidPrice"] = sanitized.StartBidPrice.String()
	attrs["escrowedPot"] = sanitized.EscrowedPot.String()
	attrs["withdrawnBySeller"] = sanitized.WithdrawnBySeller.String()
	attrs["endTime"] = strconv.FormatInt(sanitized.EndTime, 10)
	if sanitized.HasBid() {
		attrs["highestBidder"] = hex.EncodeToString(sanitized.HighestBidder[:])
		attrs["highestBid"] = sanitized.HighestBid.String()
	}
	if amount != nil {
		attrs["amount"] = amount.String()
	}
	return &types.Event{Type: eventType, Attributes: attrs}
}
