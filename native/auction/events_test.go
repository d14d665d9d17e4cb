package auction

import (
	"math/big"
	"testing"
)

func testAuction() *Auction {
	return &Auction{
		AssetContract:     newTestAddress(0xA1),
		AssetID:           newTestAssetID(0x22),
		Model:             AssetUniqueUnit,
		Seller:            newTestAddress(0x01),
		StartBidPrice:     big.NewInt(1000),
		MinBidStep:        big.NewInt(10),
		StartTime:         100,
		EndTime:           200,
		PaymentToken:      newTestAddress(0xC1),
		HighestBidder:     newTestAddress(0x02),
		HighestBid:        big.NewInt(1500),
		EscrowedPot:       big.NewInt(1500),
		WithdrawnBySeller: big.NewInt(0),
		Created:           true,
	}
}

func TestBidPlacedEventAttributes(t *testing.T) {
	evt := NewBidPlacedEvent(testAuction())
	if evt.Type != EventTypeBidPlaced {
		t.Fatalf("unexpected type %s", evt.Type)
	}
	if evt.Attributes["highestBid"] != "1500" {
		t.Fatalf("unexpected highestBid attribute: %q", evt.Attributes["highestBid"])
	}
	if evt.Attributes["escrowedPot"] != "1500" {
		t.Fatalf("unexpected escrowedPot attribute: %q", evt.Attributes["escrowedPot"])
	}
	if evt.Attributes["seller"] == "" || evt.Attributes["assetId"] == "" {
		t.Fatalf("identity attributes missing")
	}
}

func TestCreatedEventOmitsBidderBeforeFirstBid(t *testing.T) {
	a := testAuction()
	a.HighestBidder = [20]byte{}
	a.HighestBid = big.NewInt(0)
	a.EscrowedPot = big.NewInt(0)
	evt := NewCreatedEvent(a)
	if _, ok := evt.Attributes["highestBidder"]; ok {
		t.Fatalf("highestBidder must be absent before the first bid")
	}
}

func TestWithdrawnEventCarriesAmount(t *testing.T) {
	evt := NewFundsWithdrawnEvent(testAuction(), big.NewInt(700))
	if evt.Attributes["amount"] != "700" {
		t.Fatalf("unexpected amount attribute: %q", evt.Attributes["amount"])
	}
}

func TestEventFromNilAuction(t *testing.T) {
	evt := NewEndedEvent(nil)
	if evt.Type != EventTypeAuctionEnded || len(evt.Attributes) != 0 {
		t.Fatalf("nil auction must yield an empty payload")
	}
}
