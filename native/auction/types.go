package auction

import (
	"fmt"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// AssetModel selects the custody protocol used for the auctioned collectible.
// The wire values match the model parameter accepted by createAuction.
type AssetModel uint8

const (
	// AssetUniqueUnit identifies collectibles where each id has exactly one
	// owner at a time.
	AssetUniqueUnit AssetModel = 1
	// AssetMultiUnit identifies collectibles where each id carries a
	// quantity that may be held by multiple owners.
	AssetMultiUnit AssetModel = 2
)

// Valid reports whether the model is one of the supported custody protocols.
func (m AssetModel) Valid() bool {
	switch m {
	case AssetUniqueUnit, AssetMultiUnit:
		return true
	default:
		return false
	}
}

func (m AssetModel) String() string {
	switch m {
	case AssetUniqueUnit:
		return "unique"
	case AssetMultiUnit:
		return "multi"
	default:
		return fmt.Sprintf("assetmodel(%d)", uint8(m))
	}
}

// Auction captures the registry record and escrow ledger for one listed
// asset. At most one live record exists per (asset contract, asset id) key;
// the engine derives the storage identifier from that pair so re-listings of
// the same asset collide deterministically.
type Auction struct {
	AssetContract [20]byte   `json:"assetContract"`
	AssetID       [32]byte   `json:"assetId"`
	Model         AssetModel `json:"model"`
	Seller        [20]byte   `json:"seller"`
	StartBidPrice *big.Int   `json:"startBidPrice"`
	MinBidStep    *big.Int   `json:"minBidStep"`
	StartTime     int64      `json:"startTime"`
	EndTime       int64      `json:"endTime"`
	PaymentToken  [20]byte   `json:"paymentToken"`

	// Escrow ledger. HighestBidder is the zero address until the first bid.
	HighestBidder     [20]byte `json:"highestBidder"`
	HighestBid        *big.Int `json:"highestBid"`
	EscrowedPot       *big.Int `json:"escrowedPot"`
	WithdrawnBySeller *big.Int `json:"withdrawnBySeller"`

	Created   bool  `json:"created"`
	Ended     bool  `json:"ended"`
	CreatedAt int64 `json:"createdAt"`
}

// AuctionID derives the storage identifier for an auction key as the
// keccak256 hash of the asset contract address and asset id.
func AuctionID(assetContract [20]byte, assetID [32]byte) [32]byte {
	return ethcrypto.Keccak256Hash(assetContract[:], assetID[:])
}

// ID returns the storage identifier of this record's key.
func (a *Auction) ID() [32]byte {
	return AuctionID(a.AssetContract, a.AssetID)
}

// HasBid reports whether any bid has been accepted yet.
func (a *Auction) HasBid() bool {
	return a != nil && a.HighestBidder != ([20]byte{})
}

// Clone returns a deep copy so callers can safely mutate the copy without
// affecting the stored instance.
func (a *Auction) Clone() *Auction {
	if a == nil {
		return nil
	}
	clone := *a
	clone.StartBidPrice = cloneBigInt(a.StartBidPrice)
	clone.MinBidStep = cloneBigInt(a.MinBidStep)
	clone.HighestBid = cloneBigInt(a.HighestBid)
	clone.EscrowedPot = cloneBigInt(a.EscrowedPot)
	clone.WithdrawnBySeller = cloneBigInt(a.WithdrawnBySeller)
	return &clone
}

// SanitizeAuction validates the supplied record and returns a cloned instance
// with non-nil amount fields. The original value is not mutated.
func SanitizeAuction(a *Auction) (*Auction, error) {
	if a == nil {
		return nil, fmt.Errorf("nil auction")
	}
	if !a.Model.Valid() {
		return nil, fmt.Errorf("invalid asset model: %d", a.Model)
	}
	clone := a.Clone()
	for name, amt := range map[string]*big.Int{
		"startBidPrice":     clone.StartBidPrice,
		"minBidStep":        clone.MinBidStep,
		"highestBid":        clone.HighestBid,
		"escrowedPot":       clone.EscrowedPot,
		"withdrawnBySeller": clone.WithdrawnBySeller,
	} {
		if amt.Sign() < 0 {
			return nil, fmt.Errorf("auction %s must be non-negative", name)
		}
	}
	return clone, nil
}

func cloneBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
