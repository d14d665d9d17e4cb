package auction

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/PRIVI-Social-apps/privi-nft-auction/storage"
)

const auctionKeyPrefix = "auction/"

// Store persists sanitized auction records into a key-value database. It
// satisfies the engine's state interface so the daemon can run over LevelDB
// and tests over MemDB.
type Store struct {
	db storage.Database
}

func NewStore(db storage.Database) *Store {
	return &Store{db: db}
}

func auctionKey(id [32]byte) []byte {
	return []byte(auctionKeyPrefix + hex.EncodeToString(id[:]))
}

// AuctionPut validates and stores the record under its derived key.
func (s *Store) AuctionPut(a *Auction) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("auction store: database not configured")
	}
	sanitized, err := SanitizeAuction(a)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(sanitized)
	if err != nil {
		return err
	}
	return s.db.Put(auctionKey(sanitized.ID()), raw)
}

// AuctionGet loads the record for the given identifier. The returned value is
// owned by the caller.
func (s *Store) AuctionGet(id [32]byte) (*Auction, bool) {
	if s == nil || s.db == nil {
		return nil, false
	}
	raw, err := s.db.Get(auctionKey(id))
	if err != nil {
		return nil, false
	}
	a := new(Auction)
	if err := json.Unmarshal(raw, a); err != nil {
		return nil, false
	}
	sanitized, err := SanitizeAuction(a)
	if err != nil {
		return nil, false
	}
	return sanitized, true
}
