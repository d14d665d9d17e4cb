package auction

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PRIVI-Social-apps/privi-nft-auction/storage"
)

func TestStoreRoundTrip(t *testing.T) {
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	store := NewStore(db)

	a := testAuction()
	a.WithdrawnBySeller = big.NewInt(300)
	require.NoError(t, store.AuctionPut(a))

	stored, ok := store.AuctionGet(a.ID())
	require.True(t, ok)
	require.Equal(t, a.Seller, stored.Seller)
	require.Equal(t, a.Model, stored.Model)
	require.Zero(t, stored.StartBidPrice.Cmp(big.NewInt(1000)))
	require.Zero(t, stored.WithdrawnBySeller.Cmp(big.NewInt(300)))
	require.True(t, stored.Created)
	require.NotSame(t, a.HighestBid, stored.HighestBid)
}

func TestStoreGetUnknownKey(t *testing.T) {
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	store := NewStore(db)

	_, ok := store.AuctionGet(newTestAssetID(0x99))
	require.False(t, ok)
}

func TestStorePutRejectsInvalidModel(t *testing.T) {
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	store := NewStore(db)

	a := testAuction()
	a.Model = AssetModel(7)
	require.Error(t, store.AuctionPut(a))
}
