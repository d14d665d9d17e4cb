package rpc

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/PRIVI-Social-apps/privi-nft-auction/native/auction"
)

type auctionCreateParams struct {
	Caller        string `json:"caller"`
	Model         uint8  `json:"model"`
	AssetContract string `json:"assetContract"`
	AssetID       string `json:"assetId"`
	StartBidPrice string `json:"startBidPrice"`
	StartTime     int64  `json:"startTime"`
	EndTime       int64  `json:"endTime"`
	MinBidStep    string `json:"minBidStep"`
	PaymentToken  string `json:"paymentToken"`
}

type auctionKeyParams struct {
	AssetContract string `json:"assetContract"`
	AssetID       string `json:"assetId"`
}

type auctionAmountParams struct {
	Caller        string `json:"caller"`
	AssetContract string `json:"assetContract"`
	AssetID       string `json:"assetId"`
	Amount        string `json:"amount"`
}

type auctionEndParams struct {
	Caller        string `json:"caller"`
	AssetContract string `json:"assetContract"`
	AssetID       string `json:"assetId"`
}

// auctionJSON is the wire view of an auction record: addresses and the asset
// id as 0x-hex, amounts as decimal strings.
type auctionJSON struct {
	AuctionID         string `json:"auctionId"`
	AssetContract     string `json:"assetContract"`
	AssetID           string `json:"assetId"`
	Model             uint8  `json:"model"`
	Seller            string `json:"seller"`
	StartBidPrice     string `json:"startBidPrice"`
	MinBidStep        string `json:"minBidStep"`
	StartTime         int64  `json:"startTime"`
	EndTime           int64  `json:"endTime"`
	PaymentToken      string `json:"paymentToken"`
	HighestBidder     string `json:"highestBidder,omitempty"`
	HighestBid        string `json:"highestBid"`
	EscrowedPot       string `json:"escrowedPot"`
	WithdrawnBySeller string `json:"withdrawnBySeller"`
	Ended             bool   `json:"ended"`
	CreatedAt         int64  `json:"createdAt"`
}

func auctionToJSON(a *auction.Auction) *auctionJSON {
	id := a.ID()
	view := &auctionJSON{
		AuctionID:         "0x" + hex.EncodeToString(id[:]),
		AssetContract:     common.BytesToAddress(a.AssetContract[:]).Hex(),
		AssetID:           "0x" + hex.EncodeToString(a.AssetID[:]),
		Model:             uint8(a.Model),
		Seller:            common.BytesToAddress(a.Seller[:]).Hex(),
		StartBidPrice:     a.StartBidPrice.String(),
		MinBidStep:        a.MinBidStep.String(),
		StartTime:         a.StartTime,
		EndTime:           a.EndTime,
		PaymentToken:      common.BytesToAddress(a.PaymentToken[:]).Hex(),
		HighestBid:        a.HighestBid.String(),
		EscrowedPot:       a.EscrowedPot.String(),
		WithdrawnBySeller: a.WithdrawnBySeller.String(),
		Ended:             a.Ended,
		CreatedAt:         a.CreatedAt,
	}
	if a.HasBid() {
		view.HighestBidder = common.BytesToAddress(a.HighestBidder[:]).Hex()
	}
	return view
}

func parseAddress(raw string) ([20]byte, error) {
	if !common.IsHexAddress(raw) {
		return [20]byte{}, errors.New("invalid address: " + strconv.Quote(raw))
	}
	return common.HexToAddress(raw), nil
}

func parseAssetID(raw string) ([32]byte, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	if len(trimmed) != 64 {
		return [32]byte{}, errors.New("asset id must be 32 bytes of hex")
	}
	decoded, err := hex.DecodeString(trimmed)
	if err != nil {
		return [32]byte{}, errors.New("asset id must be 32 bytes of hex")
	}
	var id [32]byte
	copy(id[:], decoded)
	return id, nil
}

func parseAmount(raw string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
	if !ok || v.Sign() < 0 {
		return nil, errors.New("amount must be a non-negative decimal string")
	}
	return v, nil
}

func decodeParams(req *RPCRequest, out interface{}) error {
	if len(req.Params) != 1 {
		return errors.New("expected a single params object")
	}
	return json.Unmarshal(req.Params[0], out)
}

// engineErrorCode maps an engine failure onto the module's JSON-RPC code
// blocks and a stable metrics label.
func engineErrorCode(err error) (int, string) {
	switch {
	case errors.Is(err, auction.ErrAuctionNotFound):
		return codeAuctionNotFound, "not_found"
	case errors.Is(err, auction.ErrCallerNotOwner),
		errors.Is(err, auction.ErrOwnerNotApproved),
		errors.Is(err, auction.ErrNotAuctionOwner),
		errors.Is(err, auction.ErrNoContracts):
		return codeAuctionForbidden, "forbidden"
	case errors.Is(err, auction.ErrInvalidAssetModel),
		errors.Is(err, auction.ErrInvalidAmount),
		errors.Is(err, auction.ErrEndBeforeStart),
		errors.Is(err, auction.ErrEndTimePassed):
		return codeAuctionInvalidParams, "invalid_params"
	case errors.Is(err, auction.ErrAuctionExists),
		errors.Is(err, auction.ErrAuctionEnded),
		errors.Is(err, auction.ErrAuctionRunning),
		errors.Is(err, auction.ErrBidBelowStart),
		errors.Is(err, auction.ErrFailedOutbid),
		errors.Is(err, auction.ErrNotEnoughFunds),
		errors.Is(err, auction.ErrReturnExceeds),
		errors.Is(err, auction.ErrNoBids),
		errors.Is(err, auction.ErrAssetCustody),
		errors.Is(err, auction.ErrReentrantCall):
		return codeAuctionConflict, "conflict"
	default:
		return codeAuctionInternal, "internal"
	}
}

func writeEngineError(w http.ResponseWriter, id interface{}, err error) string {
	code, label := engineErrorCode(err)
	writeError(w, http.StatusOK, id, code, err.Error(), nil)
	return label
}

func (s *Server) handleAuctionCreate(w http.ResponseWriter, req *RPCRequest) string {
	var p auctionCreateParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionInvalidParams, "invalid params", err.Error())
		return "invalid_params"
	}
	caller, err := parseAddress(p.Caller)
	if err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionInvalidParams, "invalid params", err.Error())
		return "invalid_params"
	}
	contract, err := parseAddress(p.AssetContract)
	if err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionInvalidParams, "invalid params", err.Error())
		return "invalid_params"
	}
	assetID, err := parseAssetID(p.AssetID)
	if err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionInvalidParams, "invalid params", err.Error())
		return "invalid_params"
	}
	payment, err := parseAddress(p.PaymentToken)
	if err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionInvalidParams, "invalid params", err.Error())
		return "invalid_params"
	}
	price, err := parseAmount(p.StartBidPrice)
	if err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionInvalidParams, "invalid params", err.Error())
		return "invalid_params"
	}
	step, err := parseAmount(p.MinBidStep)
	if err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionInvalidParams, "invalid params", err.Error())
		return "invalid_params"
	}

	created, err := s.engine.Create(caller, auction.AssetModel(p.Model), contract, assetID, price, p.StartTime, p.EndTime, step, payment)
	if err != nil {
		return writeEngineError(w, req.ID, err)
	}
	writeResult(w, req.ID, auctionToJSON(created))
	return ""
}

func (s *Server) handleAuctionGet(w http.ResponseWriter, req *RPCRequest) string {
	var p auctionKeyParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionInvalidParams, "invalid params", err.Error())
		return "invalid_params"
	}
	contract, err := parseAddress(p.AssetContract)
	if err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionInvalidParams, "invalid params", err.Error())
		return "invalid_params"
	}
	assetID, err := parseAssetID(p.AssetID)
	if err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionInvalidParams, "invalid params", err.Error())
		return "invalid_params"
	}
	a, ok := s.engine.Get(contract, assetID)
	if !ok {
		writeError(w, http.StatusOK, req.ID, codeAuctionNotFound, auction.ErrAuctionNotFound.Error(), nil)
		return "not_found"
	}
	writeResult(w, req.ID, auctionToJSON(a))
	return ""
}

func (s *Server) amountCall(w http.ResponseWriter, req *RPCRequest, call func(caller [20]byte, contract [20]byte, assetID [32]byte, amount *big.Int) error) string {
	var p auctionAmountParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionInvalidParams, "invalid params", err.Error())
		return "invalid_params"
	}
	caller, err := parseAddress(p.Caller)
	if err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionInvalidParams, "invalid params", err.Error())
		return "invalid_params"
	}
	contract, err := parseAddress(p.AssetContract)
	if err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionInvalidParams, "invalid params", err.Error())
		return "invalid_params"
	}
	assetID, err := parseAssetID(p.AssetID)
	if err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionInvalidParams, "invalid params", err.Error())
		return "invalid_params"
	}
	amount, err := parseAmount(p.Amount)
	if err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionInvalidParams, "invalid params", err.Error())
		return "invalid_params"
	}
	if err := call(caller, contract, assetID, amount); err != nil {
		return writeEngineError(w, req.ID, err)
	}
	writeResult(w, req.ID, map[string]string{"status": "ok"})
	return ""
}

func (s *Server) handleAuctionPlaceBid(w http.ResponseWriter, req *RPCRequest) string {
	return s.amountCall(w, req, s.engine.PlaceBid)
}

func (s *Server) handleAuctionWithdrawFunds(w http.ResponseWriter, req *RPCRequest) string {
	return s.amountCall(w, req, s.engine.WithdrawFunds)
}

func (s *Server) handleAuctionReturnFunds(w http.ResponseWriter, req *RPCRequest) string {
	return s.amountCall(w, req, s.engine.ReturnFunds)
}

func (s *Server) handleAuctionEnd(w http.ResponseWriter, req *RPCRequest) string {
	var p auctionEndParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionInvalidParams, "invalid params", err.Error())
		return "invalid_params"
	}
	caller, err := parseAddress(p.Caller)
	if err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionInvalidParams, "invalid params", err.Error())
		return "invalid_params"
	}
	contract, err := parseAddress(p.AssetContract)
	if err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionInvalidParams, "invalid params", err.Error())
		return "invalid_params"
	}
	assetID, err := parseAssetID(p.AssetID)
	if err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionInvalidParams, "invalid params", err.Error())
		return "invalid_params"
	}
	if err := s.engine.End(caller, contract, assetID); err != nil {
		return writeEngineError(w, req.ID, err)
	}
	writeResult(w, req.ID, map[string]string{"status": "ended"})
	return ""
}
