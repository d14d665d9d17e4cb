package rpc

import (
	"net/http"

	"github.com/PRIVI-Social-apps/privi-nft-auction/native/token"
)

// Devnet token methods. They operate on the in-process ledgers the daemon
// seeds at boot and exist so a deployment can be exercised end to end without
// external custody contracts. Each resolves the registry binding and requires
// it to be a local ledger; bindings to real contracts reject the call.

type tokenMintParams struct {
	Token  string `json:"token"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type tokenApproveParams struct {
	Token   string `json:"token"`
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

type tokenMintUniqueParams struct {
	Token   string `json:"token"`
	To      string `json:"to"`
	AssetID string `json:"assetId"`
}

type tokenMintMultiParams struct {
	Token    string `json:"token"`
	To       string `json:"to"`
	AssetID  string `json:"assetId"`
	Quantity string `json:"quantity"`
}

type tokenApprovalForAllParams struct {
	Token    string `json:"token"`
	Owner    string `json:"owner"`
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

type tokenBalanceOfParams struct {
	Token string `json:"token"`
	Owner string `json:"owner"`
}

func (s *Server) invalidTokenParams(w http.ResponseWriter, req *RPCRequest, detail string) string {
	writeError(w, http.StatusOK, req.ID, codeAuctionInvalidParams, "invalid params", detail)
	return "invalid_params"
}

func (s *Server) handleTokenMint(w http.ResponseWriter, req *RPCRequest) string {
	var p tokenMintParams
	if err := decodeParams(req, &p); err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	addr, err := parseAddress(p.Token)
	if err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	to, err := parseAddress(p.To)
	if err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	amount, err := parseAmount(p.Amount)
	if err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	binding, err := s.tokens.PaymentToken(addr)
	if err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionNotFound, err.Error(), nil)
		return "not_found"
	}
	ledger, ok := binding.(*token.FungibleLedger)
	if !ok {
		return s.invalidTokenParams(w, req, "minting requires a local devnet ledger")
	}
	if err := ledger.Mint(to, amount); err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionConflict, err.Error(), nil)
		return "conflict"
	}
	writeResult(w, req.ID, map[string]string{"status": "ok"})
	return ""
}

func (s *Server) handleTokenApprove(w http.ResponseWriter, req *RPCRequest) string {
	var p tokenApproveParams
	if err := decodeParams(req, &p); err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	addr, err := parseAddress(p.Token)
	if err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	owner, err := parseAddress(p.Owner)
	if err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	spender, err := parseAddress(p.Spender)
	if err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	amount, err := parseAmount(p.Amount)
	if err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	binding, err := s.tokens.PaymentToken(addr)
	if err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionNotFound, err.Error(), nil)
		return "not_found"
	}
	ledger, ok := binding.(*token.FungibleLedger)
	if !ok {
		return s.invalidTokenParams(w, req, "approvals require a local devnet ledger")
	}
	if err := ledger.Approve(owner, spender, amount); err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionConflict, err.Error(), nil)
		return "conflict"
	}
	writeResult(w, req.ID, map[string]string{"status": "ok"})
	return ""
}

func (s *Server) handleTokenMintUnique(w http.ResponseWriter, req *RPCRequest) string {
	var p tokenMintUniqueParams
	if err := decodeParams(req, &p); err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	addr, err := parseAddress(p.Token)
	if err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	to, err := parseAddress(p.To)
	if err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	assetID, err := parseAssetID(p.AssetID)
	if err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	binding, err := s.tokens.UniqueUnitToken(addr)
	if err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionNotFound, err.Error(), nil)
		return "not_found"
	}
	ledger, ok := binding.(*token.UniqueUnitLedger)
	if !ok {
		return s.invalidTokenParams(w, req, "minting requires a local devnet ledger")
	}
	if err := ledger.Mint(to, assetID); err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionConflict, err.Error(), nil)
		return "conflict"
	}
	writeResult(w, req.ID, map[string]string{"status": "ok"})
	return ""
}

func (s *Server) handleTokenMintMulti(w http.ResponseWriter, req *RPCRequest) string {
	var p tokenMintMultiParams
	if err := decodeParams(req, &p); err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	addr, err := parseAddress(p.Token)
	if err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	to, err := parseAddress(p.To)
	if err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	assetID, err := parseAssetID(p.AssetID)
	if err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	quantity, err := parseAmount(p.Quantity)
	if err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	binding, err := s.tokens.MultiUnitToken(addr)
	if err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionNotFound, err.Error(), nil)
		return "not_found"
	}
	ledger, ok := binding.(*token.MultiUnitLedger)
	if !ok {
		return s.invalidTokenParams(w, req, "minting requires a local devnet ledger")
	}
	if err := ledger.Mint(to, assetID, quantity); err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionConflict, err.Error(), nil)
		return "conflict"
	}
	writeResult(w, req.ID, map[string]string{"status": "ok"})
	return ""
}

func (s *Server) handleTokenSetApprovalForAll(w http.ResponseWriter, req *RPCRequest) string {
	var p tokenApprovalForAllParams
	if err := decodeParams(req, &p); err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	addr, err := parseAddress(p.Token)
	if err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	owner, err := parseAddress(p.Owner)
	if err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	operator, err := parseAddress(p.Operator)
	if err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	if binding, err := s.tokens.UniqueUnitToken(addr); err == nil {
		ledger, ok := binding.(*token.UniqueUnitLedger)
		if !ok {
			return s.invalidTokenParams(w, req, "approvals require a local devnet ledger")
		}
		ledger.SetApprovalForAll(owner, operator, p.Approved)
		writeResult(w, req.ID, map[string]string{"status": "ok"})
		return ""
	}
	if binding, err := s.tokens.MultiUnitToken(addr); err == nil {
		ledger, ok := binding.(*token.MultiUnitLedger)
		if !ok {
			return s.invalidTokenParams(w, req, "approvals require a local devnet ledger")
		}
		ledger.SetApprovalForAll(owner, operator, p.Approved)
		writeResult(w, req.ID, map[string]string{"status": "ok"})
		return ""
	}
	writeError(w, http.StatusOK, req.ID, codeAuctionNotFound, token.ErrNoTokenAtAddress.Error(), nil)
	return "not_found"
}

func (s *Server) handleTokenBalanceOf(w http.ResponseWriter, req *RPCRequest) string {
	var p tokenBalanceOfParams
	if err := decodeParams(req, &p); err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	addr, err := parseAddress(p.Token)
	if err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	owner, err := parseAddress(p.Owner)
	if err != nil {
		return s.invalidTokenParams(w, req, err.Error())
	}
	binding, err := s.tokens.PaymentToken(addr)
	if err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionNotFound, err.Error(), nil)
		return "not_found"
	}
	balance, err := binding.BalanceOf(owner)
	if err != nil {
		writeError(w, http.StatusOK, req.ID, codeAuctionInternal, err.Error(), nil)
		return "internal"
	}
	writeResult(w, req.ID, map[string]string{"balance": balance.String()})
	return ""
}
