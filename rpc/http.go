package rpc

import (
	"crypto/subtle"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PRIVI-Social-apps/privi-nft-auction/native/auction"
	nativecommon "github.com/PRIVI-Social-apps/privi-nft-auction/native/common"
	"github.com/PRIVI-Social-apps/privi-nft-auction/native/token"
	"github.com/PRIVI-Social-apps/privi-nft-auction/observability"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeUnauthorized   = -32001
	codeRateLimited    = -32020

	codeAuctionInvalidParams = -32021
	codeAuctionNotFound      = -32022
	codeAuctionForbidden     = -32023
	codeAuctionConflict      = -32024
	codeAuctionInternal      = -32025
)

// Server exposes the auction engine over JSON-RPC 2.0. Mutating methods
// require the bearer token from AUCTION_RPC_TOKEN; reads are open.
type Server struct {
	engine *auction.Engine
	tokens *token.Registry

	authToken string
	quota     nativecommon.Quota

	mu    sync.Mutex
	usage map[string]nativecommon.QuotaNow
}

// NewServer wires the RPC surface to an engine and the devnet token
// registry. quotaPerMin of zero disables rate limiting.
func NewServer(engine *auction.Engine, tokens *token.Registry, quotaPerMin uint32) *Server {
	return &Server{
		engine:    engine,
		tokens:    tokens,
		authToken: strings.TrimSpace(os.Getenv("AUCTION_RPC_TOKEN")),
		quota:     nativecommon.Quota{MaxRequestsPerEpoch: quotaPerMin, EpochSeconds: 60},
		usage:     make(map[string]nativecommon.QuotaNow),
	}
}

// Router assembles the HTTP routes: JSON-RPC on /, liveness on /healthz and
// prometheus metrics on /metrics.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/", s.handle)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

// Start serves the router until the listener fails.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      int               `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) requireAuth(r *http.Request) *RPCError {
	if s.authToken == "" {
		return nil
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return &RPCError{Code: codeUnauthorized, Message: "unauthorized", Data: "bearer token required"}
	}
	supplied := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(s.authToken)) != 1 {
		return &RPCError{Code: codeUnauthorized, Message: "unauthorized", Data: "invalid token"}
	}
	return nil
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) allow(r *http.Request) bool {
	if s.quota.MaxRequestsPerEpoch == 0 {
		return true
	}
	epoch := uint64(time.Now().Unix()) / uint64(s.quota.EpochSeconds)
	ip := clientIP(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := nativecommon.CheckQuota(s.quota, epoch, s.usage[ip], 1)
	if err != nil {
		return false
	}
	s.usage[ip] = next
	return true
}

func isMutating(method string) bool {
	switch method {
	case "auction_get", "token_balanceOf":
		return false
	default:
		return true
	}
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	var req RPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "parse_error", err.Error())
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "invalid_request", "unsupported jsonrpc version")
		return
	}
	if !s.allow(r) {
		writeError(w, http.StatusTooManyRequests, req.ID, codeRateLimited, "rate_limited", "per-minute request quota exceeded")
		return
	}
	if isMutating(req.Method) {
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			observability.ModuleMetrics().Observe(req.Method, "unauthorized", 0)
			return
		}
	}

	start := time.Now()
	var errCode string
	switch req.Method {
	case "auction_create":
		errCode = s.handleAuctionCreate(w, &req)
	case "auction_get":
		errCode = s.handleAuctionGet(w, &req)
	case "auction_placeBid":
		errCode = s.handleAuctionPlaceBid(w, &req)
	case "auction_withdrawFunds":
		errCode = s.handleAuctionWithdrawFunds(w, &req)
	case "auction_returnFunds":
		errCode = s.handleAuctionReturnFunds(w, &req)
	case "auction_end":
		errCode = s.handleAuctionEnd(w, &req)
	case "token_mint":
		errCode = s.handleTokenMint(w, &req)
	case "token_approve":
		errCode = s.handleTokenApprove(w, &req)
	case "token_mintUnique":
		errCode = s.handleTokenMintUnique(w, &req)
	case "token_mintMulti":
		errCode = s.handleTokenMintMulti(w, &req)
	case "token_setApprovalForAll":
		errCode = s.handleTokenSetApprovalForAll(w, &req)
	case "token_balanceOf":
		errCode = s.handleTokenBalanceOf(w, &req)
	default:
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, "method_not_found", req.Method)
		errCode = "method_not_found"
	}
	observability.ModuleMetrics().Observe(req.Method, errCode, time.Since(start))
}
