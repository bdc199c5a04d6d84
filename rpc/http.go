package rpc

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"gamehub/core"
	"gamehub/native/economy"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
	authTokenEnv    = "HUB_RPC_TOKEN"

	clientRateLimit = rate.Limit(20)
	clientRateBurst = 40
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeUnauthorized   = -32001
	codeServerError    = -32000
	codeRejected       = -32010
	codeRateLimited    = -32020
)

// Server exposes the hub session over JSON-RPC 2.0. Read and player
// operations are open; admin methods require the bearer token from
// HUB_RPC_TOKEN.
type Server struct {
	session   *core.Session
	authToken string

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewServer builds a server bound to the supplied session.
func NewServer(session *core.Session) *Server {
	return &Server{
		session:   session,
		authToken: strings.TrimSpace(os.Getenv(authTokenEnv)),
		limiters:  make(map[string]*rate.Limiter),
	}
}

// Handler returns the HTTP handler serving the JSON-RPC endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handle)
	return mux
}

// Start serves JSON-RPC on the supplied address until the listener fails.
func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.Handler())
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
	w.Header().Set("Content-Type", "application/json")
	if status > 0 && status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	_ = json.NewEncoder(w).Encode(RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj})
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result})
}

// writeRejection encodes an engine rejection. Rejections are ordinary
// business outcomes, so the transport status stays 200 and the stable
// reason label rides in the error data.
func writeRejection(w http.ResponseWriter, id interface{}, err error) {
	writeError(w, http.StatusOK, id, codeRejected, err.Error(), map[string]string{
		"reason": economy.RejectionReason(err),
	})
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, nil, codeInvalidRequest, "POST required", nil)
		return
	}
	if !s.allow(r) {
		writeError(w, http.StatusTooManyRequests, nil, codeRateLimited, "rate limit exceeded", nil)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "unable to read request body", nil)
		return
	}
	var req RPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON payload", err.Error())
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported JSON-RPC version", nil)
		return
	}

	switch req.Method {
	case "hub_getState":
		s.handleGetState(w, &req)
	case "hub_getPlayer":
		s.handleGetPlayer(w, &req)
	case "hub_getEvents":
		s.handleGetEvents(w, &req)
	case "hub_deposit":
		s.handleDeposit(w, &req)
	case "hub_withdraw":
		s.handleWithdraw(w, &req)
	case "hub_stageEntry":
		s.handleStageEntry(w, &req)
	case "hub_stagePurchase":
		s.handleStagePurchase(w, &req)
	case "hub_confirm":
		s.handleConfirm(w, &req)
	case "hub_cancel":
		s.handleCancel(w, &req)
	case "hub_simulateWin":
		s.handleSimulateWin(w, &req)
	case "hub_endCoinGame":
		s.handleEndCoinGame(w, &req)
	case "hub_setParameter":
		if !s.requireAuth(w, r, &req) {
			return
		}
		s.handleSetParameter(w, &req)
	case "hub_grantTokens":
		if !s.requireAuth(w, r, &req) {
			return
		}
		s.handleGrantTokens(w, &req)
	default:
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, fmt.Sprintf("unknown method %q", req.Method), nil)
	}
}

// requireAuth gates admin methods behind the configured bearer token. A
// server started without HUB_RPC_TOKEN refuses every admin call.
func (s *Server) requireAuth(w http.ResponseWriter, r *http.Request, req *RPCRequest) bool {
	if s.authToken == "" {
		writeError(w, http.StatusUnauthorized, req.ID, codeUnauthorized, "admin methods disabled: no auth token configured", nil)
		return false
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		writeError(w, http.StatusUnauthorized, req.ID, codeUnauthorized, "bearer token required", nil)
		return false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
		writeError(w, http.StatusUnauthorized, req.ID, codeUnauthorized, "invalid auth token", nil)
		return false
	}
	return true
}

func (s *Server) allow(r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	s.mu.Lock()
	limiter, ok := s.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(clientRateLimit, clientRateBurst)
		s.limiters[host] = limiter
	}
	s.mu.Unlock()
	return limiter.Allow()
}

// decodeParams unmarshals the single parameter object expected by every
// mutating method.
func decodeParams(req *RPCRequest, out interface{}) error {
	if len(req.Params) != 1 {
		return errors.New("exactly one parameter object expected")
	}
	return json.Unmarshal(req.Params[0], out)
}
