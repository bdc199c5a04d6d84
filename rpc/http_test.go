package rpc

import (
	"bytes"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"gamehub/core"
	"gamehub/core/types"
)

func testSession() *core.Session {
	initial := (&types.LedgerState{
		Treasury: big.NewInt(500_000),
		Params: types.Parameters{
			EntryFeeHigh: big.NewInt(100_000),
			EntryFeeLow:  big.NewInt(5_000),
			RewardAmount: big.NewInt(150_000),
			ItemPrice:    50,
		},
		Player: types.PlayerState{
			Balance:      big.NewInt(10_000_000),
			RewardTokens: 100,
			Score:        42,
		},
	}).Normalize()
	return core.NewSession(initial, core.WithCoinSource(func() uint64 { return 20_000 }))
}

func call(t *testing.T, handler http.Handler, method string, params interface{}, headers map[string]string) (*RPCResponse, int) {
	t.Helper()
	req := RPCRequest{JSONRPC: jsonRPCVersion, Method: method, ID: 1}
	if params != nil {
		raw, err := json.Marshal(params)
		require.NoError(t, err)
		req.Params = []json.RawMessage{raw}
	}
	body, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httpReq)

	var resp RPCResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return &resp, rec.Code
}

func TestDepositRoundTrip(t *testing.T) {
	server := NewServer(testSession())
	handler := server.Handler()

	resp, status := call(t, handler, "hub_deposit", amountParams{Amount: "5000000"}, nil)
	require.Equal(t, http.StatusOK, status)
	require.Nil(t, resp.Error)

	resp, _ = call(t, handler, "hub_getState", nil, nil)
	require.Nil(t, resp.Error)
	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	var state stateResult
	require.NoError(t, json.Unmarshal(raw, &state))
	require.Equal(t, "5500000", state.Treasury)
	require.Equal(t, "15000000", state.Player.Balance)
	require.Equal(t, uint64(1), state.Operations)
}

func TestWithdrawRejectionCarriesReason(t *testing.T) {
	server := NewServer(testSession())

	resp, status := call(t, server.Handler(), "hub_withdraw", amountParams{Amount: "99000000"}, nil)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeRejected, resp.Error.Code)
	data, ok := resp.Error.Data.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "insufficient_player_balance", data["reason"])
}

func TestInvalidAmountParam(t *testing.T) {
	server := NewServer(testSession())

	resp, status := call(t, server.Handler(), "hub_deposit", amountParams{Amount: "five"}, nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeInvalidParams, resp.Error.Code)
}

func TestStageConfirmFlow(t *testing.T) {
	server := NewServer(testSession())
	handler := server.Handler()

	resp, _ := call(t, handler, "hub_stageEntry", stageEntryParams{LowStakes: true}, nil)
	require.Nil(t, resp.Error)
	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	var staged stageResult
	require.NoError(t, json.Unmarshal(raw, &staged))
	require.NotEmpty(t, staged.ID)
	require.Contains(t, staged.Prompt, "Coin Collection")

	resp, _ = call(t, handler, "hub_confirm", pendingParams{ID: staged.ID}, nil)
	require.Nil(t, resp.Error)

	// Replaying the confirm must fail without charging again.
	resp, _ = call(t, handler, "hub_confirm", pendingParams{ID: staged.ID}, nil)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeRejected, resp.Error.Code)
}

func TestAdminMethodsRequireToken(t *testing.T) {
	t.Setenv(authTokenEnv, "sekrit")
	server := NewServer(testSession())
	handler := server.Handler()

	resp, status := call(t, handler, "hub_setParameter", setParameterParams{Name: "itemPrice", Value: "75"}, nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, codeUnauthorized, resp.Error.Code)

	resp, status = call(t, handler, "hub_setParameter", setParameterParams{Name: "itemPrice", Value: "75"},
		map[string]string{"Authorization": "Bearer wrong"})
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, codeUnauthorized, resp.Error.Code)

	resp, status = call(t, handler, "hub_setParameter", setParameterParams{Name: "itemPrice", Value: "75"},
		map[string]string{"Authorization": "Bearer sekrit"})
	require.Equal(t, http.StatusOK, status)
	require.Nil(t, resp.Error)
}

func TestAdminMethodsDisabledWithoutToken(t *testing.T) {
	server := NewServer(testSession())

	resp, status := call(t, server.Handler(), "hub_grantTokens", grantTokensParams{Amount: "100"}, nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, codeUnauthorized, resp.Error.Code)
}

func TestUnknownMethod(t *testing.T) {
	server := NewServer(testSession())

	resp, status := call(t, server.Handler(), "hub_selfDestruct", nil, nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, codeMethodNotFound, resp.Error.Code)
}
