package routes

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"gamehub/core"
	"gamehub/core/types"
)

func newGateway(t *testing.T) (http.Handler, *core.Session) {
	t.Helper()
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
	session := core.NewSession(initial)
	return New(session), session
}

func get(t *testing.T, handler http.Handler, path string, out interface{}) int {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

func TestHubStateView(t *testing.T) {
	handler, _ := newGateway(t)

	var view hubStateView
	status := get(t, handler, "/hub/state", &view)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "500000", view.Treasury)
	require.Equal(t, "0.500000", view.TreasuryDisplay)
	require.Equal(t, "0.100000", view.EntryFeeHigh)
	require.Equal(t, uint64(50), view.ItemPrice)
}

func TestPlayerViewReflectsSession(t *testing.T) {
	handler, session := newGateway(t)
	_, err := session.Deposit(big.NewInt(1_000_000))
	require.NoError(t, err)

	var view playerView
	status := get(t, handler, "/hub/player", &view)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "11000000", view.Balance)
	require.Equal(t, session.PlayerID(), view.PlayerID)
	require.Empty(t, view.OwnedItems)
}

func TestEventsEndpoint(t *testing.T) {
	handler, session := newGateway(t)
	_, err := session.Deposit(big.NewInt(1_000_000))
	require.NoError(t, err)

	var events []eventView
	status := get(t, handler, "/hub/events", &events)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, events, 1)
	require.Equal(t, "economy.deposit", events[0].Type)
	require.Equal(t, "1000000", events[0].Attributes["amount"])
}

func TestHealthz(t *testing.T) {
	handler, _ := newGateway(t)
	require.Equal(t, http.StatusOK, get(t, handler, "/healthz", nil))
}
