package routes

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gamehub/core"
	"gamehub/native/economy"
)

// New builds the read-only REST facade over a hub session. The gateway
// serves the views the hub UI renders on its profile page; all mutations
// go through the JSON-RPC endpoint.
func New(session *core.Session) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	hub := &hubRoutes{session: session}
	hub.mount(r)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}

type hubRoutes struct {
	session *core.Session
}

func (h *hubRoutes) mount(r chi.Router) {
	r.Get("/hub/state", h.getState)
	r.Get("/hub/player", h.getPlayer)
	r.Get("/hub/events", h.getEvents)
}

type hubStateView struct {
	Treasury        string `json:"treasury"`
	TreasuryDisplay string `json:"treasuryDisplay"`
	EntryFeeHigh    string `json:"entryFeeHighDisplay"`
	EntryFeeLow     string `json:"entryFeeLowDisplay"`
	RewardAmount    string `json:"rewardAmountDisplay"`
	ItemPrice       uint64 `json:"itemPrice"`
	Operations      uint64 `json:"operations"`
}

type playerView struct {
	PlayerID       string   `json:"playerId"`
	Balance        string   `json:"balance"`
	BalanceDisplay string   `json:"balanceDisplay"`
	RewardTokens   uint64   `json:"rewardTokens"`
	Score          uint64   `json:"score"`
	OwnedItems     []uint64 `json:"ownedItems"`
}

type eventView struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

func (h *hubRoutes) getState(w http.ResponseWriter, _ *http.Request) {
	state := h.session.State()
	writeJSON(w, http.StatusOK, hubStateView{
		Treasury:        state.Treasury.String(),
		TreasuryDisplay: economy.FormatDisplay(state.Treasury),
		EntryFeeHigh:    economy.FormatDisplay(state.Params.EntryFeeHigh),
		EntryFeeLow:     economy.FormatDisplay(state.Params.EntryFeeLow),
		RewardAmount:    economy.FormatDisplay(state.Params.RewardAmount),
		ItemPrice:       state.Params.ItemPrice,
		Operations:      h.session.Operations(),
	})
}

func (h *hubRoutes) getPlayer(w http.ResponseWriter, _ *http.Request) {
	state := h.session.State()
	items := make([]uint64, 0, len(state.Player.OwnedItems))
	for id, owned := range state.Player.OwnedItems {
		if owned {
			items = append(items, id)
		}
	}
	writeJSON(w, http.StatusOK, playerView{
		PlayerID:       h.session.PlayerID(),
		Balance:        state.Player.Balance.String(),
		BalanceDisplay: economy.FormatDisplay(state.Player.Balance),
		RewardTokens:   state.Player.RewardTokens,
		Score:          state.Player.Score,
		OwnedItems:     items,
	})
}

func (h *hubRoutes) getEvents(w http.ResponseWriter, _ *http.Request) {
	events := h.session.Events()
	out := make([]eventView, 0, len(events))
	for _, evt := range events {
		out = append(out, eventView{Type: evt.Type, Attributes: evt.Attributes})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
