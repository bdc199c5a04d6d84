package rpc

import (
	"math/big"
	"net/http"
	"sort"
	"strings"

	"gamehub/core/types"
	"gamehub/native/economy"
)

type amountParams struct {
	// Amount is a settlement micro-unit quantity encoded as a decimal
	// string so arbitrarily large values survive JSON.
	Amount string `json:"amount"`
}

type stageEntryParams struct {
	LowStakes bool `json:"lowStakes"`
}

type stagePurchaseParams struct {
	ItemID uint64 `json:"itemId"`
}

type pendingParams struct {
	ID string `json:"id"`
}

type setParameterParams struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type grantTokensParams struct {
	Amount string `json:"amount"`
}

type outcomeResult struct {
	Outcome string `json:"outcome"`
}

type stageResult struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
}

type paramsResult struct {
	EntryFeeHigh string `json:"entryFeeHigh"`
	EntryFeeLow  string `json:"entryFeeLow"`
	RewardAmount string `json:"rewardAmount"`
	ItemPrice    uint64 `json:"itemPrice"`
}

type playerResult struct {
	PlayerID       string   `json:"playerId"`
	Balance        string   `json:"balance"`
	BalanceDisplay string   `json:"balanceDisplay"`
	RewardTokens   uint64   `json:"rewardTokens"`
	Score          uint64   `json:"score"`
	OwnedItems     []uint64 `json:"ownedItems"`
}

type stateResult struct {
	Treasury        string       `json:"treasury"`
	TreasuryDisplay string       `json:"treasuryDisplay"`
	Params          paramsResult `json:"params"`
	Player          playerResult `json:"player"`
	Operations      uint64       `json:"operations"`
}

type eventResult struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

func newPlayerResult(playerID string, player *types.PlayerState) playerResult {
	items := make([]uint64, 0, len(player.OwnedItems))
	for id, owned := range player.OwnedItems {
		if owned {
			items = append(items, id)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })
	return playerResult{
		PlayerID:       playerID,
		Balance:        player.Balance.String(),
		BalanceDisplay: economy.FormatDisplay(player.Balance),
		RewardTokens:   player.RewardTokens,
		Score:          player.Score,
		OwnedItems:     items,
	}
}

func (s *Server) handleGetState(w http.ResponseWriter, req *RPCRequest) {
	state := s.session.State()
	writeResult(w, req.ID, stateResult{
		Treasury:        state.Treasury.String(),
		TreasuryDisplay: economy.FormatDisplay(state.Treasury),
		Params: paramsResult{
			EntryFeeHigh: state.Params.EntryFeeHigh.String(),
			EntryFeeLow:  state.Params.EntryFeeLow.String(),
			RewardAmount: state.Params.RewardAmount.String(),
			ItemPrice:    state.Params.ItemPrice,
		},
		Player:     newPlayerResult(s.session.PlayerID(), &state.Player),
		Operations: s.session.Operations(),
	})
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, req *RPCRequest) {
	state := s.session.State()
	writeResult(w, req.ID, newPlayerResult(s.session.PlayerID(), &state.Player))
}

func (s *Server) handleGetEvents(w http.ResponseWriter, req *RPCRequest) {
	events := s.session.Events()
	out := make([]eventResult, 0, len(events))
	for _, evt := range events {
		out = append(out, eventResult{Type: evt.Type, Attributes: evt.Attributes})
	}
	writeResult(w, req.ID, out)
}

func parseAmount(raw string) (*big.Int, bool) {
	amount, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
	return amount, ok
}

func (s *Server) handleDeposit(w http.ResponseWriter, req *RPCRequest) {
	var params amountParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	amount, ok := parseAmount(params.Amount)
	if !ok {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "amount must be a base-10 integer", nil)
		return
	}
	outcome, err := s.session.Deposit(amount)
	if err != nil {
		writeRejection(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, outcomeResult{Outcome: outcome})
}

func (s *Server) handleWithdraw(w http.ResponseWriter, req *RPCRequest) {
	var params amountParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	amount, ok := parseAmount(params.Amount)
	if !ok {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "amount must be a base-10 integer", nil)
		return
	}
	outcome, err := s.session.Withdraw(amount)
	if err != nil {
		writeRejection(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, outcomeResult{Outcome: outcome})
}

func (s *Server) handleStageEntry(w http.ResponseWriter, req *RPCRequest) {
	var params stageEntryParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	id, prompt, err := s.session.StageEntry(params.LowStakes)
	if err != nil {
		writeRejection(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, stageResult{ID: id, Prompt: prompt})
}

func (s *Server) handleStagePurchase(w http.ResponseWriter, req *RPCRequest) {
	var params stagePurchaseParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	id, prompt, err := s.session.StagePurchase(params.ItemID)
	if err != nil {
		writeRejection(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, stageResult{ID: id, Prompt: prompt})
}

func (s *Server) handleConfirm(w http.ResponseWriter, req *RPCRequest) {
	var params pendingParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	outcome, err := s.session.Confirm(params.ID)
	if err != nil {
		writeRejection(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, outcomeResult{Outcome: outcome})
}

func (s *Server) handleCancel(w http.ResponseWriter, req *RPCRequest) {
	var params pendingParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	if err := s.session.Cancel(params.ID); err != nil {
		writeRejection(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, outcomeResult{Outcome: "Pending operation cancelled."})
}

func (s *Server) handleSimulateWin(w http.ResponseWriter, req *RPCRequest) {
	outcome, err := s.session.SimulateWin()
	if err != nil {
		writeRejection(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, outcomeResult{Outcome: outcome})
}

func (s *Server) handleEndCoinGame(w http.ResponseWriter, req *RPCRequest) {
	outcome, err := s.session.EndCoinGame()
	if err != nil {
		writeRejection(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, outcomeResult{Outcome: outcome})
}

func (s *Server) handleSetParameter(w http.ResponseWriter, req *RPCRequest) {
	var params setParameterParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	outcome, err := s.session.SetParameter(params.Name, params.Value)
	if err != nil {
		writeRejection(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, outcomeResult{Outcome: outcome})
}

func (s *Server) handleGrantTokens(w http.ResponseWriter, req *RPCRequest) {
	var params grantTokensParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	outcome, err := s.session.GrantTokens(params.Amount)
	if err != nil {
		writeRejection(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, outcomeResult{Outcome: outcome})
}
