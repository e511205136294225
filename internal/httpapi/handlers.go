package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"matchbook/internal/account"
	"matchbook/internal/market"
	"matchbook/internal/order"
	"matchbook/internal/side"
)

// accountRequestBody is the POST /api/account/new body shape.
type accountRequestBody struct {
	Balance  float64 `json:"account_balance"`
	Position int32   `json:"position"`
}

func (s *Server) handleNewAccount(w http.ResponseWriter, r *http.Request) {
	var body accountRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, newAPIError(http.StatusBadRequest, "field `account_balance` in body is invalid"))
		return
	}

	id, err := s.market.NewAccount(body.Balance, body.Position)
	if err != nil {
		writeError(w, newAPIError(http.StatusBadRequest, "field `account_balance` in body is invalid"))
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(id.String()))
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	accountID, apiErr := s.resolveAccountID(r)
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}

	writeJSON(w, s.market.GetAccount(accountID))
}

// orderRequestBody is the POST /api/order/new body shape.
type orderRequestBody struct {
	Limit    float64   `json:"limit"`
	Quantity uint64    `json:"quantity"`
	Side     side.Side `json:"side"`
}

func (s *Server) handleNewOrder(w http.ResponseWriter, r *http.Request) {
	accountID, apiErr := s.resolveAccountID(r)
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}

	var body orderRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, errOrderBodyIncorrect)
		return
	}

	o, err := order.Build(body.Limit, body.Quantity, body.Side, accountID)
	if err != nil {
		writeError(w, errOrderBodyIncorrect)
		return
	}

	if err := s.market.ValidateOrder(o, accountID); err != nil {
		writeError(w, orderInvalid(err.Error()))
		return
	}

	view := s.market.Submit(o)
	writeJSON(w, view)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	if _, apiErr := s.resolveAccountID(r); apiErr != nil {
		writeError(w, apiErr)
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		writeError(w, errOrderIDInvalid)
		return
	}

	view, err := s.market.GetOrder(id)
	if err != nil {
		writeError(w, errOrderNotFound)
		return
	}
	writeJSON(w, view)
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	if _, apiErr := s.resolveAccountID(r); apiErr != nil {
		writeError(w, apiErr)
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		writeError(w, errOrderIDInvalid)
		return
	}

	if _, err := s.market.Cancel(id); err != nil {
		// Cancel fails both for an id that names no order at all and
		// for one that names an order no longer resting (already
		// executed or cancelled). Distinguish them the same way
		// handleGetOrder resolves an id, via Market.GetOrder: unknown
		// everywhere is 404, known-but-not-cancellable is 410.
		if _, getErr := s.market.GetOrder(id); getErr != nil {
			writeError(w, errOrderNotFound)
		} else {
			writeError(w, errOrderCannotCancel)
		}
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleGetOrdersByAccount(w http.ResponseWriter, r *http.Request) {
	accountID, apiErr := s.resolveAccountID(r)
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}

	writeJSON(w, s.market.GetOrdersByAccount(accountID))
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	ask, bid := s.market.Quote()
	writeJSON(w, struct {
		Ask *order.View `json:"ask"`
		Bid *order.View `json:"bid"`
	}{Ask: ask, Bid: bid})
}

// resolveAccountID extracts and validates the account-id header
// against the market's accounts registry.
func (s *Server) resolveAccountID(r *http.Request) (account.AccountId, *apiError) {
	raw := r.Header.Get("account-id")
	if raw == "" {
		return account.AccountId{}, errAccountIDMissing
	}

	id, ok := s.market.CheckAccountUUID(raw)
	if !ok {
		return account.AccountId{}, errAccountNotFound
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
