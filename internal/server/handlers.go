package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/mkhare/splitledger/internal/errdefs"
	"github.com/mkhare/splitledger/internal/models"
	"github.com/mkhare/splitledger/internal/money"
	"github.com/mkhare/splitledger/internal/storage"
)

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errdefs.Validation("invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	id, err := s.users.CreateUser(r.Context(), req.Name, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errdefs.Validation("invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	id, err := s.groups.CreateGroup(r.Context(), req.Name, req.Users)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]int64{"group_id": id})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errdefs.Validation("invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}
	exactAmounts, err := req.exactAmounts()
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := s.ledger.RecordTransaction(r.Context(),
		*req.GroupID, *req.PayerID,
		money.FromFloat(*req.Total),
		models.SplitType(req.SplitType),
		req.Description, exactAmounts,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]int64{"transaction_id": id})
}

// balanceRow is the JSON shape of one balance listing entry.
type balanceRow struct {
	ID            int64    `json:"id"`
	Description   string   `json:"description"`
	GroupName     string   `json:"groupName"`
	CreatedAt     string   `json:"createdAt"`
	SplitType     string   `json:"splitType"`
	Payer         string   `json:"payer"`
	Total         float64  `json:"total"`
	PendingAmount *float64 `json:"pendingAmount"`
}

func (s *Server) handleListBalances(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		writeError(w, errdefs.Validation("userId must be an integer"))
		return
	}

	filter, err := balanceFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	balances, err := s.ledger.ListBalances(r.Context(), userID, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	rows := make([]balanceRow, len(balances))
	for i, b := range balances {
		rows[i] = balanceRow{
			ID:          b.TransactionID,
			Description: b.Description,
			GroupName:   b.GroupName,
			CreatedAt:   time.Unix(b.CreatedAt, 0).UTC().Format(time.RFC3339),
			SplitType:   string(b.SplitType),
			Payer:       b.PayerName,
			Total:       b.Total.Float(),
		}
		if b.PendingAmount != nil {
			pending := b.PendingAmount.Float()
			rows[i].PendingAmount = &pending
		}
	}
	respondJSON(w, http.StatusOK, rows)
}

// balanceFilter parses the optional groupId/startDate/endDate query params.
func balanceFilter(r *http.Request) (storage.Filter, error) {
	var filter storage.Filter
	q := r.URL.Query()

	if v := q.Get("groupId"); v != "" {
		groupID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, errdefs.Validation("groupId must be an integer")
		}
		filter.GroupID = &groupID
	}
	if v := q.Get("startDate"); v != "" {
		start, err := parseDate(v)
		if err != nil {
			return filter, errdefs.Validation("startDate must be an ISO date")
		}
		filter.Start = &start
	}
	if v := q.Get("endDate"); v != "" {
		end, err := parseDate(v)
		if err != nil {
			return filter, errdefs.Validation("endDate must be an ISO date")
		}
		filter.End = &end
	}
	return filter, nil
}

// parseDate accepts a plain ISO date or a full RFC 3339 timestamp.
func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Headers are already written; nothing left to do but record it.
		slog.Error("Failed to encode response", "error", err)
	}
}
