package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"payments-engine/pkg/engine"
	"payments-engine/pkg/ledger"
	memorycollector "payments-engine/pkg/metrics/memory"
)

// accountView renders one account with amounts at exactly four
// fractional digits.
type accountView struct {
	Client    uint16 `json:"client"`
	Available string `json:"available"`
	Held      string `json:"held"`
	Total     string `json:"total"`
	Locked    bool   `json:"locked"`
}

func viewSnapshot(s ledger.Snapshot) accountView {
	return accountView{
		Client:    uint16(s.Client),
		Available: s.Available.StringFixed(engine.Scale),
		Held:      s.Held.StringFixed(engine.Scale),
		Total:     s.Total.StringFixed(engine.Scale),
		Locked:    s.Locked,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleHealth returns a simple health check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

// handleStatus returns detailed status information.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	accounts := s.processor.Ledger().Len()
	historyEntries := s.processor.History().Len()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "running",
		"uptime":          time.Since(startTime).String(),
		"accounts":        accounts,
		"history_entries": historyEntries,
	})
}

// handleSubmit applies one transaction record.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var tx engine.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": "invalid transaction payload: " + err.Error(),
		})
		return
	}

	s.mu.Lock()
	err := s.processor.Apply(tx)
	account, _ := s.processor.Ledger().Get(tx.Client)
	s.mu.Unlock()

	view := viewSnapshot(ledger.Snapshot{
		Client:    tx.Client,
		Available: account.Available,
		Held:      account.Held,
		Total:     account.Total,
		Locked:    account.Locked,
	})

	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"applied": true,
			"account": view,
		})
	case engine.IsRejection(err):
		// The record was dropped but the run goes on; the ledger state
		// returned is the untouched prior state.
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"applied": false,
			"reason":  engine.ClassifyError(err),
			"error":   err.Error(),
			"account": view,
		})
	default:
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"applied": false,
			"reason":  engine.ClassifyError(err),
			"error":   err.Error(),
		})
	}
}

// handleAccounts returns a snapshot of every account.
func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snapshots := s.processor.Ledger().Snapshot()
	s.mu.Unlock()

	views := make([]accountView, 0, len(snapshots))
	for _, snap := range snapshots {
		views = append(views, viewSnapshot(snap))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"accounts": views,
		"count":    len(views),
	})
}

// handleAccount returns the snapshot of a single account.
func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["client"]
	client, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": "bad client id: " + raw,
		})
		return
	}

	s.mu.Lock()
	account, ok := s.processor.Ledger().Get(ledger.ClientID(client))
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"error": "unknown client: " + raw,
		})
		return
	}

	writeJSON(w, http.StatusOK, viewSnapshot(ledger.Snapshot{
		Client:    ledger.ClientID(client),
		Available: account.Available,
		Held:      account.Held,
		Total:     account.Total,
		Locked:    account.Locked,
	}))
}

// handleHistoryStats returns transaction history and bloom filter stats.
func (s *Server) handleHistoryStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats := s.processor.History().Stats()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, stats)
}

// handleMetricsJSON returns metrics in JSON format when the attached
// collector keeps them in memory.
func (s *Server) handleMetricsJSON(w http.ResponseWriter, r *http.Request) {
	if mc, ok := s.metrics.(*memorycollector.MemoryCollector); ok {
		writeJSON(w, http.StatusOK, mc.Snapshot())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"error": "metrics collector does not support JSON snapshot",
	})
}
