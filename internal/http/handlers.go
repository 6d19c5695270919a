package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"spendvoice/internal/core"
	"spendvoice/internal/services"
)

type expenseResponse struct {
	ID          int64   `json:"id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	CreatedAt   string  `json:"created_at"`
}

func toExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Amount:      e.Amount.Dollars(),
		Description: e.Description,
		Category:    e.Category,
		Date:        e.Date.String(),
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}

type createExpenseRequest struct {
	Amount      *float64 `json:"amount"`
	Description string   `json:"description"`
	VoiceText   string   `json:"voice_text"`
	AudioData   string   `json:"audio_data"`
}

type createExpenseResponse struct {
	expenseResponse
	TranscribedText string `json:"transcribed_text,omitempty"`
	Message         string `json:"message"`
}

type errorBody struct {
	Error string `json:"error"`
}

type speechUnavailableBody struct {
	Error    string `json:"error"`
	Fallback bool   `json:"fallback"`
	Message  string `json:"message"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	items, err := s.service.ListExpenses(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to fetch expenses"})
		return
	}

	out := make([]expenseResponse, 0, len(items))
	for _, e := range items {
		out = append(out, toExpenseResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}

	in := services.AddExpenseInput{
		Description: req.Description,
		VoiceText:   req.VoiceText,
		AudioData:   req.AudioData,
	}
	if req.Amount != nil {
		m := core.MoneyFromDollars(*req.Amount)
		in.Amount = &m
	}

	res, err := s.service.AddExpense(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to add expense")
		return
	}

	writeJSON(w, http.StatusCreated, createExpenseResponse{
		expenseResponse: toExpenseResponse(res.Expense),
		TranscribedText: res.TranscribedText,
		Message:         "Expense added successfully",
	})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid expense id"})
		return
	}

	// Idempotent: deleting an absent id still answers 200.
	if err := s.service.DeleteExpense(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete expense error", "error", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to delete expense"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Expense deleted successfully"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.service.Stats(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Stats error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to fetch statistics"})
		return
	}

	type categoryTotal struct {
		Category string  `json:"category"`
		Total    float64 `json:"total"`
	}
	resp := struct {
		TotalExpenses float64         `json:"total_expenses"`
		ByCategory    []categoryTotal `json:"by_category"`
		RecentCount   int64           `json:"recent_count"`
		RecentTotal   float64         `json:"recent_total"`
	}{
		TotalExpenses: st.Total.Dollars(),
		ByCategory:    make([]categoryTotal, 0, len(st.ByCategory)),
		RecentCount:   st.RecentCount,
		RecentTotal:   st.RecentTotal.Dollars(),
	}
	for _, ct := range st.ByCategory {
		resp.ByCategory = append(resp.ByCategory, categoryTotal{
			Category: ct.Category,
			Total:    ct.Total.Dollars(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AudioData string `json:"audio_data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}

	res, err := s.service.TranscribeAudio(r.Context(), req.AudioData)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to transcribe audio")
		return
	}

	resp := struct {
		TranscribedText string   `json:"transcribed_text"`
		Amount          *float64 `json:"amount"`
		Category        string   `json:"category"`
		Confidence      string   `json:"confidence"`
	}{
		TranscribedText: res.Text,
		Category:        res.Category,
		Confidence:      res.Confidence,
	}
	if res.Amount != nil {
		dollars := res.Amount.Dollars()
		resp.Amount = &dollars
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	speechStatus := "unavailable"
	if s.service.SpeechAvailable() {
		speechStatus = "available"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":         "healthy",
		"message":        "Voice Expense Tracker API is running",
		"speech_service": speechStatus,
	})
}

// writeServiceError maps service errors onto the API taxonomy: validation
// failures become 400, a missing speech backend becomes 503 with the
// fallback flag, everything else is an opaque 500 with the detail logged.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, genericMsg string) {
	switch {
	case errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrMissingAudio),
		errors.Is(err, services.ErrInvalidAudio),
		errors.Is(err, services.ErrEmptyTranscription),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyDescription):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, services.ErrSpeechUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, speechUnavailableBody{
			Error:    "Speech service not configured",
			Fallback: true,
			Message:  "Voice recording works, but speech transcription requires external setup.",
		})
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err, "method", r.Method, "url", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: genericMsg})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
