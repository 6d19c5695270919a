package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"spendvoice/internal/core"
)

// ExpenseService orchestrates expense creation: it resolves missing fields
// from voice input (transcribing audio when needed), extracts amounts,
// categorizes descriptions and persists the result.
type ExpenseService struct {
	store       ExpenseStore
	transcriber Transcriber
	events      EventPublisher
}

// NewExpenseService wires the service to its collaborators. events may be
// nil; event publishing is then skipped.
func NewExpenseService(store ExpenseStore, transcriber Transcriber, events EventPublisher) *ExpenseService {
	return &ExpenseService{
		store:       store,
		transcriber: transcriber,
		events:      events,
	}
}

// AddExpenseInput carries any combination of explicit fields and voice
// input. A nil Amount is "absent"; a present zero is rejected by validation.
type AddExpenseInput struct {
	Amount      *core.Money
	Description string
	VoiceText   string
	AudioData   string // base64-encoded audio bytes
}

// AddExpenseResult is the created record plus the transcribed text, if any,
// for caller visibility.
type AddExpenseResult struct {
	Expense         core.Expense
	TranscribedText string
}

// AddExpense resolves the input to a complete expense and persists it with
// today's date. Resolution order: transcribe audio when no voice text was
// given, then fill the amount from the voice text, then fall back to the
// voice text as description. No retries anywhere.
func (s *ExpenseService) AddExpense(ctx context.Context, in AddExpenseInput) (AddExpenseResult, error) {
	voiceText := strings.TrimSpace(in.VoiceText)

	if in.AudioData != "" && voiceText == "" {
		text, err := s.transcribe(ctx, in.AudioData)
		if err != nil {
			return AddExpenseResult{}, err
		}
		voiceText = text
		slog.InfoContext(ctx, "Transcribed audio", "text", voiceText)
	}

	amount := in.Amount
	description := strings.TrimSpace(in.Description)
	if voiceText != "" {
		if amount == nil {
			if m, ok := core.ExtractAmount(voiceText); ok {
				amount = &m
			}
		}
		if description == "" {
			description = voiceText
		}
	}

	if amount == nil || description == "" {
		return AddExpenseResult{}, ErrMissingFields
	}

	e := core.Expense{
		Amount:      *amount,
		Description: description,
		Category:    core.Categorize(description),
		Date:        core.Today(),
	}
	if err := e.Validate(); err != nil {
		return AddExpenseResult{}, err
	}

	created, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return AddExpenseResult{}, fmt.Errorf("save expense: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishExpenseCreated(ctx, created); err != nil {
			slog.ErrorContext(ctx, "Failed to publish expense created event",
				"id", created.ID, "error", err)
			// Expense is saved; the event is best-effort.
		}
	}

	return AddExpenseResult{Expense: created, TranscribedText: voiceText}, nil
}

// ListExpenses returns all records, newest date first.
func (s *ExpenseService) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	items, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return items, nil
}

// DeleteExpense removes a record by id. Absent ids are a no-op, not an error.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishExpenseDeleted(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish expense deleted event",
				"id", id, "error", err)
		}
	}
	return nil
}

// Stats returns aggregate statistics over the whole store.
func (s *ExpenseService) Stats(ctx context.Context) (core.Stats, error) {
	st, err := s.store.Stats(ctx)
	if err != nil {
		return core.Stats{}, fmt.Errorf("expense stats: %w", err)
	}
	return st, nil
}

// TranscriptionResult is a transcript enriched with the amount and category
// the pipeline would assign to it.
type TranscriptionResult struct {
	Text       string
	Amount     *core.Money
	Category   string
	Confidence string
}

// TranscribeAudio converts base64 audio to text and runs the extraction and
// categorization pipeline over the transcript without persisting anything.
func (s *ExpenseService) TranscribeAudio(ctx context.Context, audioData string) (TranscriptionResult, error) {
	if strings.TrimSpace(audioData) == "" {
		return TranscriptionResult{}, ErrMissingAudio
	}

	text, err := s.transcribe(ctx, audioData)
	if err != nil {
		return TranscriptionResult{}, err
	}
	if text == "" {
		return TranscriptionResult{}, ErrEmptyTranscription
	}

	res := TranscriptionResult{
		Text:     text,
		Category: core.Categorize(text),
		// The provider reports per-alternative confidence; the pipeline
		// only ever consumes the top alternative.
		Confidence: "high",
	}
	if m, ok := core.ExtractAmount(text); ok {
		res.Amount = &m
	}
	return res, nil
}

// SpeechAvailable reports whether the transcription backend is configured.
func (s *ExpenseService) SpeechAvailable() bool {
	return s.transcriber != nil && s.transcriber.Available()
}

func (s *ExpenseService) transcribe(ctx context.Context, audioData string) (string, error) {
	if s.transcriber == nil {
		return "", ErrSpeechUnavailable
	}
	audio, err := base64.StdEncoding.DecodeString(audioData)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidAudio, "decode base64")
	}
	text, err := s.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
