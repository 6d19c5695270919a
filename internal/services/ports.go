package services

import (
	"context"
	"errors"

	"spendvoice/internal/core"
)

// Ports for outbound collaborators. The SQLite repository, the in-memory
// store, the Google speech client and the AMQP publisher all plug in here.
type (
	// ExpenseStore persists expense records and computes aggregates.
	ExpenseStore interface {
		CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
		ListExpenses(ctx context.Context) ([]core.Expense, error)
		// DeleteExpense removes a record; deleting an absent id is a no-op.
		DeleteExpense(ctx context.Context, id int64) error
		Stats(ctx context.Context) (core.Stats, error)
	}

	// Transcriber converts encoded audio bytes to text. Implementations
	// report missing configuration through Available and by returning
	// ErrSpeechUnavailable, never by crashing.
	Transcriber interface {
		Transcribe(ctx context.Context, audio []byte) (string, error)
		Available() bool
	}

	// EventPublisher announces expense mutations to interested consumers.
	// Publishing is best-effort; failures never fail the originating request.
	EventPublisher interface {
		PublishExpenseCreated(ctx context.Context, e core.Expense) error
		PublishExpenseDeleted(ctx context.Context, id int64) error
	}
)

var (
	// ErrMissingFields means neither an explicit amount/description nor a
	// resolvable voice input was supplied.
	ErrMissingFields = errors.New("amount and description are required")

	// ErrSpeechUnavailable means the transcription backend is not
	// configured or did not answer in time. Distinct from a generic
	// failure: recording worked, transcription needs external setup.
	ErrSpeechUnavailable = errors.New("speech service not configured")

	// ErrMissingAudio means a transcription request carried no audio data.
	ErrMissingAudio = errors.New("audio data is required")

	// ErrInvalidAudio means the audio payload was not valid base64.
	ErrInvalidAudio = errors.New("invalid audio data")

	// ErrEmptyTranscription means the provider answered with no transcript.
	ErrEmptyTranscription = errors.New("transcription returned no text")
)
