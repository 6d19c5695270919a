package services

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"spendvoice/internal/core"
	"spendvoice/internal/storage/memory"
)

type fakeTranscriber struct {
	text      string
	err       error
	available bool
	calls     int
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

func (f *fakeTranscriber) Available() bool { return f.available }

type recordingPublisher struct {
	created []int64
	deleted []int64
	err     error
}

func (p *recordingPublisher) PublishExpenseCreated(_ context.Context, e core.Expense) error {
	p.created = append(p.created, e.ID)
	return p.err
}

func (p *recordingPublisher) PublishExpenseDeleted(_ context.Context, id int64) error {
	p.deleted = append(p.deleted, id)
	return p.err
}

func money(cents int64) *core.Money {
	return &core.Money{Cents: cents}
}

func audioPayload() string {
	return base64.StdEncoding.EncodeToString([]byte("opus-bytes"))
}

func TestAddExpenseFromVoiceText(t *testing.T) {
	svc := NewExpenseService(memory.New(), &fakeTranscriber{}, nil)

	res, err := svc.AddExpense(context.Background(), AddExpenseInput{VoiceText: "coffee $5"})
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if res.Expense.Amount.Cents != 500 {
		t.Fatalf("amount = %d, want 500", res.Expense.Amount.Cents)
	}
	if res.Expense.Description != "coffee $5" {
		t.Fatalf("description = %q", res.Expense.Description)
	}
	if res.Expense.Category != "food" {
		t.Fatalf("category = %q, want food", res.Expense.Category)
	}
	if res.TranscribedText != "coffee $5" {
		t.Fatalf("transcribed text = %q", res.TranscribedText)
	}
	if res.Expense.Date.String() != core.Today().String() {
		t.Fatalf("date = %q, want today", res.Expense.Date.String())
	}
}

func TestAddExpenseExplicitFieldsWin(t *testing.T) {
	svc := NewExpenseService(memory.New(), &fakeTranscriber{}, nil)

	res, err := svc.AddExpense(context.Background(), AddExpenseInput{
		Amount:      money(700),
		Description: "parking garage",
		VoiceText:   "something with $99",
	})
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if res.Expense.Amount.Cents != 700 {
		t.Fatalf("explicit amount ignored: %d", res.Expense.Amount.Cents)
	}
	if res.Expense.Description != "parking garage" {
		t.Fatalf("explicit description ignored: %q", res.Expense.Description)
	}
	if res.Expense.Category != "transportation" {
		t.Fatalf("category = %q", res.Expense.Category)
	}
}

func TestAddExpenseTranscribesAudio(t *testing.T) {
	tr := &fakeTranscriber{text: "lunch 20 dollars", available: true}
	svc := NewExpenseService(memory.New(), tr, nil)

	res, err := svc.AddExpense(context.Background(), AddExpenseInput{AudioData: audioPayload()})
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if tr.calls != 1 {
		t.Fatalf("transcriber calls = %d, want 1", tr.calls)
	}
	if res.Expense.Amount.Cents != 2000 || res.Expense.Category != "food" {
		t.Fatalf("unexpected expense: %+v", res.Expense)
	}
	if res.TranscribedText != "lunch 20 dollars" {
		t.Fatalf("transcribed text = %q", res.TranscribedText)
	}
}

func TestAddExpenseSkipsTranscriptionWhenVoiceTextGiven(t *testing.T) {
	tr := &fakeTranscriber{text: "should not be used", available: true}
	svc := NewExpenseService(memory.New(), tr, nil)

	if _, err := svc.AddExpense(context.Background(), AddExpenseInput{
		VoiceText: "taxi $9",
		AudioData: audioPayload(),
	}); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if tr.calls != 0 {
		t.Fatalf("transcriber should not be called, got %d calls", tr.calls)
	}
}

func TestAddExpenseSpeechUnavailable(t *testing.T) {
	tr := &fakeTranscriber{err: ErrSpeechUnavailable}
	svc := NewExpenseService(memory.New(), tr, nil)

	_, err := svc.AddExpense(context.Background(), AddExpenseInput{AudioData: audioPayload()})
	if !errors.Is(err, ErrSpeechUnavailable) {
		t.Fatalf("expected ErrSpeechUnavailable, got %v", err)
	}
}

func TestAddExpenseInvalidBase64(t *testing.T) {
	svc := NewExpenseService(memory.New(), &fakeTranscriber{available: true}, nil)

	_, err := svc.AddExpense(context.Background(), AddExpenseInput{AudioData: "not base64!!!"})
	if !errors.Is(err, ErrInvalidAudio) {
		t.Fatalf("expected ErrInvalidAudio, got %v", err)
	}
}

func TestAddExpenseMissingFields(t *testing.T) {
	svc := NewExpenseService(memory.New(), &fakeTranscriber{}, nil)

	cases := []AddExpenseInput{
		{},
		{Description: "no amount anywhere"},
		{Amount: money(500)},
		{VoiceText: "nothing numeric here"},
	}
	for i, in := range cases {
		if _, err := svc.AddExpense(context.Background(), in); !errors.Is(err, ErrMissingFields) {
			t.Fatalf("case %d: expected ErrMissingFields, got %v", i, err)
		}
	}
}

func TestAddExpenseRejectsNonPositiveAmount(t *testing.T) {
	svc := NewExpenseService(memory.New(), &fakeTranscriber{}, nil)

	for _, cents := range []int64{0, -100} {
		_, err := svc.AddExpense(context.Background(), AddExpenseInput{
			Amount:      money(cents),
			Description: "freebie",
		})
		if !errors.Is(err, core.ErrInvalidAmount) {
			t.Fatalf("cents=%d: expected ErrInvalidAmount, got %v", cents, err)
		}
	}
}

func TestAddExpenseZeroExtractedAmountRejected(t *testing.T) {
	svc := NewExpenseService(memory.New(), &fakeTranscriber{}, nil)

	// The extractor accepts "$0"; validation rejects it before persistence.
	_, err := svc.AddExpense(context.Background(), AddExpenseInput{VoiceText: "freebie $0"})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestEventsPublishedBestEffort(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewExpenseService(memory.New(), &fakeTranscriber{}, pub)
	ctx := context.Background()

	res, err := svc.AddExpense(ctx, AddExpenseInput{Amount: money(500), Description: "coffee"})
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if len(pub.created) != 1 || pub.created[0] != res.Expense.ID {
		t.Fatalf("created events = %v", pub.created)
	}

	if err := svc.DeleteExpense(ctx, res.Expense.ID); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if len(pub.deleted) != 1 || pub.deleted[0] != res.Expense.ID {
		t.Fatalf("deleted events = %v", pub.deleted)
	}

	// A failing publisher never fails the operation.
	pub.err = errors.New("broker down")
	if _, err := svc.AddExpense(ctx, AddExpenseInput{Amount: money(300), Description: "tea"}); err != nil {
		t.Fatalf("publish failure leaked: %v", err)
	}
}

func TestListAndStatsPassThrough(t *testing.T) {
	svc := NewExpenseService(memory.New(), &fakeTranscriber{}, nil)
	ctx := context.Background()

	if _, err := svc.AddExpense(ctx, AddExpenseInput{Amount: money(500), Description: "coffee"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddExpense(ctx, AddExpenseInput{Amount: money(1500), Description: "train ticket"}); err != nil {
		t.Fatal(err)
	}

	items, err := svc.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}

	st, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Total.Cents != 2000 {
		t.Fatalf("total = %d, want 2000", st.Total.Cents)
	}
}

func TestTranscribeAudio(t *testing.T) {
	tr := &fakeTranscriber{text: "dinner at the pizza place $30", available: true}
	svc := NewExpenseService(memory.New(), tr, nil)

	res, err := svc.TranscribeAudio(context.Background(), audioPayload())
	if err != nil {
		t.Fatalf("TranscribeAudio: %v", err)
	}
	if res.Text != "dinner at the pizza place $30" {
		t.Fatalf("text = %q", res.Text)
	}
	if res.Amount == nil || res.Amount.Cents != 3000 {
		t.Fatalf("amount = %+v, want 3000 cents", res.Amount)
	}
	if res.Category != "food" || res.Confidence != "high" {
		t.Fatalf("category/confidence = %q/%q", res.Category, res.Confidence)
	}
}

func TestTranscribeAudioErrors(t *testing.T) {
	cases := []struct {
		name  string
		tr    *fakeTranscriber
		audio string
		want  error
	}{
		{"missing audio", &fakeTranscriber{}, "", ErrMissingAudio},
		{"invalid base64", &fakeTranscriber{}, "%%%", ErrInvalidAudio},
		{"unavailable", &fakeTranscriber{err: ErrSpeechUnavailable}, audioPayload(), ErrSpeechUnavailable},
		{"empty transcript", &fakeTranscriber{text: "   ", available: true}, audioPayload(), ErrEmptyTranscription},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewExpenseService(memory.New(), tc.tr, nil)
			if _, err := svc.TranscribeAudio(context.Background(), tc.audio); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSpeechAvailable(t *testing.T) {
	if NewExpenseService(memory.New(), nil, nil).SpeechAvailable() {
		t.Fatalf("nil transcriber must be unavailable")
	}
	if NewExpenseService(memory.New(), &fakeTranscriber{}, nil).SpeechAvailable() {
		t.Fatalf("unconfigured transcriber must be unavailable")
	}
	if !NewExpenseService(memory.New(), &fakeTranscriber{available: true}, nil).SpeechAvailable() {
		t.Fatalf("configured transcriber must be available")
	}
}
