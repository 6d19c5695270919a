// Package speech is the Google Cloud Speech-to-Text gateway. Missing
// credentials produce an unavailable client instead of a startup failure,
// so the rest of the system keeps working without voice input.
package speech

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"spendvoice/internal/services"

	goption "google.golang.org/api/option"
	gspeech "google.golang.org/api/speech/v1"
)

const (
	defaultLanguageCode = "en-US"
	defaultSampleRate   = 44100
	defaultTimeout      = 10 * time.Second
)

// Config selects credentials and recognition parameters. Credentials are
// resolved JSON-first, then file path; both empty means unavailable.
type Config struct {
	CredentialsJSON string
	CredentialsFile string
	LanguageCode    string
	SampleRateHertz int64
	Timeout         time.Duration
}

type Client struct {
	svc          *gspeech.Service
	languageCode string
	sampleRate   int64
	timeout      time.Duration
}

var _ services.Transcriber = (*Client)(nil)

// New builds the client. Absent credentials yield a client whose Available
// reports false; only a malformed credential setup is an error.
func New(ctx context.Context, cfg Config) (*Client, error) {
	c := &Client{
		languageCode: cfg.LanguageCode,
		sampleRate:   cfg.SampleRateHertz,
		timeout:      cfg.Timeout,
	}
	if c.languageCode == "" {
		c.languageCode = defaultLanguageCode
	}
	if c.sampleRate == 0 {
		c.sampleRate = defaultSampleRate
	}
	if c.timeout == 0 {
		c.timeout = defaultTimeout
	}

	var opts []goption.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, goption.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, goption.WithCredentialsFile(cfg.CredentialsFile))
	default:
		slog.WarnContext(ctx, "Speech credentials not configured, transcription disabled")
		return c, nil
	}

	svc, err := gspeech.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create speech service: %w", err)
	}
	c.svc = svc

	slog.InfoContext(ctx, "Speech client initialized",
		"language", c.languageCode,
		"sample_rate", c.sampleRate)
	return c, nil
}

// Available reports whether the backend is configured.
func (c *Client) Available() bool {
	return c != nil && c.svc != nil
}

// Transcribe converts encoded audio to text. Each call carries its own
// timeout; expiry is reported as the unavailable condition. Transcripts of
// all results are concatenated, top alternative only.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if !c.Available() {
		return "", services.ErrSpeechUnavailable
	}
	if len(audio) == 0 {
		return "", services.ErrMissingAudio
	}

	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := &gspeech.RecognizeRequest{
		Config: &gspeech.RecognitionConfig{
			Encoding:                   "WEBM_OPUS",
			SampleRateHertz:            c.sampleRate,
			LanguageCode:               c.languageCode,
			EnableAutomaticPunctuation: true,
			Model:                      "latest_long",
		},
		Audio: &gspeech.RecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(audio),
		},
	}

	resp, err := c.svc.Speech.Recognize(req).Context(cctx).Do()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || cctx.Err() != nil {
			slog.WarnContext(ctx, "Transcription timed out", "timeout", c.timeout)
			return "", services.ErrSpeechUnavailable
		}
		return "", fmt.Errorf("recognize: %w", err)
	}

	var b strings.Builder
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			b.WriteString(result.Alternatives[0].Transcript)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		slog.WarnContext(ctx, "No transcription results returned")
		return "", nil
	}

	slog.InfoContext(ctx, "Transcription successful", "length", len(text))
	return text, nil
}
