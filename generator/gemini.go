package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mailcraft-backend/metrics"

	"github.com/google/generative-ai-go/genai"
	"github.com/sethvargo/go-retry"
)

// DefaultGeminiModel is used when no model name is configured.
const DefaultGeminiModel = "gemini-1.5-flash"

const geminiTemperature = 0.7

// contentGenerator is the part of *genai.GenerativeModel used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator writes emails with a Gemini model.
type GeminiGenerator struct {
	model contentGenerator
	retry RetryPolicy
}

// NewGeminiGenerator creates a generator backed by modelName on client.
func NewGeminiGenerator(client *genai.Client, modelName string, policy RetryPolicy) *GeminiGenerator {
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(geminiTemperature)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text("You write clear, ready-to-send emails. Output only the email text, no markdown.")},
	}
	return &GeminiGenerator{model: model, retry: policy}
}

// Name implements Generator.
func (g *GeminiGenerator) Name() string { return "gemini" }

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	prompt := buildPrompt(req)

	var email string
	err := g.retry.do(ctx, func(ctx context.Context) error {
		start := time.Now()
		resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			metrics.RecordGeneratorCall(g.Name(), "error", time.Since(start))
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return retry.RetryableError(fmt.Errorf("gemini request failed: %w", err))
		}

		text, err := responseText(resp)
		if err != nil {
			metrics.RecordGeneratorCall(g.Name(), "empty", time.Since(start))
			return err
		}
		metrics.RecordGeneratorCall(g.Name(), "success", time.Since(start))
		email = text
		return nil
	})
	if err != nil {
		return "", upstreamError(err)
	}
	return email, nil
}

func buildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write an email with a %s tone.\n\n", req.Tone)
	fmt.Fprintf(&b, "PURPOSE: %s\n", req.Purpose)
	fmt.Fprintf(&b, "SUBJECT LINE: %s\n", req.SubjectLine)
	fmt.Fprintf(&b, "RECIPIENTS: %s\n", req.Recipients)
	fmt.Fprintf(&b, "SENDERS: %s\n\n", req.Senders)
	fmt.Fprintf(&b, "The email must not exceed %d words. Address the recipients by name where possible and sign off as the senders.", req.MaxLength)
	return b.String()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini returned no response")
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("gemini blocked prompt: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	var text strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
		// first candidate with content is the answer
		if text.Len() > 0 {
			break
		}
	}

	if text.Len() == 0 {
		return "", errors.New("gemini returned empty content")
	}
	return strings.TrimSpace(text.String()), nil
}
