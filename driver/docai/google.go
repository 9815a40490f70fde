// Package docai — Google Gemini adapter.
package docai

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GoogleModel implements ChatModel against Google's Gemini API.
type GoogleModel struct {
	apiKey    string
	modelName string
}

// NewGoogleModel creates a ChatModel backed by Gemini. An empty
// modelName selects a current default.
func NewGoogleModel(apiKey, modelName string) *GoogleModel {
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GoogleModel{apiKey: apiKey, modelName: modelName}
}

func (m *GoogleModel) Chat(ctx context.Context, messages []Message) (ChatOut, error) {
	if ctx.Err() != nil {
		return ChatOut{}, ctx.Err()
	}
	if m.apiKey == "" {
		return ChatOut{}, errors.New("docai: google API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(m.apiKey))
	if err != nil {
		return ChatOut{}, fmt.Errorf("docai: google: %w", err)
	}
	defer client.Close()

	genModel := client.GenerativeModel(m.modelName)

	var parts []genai.Part
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			genModel.SystemInstruction = genai.NewUserContent(genai.Text(msg.Content))
			continue
		}
		parts = append(parts, genai.Text(msg.Content))
	}

	resp, err := genModel.GenerateContent(ctx, parts...)
	if err != nil {
		return ChatOut{}, fmt.Errorf("docai: google: %w", err)
	}

	var out ChatOut
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				if out.Text != "" {
					out.Text += "\n"
				}
				out.Text += string(text)
			}
		}
	}
	return out, nil
}
