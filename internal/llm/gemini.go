package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// openingTurn is prepended when a transcript starts with the model speaking;
// Gemini only accepts conversations that open with a user turn.
const openingTurn = "Let's play."

// Gemini generates completions with Google's Generative AI client.
type Gemini struct {
	client      *genai.Client
	model       string
	temperature float32
}

func NewGemini(ctx context.Context, apiKey, model string, temperature float32) (*Gemini, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create generative client: %w", err)
	}
	return &Gemini{client: client, model: model, temperature: temperature}, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

// Generate replays msgs as chat history and sends the final user turn.
func (g *Gemini) Generate(ctx context.Context, system string, msgs []Message) (string, error) {
	contents, err := toContents(msgs)
	if err != nil {
		return "", err
	}

	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(g.temperature)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	chat := model.StartChat()
	chat.History = contents[:len(contents)-1]

	resp, err := chat.SendMessage(ctx, contents[len(contents)-1].Parts...)
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	return getText(resp), nil
}

// toContents maps a transcript onto Gemini contents, folding consecutive
// messages from the same role into one multi-part content. The result always
// starts and ends with a user turn.
func toContents(msgs []Message) ([]*genai.Content, error) {
	if len(msgs) == 0 {
		return nil, errors.New("empty transcript")
	}

	var contents []*genai.Content
	for _, m := range msgs {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		if len(contents) == 0 && role == "model" {
			contents = append(contents, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(openingTurn)}})
		}
		if n := len(contents); n > 0 && contents[n-1].Role == role {
			contents[n-1].Parts = append(contents[n-1].Parts, genai.Text(m.Content))
			continue
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}

	if contents[len(contents)-1].Role != "user" {
		return nil, errors.New("transcript must end with a user turn")
	}
	return contents, nil
}

func getText(resp *genai.GenerateContentResponse) string {
	var text string
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				text += string(txt)
			}
		}
	}
	return text
}
