package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/FahadImdad/khaadi-ai-chat-store/internal/domain"
)

// WeatherFunc resolves a one-line weather description for coordinates.
type WeatherFunc func(ctx context.Context, lat, lon float64) (string, error)

// OpenAIAssistant answers locally through an OpenAI chat model instead of the
// remote chat backend. It carries the product-expert system prompt with the
// full catalog inlined, replays the chat history and injects current weather
// when coordinates are known.
type OpenAIAssistant struct {
	llm           llms.Model
	catalogPrompt string
	weather       WeatherFunc
}

var _ Assistant = (*OpenAIAssistant)(nil)

// NewOpenAI creates an OpenAI-backed assistant.
func NewOpenAI(apiKey, model, catalogPrompt string, weather WeatherFunc) (*OpenAIAssistant, error) {
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}
	return &OpenAIAssistant{llm: llm, catalogPrompt: catalogPrompt, weather: weather}, nil
}

func (a *OpenAIAssistant) systemPrompt() string {
	return "You are a helpful product expert for Khaadi. Specialize in fabrics, sizing, and product details. Use 'ready to wear' instead of 'pret'.\n" +
		"You have access to the following list of Khaadi products. Only answer based on this list.\n" +
		"Here is the list of all available Khaadi products:\n\n" + a.catalogPrompt + "\n\n" +
		"If the user asks about anything not related to these products, reply: 'Sorry, I can only help with the available Khaadi products.'\n" +
		"If the user asks for a product or filter (e.g., under a price, by type, etc.) and there is no match, say: 'Sorry, no products match your request.'\n" +
		"Always use the chat history to understand the user's intent and context."
}

// Reply generates a completion for the prompt.
func (a *OpenAIAssistant) Reply(ctx context.Context, req *Request) (string, error) {
	if strings.TrimSpace(a.catalogPrompt) == "" {
		return WarningPrefix + " Sorry, no products are available at the moment. Please try again later.", nil
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, a.systemPrompt()),
	}

	if a.weather != nil && req.Latitude != nil && req.Longitude != nil {
		if info, err := a.weather(ctx, *req.Latitude, *req.Longitude); err == nil && info != "" {
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, "Current weather: "+info))
		}
	}

	for _, turn := range req.History {
		switch turn.Role {
		case string(domain.SenderUser):
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, turn.Content))
		case string(domain.SenderAssistant):
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeAI, turn.Content))
		}
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.Message))

	resp, err := a.llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return "", fmt.Errorf("openai returned no content")
	}
	return resp.Choices[0].Content, nil
}
