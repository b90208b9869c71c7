package assistant

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/FahadImdad/khaadi-ai-chat-store/internal/config"
)

// New creates an assistant based on the configured mode.
// catalogPrompt and weather are only used in openai mode.
func New(cfg *config.Config, catalogPrompt string, weather WeatherFunc, log zerolog.Logger) (Assistant, error) {
	switch cfg.Assistant.Mode {
	case "backend":
		log.Info().Str("backend_url", cfg.Assistant.BackendURL).Msg("using remote chat backend")
		return NewBackendClient(cfg.Assistant.BackendURL, cfg.Assistant.Timeout), nil
	case "openai":
		log.Info().Str("model", cfg.Assistant.OpenAIModel).Msg("using openai assistant")
		return NewOpenAI(cfg.Assistant.OpenAIKey, cfg.Assistant.OpenAIModel, catalogPrompt, weather)
	case "mock":
		log.Warn().Msg("using mock assistant")
		return NewMock(), nil
	default:
		return nil, fmt.Errorf("unknown assistant mode %q", cfg.Assistant.Mode)
	}
}
