package aidetect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

const systemPrompt = "You locate tables in spreadsheet sheets of an EDI standard. " +
	"For each area, return the exact table bounds (1-based rows and columns) and its type. " +
	"Return ONLY the JSON required by the schema."

func generateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var responseSchema = openai.ResponseFormatJSONSchemaJSONSchemaParam{
	Name:        "table_regions",
	Description: openai.String("Table regions found in a spreadsheet sheet"),
	Schema:      generateSchema[Response](),
	Strict:      openai.Bool(true),
}

// CompleteFunc sends a system and user prompt and returns the raw answer.
type CompleteFunc func(ctx context.Context, system, user string) (string, error)

// OpenAI suggests regions with an OpenAI chat model using structured output.
type OpenAI struct {
	complete   CompleteFunc
	log        *slog.Logger
	timeout    time.Duration
	maxRows    int
	maxCols    int
	configured bool
}

// NewOpenAI returns a suggester backed by the OpenAI API. An empty apiKey
// yields a suggester that never returns regions.
func NewOpenAI(apiKey, model string, log *slog.Logger) *OpenAI {
	chatModel := openai.ChatModel(model)
	if model == "" {
		chatModel = openai.ChatModelGPT4oMini
	}
	s := newOpenAI(nil, log)
	if apiKey == "" {
		return s
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	s.complete = func(ctx context.Context, system, user string) (string, error) {
		chat, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(system),
				openai.UserMessage(user),
			},
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
					JSONSchema: responseSchema,
				},
			},
			Seed:  openai.Int(42),
			Model: chatModel,
		})
		if err != nil {
			return "", fmt.Errorf("openai chat completion: %w", err)
		}
		if len(chat.Choices) == 0 {
			return "", errors.New("openai: empty choices")
		}
		return chat.Choices[0].Message.Content, nil
	}
	s.configured = true
	return s
}

// NewWithCompleter returns a suggester that sends prompts through complete.
func NewWithCompleter(complete CompleteFunc, log *slog.Logger) *OpenAI {
	s := newOpenAI(complete, log)
	s.configured = complete != nil
	return s
}

// WithTimeout sets the per-request timeout. Non-positive values are ignored.
func (s *OpenAI) WithTimeout(d time.Duration) *OpenAI {
	if d > 0 {
		s.timeout = d
	}
	return s
}

func newOpenAI(complete CompleteFunc, log *slog.Logger) *OpenAI {
	if log == nil {
		log = slog.Default()
	}
	return &OpenAI{
		complete: complete,
		log:      log,
		timeout:  30 * time.Second,
		maxRows:  60,
		maxCols:  20,
	}
}

// SuggestRegions implements Suggester. Failures are logged and reported as no regions.
func (s *OpenAI) SuggestRegions(ctx context.Context, sheet Sheet, hints []models.RegionBounds) ([]models.RegionHint, error) {
	log := s.log.With("sheet", sheet.Name)
	if !s.configured {
		log.Debug("ai fallback not configured")
		return nil, nil
	}
	if len(hints) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	answer, err := s.complete(ctx, systemPrompt, Prompt(sheet, hints, s.maxRows, s.maxCols))
	if err != nil {
		log.Warn("ai region detection failed", "error", err)
		return nil, nil
	}

	regions, err := ParseResponse(answer)
	if err != nil {
		log.Warn("ai response not understood", "error", err)
		return nil, nil
	}
	log.Info("ai suggested regions", "count", len(regions))
	return regions, nil
}
