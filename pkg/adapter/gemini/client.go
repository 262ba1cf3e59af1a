package gemini

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/wathbahs/muraji/pkg/domain/interfaces"
	"github.com/wathbahs/muraji/pkg/domain/model/errs"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// Client adapts the Google Gen AI SDK to the LanguageModel interface. It works
// against both the Gemini API (API key) and Vertex AI (project/location)
// backends; context caching is available on both.
type Client struct {
	client *genai.Client
	model  string
}

var _ interfaces.LanguageModel = (*Client)(nil)

type Option func(*Client)

func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// New creates a client for the Gemini API backend
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client",
			goerr.T(errs.TagConfiguration))
	}
	return newClient(client, opts...), nil
}

// NewVertex creates a client for the Vertex AI backend using ADC
func NewVertex(ctx context.Context, projectID, location string, opts ...Option) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client",
			goerr.V("project", projectID),
			goerr.V("location", location),
			goerr.T(errs.TagConfiguration))
	}
	return newClient(client, opts...), nil
}

func newClient(client *genai.Client, opts ...Option) *Client {
	c := &Client{
		client: client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (x *Client) GenerateOnce(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{Role: genai.RoleUser, Parts: []*genai.Part{{Text: prompt}}},
	}

	resp, err := x.client.Models.GenerateContent(ctx, x.model, contents, nil)
	if err != nil {
		return "", goerr.Wrap(err, "generate content failed",
			goerr.V("model", x.model),
			goerr.T(errs.TagLLMError))
	}
	if len(resp.Candidates) == 0 {
		return "", goerr.New("no candidates in response",
			goerr.V("model", x.model),
			goerr.T(errs.TagLLMError))
	}

	return resp.Text(), nil
}

func (x *Client) CreateCache(ctx context.Context, instruction string, ttl time.Duration) (string, error) {
	cache, err := x.client.Caches.Create(ctx, x.model, &genai.CreateCachedContentConfig{
		TTL: ttl,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: instruction}},
		},
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to create cached content",
			goerr.V("model", x.model),
			goerr.T(errs.TagLLMError))
	}
	return cache.Name, nil
}

func (x *Client) DeleteCache(ctx context.Context, name string) error {
	if _, err := x.client.Caches.Delete(ctx, name, nil); err != nil {
		return goerr.Wrap(err, "failed to delete cached content",
			goerr.V("cache_name", name),
			goerr.T(errs.TagLLMError))
	}
	return nil
}

func (x *Client) StartChat(ctx context.Context, cfg interfaces.ChatConfig, history []interfaces.HistoryTurn) (interfaces.Conversation, error) {
	genCfg := &genai.GenerateContentConfig{}
	switch {
	case cfg.CacheName != "":
		genCfg.CachedContent = cfg.CacheName
	case cfg.SystemInstruction != "":
		genCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: cfg.SystemInstruction}},
		}
	}

	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		role := genai.RoleUser
		if turn.IsModel {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: turn.Text}},
		})
	}

	chat, err := x.client.Chats.Create(ctx, x.model, genCfg, contents)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create chat",
			goerr.V("model", x.model),
			goerr.V("cached", cfg.CacheName != ""),
			goerr.T(errs.TagLLMError))
	}

	return &conversation{chat: chat}, nil
}

type conversation struct {
	chat *genai.Chat
}

func (x *conversation) Send(ctx context.Context, text string) (string, error) {
	resp, err := x.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", goerr.Wrap(err, "chat turn failed", goerr.T(errs.TagLLMError))
	}
	if len(resp.Candidates) == 0 {
		return "", goerr.New("no candidates in chat response", goerr.T(errs.TagLLMError))
	}
	return resp.Text(), nil
}
