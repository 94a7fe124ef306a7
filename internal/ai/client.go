package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sashabaranov/go-openai"
)

// ErrUnrelated is returned when the model decides the input has nothing to
// do with events or tasks.
var ErrUnrelated = errors.New("unrelated request")

type Client struct {
	client *openai.Client
	model  string
}

func New(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// ParsedItems is the structured reply of the generation prompts.
type ParsedItems struct {
	Unrelated bool          `json:"unrelated"`
	Events    []ParsedEvent `json:"events"`
	Tasks     []ParsedTask  `json:"tasks"`
}

type ParsedEvent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Completed   bool   `json:"completed"`
}

type ParsedTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	DueDateTime string `json:"dueDateTime"`
	AllDay      bool   `json:"allDay"`
}

const generatePromptTemplate = `Today is %s. Based on the user's request below, generate the calendar events and tasks it describes.

If the request mentions a note or extra detail about an event, put it in that event's description field unless it is clearly a separate task.
Times must be ISO 8601 date-times computed from today's date when the request uses relative wording. The event type must be one of COMMON, WORK, STUDIES or FITNESS.
Set "unrelated" to true only if the request has nothing to do with events or tasks.

Request: %q`

const transcriptPromptTemplate = `Today is %s. The following text is a transcript of a voice recording. Decide whether it is about creating calendar events or tasks.

If it is, generate the events and tasks it describes. Notes or extra details about an event belong in that event's description field unless they are clearly separate tasks.
Times must be ISO 8601 date-times computed from today's date when the transcript uses relative wording. The event type must be one of COMMON, WORK, STUDIES or FITNESS.
If the transcript is not about events or tasks, set "unrelated" to true and leave both lists empty.

Transcript: %q`

// JSON Schema for structured output
var itemsSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"unrelated": {
			"type": "boolean",
			"description": "True when the input is not about events or tasks"
		},
		"events": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"title": {"type": "string"},
					"description": {"type": "string"},
					"start": {"type": "string", "description": "ISO 8601 datetime"},
					"end": {"type": "string", "description": "ISO 8601 datetime"},
					"location": {"type": "string"},
					"type": {"type": "string", "enum": ["COMMON", "WORK", "STUDIES", "FITNESS"]},
					"completed": {"type": "boolean"}
				},
				"required": ["title", "description", "start", "end", "location", "type", "completed"],
				"additionalProperties": false
			}
		},
		"tasks": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"title": {"type": "string"},
					"description": {"type": "string"},
					"completed": {"type": "boolean"},
					"dueDateTime": {"type": "string", "description": "ISO 8601 datetime"},
					"allDay": {"type": "boolean"}
				},
				"required": ["title", "description", "completed", "dueDateTime", "allDay"],
				"additionalProperties": false
			}
		}
	},
	"required": ["unrelated", "events", "tasks"],
	"additionalProperties": false
}`)

// GenerateItems turns a free-text query into structured events and tasks.
// Single attempt, no retry.
func (c *Client) GenerateItems(ctx context.Context, query string) (*ParsedItems, error) {
	prompt := fmt.Sprintf(generatePromptTemplate, time.Now().Format("2006-01-02 (Monday)"), query)
	return c.requestItems(ctx, prompt)
}

// ProcessTranscript converts a voice transcript into structured events and
// tasks. Returns ErrUnrelated when the transcript is about something else.
func (c *Client) ProcessTranscript(ctx context.Context, transcript string) (*ParsedItems, error) {
	prompt := fmt.Sprintf(transcriptPromptTemplate, time.Now().Format("2006-01-02 (Monday)"), transcript)
	items, err := c.requestItems(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if items.Unrelated {
		return nil, ErrUnrelated
	}
	return items, nil
}

// Transcribe runs the audio through the whisper-1 transcription endpoint.
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filename,
		Reader:   audio,
	})
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}
	return resp.Text, nil
}

func (c *Client) requestItems(ctx context.Context, prompt string) (*ParsedItems, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "calendar_items",
				Schema: itemsSchema,
				Strict: true,
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call AI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from AI")
	}

	items := &ParsedItems{}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), items); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}
	return items, nil
}
