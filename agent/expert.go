package agent

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"
)

// Expert represent a chat with a business expert.
type Expert struct {
	Name        string                       `json:"name"`
	Description string                       `json:"description"`
	ModelName   string                       `json:"model_name"`
	Config      *genai.GenerateContentConfig `json:"config"`
	Library     Library
	chat        *genai.Chat
}

func (e *Expert) Start(ctx context.Context, client *genai.Client) error {
	chat, err := client.Chats.Create(ctx, e.ModelName, e.Config, nil)
	if err != nil {
		return err
	}
	e.chat = chat
	return nil
}

// Ask sends parts to the expert and answers its function calls until it
// replies with content.
func (e *Expert) Ask(ctx context.Context, parts ...*genai.Part) (*genai.Content, error) {
	resp, err := e.chat.Send(ctx, parts...)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from expert %s", e.Name)
	}

	var calls []*genai.Part
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.FunctionCall == nil {
			continue
		}
		if e.Library == nil {
			return nil, fmt.Errorf("expert %s doesn't know how to make function calls", e.Name)
		}
		// Errors are reported to the model in the response itself.
		calls = append(calls, &genai.Part{FunctionResponse: e.Library(ctx, p.FunctionCall)})
	}
	if len(calls) > 0 {
		return e.Ask(ctx, calls...)
	}
	return resp.Candidates[0].Content, nil
}

// Declaration returns the function declaration to ask this expert.
func (e *Expert) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        e.Name,
		Description: e.Description,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"question": {
					Type:        genai.TypeString,
					Description: "The question to ask the expert.",
				},
			},
			Required: []string{"question"},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "Expert's response.",
		},
	}
}

// Call asks the question in args to this expert.
func (e *Expert) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	question, err := stringArg(args, "question")
	if err != nil {
		return errorResponse(id, e.Name, err)
	}

	response, err := e.Ask(ctx, &genai.Part{Text: question})
	if err != nil {
		return errorResponse(id, e.Name, fmt.Errorf("something went wrong while calling the expert: %w", err))
	}

	r := text(response)
	log.Printf("Expert %q: \n        %q\n        %q", e.Name, question, r)
	return outputResponse(id, e.Name, r)
}
