package agent

import (
	"context"
	"fmt"
	"strconv"

	"google.golang.org/genai"
)

// Library answers the function calls of a model.
type Library func(context.Context, *genai.FunctionCall) *genai.FunctionResponse

type Function interface {
	// Declare this function
	Declaration() *genai.FunctionDeclaration
	// Call this function
	Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

// NewLibrary dispatches function calls to functions, by name.
func NewLibrary[T Function](functions []T) Library {
	return func(ctx context.Context, call *genai.FunctionCall) *genai.FunctionResponse {
		for _, f := range functions {
			if f.Declaration().Name == call.Name {
				return f.Call(ctx, call.ID, call.Args)
			}
		}
		return errorResponse(call.ID, call.Name, fmt.Errorf("unknown function %s", call.Name))
	}
}

func NewDeclaration[T Function](functions []T) []*genai.FunctionDeclaration {
	result := make([]*genai.FunctionDeclaration, 0, len(functions))
	for _, f := range functions {
		result = append(result, f.Declaration())
	}
	return result
}

// Func implements a simple Function
type Func struct {
	Decl *genai.FunctionDeclaration
	Func func(ctx context.Context, args map[string]any) (string, error)
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }

func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	out, err := f.Func(ctx, args)
	if err != nil {
		return errorResponse(id, f.Decl.Name, err)
	}
	return outputResponse(id, f.Decl.Name, out)
}

func outputResponse(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"output": output}}
}

func errorResponse(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"error": err.Error()}}
}

func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name]
	if !ok {
		return "", fmt.Errorf("missing argument %q", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q is not a string as expected but %T", name, v)
	}
	return s, nil
}

// intArg reads an integer argument. JSON numbers arrive as float64, some
// models send them as strings.
func intArg(args map[string]any, name string, def int) (int, error) {
	v, ok := args[name]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("argument %q must be an integer, got %q", name, n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("argument %q must be an integer, got %T", name, v)
	}
}

// intsArg reads a list of integers argument.
func intsArg(args map[string]any, name string) ([]int, error) {
	v, ok := args[name]
	if !ok {
		return nil, fmt.Errorf("missing argument %q", name)
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("argument %q must be a list of integers, got %T", name, v)
	}
	ids := make([]int, 0, len(list))
	for i := range list {
		id, err := intArg(map[string]any{name: list[i]}, name, 0)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
