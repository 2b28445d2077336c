package analysis

import (
	"context"
)

// Generator produces the raw model reply for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Store persists validated results.
type Store interface {
	Create(ctx context.Context, userID int64, ingredients string, res *Result) (int64, error)
}

// Service is the analysis pipeline: prompt, generate, extract, validate,
// persist for authenticated callers.
type Service struct {
	gen   Generator
	store Store
}

func NewService(gen Generator, store Store) *Service {
	return &Service{gen: gen, store: store}
}

// Analyze runs one analysis. userID is nil for anonymous callers; for
// authenticated callers the result is persisted and its id attached.
func (s *Service) Analyze(ctx context.Context, userID *int64, ingredients string) (*Result, error) {
	text, err := s.gen.Generate(ctx, buildPrompt(ingredients))
	if err != nil {
		return nil, err
	}
	res, err := parseResult(extractJSON(text))
	if err != nil {
		return nil, err
	}
	if userID != nil {
		id, err := s.store.Create(ctx, *userID, ingredients, res)
		if err != nil {
			return nil, err
		}
		res.ID = id
	}
	return res, nil
}
