package llm

import "context"

// TextGenerator is the interface for LLM text completion.
// The query parser uses single-string completion style (not chat).
type TextGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
	GetModel() string
}

// EmbeddingGenerator is the interface for generating vector embeddings.
//
// EmbedBatch returns one embedding per input text in the same order; the
// whole batch fails together; callers that need partial results issue
// per-text Embed calls.
type EmbeddingGenerator interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	GetModel() string
}
