package discovery

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// stubGenerator returns a canned completion or error.
type stubGenerator struct {
	response string
	err      error
}

func (s *stubGenerator) Complete(_ context.Context, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) GetModel() string { return "stub-generator" }

// stubEmbedder serves embeddings from a fixed map. Terms without an entry
// fail, which lets tests exercise partial-failure paths. calls counts Embed
// invocations to verify caching.
type stubEmbedder struct {
	vectors map[string][]float32

	mu    sync.Mutex
	calls int
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	v, ok := s.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no embedding for %q", text)
	}
	return v, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *stubEmbedder) GetModel() string { return "stub-embedder" }

func (s *stubEmbedder) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// recordingNotifier captures pipeline progress stages in order.
type recordingNotifier struct {
	mu     sync.Mutex
	stages []string
}

func (r *recordingNotifier) Notify(stage string, _ map[string]any) {
	r.mu.Lock()
	r.stages = append(r.stages, stage)
	r.mu.Unlock()
}

var errStub = errors.New("stub failure")
