package extraction

import (
	"sync"

	"github.com/akolanti/DocForm/internal/config"
	"github.com/akolanti/DocForm/internal/domain/documentModel"
	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter counts the tokens of a piece of text.
type TokenCounter interface {
	Count(text string) int
}

type tiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func (c tiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// approxCounter is used when the tokenizer data cannot be loaded.
type approxCounter struct{}

func (approxCounter) Count(text string) int {
	return (len(text) + 3) / 4
}

var (
	counterOnce sync.Once
	counter     TokenCounter
)

// DefaultTokenCounter loads the tokenizer once. tiktoken downloads its
// encoding on first use, so offline hosts get the approximation.
func DefaultTokenCounter() TokenCounter {
	counterOnce.Do(func() {
		enc, err := tiktoken.EncodingForModel(config.TokenizerModel)
		if err != nil {
			logger.Warn("tokenizer unavailable, estimating tokens from length", "err", err)
			counter = approxCounter{}
			return
		}
		counter = tiktokenCounter{enc: enc}
	})
	return counter
}

// EstimateUsage counts the prompt and reply when the provider did not report usage.
func EstimateUsage(tc TokenCounter, prompt, reply string) documentModel.TokenUsage {
	return documentModel.TokenUsage{
		InputTokens:  tc.Count(prompt),
		OutputTokens: tc.Count(reply),
	}
}
