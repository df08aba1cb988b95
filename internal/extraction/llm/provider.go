// Package llm holds the model providers the extraction backend fans out to.
package llm

import (
	"context"

	"github.com/akolanti/DocForm/internal/domain/documentModel"
)

type Provider interface {
	// Name is the model identifier used as the key of the response data.
	Name() string
	Complete(ctx context.Context, system, user string) (Completion, error)
}

// Completion is a model reply. Usage is nil when the provider did not report it.
type Completion struct {
	Text  string
	Usage *documentModel.TokenUsage
}
