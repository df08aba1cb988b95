// Package extraction is the reference extraction backend: it turns an
// uploaded document into one record per configured model.
package extraction

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/DocForm/internal/data/store"
	"github.com/akolanti/DocForm/internal/domain/documentModel"
	"github.com/akolanti/DocForm/internal/extraction/llm"
	"github.com/akolanti/DocForm/internal/metrics"
	"github.com/akolanti/DocForm/pkg/logger_i"
	"golang.org/x/sync/errgroup"
)

var logger = logger_i.NewLogger("extraction")

var (
	ErrNoProviders        = errors.New("no extraction model is configured")
	ErrAllProvidersFailed = errors.New("every extraction model failed")
)

// Result is the body of a successful extraction. Data is an object of
// model -> record in provider order; a model that failed maps to null.
type Result struct {
	Data   json.RawMessage          `json:"data"`
	Tokens documentModel.TokenUsage `json:"tokens"`
}

// Service is what the http handler calls.
type Service interface {
	Process(ctx context.Context, name string, data []byte, docType documentModel.DocumentType) (Result, error)
	DocumentTypes() []string
}

type service struct {
	providers []llm.Provider
	cache     store.ResultCache
	tokens    TokenCounter
	logger    *logger_i.Logger
}

// NewService skips nil providers so unconfigured ones can be passed as is.
// A nil cache disables caching.
func NewService(providers []llm.Provider, cache store.ResultCache, tokens TokenCounter) Service {
	var active []llm.Provider
	for _, p := range providers {
		if p != nil {
			active = append(active, p)
		}
	}
	if tokens == nil {
		tokens = approxCounter{}
	}
	return &service{
		providers: active,
		cache:     cache,
		tokens:    tokens,
		logger:    logger_i.NewLogger("Extraction Service"),
	}
}

func (s *service) DocumentTypes() []string {
	return documentModel.DocumentTypeNames()
}

func (s *service) Process(ctx context.Context, name string, data []byte, docType documentModel.DocumentType) (Result, error) {
	log := s.logger.FromContext(ctx).With("file", name, "type", docType)
	start := time.Now()

	if len(s.providers) == 0 {
		return Result{}, ErrNoProviders
	}

	key := cacheKey(data, docType)
	if cached, ok := s.lookup(ctx, key); ok {
		log.Info("extraction served from cache")
		return cached, nil
	}

	text, err := ExtractText(name, data)
	if err != nil {
		log.Warn("text extraction failed", "err", err)
		return Result{}, err
	}
	system, user, err := Prompts(docType, text)
	if err != nil {
		return Result{}, err
	}

	completions := s.fanOut(ctx, system, user)

	var (
		buf    bytes.Buffer
		usage  documentModel.TokenUsage
		failed int
	)
	buf.WriteByte('{')
	for i, c := range completions {
		if i > 0 {
			buf.WriteByte(',')
		}
		model, _ := json.Marshal(s.providers[i].Name())
		buf.Write(model)
		buf.WriteByte(':')
		if c.record == nil {
			failed++
			buf.WriteString("null")
		} else {
			buf.Write(c.record)
		}
		usage.InputTokens += c.usage.InputTokens
		usage.OutputTokens += c.usage.OutputTokens
	}
	buf.WriteByte('}')

	if failed == len(completions) {
		metrics.CaptureExtractionMetrics("backend_failure", time.Since(start))
		return Result{}, ErrAllProvidersFailed
	}

	result := Result{Data: buf.Bytes(), Tokens: usage}
	s.store(ctx, key, result)
	metrics.CaptureExtractionMetrics("backend_success", time.Since(start))
	log.Info("extraction complete", "models", len(completions), "failed", failed, "tokens", usage.Total())
	return result, nil
}

type completion struct {
	record json.RawMessage
	usage  documentModel.TokenUsage
}

// fanOut asks every provider at once. A provider error only blanks that
// provider's slot.
func (s *service) fanOut(ctx context.Context, system, user string) []completion {
	out := make([]completion, len(s.providers))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range s.providers {
		g.Go(func() error {
			callStart := time.Now()
			reply, err := p.Complete(gctx, system, user)
			metrics.ObserveDependency("llm_"+p.Name(), callStart)
			log := s.logger.FromContext(ctx).With("model", p.Name())
			if err != nil {
				log.Error("model call failed", "err", err)
				out[i].usage = EstimateUsage(s.tokens, system+user, "")
				return nil
			}

			usage := EstimateUsage(s.tokens, system+user, reply.Text)
			if reply.Usage != nil {
				usage = *reply.Usage
			}
			out[i].usage = usage

			record, err := RecoverJSON(reply.Text)
			if err != nil {
				log.Warn("model reply holds no JSON", "err", err, "reply_bytes", len(reply.Text))
				return nil
			}
			out[i].record = record
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (s *service) lookup(ctx context.Context, key string) (Result, bool) {
	if s.cache == nil {
		return Result{}, false
	}
	start := time.Now()
	raw, ok := s.cache.GetResult(ctx, key)
	metrics.ObserveDependency("result_cache", start)
	metrics.CountCacheLookup(ok)
	if !ok {
		return Result{}, false
	}
	var r Result
	if err := json.Unmarshal(raw, &r); err != nil {
		s.logger.Warn("dropping unreadable cached result", "err", err)
		return Result{}, false
	}
	return r, true
}

func (s *service) store(ctx context.Context, key string, r Result) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := s.cache.SaveResult(context.WithoutCancel(ctx), key, raw); err != nil {
		s.logger.Error("Failed to save to cache", "err", err)
	}
}

func cacheKey(data []byte, docType documentModel.DocumentType) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", hex.EncodeToString(sum[:]), docType)
}
