package ollama

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/chatkit/chat"
	"github.com/kbukum/chatkit/errors"
	"github.com/kbukum/chatkit/logger"
	"github.com/kbukum/chatkit/modelinfo"
	"github.com/kbukum/chatkit/observability"
	"github.com/kbukum/chatkit/provider"
	"github.com/kbukum/chatkit/tokenizer"
)

// Name is the provider name of the adapter.
const Name = "ollama"

const (
	operationCreate = "create"
	operationStream = "stream"
)

var (
	_ chat.Client                 = (*Client)(nil)
	_ provider.Provider           = (*Client)(nil)
	_ provider.Closeable          = (*Client)(nil)
	_ observability.HealthChecker = (*Client)(nil)
)

// Client is a chat.Client for one model on an Ollama server. It is safe for
// concurrent use.
type Client struct {
	cfg      Config
	model    string
	info     chat.ModelInfo
	baseArgs CreateArgs

	backend Backend
	log     *logger.Logger
	metrics *observability.ChatMetrics

	encOnce sync.Once
	enc     tokenizer.Encoder
	encErr  error

	toolCallSeq atomic.Uint64
	total       chat.UsageTracker
	actual      chat.UsageTracker
}

// Option configures a Client.
type Option func(*Client)

// WithBackend replaces the HTTP backend.
func WithBackend(b Backend) Option {
	return func(c *Client) { c.backend = b }
}

// WithLogger sets the logger. It defaults to the "ollama" logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics records call metrics on m.
func WithMetrics(m *observability.ChatMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithEncoder sets the token encoder used by CountTokens. Without it the
// tiktoken encoding for the model is loaded on first use.
func WithEncoder(enc tokenizer.Encoder) Option {
	return func(c *Client) { c.enc = enc }
}

// New creates a client for cfg.Model. Model capabilities come from
// cfg.ModelInfo or the capability registry.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{cfg: cfg, model: cfg.Model}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get(Name)
	}

	if cfg.ModelInfo != nil {
		c.info = *cfg.ModelInfo
	} else {
		info, err := modelinfo.Info(cfg.Model)
		if err != nil {
			return nil, err
		}
		c.info = info
	}

	args, err := ParseCreateArgs(cfg.createArgs(), c.log)
	if err != nil {
		return nil, err
	}
	if (formatSet(args.Format) || args.ResponseFormat != nil) && !c.info.JSONOutput {
		return nil, errors.UnsupportedCapability(c.model, capabilityJSON)
	}
	c.baseArgs = args

	if c.backend == nil {
		b, err := NewHTTPBackend(cfg.httpConfig())
		if err != nil {
			return nil, err
		}
		c.backend = b
	}
	return c, nil
}

// Name returns the provider name.
func (c *Client) Name() string { return Name }

// Config returns the configuration the client was built with.
func (c *Client) Config() Config { return c.cfg }

// ModelInfo returns the capabilities the client was built with.
func (c *Client) ModelInfo() chat.ModelInfo { return c.info }

// TotalUsage returns the usage of all successful calls.
func (c *Client) TotalUsage() chat.RequestUsage { return c.total.Total() }

// ActualUsage returns the usage of all successful calls. The backend reports
// no cached tokens, so it matches TotalUsage.
func (c *Client) ActualUsage() chat.RequestUsage { return c.actual.Total() }

// IsAvailable reports whether the server answers.
func (c *Client) IsAvailable(ctx context.Context) bool {
	_, err := c.backend.Ping(ctx)
	return err == nil
}

// CheckHealth reports the server state as a health component.
func (c *Client) CheckHealth(ctx context.Context) observability.Health {
	h := observability.Health{Name: Name, Details: map[string]string{"model": c.model}}
	version, err := c.backend.Ping(ctx)
	if err != nil {
		h.Status = observability.HealthStatusDown
		h.Message = err.Error()
		return h
	}
	h.Status = observability.HealthStatusUp
	h.Details["version"] = version
	return h
}

// Close releases the backend.
func (c *Client) Close(ctx context.Context) error {
	return c.backend.Close(ctx)
}

// Create runs one non-streaming completion.
func (c *Client) Create(ctx context.Context, req *chat.Request) (*chat.CreateResult, error) {
	callID := uuid.NewString()
	log := c.log.WithFields(logger.Fields(logger.FieldCallID, callID))

	ctx, span := observability.StartSpan(ctx, observability.SpanChatCreate)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrCallID, callID)
	observability.SetSpanAttribute(ctx, observability.AttrModel, c.model)

	params, err := c.buildCreateParams(req)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}

	start := time.Now()
	c.metrics.CallStarted(ctx, c.model, operationCreate)
	rec := observability.CallRecord{Model: c.model, Operation: operationCreate}

	resp, err := c.backend.Chat(ctx, params.chatRequest(false))
	if err == nil {
		var result *chat.CreateResult
		if result, err = c.resultFrom(resp); err == nil {
			c.warnModelMismatch(log, params.Args.Model, resp.Model)
			c.record(result.Usage)

			rec.Status = observability.StatusOK
			rec.PromptTokens = result.Usage.PromptTokens
			rec.CompletionTokens = result.Usage.CompletionTokens
			rec.Duration = time.Since(start)
			c.metrics.CallFinished(ctx, rec)

			observability.SetSpanAttribute(ctx, observability.AttrFinishReason, string(result.FinishReason))
			observability.SetSpanAttribute(ctx, observability.AttrPromptTokens, result.Usage.PromptTokens)
			observability.SetSpanAttribute(ctx, observability.AttrCompletionTokens, result.Usage.CompletionTokens)
			log.Info("llm call", logger.Fields(
				logger.FieldModel, params.Args.Model,
				logger.FieldMessages, len(params.Messages),
				logger.FieldTools, len(params.Tools),
				logger.FieldPromptTokens, result.Usage.PromptTokens,
				logger.FieldCompletionTokens, result.Usage.CompletionTokens,
				logger.FieldFinishReason, string(result.FinishReason),
				logger.FieldDuration, rec.Duration.Milliseconds(),
			))
			return result, nil
		}
	}

	rec.Status = callStatus(ctx, err)
	rec.Duration = time.Since(start)
	c.metrics.CallFinished(ctx, rec)
	observability.SetSpanError(ctx, err)
	log.WithError(err).Debug("llm call failed")
	return nil, err
}

// record adds the usage of a successful call to both running totals.
func (c *Client) record(u chat.RequestUsage) {
	c.total.Add(u)
	c.actual.Add(u)
}

// warnModelMismatch logs when the server answered with another model. An
// implicit ":latest" tag does not count as a difference.
func (c *Client) warnModelMismatch(log *logger.Logger, requested, resolved string) {
	if resolved == "" || sameModel(requested, resolved) {
		return
	}
	log.Warn("resolved model differs from requested model", logger.Fields(
		logger.FieldModel, requested,
		logger.FieldResolvedModel, resolved,
	))
}

func sameModel(a, b string) bool {
	return strings.TrimSuffix(a, ":latest") == strings.TrimSuffix(b, ":latest")
}

func callStatus(ctx context.Context, err error) string {
	if ctx.Err() != nil || stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return observability.StatusCanceled
	}
	return observability.StatusError
}

// encoder returns the token encoder, loading the tiktoken encoding once.
func (c *Client) encoder() (tokenizer.Encoder, error) {
	c.encOnce.Do(func() {
		if c.enc != nil {
			return
		}
		enc, fallback, err := tokenizer.ForModel(c.model)
		if err != nil {
			c.encErr = errors.Internal(err)
			return
		}
		if fallback {
			c.log.Warn("model not found in tokenizer, using default encoding",
				logger.Fields(logger.FieldModel, c.model, "encoding", tokenizer.DefaultEncoding))
		}
		c.enc = enc
	})
	return c.enc, c.encErr
}

// tokenLimit is the configured override, else the registry limit.
func (c *Client) tokenLimit() (int, error) {
	if c.cfg.ModelInfo != nil && c.cfg.ModelInfo.TokenLimit > 0 {
		return c.cfg.ModelInfo.TokenLimit, nil
	}
	if limit, err := modelinfo.TokenLimit(c.model); err == nil && limit > 0 {
		return limit, nil
	}
	return 0, errors.UnknownModel(c.model)
}
