package ollama

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/chatkit/chat"
	"github.com/kbukum/chatkit/logger"
	"github.com/kbukum/chatkit/observability"
	"github.com/kbukum/chatkit/provider"
)

// CreateStream runs one streaming completion. Request errors and connection
// failures are returned directly. Otherwise the channel yields a Text event
// per non-empty fragment, then exactly one Result or Err event, and closes.
// When ctx is cancelled the terminal event carries ctx.Err(), accumulated
// output is discarded and usage totals are left untouched. The caller must
// drain the channel or cancel ctx; a cancelled stream releases its
// connection even when nobody reads the terminal event.
func (c *Client) CreateStream(ctx context.Context, req *chat.Request) (<-chan chat.StreamEvent, error) {
	callID := uuid.NewString()
	log := c.log.WithFields(logger.Fields(logger.FieldCallID, callID))

	ctx, span := observability.StartSpan(ctx, observability.SpanChatStream)
	observability.SetSpanAttribute(ctx, observability.AttrCallID, callID)
	observability.SetSpanAttribute(ctx, observability.AttrModel, c.model)

	params, err := c.buildCreateParams(req)
	if err != nil {
		observability.SetSpanError(ctx, err)
		span.End()
		return nil, err
	}

	start := time.Now()
	c.metrics.CallStarted(ctx, c.model, operationStream)
	rec := observability.CallRecord{Model: c.model, Operation: operationStream}

	it, err := c.backend.ChatStream(ctx, params.chatRequest(true))
	if err != nil {
		rec.Status = callStatus(ctx, err)
		rec.Duration = time.Since(start)
		c.metrics.CallFinished(ctx, rec)
		observability.SetSpanError(ctx, err)
		span.End()
		return nil, err
	}

	log.Info("stream start", logger.Fields(
		logger.FieldModel, params.Args.Model,
		logger.FieldMessages, len(params.Messages),
		logger.FieldTools, len(params.Tools),
	))

	out := make(chan chat.StreamEvent, 1)
	go func() {
		defer close(out)
		defer span.End()
		defer func() { _ = it.Close() }()

		s := &streamState{}
		err := c.consumeStream(ctx, it, s, out)
		rec.Duration = time.Since(start)
		if err != nil {
			rec.Status = callStatus(ctx, err)
			c.metrics.CallFinished(ctx, rec)
			observability.SetSpanError(ctx, err)
			log.WithError(err).Info("stream end", logger.Fields(
				logger.FieldChunks, s.chunks,
				logger.FieldDuration, rec.Duration.Milliseconds(),
			))
			sendTerminal(ctx, out, chat.StreamEvent{Err: err})
			return
		}

		result, err := c.aggregate(s)
		if err != nil {
			rec.Status = observability.StatusError
			c.metrics.CallFinished(ctx, rec)
			observability.SetSpanError(ctx, err)
			sendTerminal(ctx, out, chat.StreamEvent{Err: err})
			return
		}
		if s.last != nil {
			c.warnModelMismatch(log, params.Args.Model, s.last.Model)
		}
		c.record(result.Usage)

		rec.Status = observability.StatusOK
		rec.PromptTokens = result.Usage.PromptTokens
		rec.CompletionTokens = result.Usage.CompletionTokens
		c.metrics.CallFinished(ctx, rec)
		observability.SetSpanAttribute(ctx, observability.AttrFinishReason, string(result.FinishReason))
		observability.SetSpanAttribute(ctx, observability.AttrPromptTokens, result.Usage.PromptTokens)
		observability.SetSpanAttribute(ctx, observability.AttrCompletionTokens, result.Usage.CompletionTokens)
		log.Info("stream end", logger.Fields(
			logger.FieldChunks, s.chunks,
			logger.FieldPromptTokens, result.Usage.PromptTokens,
			logger.FieldCompletionTokens, result.Usage.CompletionTokens,
			logger.FieldFinishReason, string(result.FinishReason),
			logger.FieldDuration, rec.Duration.Milliseconds(),
		))
		sendTerminal(ctx, out, chat.StreamEvent{Result: result})
	}()
	return out, nil
}

// sendTerminal delivers the last event of a stream. A free buffer slot takes
// it at once, so a cancelled stream still reports ctx.Err() to a reader;
// otherwise it waits for the reader until ctx is done.
func sendTerminal(ctx context.Context, out chan<- chat.StreamEvent, ev chat.StreamEvent) {
	select {
	case out <- ev:
		return
	default:
	}
	select {
	case out <- ev:
	case <-ctx.Done():
	}
}

// streamState accumulates chunks until the stream ends.
type streamState struct {
	stopReason string
	stopSet    bool
	text       strings.Builder
	thinking   strings.Builder
	calls      []ToolCall
	last       *ChatResponse
	chunks     int
}

// consumeStream reads chunks until the iterator is exhausted, forwarding
// text fragments as they arrive.
func (c *Client) consumeStream(ctx context.Context, it provider.Iterator[*ChatResponse], s *streamState, out chan<- chat.StreamEvent) error {
	for {
		chunk, ok, err := it.Next(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return err
		}
		if !ok {
			return nil
		}
		s.chunks++
		s.last = chunk

		if chunk.Done && !s.stopSet {
			s.stopReason = chunk.DoneReason
			s.stopSet = true
		}
		if chunk.Message.Content != nil && *chunk.Message.Content != "" {
			fragment := *chunk.Message.Content
			s.text.WriteString(fragment)
			select {
			case out <- chat.StreamEvent{Text: fragment}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		s.thinking.WriteString(chunk.Message.Thinking)
		s.calls = append(s.calls, chunk.Message.ToolCalls...)
	}
}

// aggregate builds the final result. Tool calls win and the text becomes
// the thought; otherwise the concatenated text is the content.
func (c *Client) aggregate(s *streamState) (*chat.CreateResult, error) {
	result := &chat.CreateResult{Usage: usageOf(s.last)}
	if len(s.calls) > 0 {
		calls, err := c.functionCalls(s.calls)
		if err != nil {
			return nil, err
		}
		result.FinishReason = chat.FinishFunctionCalls
		result.FunctionCalls = calls
		result.Thought = s.text.String()
	} else {
		result.FinishReason = normalizeFinishReason(s.stopReason)
		result.Content = s.text.String()
	}
	if result.Thought == "" {
		result.Thought = s.thinking.String()
	}
	return result, nil
}
