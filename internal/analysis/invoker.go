// Package analysis sends chart images to a local Ollama vision model and
// turns the reply into a Result.
package analysis

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/ollama/ollama/api"
)

// Chatter sends one chat request to the inference service. *api.Client
// satisfies it.
type Chatter interface {
	Chat(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error
}

// Observer is notified once per outbound analysis.
type Observer interface {
	Observe(ok bool, elapsed time.Duration)
}

// Invoker runs chart analyses. It holds no per-request state and is safe for
// concurrent use.
type Invoker struct {
	chatter  Chatter
	logger   *slog.Logger
	observer Observer
	timeout  time.Duration
}

type Option func(*Invoker)

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(inv *Invoker) { inv.logger = l }
}

// WithObserver registers an Observer, typically the metrics recorder.
func WithObserver(o Observer) Option {
	return func(inv *Invoker) { inv.observer = o }
}

// WithTimeout bounds each call to the inference service. Zero means no
// timeout.
func WithTimeout(d time.Duration) Option {
	return func(inv *Invoker) { inv.timeout = d }
}

// New returns an Invoker that talks to the service through chatter.
func New(chatter Chatter, opts ...Option) *Invoker {
	inv := &Invoker{
		chatter: chatter,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// NewRequest builds the chat request for one encoded chart.
func NewRequest(png []byte) *api.ChatRequest {
	stream := false
	return &api.ChatRequest{
		Model:  Model,
		Stream: &stream,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: instruction,
				Images:  []api.ImageData{png},
			},
		},
	}
}

// Analyze runs one analysis of img. A nil img yields NoImagePrompt without
// contacting the service. Every failure is folded into the returned Result.
func (inv *Invoker) Analyze(ctx context.Context, img image.Image) Result {
	if img == nil {
		return Success(NoImagePrompt)
	}

	start := time.Now()
	text, err := inv.chat(ctx, img)
	elapsed := time.Since(start)

	if inv.observer != nil {
		inv.observer.Observe(err == nil, elapsed)
	}

	if err != nil {
		inv.logger.Warn("analysis failed", "model", Model, "elapsed", elapsed, "err", err)
		return Failure(err)
	}

	inv.logger.Info("analysis completed", "model", Model, "elapsed", elapsed, "chars", len(text))
	return Success(text)
}

func (inv *Invoker) chat(ctx context.Context, img image.Image) (string, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}

	if inv.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.timeout)
		defer cancel()
	}

	b := img.Bounds()
	inv.logger.Debug("sending chart", "model", Model, "width", b.Dx(), "height", b.Dy(), "bytes", len(data))

	var (
		content  string
		received bool
	)
	err = inv.chatter.Chat(ctx, NewRequest(data), func(resp api.ChatResponse) error {
		content += resp.Message.Content
		received = true
		return nil
	})
	if err != nil {
		return "", err
	}
	if !received {
		return "", fmt.Errorf("empty response from %s", Model)
	}
	return content, nil
}
