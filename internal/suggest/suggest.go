package suggest

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/dshills/quill/internal/cache"
	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/gitctx"
	"github.com/dshills/quill/internal/llm"
	"github.com/dshills/quill/internal/prompt"
	"github.com/dshills/quill/internal/redact"
	"github.com/qiniu/x/log"
)

// FallbackMessage is printed whenever no message could be generated.
const FallbackMessage = "Refactor code."

// NoChangesMessage is printed when nothing is staged.
const NoChangesMessage = "No changes to commit."

// Collector gathers the staged diff.
type Collector interface {
	Collect(ctx context.Context, opts gitctx.DiffOptions) (gitctx.StagedDiff, error)
}

// Completer sends one chat completion request.
type Completer interface {
	Complete(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, error)
}

// Store caches generated messages.
type Store interface {
	Get(key string) (string, bool)
	Put(key, model, message string) error
}

// Result is the outcome of one run.
type Result struct {
	Files     []string `json:"files"`
	Message   string   `json:"message"`
	NoChanges bool     `json:"noChanges"`
	Fallback  bool     `json:"fallback"`
	Cached    bool     `json:"cached"`
	Truncated bool     `json:"truncated"`
}

// Engine runs the collect -> truncate -> prompt -> complete pipeline.
type Engine struct {
	cfg       config.Config
	collector Collector
	completer Completer
	store     Store
	redactor  *redact.Redactor
	log       *log.Logger
}

// New wires an Engine. store may be nil; a nil logger discards output.
func New(cfg config.Config, collector Collector, completer Completer, store Store, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard, "", log.Llevel)
	}
	return &Engine{
		cfg:       cfg,
		collector: collector,
		completer: completer,
		store:     store,
		redactor:  redact.New(cfg.Privacy.RedactSecrets, cfg.Privacy.RedactPaths),
		log:       logger,
	}
}

// Run never fails: git and API errors are logged and replaced by
// FallbackMessage, and an empty diff yields a NoChanges result.
func (e *Engine) Run(ctx context.Context) Result {
	staged, err := e.collector.Collect(ctx, gitctx.DiffOptions{
		ContextLines: e.cfg.ContextLines,
		MaxChars:     e.cfg.MaxDiffChars,
		Include:      e.cfg.Include,
		Exclude:      e.cfg.Exclude,
		Redact:       e.redactor.Diff,
		OnFileError: func(path string, err error) {
			e.log.Errorf("Error getting diff for file %s: %v", path, err)
		},
	})
	if err != nil {
		e.log.Errorf("Error fetching git diff: %v", err)
		return Result{NoChanges: true}
	}

	if len(staged.Files) > 0 {
		e.log.Infof("Staged files: %v", staged.Files)
	}
	if staged.Diff == "" {
		return Result{Files: staged.Files, NoChanges: true}
	}
	if staged.Truncated {
		e.log.Debugf("Diff truncated to %d characters", e.cfg.MaxDiffChars)
	}

	res := Result{Files: staged.Files, Truncated: staged.Truncated}
	popts := prompt.Options{Language: e.cfg.Language, NamingConvention: e.cfg.NamingConvention}
	system, user := prompt.Build(staged.Diff, staged.Files, popts)

	key := cache.Key(e.cfg.APIURL, e.cfg.Model, system, user)
	if e.store != nil {
		if msg, ok := e.store.Get(key); ok {
			e.log.Debugf("Using cached message %s", key[:12])
			res.Message = msg
			res.Cached = true
			return res
		}
	}

	msg, err := e.generate(ctx, system, user)
	if err != nil {
		res.Message = FallbackMessage
		res.Fallback = true
		return res
	}
	res.Message = msg

	if e.store != nil {
		if err := e.store.Put(key, e.cfg.Model, msg); err != nil {
			e.log.Warnf("Caching message: %v", err)
		}
	}
	return res
}

var errEmptyMessage = errors.New("empty message in response")

func (e *Engine) generate(ctx context.Context, system, user string) (string, error) {
	resp, err := e.completer.Complete(ctx, llm.ChatRequest{
		SystemPrompt: system,
		UserPrompt:   user,
		MaxTokens:    e.cfg.MaxTokens,
		Temperature:  e.cfg.Temperature,
	})
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			e.log.Errorf("Error: %s is not set in the environment or .env file.", e.cfg.APIKeyEnv)
		} else {
			e.log.Errorf("Error generating commit message: %v", err)
		}
		return "", err
	}
	msg := strings.TrimSpace(resp.Content)
	if msg == "" {
		e.log.Errorf("Error generating commit message: %v", errEmptyMessage)
		return "", errEmptyMessage
	}
	if resp.TokensUsed > 0 {
		e.log.Debugf("Tokens used: %d", resp.TokensUsed)
	}
	return msg, nil
}
