// Package sentiment labels free-text feedback with a sentiment tag.
//
// Classification is two-tiered: a probabilistic model when one is
// reachable, and a deterministic keyword rule otherwise. Classify
// never fails; every fault inside this package degrades to the rule
// tier and, at worst, to "neutral".
package sentiment

import (
	"context"
	"strings"
	"sync"

	"github.com/okian/tipjar/pkg/logger"
	"github.com/okian/tipjar/pkg/metrics"
)

// Labels produced by the rule tier. The model tier's vocabulary is
// not normalized to these: callers must treat sentiment as opaque and
// branch only on the case-insensitive POS/NEG prefix.
const (
	LabelPositive = "POSITIVE"
	LabelNegative = "NEGATIVE"
	LabelNeutral  = "neutral"
)

// Classifier labels a piece of feedback text. Implementations never
// return an error; a label is always produced.
type Classifier interface {
	Classify(ctx context.Context, text string) string
}

// Model is the primary tier: an external pretrained classifier.
// Construction and invocation may both fail; the two-tier classifier
// absorbs those failures.
type Model interface {
	Label(ctx context.Context, text string) (string, error)
}

// ModelFactory builds the primary-tier model. It runs at most once
// per process, on first use.
type ModelFactory func(ctx context.Context) (Model, error)

// primaryState is the capability holder for the model tier.
type primaryState int

const (
	primaryUninitialized primaryState = iota
	primaryAvailable
	primaryUnavailable
)

func (s primaryState) String() string {
	switch s {
	case primaryAvailable:
		return "available"
	case primaryUnavailable:
		return "unavailable"
	default:
		return "uninitialized"
	}
}

// TwoTier implements Classifier with a lazily initialized model tier
// and the keyword rule as fallback.
type TwoTier struct {
	mu      sync.Mutex
	state   primaryState
	model   Model
	factory ModelFactory

	logger logger.Logger
}

// NewTwoTier creates a classifier with configuration options. Without
// a model factory the rule tier handles every call.
func NewTwoTier(opts ...Option) *TwoTier {
	c := &TwoTier{
		state:  primaryUnavailable,
		logger: logger.Named("sentiment"),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.factory != nil {
		c.state = primaryUninitialized
	}
	return c
}

// Classify labels text. The model tier is tried when available; any
// invocation failure downgrades that single call to the rule tier.
func (c *TwoTier) Classify(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)

	m := c.acquireModel(ctx)
	if m == nil {
		metrics.RecordClassification("rule")
		return RuleLabel(text)
	}

	label, err := m.Label(ctx, text)
	if err != nil {
		// Per-call failure only; the model stays eligible.
		c.logger.Warn(ctx, "model classification failed; using rule tier", logger.Error(err))
		metrics.RecordClassifierFallback()
		metrics.RecordClassification("rule")
		return RuleLabel(text)
	}
	metrics.RecordClassification("model")
	return label
}

// acquireModel resolves the capability holder. The factory runs at
// most once per process lifetime; an initialization failure pins the
// tier to unavailable so the expensive attempt is never repeated.
func (c *TwoTier) acquireModel(ctx context.Context) Model {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case primaryAvailable:
		return c.model
	case primaryUnavailable:
		return nil
	}

	m, err := c.factory(ctx)
	if err != nil {
		c.state = primaryUnavailable
		c.logger.Warn(ctx, "model tier unavailable for this process", logger.Error(err))
		return nil
	}
	c.state = primaryAvailable
	c.model = m
	c.logger.Info(ctx, "model tier initialized")
	return m
}

// TierState reports the capability holder state for monitoring.
func (c *TwoTier) TierState() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.String()
}

// IsPositive reports whether a label (from either tier) reads as
// positive. Comparison is by case-insensitive prefix since the two
// tiers do not share a vocabulary.
func IsPositive(label string) bool {
	return strings.HasPrefix(strings.ToUpper(label), "POS")
}

// IsNegative is the negative counterpart of IsPositive.
func IsNegative(label string) bool {
	return strings.HasPrefix(strings.ToUpper(label), "NEG")
}
