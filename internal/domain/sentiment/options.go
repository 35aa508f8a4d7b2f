package sentiment

import "github.com/okian/tipjar/pkg/logger"

// Option applies a configuration option to the TwoTier classifier.
type Option func(*TwoTier)

// WithModelFactory enables the model tier. The factory is invoked
// lazily, at most once per process.
func WithModelFactory(f ModelFactory) Option {
	return func(c *TwoTier) {
		c.factory = f
	}
}

// WithLogger sets a custom logger for the classifier.
func WithLogger(l logger.Logger) Option {
	return func(c *TwoTier) {
		if l != nil {
			c.logger = l
		}
	}
}
