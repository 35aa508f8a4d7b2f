package sentiment

import "errors"

// Sentinel kinds for classifier errors.
var (
	ErrNoAPIKey        = errors.New("no model api key configured")
	ErrEmptyModelReply = errors.New("model returned no label")
)
