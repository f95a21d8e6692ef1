package groq

import "errors"

// Sentinel kinds for generation errors.
var (
	ErrGenerate = errors.New("response generation failed")
)
