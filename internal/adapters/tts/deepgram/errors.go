package deepgram

import "errors"

// Sentinel kinds for synthesis errors.
var (
	ErrSynthesize = errors.New("speech synthesis failed")
)
