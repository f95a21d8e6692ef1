package deepgram

import "errors"

// Sentinel kinds for transcription errors.
var (
	ErrTranscribe = errors.New("transcription failed")
)
