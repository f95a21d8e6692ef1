package service

import "errors"

// Failure taxonomy for the pipeline. Transcription and generation
// failures abort the submission; synthesis and storage failures only
// degrade the resulting event.
var (
	ErrTranscription     = errors.New("transcription stage failed")
	ErrGeneration        = errors.New("generation stage failed")
	ErrSynthesis         = errors.New("synthesis stage failed")
	ErrStorage           = errors.New("event append failed")
	ErrMissingDependency = errors.New("missing pipeline dependency")
)
