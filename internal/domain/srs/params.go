package srs

import "github.com/phrazzld/scry-study/internal/domain"

// Params defines all configurable parameters for the SRS algorithm
type Params struct {
	// MinEaseFactor is the floor every recomputed ease factor is clamped to
	MinEaseFactor float64

	// FirstInterval is the interval in days after the first successful recall
	FirstInterval int

	// SecondInterval is the interval in days after the second consecutive recall
	SecondInterval int

	// LapseInterval is the interval in days after a forgotten card
	LapseInterval int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	MinEaseFactor  float64
	FirstInterval  int
	SecondInterval int
	LapseInterval  int
}

// NewDefaultParams creates a new Params instance with the classic SM-2 values
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:  domain.MinEaseFactor,
		FirstInterval:  1,
		SecondInterval: 6,
		LapseInterval:  1,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero values keep the defaults. The ease factor floor can be raised but
// never lowered below domain.MinEaseFactor.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > domain.MinEaseFactor {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.LapseInterval > 0 {
		params.LapseInterval = config.LapseInterval
	}

	return params
}
