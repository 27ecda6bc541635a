package config

import "clipmill/pkg/types"

// ConvertOptions defines options for the single-output webm conversion
type ConvertOptions struct {
	InputPath  string
	OutputPath string // derived from InputPath when empty
	Verbose    bool
}

// BatchOptions defines options for the multi-variant gif conversion
type BatchOptions struct {
	InputPath      string
	OutputTemplate string // derived from InputPath when empty
	Verbose        bool
}

// ExtractOptions defines options for detection-based clip extraction
type ExtractOptions struct {
	VideoPath     string
	TSVPath       string // derived from VideoPath when empty
	MaxGapSeconds float64
	Format        types.OutputFormat
	ListOnly      bool
	Verbose       bool
}
