package processor

import (
	"path/filepath"
	"strings"

	"clipmill/internal/config"
	"clipmill/internal/ffmpeg"
)

// Converter handles the single-output webm conversion
type Converter struct {
	opts   *config.ConvertOptions
	cfg    config.Config
	ffmpeg *ffmpeg.Processor
}

// NewConverter creates a new single-output converter
func NewConverter(opts *config.ConvertOptions, cfg config.Config) *Converter {
	return &Converter{
		opts:   opts,
		cfg:    cfg,
		ffmpeg: ffmpeg.NewProcessor(opts.Verbose),
	}
}

// Batcher handles the multi-variant gif conversion
type Batcher struct {
	opts   *config.BatchOptions
	cfg    config.Config
	ffmpeg *ffmpeg.Processor
}

// NewBatcher creates a new multi-variant batch converter
func NewBatcher(opts *config.BatchOptions, cfg config.Config) *Batcher {
	return &Batcher{
		opts:   opts,
		cfg:    cfg,
		ffmpeg: ffmpeg.NewProcessor(opts.Verbose),
	}
}

// Extractor handles detection-based clip extraction
type Extractor struct {
	opts   *config.ExtractOptions
	cfg    config.Config
	ffmpeg *ffmpeg.Processor
}

// NewExtractor creates a new clip extractor
func NewExtractor(opts *config.ExtractOptions, cfg config.Config) *Extractor {
	return &Extractor{
		opts:   opts,
		cfg:    cfg,
		ffmpeg: ffmpeg.NewProcessor(opts.Verbose),
	}
}

// replaceExt swaps the final extension of path for newExt (which must
// include the dot, or be a bare suffix like "__SCALE_.gif").
func replaceExt(path, newExt string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + newExt
}
