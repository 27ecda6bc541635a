package processor

import (
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"

	"clipmill/internal/template"
	"clipmill/pkg/types"
)

// outputTemplate resolves the explicit output template, or derives one from
// the input path: base name + placeholder + ".gif".
func (b *Batcher) outputTemplate() string {
	if b.opts.OutputTemplate != "" {
		return b.opts.OutputTemplate
	}
	return replaceExt(b.opts.InputPath, template.Placeholder+types.OutputFormatGIF.Extension())
}

// filterTemplate is the per-scale filter chain with the scale still
// unresolved: frame-rate reduction, width-bound scaling, lanczos resampling.
func filterTemplate(fps int) (template.Template, error) {
	return template.Parse(fmt.Sprintf("fps=%d,scale=%s:-1:flags=lanczos", fps, template.Placeholder))
}

// Process generates one shared palette at the configured reference scale,
// then encodes one gif per configured scale through it.
//
// A failed encoder invocation does not abort the batch: remaining scales
// are still attempted and the last failure becomes the returned error.
func (b *Batcher) Process() error {
	pathTmpl, err := template.Parse(b.outputTemplate())
	if err != nil {
		return errors.Wrap(err, "invalid output template")
	}

	filterTmpl, err := filterTemplate(b.cfg.GIF.FPS)
	if err != nil {
		return errors.WithStack(err)
	}

	palette, err := os.CreateTemp("", "clipmill-palette-*.png")
	if err != nil {
		return errors.Wrap(err, "failed to create palette file")
	}
	palettePath := palette.Name()
	palette.Close()
	defer func() {
		if err := os.Remove(palettePath); err != nil && b.opts.Verbose {
			log.Printf("Warning: failed to remove palette file %s: %v\n", palettePath, err)
		}
	}()

	var lastErr error

	paletteFilter := filterTmpl.Expand(b.cfg.GIF.PaletteScale)
	if err := b.ffmpeg.GeneratePalette(b.opts.InputPath, palettePath, paletteFilter, nil); err != nil {
		log.Printf("Palette generation failed: %v\n", err)
		lastErr = err
	}

	for _, scale := range b.cfg.GIF.Scales {
		outputPath := pathTmpl.Expand(scale)

		if b.opts.Verbose {
			log.Printf("Encoding scale %d: %s\n", scale, outputPath)
		}

		if err := b.ffmpeg.EncodePaletted(b.opts.InputPath, palettePath, outputPath, filterTmpl.Expand(scale), nil); err != nil {
			log.Printf("Scale %d failed: %v\n", scale, err)
			lastErr = err
		}
	}

	return lastErr
}
