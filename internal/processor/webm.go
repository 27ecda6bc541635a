package processor

import (
	"log"

	"clipmill/pkg/types"
)

// outputPath resolves the explicit output path, or derives one from the
// input path by replacing its extension.
func (c *Converter) outputPath() string {
	if c.opts.OutputPath != "" {
		return c.opts.OutputPath
	}
	return replaceExt(c.opts.InputPath, types.OutputFormatWebM.Extension())
}

// Process runs the conversion: one encoder invocation, output overwritten,
// encoder failure returned as-is.
func (c *Converter) Process() error {
	outputPath := c.outputPath()

	if c.opts.Verbose {
		if metadata, err := c.ffmpeg.GetVideoMetadata(c.opts.InputPath); err == nil {
			log.Printf("Input: %s (%.2fs, %dx%d, %s)\n",
				c.opts.InputPath, metadata.Duration, metadata.Width, metadata.Height, metadata.Codec)
		}
		log.Printf("Output: %s\n", outputPath)
	}

	return c.ffmpeg.EncodeWebM(c.opts.InputPath, outputPath, c.cfg.WebM.CRF, c.cfg.WebM.Bitrate, nil)
}
