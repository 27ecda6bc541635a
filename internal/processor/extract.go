package processor

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"

	"clipmill/internal/detect"
	"clipmill/internal/ffmpeg"
	"clipmill/pkg/types"
)

// tsvPath resolves the explicit detection log path, or derives one from the
// video path by replacing its extension.
func (e *Extractor) tsvPath() string {
	if e.opts.TSVPath != "" {
		return e.opts.TSVPath
	}
	return replaceExt(e.opts.VideoPath, ".tsv")
}

func (e *Extractor) maxGap() float64 {
	if e.opts.MaxGapSeconds >= 0 {
		return e.opts.MaxGapSeconds
	}
	return e.cfg.Extract.MaxGapSeconds
}

// clipPath names the output for the i-th extracted clip (1-based).
func (e *Extractor) clipPath(i int, format types.OutputFormat) string {
	base := strings.TrimSuffix(e.opts.VideoPath, filepath.Ext(e.opts.VideoPath))
	return fmt.Sprintf("%s_clip_%03d%s", base, i, format.Extension())
}

// Process reads the detection log, groups detections into appearances, and
// either lists them or cuts one clip per appearance out of the source
// video. Unlike the gif batch, a failed cut aborts the run.
func (e *Extractor) Process() error {
	format := e.opts.Format
	if format == "" {
		format = types.OutputFormatWebM
	}
	if !format.Valid() {
		return errors.Errorf("unsupported output format: %s", format)
	}

	data, err := detect.ParseFile(e.tsvPath())
	if err != nil {
		return errors.WithStack(err)
	}

	groups := data.Groups(e.maxGap())

	if e.opts.Verbose {
		log.Printf("Detection log: fps=%d, %dx%d, %d detections, %d clips\n",
			data.FPS, data.Width, data.Height, len(data.Detections), len(groups))
	}

	if e.opts.ListOnly {
		renderGroups(os.Stdout, groups)
		return nil
	}

	for i, group := range groups {
		clip := &ffmpeg.ClipRange{
			Start:    group.StartSeconds(),
			Duration: group.DurationSeconds(),
		}
		outputPath := e.clipPath(i+1, format)

		if e.opts.Verbose {
			log.Printf("Extracting clip %d/%d: %.2fs-%.2fs -> %s\n",
				i+1, len(groups), group.StartSeconds(), group.EndSeconds(), outputPath)
		}

		switch format {
		case types.OutputFormatWebM:
			err = e.ffmpeg.EncodeWebM(e.opts.VideoPath, outputPath, e.cfg.WebM.CRF, e.cfg.WebM.Bitrate, clip)
		case types.OutputFormatGIF:
			err = e.extractGIF(outputPath, clip)
		}
		if err != nil {
			return errors.Wrapf(err, "failed to extract clip %d", i+1)
		}
	}

	return nil
}

// extractGIF cuts one clip through the palette pipeline at the largest
// configured scale.
func (e *Extractor) extractGIF(outputPath string, clip *ffmpeg.ClipRange) error {
	filterTmpl, err := filterTemplate(e.cfg.GIF.FPS)
	if err != nil {
		return errors.WithStack(err)
	}

	palette, err := os.CreateTemp("", "clipmill-palette-*.png")
	if err != nil {
		return errors.Wrap(err, "failed to create palette file")
	}
	palettePath := palette.Name()
	palette.Close()
	defer os.Remove(palettePath)

	if err := e.ffmpeg.GeneratePalette(e.opts.VideoPath, palettePath, filterTmpl.Expand(e.cfg.GIF.PaletteScale), clip); err != nil {
		return err
	}

	scale := e.cfg.GIF.Scales[0]
	return e.ffmpeg.EncodePaletted(e.opts.VideoPath, palettePath, outputPath, filterTmpl.Expand(scale), clip)
}

func renderGroups(out io.Writer, groups []detect.Group) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"#", "Start", "End", "Duration", "Frames", "Coverage"})
	for i, g := range groups {
		t.AppendRow(table.Row{
			i + 1,
			fmt.Sprintf("%.2fs", g.StartSeconds()),
			fmt.Sprintf("%.2fs", g.EndSeconds()),
			fmt.Sprintf("%.2fs", g.DurationSeconds()),
			fmt.Sprintf("%d-%d", g.StartFrame(), g.EndFrame()),
			g.Coverage().String(),
		})
	}
	t.Render()
}
