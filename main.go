package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"clipmill/internal/config"
	"clipmill/internal/processor"
	"clipmill/internal/template"
	"clipmill/pkg/types"
)

var (
	rootCmd = &cobra.Command{
		Use:   "clipmill",
		Short: "A tool for cutting down videos into shareable webms and gifs",
		Long: `clipmill drives ffmpeg to turn video files into compressed webms or
multi-resolution animated gifs, and can cut clips out of a video using a
face-detection log.

Examples:
  # Convert a video to a compressed, muted webm
  clipmill webm input.mov

  # Produce input800.gif, input500.gif and input200.gif from one shared palette
  clipmill gif input.mov input__SCALE_.gif

  # List the clips a detection log describes, then cut them out
  clipmill extract input.mov --list
  clipmill extract input.mov`,
	}

	webmCmd = &cobra.Command{
		Use:   "webm <input> [output]",
		Short: "Convert a video to a compressed webm",
		Long: `Convert a video into a fixed-quality, muted VP9 webm with a single
ffmpeg invocation. When no output path is given it is derived from the
input path by replacing its extension with .webm.

Example:
  clipmill webm input.mov out.webm`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			opts := &config.ConvertOptions{InputPath: args[0]}
			if len(args) > 1 {
				opts.OutputPath = args[1]
			}
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")

			return processor.NewConverter(opts, cfg).Process()
		},
	}

	gifCmd = &cobra.Command{
		Use:   "gif <input> [output-template]",
		Short: "Convert a video to gifs at several scales",
		Long: fmt.Sprintf(`Convert a video into one gif per configured scale, all sharing a single
color palette for consistent coloring. The output template must contain the
%s placeholder exactly once; each scale is substituted into it. When no
template is given it is derived from the input path (clip.mov becomes
clip%s.gif).

Example:
  clipmill gif input.mov out%s.gif`, template.Placeholder, template.Placeholder, template.Placeholder),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			opts := &config.BatchOptions{InputPath: args[0]}
			if len(args) > 1 {
				opts.OutputTemplate = args[1]
			}
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")

			return processor.NewBatcher(opts, cfg).Process()
		},
	}

	extractCmd = &cobra.Command{
		Use:   "extract <video> [detections-tsv]",
		Short: "Cut clips out of a video using a face-detection log",
		Long: `Read a tab-separated detection log (fps/width/height header followed by
frame/top/right/bottom/left rows), group detections into contiguous
appearances, and cut one clip per appearance out of the source video. When
no log path is given it is derived from the video path by replacing its
extension with .tsv.

Example:
  clipmill extract input.mov --gap 0.5 --format gif`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			opts := &config.ExtractOptions{VideoPath: args[0]}
			if len(args) > 1 {
				opts.TSVPath = args[1]
			}
			opts.MaxGapSeconds, _ = cmd.Flags().GetFloat64("gap")
			format, _ := cmd.Flags().GetString("format")
			opts.Format = types.OutputFormat(format)
			opts.ListOnly, _ = cmd.Flags().GetBool("list")
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")

			return processor.NewExtractor(opts, cfg).Process()
		},
	}
)

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", fmt.Sprintf("Config file path (default %s if present)", config.DefaultPath))
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	extractCmd.Flags().Float64("gap", -1, "Maximum in-clip detection gap in seconds")
	extractCmd.Flags().String("format", "webm", "Clip output format (webm or gif)")
	extractCmd.Flags().Bool("list", false, "List detected clips without encoding")

	rootCmd.AddCommand(webmCmd)
	rootCmd.AddCommand(gifCmd)
	rootCmd.AddCommand(extractCmd)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)

		// Surface the encoder's own exit status when it is the cause.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}
