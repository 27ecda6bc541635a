package ffmpeg

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoMetadata contains metadata about a video file
type VideoMetadata struct {
	Duration float64
	Width    int
	Height   int
	Codec    string
}

// ClipRange bounds an encode to a time window of the input. A nil *ClipRange
// means the whole input.
type ClipRange struct {
	Start    float64 // seconds from the beginning of the input
	Duration float64 // seconds; <= 0 means until the end
}

// Processor wraps FFmpeg functionality
type Processor struct {
	verbose bool
}

// NewProcessor creates a new FFmpeg processor
func NewProcessor(verbose bool) *Processor {
	return &Processor{
		verbose: verbose,
	}
}

// GetVideoMetadata retrieves metadata about a video file
func (p *Processor) GetVideoMetadata(inputPath string) (*VideoMetadata, error) {
	probe, err := ffmpeg.Probe(inputPath)
	if err != nil {
		return nil, fmt.Errorf("error probing video: %v", err)
	}

	return parseMetadata(probe)
}

func parseMetadata(probe string) (*VideoMetadata, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(probe), &data); err != nil {
		return nil, errors.WithStack(err)
	}

	streams, ok := data["streams"].([]interface{})
	if !ok || len(streams) == 0 {
		return nil, fmt.Errorf("no streams found in video")
	}

	var videoStream map[string]interface{}
	for _, stream := range streams {
		s := stream.(map[string]interface{})
		if s["codec_type"].(string) == "video" {
			videoStream = s
			break
		}
	}

	if videoStream == nil {
		return nil, fmt.Errorf("no video stream found")
	}

	var duration float64

	// First try video stream duration
	if durationStr, ok := videoStream["duration"].(string); ok {
		if d, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil {
			duration = d
		}
	}

	// If stream duration is not available, try format duration
	if duration == 0 {
		if format, ok := data["format"].(map[string]interface{}); ok {
			if durationStr, ok := format["duration"].(string); ok {
				if d, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil {
					duration = d
				}
			}
		}
	}

	// If still no duration found, try calculating from frames and frame rate
	if duration == 0 {
		if nbFrames, ok := videoStream["nb_frames"].(string); ok {
			if frames, err := strconv.ParseFloat(nbFrames, 64); err == nil {
				var frameRate float64
				if rFrameRate, ok := videoStream["r_frame_rate"].(string); ok {
					if nums := strings.Split(rFrameRate, "/"); len(nums) == 2 {
						num, err1 := strconv.ParseFloat(nums[0], 64)
						den, err2 := strconv.ParseFloat(nums[1], 64)
						if err1 == nil && err2 == nil && den != 0 {
							frameRate = num / den
						}
					}
				}
				if frameRate > 0 {
					duration = frames / frameRate
				}
			}
		}
	}

	if duration == 0 {
		return nil, fmt.Errorf("could not determine video duration")
	}

	width := int(videoStream["width"].(float64))
	height := int(videoStream["height"].(float64))
	codec := videoStream["codec_name"].(string)

	return &VideoMetadata{
		Duration: duration,
		Width:    width,
		Height:   height,
		Codec:    codec,
	}, nil
}

func (p *Processor) input(inputPath string, clip *ClipRange) *ffmpeg.Stream {
	if clip == nil {
		return ffmpeg.Input(inputPath)
	}

	inputKwargs := ffmpeg.KwArgs{
		"ss": clip.Start,
	}
	if clip.Duration > 0 {
		inputKwargs["t"] = clip.Duration
	}

	return ffmpeg.Input(inputPath, inputKwargs)
}

// EncodeWebM runs a single fixed-quality VP9 pass with the audio stream
// dropped, overwriting any existing output.
func (p *Processor) EncodeWebM(inputPath, outputPath string, crf int, bitrate string, clip *ClipRange) error {
	outputKwargs := ffmpeg.KwArgs{
		"c:v":     "libvpx-vp9",
		"crf":     crf,
		"b:v":     bitrate,
		"an":      "",
		"threads": GetOptimalThreadCount(),
	}

	if p.verbose {
		log.Printf("Encoding %s -> %s (crf=%d, b:v=%s)\n", inputPath, outputPath, crf, bitrate)
	}

	err := p.input(inputPath, clip).
		Output(outputPath, outputKwargs).
		OverWriteOutput().
		ErrorToStdOut().
		Run()
	if err != nil {
		return errors.Wrap(err, "failed to encode webm")
	}

	return nil
}

// GeneratePalette runs the filter chain through palettegen, writing the
// reduced color palette to palettePath.
func (p *Processor) GeneratePalette(inputPath, palettePath, filterChain string, clip *ClipRange) error {
	outputKwargs := ffmpeg.KwArgs{
		"vf": filterChain + ",palettegen",
	}

	if p.verbose {
		log.Printf("Generating palette %s (vf=%s)\n", palettePath, outputKwargs["vf"])
	}

	err := p.input(inputPath, clip).
		Output(palettePath, outputKwargs).
		OverWriteOutput().
		ErrorToStdOut().
		Run()
	if err != nil {
		return errors.Wrap(err, "failed to generate palette")
	}

	return nil
}

// EncodePaletted applies the filter chain to the source, then maps the
// result through the shared palette with paletteuse.
func (p *Processor) EncodePaletted(inputPath, palettePath, outputPath, filterChain string, clip *ClipRange) error {
	filterGraph := fmt.Sprintf("[0:v]%s[scaled];[scaled][1:v]paletteuse", filterChain)

	outputKwargs := ffmpeg.KwArgs{
		"filter_complex": filterGraph,
	}

	if p.verbose {
		log.Printf("Encoding %s -> %s (filter_complex=%s)\n", inputPath, outputPath, filterGraph)
	}

	source := p.input(inputPath, clip)
	palette := ffmpeg.Input(palettePath)

	err := ffmpeg.Output([]*ffmpeg.Stream{source, palette}, outputPath, outputKwargs).
		OverWriteOutput().
		ErrorToStdOut().
		Run()
	if err != nil {
		return errors.Wrap(err, "failed to encode paletted output")
	}

	return nil
}

func GetOptimalThreadCount() int {
	cpuCount := runtime.NumCPU()
	// Use 75% of available cores to prevent overload
	return int(math.Max(1, float64(cpuCount)*0.75))
}
