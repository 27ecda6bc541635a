package detect

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Rect is an axis-aligned pixel rectangle.
type Rect struct {
	MinX int
	MinY int
	MaxX int
	MaxY int
}

func (r Rect) Width() int {
	return r.MaxX - r.MinX
}

func (r Rect) Height() int {
	return r.MaxY - r.MinY
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() (x, y float64) {
	return float64(r.MinX) + float64(r.Width())/2,
		float64(r.MinY) + float64(r.Height())/2
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d@%d,%d", r.Width(), r.Height(), r.MinX, r.MinY)
}

// Detection is one detected face rectangle at a given frame.
type Detection struct {
	Frame  int
	Top    int
	Right  int
	Bottom int
	Left   int
}

func (d Detection) Rect() Rect {
	return Rect{
		MinX: d.Left,
		MinY: d.Top,
		MaxX: d.Right,
		MaxY: d.Bottom,
	}
}

// Data is the contents of a detection log: a header with the source video's
// frame rate and dimensions, followed by one detection per frame where a
// face was found.
type Data struct {
	FPS        int
	Width      int
	Height     int
	Detections []Detection
}

// ParseFile reads a detection log from path.
func ParseFile(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open detection log")
	}
	defer f.Close()

	data, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse detection log %s", path)
	}

	return data, nil
}

// Parse reads a tab-separated detection log. The first line holds
// fps, width and height; every following line holds
// frame, top, right, bottom, left.
func Parse(r io.Reader) (*Data, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, errors.WithStack(err)
		}
		return nil, errors.New("empty detection log")
	}

	header, err := parseInts(scanner.Text(), 3)
	if err != nil {
		return nil, errors.Wrap(err, "invalid header line")
	}

	data := &Data{
		FPS:    header[0],
		Width:  header[1],
		Height: header[2],
	}
	if data.FPS <= 0 {
		return nil, errors.Errorf("invalid frame rate %d", data.FPS)
	}

	line := 1
	for scanner.Scan() {
		line++
		fields, err := parseInts(scanner.Text(), 5)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid detection on line %d", line)
		}

		data.Detections = append(data.Detections, Detection{
			Frame:  fields[0],
			Top:    fields[1],
			Right:  fields[2],
			Bottom: fields[3],
			Left:   fields[4],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	return data, nil
}

func parseInts(line string, want int) ([]int, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != want {
		return nil, errors.Errorf("got %d fields, want %d", len(fields), want)
	}

	values := make([]int, 0, want)
	for _, field := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, errors.WithStack(err)
		}
		values = append(values, v)
	}

	return values, nil
}

// Group is a contiguous run of detections belonging to one appearance.
type Group struct {
	fps        int
	Detections []Detection
}

func (g Group) StartFrame() int {
	return g.Detections[0].Frame
}

func (g Group) EndFrame() int {
	return g.Detections[len(g.Detections)-1].Frame
}

func (g Group) StartSeconds() float64 {
	return float64(g.StartFrame()) / float64(g.fps)
}

func (g Group) EndSeconds() float64 {
	return float64(g.EndFrame()) / float64(g.fps)
}

func (g Group) DurationSeconds() float64 {
	return g.EndSeconds() - g.StartSeconds()
}

// Coverage returns the rectangle covering every detection in the group.
func (g Group) Coverage() Rect {
	cov := g.Detections[0].Rect()
	for _, d := range g.Detections[1:] {
		r := d.Rect()
		if r.MinX < cov.MinX {
			cov.MinX = r.MinX
		}
		if r.MinY < cov.MinY {
			cov.MinY = r.MinY
		}
		if r.MaxX > cov.MaxX {
			cov.MaxX = r.MaxX
		}
		if r.MaxY > cov.MaxY {
			cov.MaxY = r.MaxY
		}
	}
	return cov
}

// Groups splits the detection stream into appearances. A new group starts
// whenever the gap to the previous detection exceeds maxGapSeconds (clamped
// to at least one frame). Interior runs of a single detection are treated
// as noise and dropped; a single trailing detection is kept.
func (d *Data) Groups(maxGapSeconds float64) []Group {
	// clamp to 1 frame
	if minGap := 1.0 / float64(d.FPS); maxGapSeconds < minGap {
		maxGapSeconds = minGap
	}

	var groups []Group
	var current []Detection
	lastFrame := 0

	for _, det := range d.Detections {
		gap := float64(det.Frame-lastFrame) / float64(d.FPS)
		if gap > maxGapSeconds {
			if len(current) > 1 {
				groups = append(groups, Group{fps: d.FPS, Detections: current})
			}
			current = nil
		}
		current = append(current, det)
		lastFrame = det.Frame
	}

	if len(current) > 0 {
		groups = append(groups, Group{fps: d.FPS, Detections: current})
	}

	return groups
}
