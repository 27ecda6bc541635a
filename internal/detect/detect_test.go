package detect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tsv(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestParse(t *testing.T) {
	data, err := Parse(strings.NewReader(tsv(
		"25\t1280\t720",
		"10\t100\t400\t300\t200",
		"12\t110\t410\t310\t210",
	)))
	require.NoError(t, err)

	assert.Equal(t, 25, data.FPS)
	assert.Equal(t, 1280, data.Width)
	assert.Equal(t, 720, data.Height)
	require.Len(t, data.Detections, 2)
	assert.Equal(t, Detection{Frame: 10, Top: 100, Right: 400, Bottom: 300, Left: 200}, data.Detections[0])
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"short header", "25\t1280\n"},
		{"zero fps", "0\t1280\t720\n"},
		{"short detection", tsv("25\t1280\t720", "10\t100\t400\t300")},
		{"non-numeric", tsv("25\t1280\t720", "10\t100\tx\t300\t200")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestGroupsSplitsOnGap(t *testing.T) {
	data := &Data{
		FPS: 10,
		Detections: []Detection{
			{Frame: 10}, {Frame: 11}, {Frame: 12},
			// 5s gap
			{Frame: 62}, {Frame: 63},
		},
	}

	groups := data.Groups(0.2)
	require.Len(t, groups, 2)
	assert.Equal(t, 10, groups[0].StartFrame())
	assert.Equal(t, 12, groups[0].EndFrame())
	assert.Equal(t, 62, groups[1].StartFrame())
	assert.Equal(t, 63, groups[1].EndFrame())
}

func TestGroupsDropsInteriorSingletons(t *testing.T) {
	data := &Data{
		FPS: 10,
		Detections: []Detection{
			{Frame: 10},
			// isolated detection surrounded by gaps is noise
			{Frame: 100}, {Frame: 101}, {Frame: 102},
		},
	}

	groups := data.Groups(0.2)
	require.Len(t, groups, 1)
	assert.Equal(t, 100, groups[0].StartFrame())
}

func TestGroupsKeepsTrailingSingleton(t *testing.T) {
	data := &Data{
		FPS: 10,
		Detections: []Detection{
			{Frame: 10}, {Frame: 11},
			{Frame: 100},
		},
	}

	groups := data.Groups(0.2)
	require.Len(t, groups, 2)
	assert.Equal(t, []Detection{{Frame: 100}}, groups[1].Detections)
}

func TestGroupsClampsGapToOneFrame(t *testing.T) {
	data := &Data{
		FPS: 10,
		// consecutive frames stay grouped even with a zero max gap
		Detections: []Detection{{Frame: 10}, {Frame: 11}, {Frame: 12}},
	}

	groups := data.Groups(0)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Detections, 3)
}

func TestGroupTimes(t *testing.T) {
	data := &Data{
		FPS:        25,
		Detections: []Detection{{Frame: 50}, {Frame: 51}, {Frame: 100}},
	}

	groups := data.Groups(2.0)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.InDelta(t, 2.0, g.StartSeconds(), 1e-9)
	assert.InDelta(t, 4.0, g.EndSeconds(), 1e-9)
	assert.InDelta(t, 2.0, g.DurationSeconds(), 1e-9)
}

func TestGroupCoverage(t *testing.T) {
	g := Group{
		fps: 25,
		Detections: []Detection{
			{Frame: 1, Top: 100, Right: 400, Bottom: 300, Left: 200},
			{Frame: 2, Top: 90, Right: 420, Bottom: 280, Left: 220},
		},
	}

	cov := g.Coverage()
	assert.Equal(t, Rect{MinX: 200, MinY: 90, MaxX: 420, MaxY: 300}, cov)
	assert.Equal(t, 220, cov.Width())
	assert.Equal(t, 210, cov.Height())
}

func TestRectCenter(t *testing.T) {
	x, y := Rect{MinX: 100, MinY: 200, MaxX: 300, MaxY: 500}.Center()
	assert.InDelta(t, 200, x, 1e-9)
	assert.InDelta(t, 350, y, 1e-9)
}
