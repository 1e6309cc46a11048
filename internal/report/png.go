package report

import (
	"fmt"
	"image/color"
	"io"

	"github.com/banshee-data/posetrack/internal/fsutil"
	"github.com/banshee-data/posetrack/internal/pose"
	"github.com/banshee-data/posetrack/internal/trajectory"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// plotHeight is the PNG height; width follows the data aspect.
const plotHeight = 6 * vg.Inch

var agentColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// NewTrajectoryPlot builds the trajectory plot without rendering it.
func NewTrajectoryPlot(title string, agent trajectory.AgentTrajectory, globals []trajectory.GlobalTrajectory) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"
	p.Add(plotter.NewGrid())

	if len(agent) > 0 {
		line, points, err := series(agent, agentColor)
		if err != nil {
			return nil, fmt.Errorf("agent series: %w", err)
		}
		line.Width = vg.Points(2)
		p.Add(line, points)
		p.Legend.Add("agent", line, points)
	}

	colors := generateColors(len(globals))
	for i, g := range globals {
		if len(g.Samples) == 0 {
			continue
		}
		line, points, err := series(g.Samples, colors[i])
		if err != nil {
			return nil, fmt.Errorf("object %d series: %w", g.ObjectIndex, err)
		}
		p.Add(line, points)
		p.Legend.Add(fmt.Sprintf("object %d", g.ObjectIndex), line, points)
	}

	b := DataBounds(agent, globals).Padded()
	p.X.Min, p.X.Max = b.MinX, b.MaxX
	p.Y.Min, p.Y.Max = b.MinY, b.MaxY

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// RenderPNG renders the trajectory plot as a PNG into w.
func RenderPNG(w io.Writer, agent trajectory.AgentTrajectory, globals []trajectory.GlobalTrajectory) error {
	p, err := NewTrajectoryPlot("Global object trajectories", agent, globals)
	if err != nil {
		return err
	}
	aspect := DataBounds(agent, globals).Aspect()
	wt, err := p.WriterTo(vg.Length(aspect)*plotHeight, plotHeight, "png")
	if err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// SavePNG renders the trajectory plot to path as a PNG.
func SavePNG(fsys fsutil.FileSystem, path string, agent trajectory.AgentTrajectory, globals []trajectory.GlobalTrajectory) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := RenderPNG(f, agent, globals); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func series(samples []pose.TimedPose, c color.Color) (*plotter.Line, *plotter.Scatter, error) {
	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i] = plotter.XY{X: s.Pose.X, Y: s.Pose.Y}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, nil, err
	}
	line.Color = c
	line.Width = vg.Points(1)

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, nil, err
	}
	scatter.GlyphStyle.Color = c
	scatter.GlyphStyle.Radius = vg.Points(1.5)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	return line, scatter, nil
}

// generateColors creates a palette of distinct colors, one per object.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
