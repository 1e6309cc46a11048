package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/banshee-data/posetrack/internal/fsutil"
	"github.com/banshee-data/posetrack/internal/pose"
	"github.com/banshee-data/posetrack/internal/trajectory"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderHTML writes a self-contained go-echarts page with one scatter
// series for the agent and one per object.
func RenderHTML(w io.Writer, agent trajectory.AgentTrajectory, globals []trajectory.GlobalTrajectory) error {
	b := DataBounds(agent, globals).Padded()

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Pose Tracks", Width: "1200px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Global object trajectories", Subtitle: fmt.Sprintf("objects=%d samples=%d", len(globals), len(agent))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Min: b.MinX, Max: b.MaxX, Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Min: b.MinY, Max: b.MaxY, Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
	)

	scatter.AddSeries("agent", scatterData(agent), charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	for _, g := range globals {
		scatter.AddSeries(fmt.Sprintf("object %d", g.ObjectIndex), scatterData(g.Samples),
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
	}

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// SaveHTML renders the HTML page to path.
func SaveHTML(fsys fsutil.FileSystem, path string, agent trajectory.AgentTrajectory, globals []trajectory.GlobalTrajectory) error {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, agent, globals); err != nil {
		return err
	}
	if err := fsys.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func scatterData(samples []pose.TimedPose) []opts.ScatterData {
	data := make([]opts.ScatterData, 0, len(samples))
	for _, s := range samples {
		data = append(data, opts.ScatterData{
			Name:  fmt.Sprintf("t=%.3f", s.Time),
			Value: []interface{}{s.Pose.X, s.Pose.Y, s.Pose.Orientation},
		})
	}
	return data
}
