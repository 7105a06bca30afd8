package main

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/emcleary/voronoi-diagrams/pkg/geom"
	"github.com/emcleary/voronoi-diagrams/pkg/logger"
	"github.com/emcleary/voronoi-diagrams/pkg/sites"
	"github.com/emcleary/voronoi-diagrams/pkg/voronoi"
	"github.com/emcleary/voronoi-diagrams/static"
)

func prepareScatter(scatter *charts.Scatter) {
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Height: "580px",
			Width:  "1020px",
		}),
		charts.WithLegendOpts(opts.Legend{
			TextStyle: &opts.TextStyle{
				Color: "white",
			},
			Right: "10%",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:                "Voronoi diagram (Fortune's sweep)",
			TitleBackgroundColor: "white",
			Left:                 "10%",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: "Width",
			AxisLabel: &opts.AxisLabel{
				Color: "white",
			},
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(false),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Name: "Height",
			AxisLabel: &opts.AxisLabel{
				Color: "white",
			},
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(false),
			},
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			FilterMode: "none",
			Orient:     "horizontal",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			FilterMode: "none",
			Orient:     "vertical",
		}),
	)
}

func diagramToEcharts(points []voronoi.Site, diagram *voronoi.Diagram) *charts.Scatter {
	scatter := charts.NewScatter()

	data := make([]opts.ScatterData, 0, len(points))
	for _, s := range points {
		data = append(data, opts.ScatterData{
			Value: []float64{s.X, s.Y},
		})
	}

	prepareScatter(scatter)

	scatter.AddSeries("Sites", data).
		SetSeriesOptions(
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: "lightgreen",
			}),
		)

	for _, edge := range diagram.Edges() {
		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithXAxisOpts(opts.XAxis{Show: opts.Bool(true)}),
			charts.WithYAxisOpts(opts.YAxis{Show: opts.Bool(true)}),
		)

		line.AddSeries("Edges", []opts.LineData{
			{Value: []float64{edge.A.X, edge.A.Y}},
			{Value: []float64{edge.B.X, edge.B.Y}},
		}).SetSeriesOptions(
			charts.WithLineStyleOpts(opts.LineStyle{
				Width: 2,
			}),
		)

		scatter.Overlap(line)
	}

	return scatter
}

func generate(layout string, n, width, height int) []voronoi.Site {
	box := geom.NewRect(0, 0, float64(width), float64(height))
	switch layout {
	case "grid":
		return sites.Grid(n, box)
	case "circle":
		r := float64(min(width, height)) * 0.4
		return sites.Circle(n, box.Center(), r, time.Now().UnixNano())
	default:
		return sites.Random(n, box, time.Now().UnixNano())
	}
}

func diagramHandler(w http.ResponseWriter, r *http.Request) {
	width := 1000
	height := 1000
	numSites := 12
	layout := "random"

	if r.Method == http.MethodPost {
		r.ParseForm()
		width, _ = strconv.Atoi(r.FormValue("width"))
		height, _ = strconv.Atoi(r.FormValue("height"))
		numSites, _ = strconv.Atoi(r.FormValue("sites"))
		layout = r.FormValue("layout")
	}

	points := generate(layout, numSites, width, height)

	log := logger.NewCaptured()
	defer log.Reset()

	diagram, err := voronoi.ComputeDiagram(points, voronoi.Config{
		Logger: log,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	scatter := diagramToEcharts(points, diagram)

	fmt.Fprintln(w, static.Part1)

	if err := scatter.Render(w); err != nil {
		fmt.Println("render error:", err)
	}

	fmt.Fprintln(w, static.Part2)
	fmt.Fprintln(w, log.HTML())
	fmt.Fprintln(w, static.Part3)
}

func main() {
	http.HandleFunc("/", diagramHandler)
	fmt.Println("Listening on http://localhost:8080")
	if err := http.ListenAndServe(":8080", nil); err != nil {
		fmt.Println("ListenAndServe:", err)
	}
}
