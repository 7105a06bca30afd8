// Command bench measures diagram construction time over growing site
// counts and writes the per-size statistics as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/emcleary/voronoi-diagrams/pkg/geom"
	"github.com/emcleary/voronoi-diagrams/pkg/logger"
	"github.com/emcleary/voronoi-diagrams/pkg/sites"
	"github.com/emcleary/voronoi-diagrams/pkg/voronoi"
)

type sizeResult struct {
	Sites    int     `json:"sites"`
	Samples  int     `json:"samples"`
	MeanMS   float64 `json:"mean_ms"`
	MedianMS float64 `json:"median_ms"`
	MinMS    float64 `json:"min_ms"`
	MaxMS    float64 `json:"max_ms"`
}

type report struct {
	Layout   string       `json:"layout"`
	Balanced bool         `json:"balanced"`
	Epsilon  float64      `json:"epsilon"`
	Results  []sizeResult `json:"results"`
}

func main() {
	samples := flag.Int("samples", 5, "runs per site count")
	sizesArg := flag.String("sites", "100,500,1000,5000,10000", "comma separated site counts")
	layout := flag.String("layout", "random", "site layout: random, grid or circle")
	epsilon := flag.Float64("epsilon", voronoi.DefaultEpsilon, "vertex merge radius")
	balanced := flag.Bool("balanced", false, "use the rebalancing vertex index")
	seed := flag.Int64("seed", 42, "base random seed")
	out := flag.String("out", "result.json", "output file")
	flag.Parse()

	log := logger.New(zap.InfoLevel)

	var counts []int
	for _, part := range strings.Split(*sizesArg, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 2 {
			fmt.Fprintf(os.Stderr, "bad site count %q\n", part)
			os.Exit(2)
		}
		counts = append(counts, n)
	}
	sort.Ints(counts)

	box := geom.NewRect(0, 0, 1000, 1000)
	rep := report{Layout: *layout, Balanced: *balanced, Epsilon: *epsilon}

	for _, n := range counts {
		times := make([]float64, 0, *samples)
		for s := 0; s < *samples; s++ {
			input := generate(*layout, n, box, *seed+int64(s))
			cfg := voronoi.Config{Epsilon: *epsilon, BalancedIndex: *balanced}

			start := time.Now()
			_, err := voronoi.ComputeDiagram(input, cfg)
			elapsed := time.Since(start)
			if err != nil {
				log.Error("construction failed", zap.Int("sites", n), zap.Error(err))
				os.Exit(1)
			}
			times = append(times, float64(elapsed.Microseconds())/1000)
		}
		sort.Float64s(times)
		rep.Results = append(rep.Results, sizeResult{
			Sites:    n,
			Samples:  *samples,
			MeanMS:   stat.Mean(times, nil),
			MedianMS: stat.Quantile(0.5, stat.Empirical, times, nil),
			MinMS:    floats.Min(times),
			MaxMS:    floats.Max(times),
		})
		log.Info("measured", zap.Int("sites", n),
			zap.Float64("mean_ms", rep.Results[len(rep.Results)-1].MeanMS))
	}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		log.Error("encode report", zap.Error(err))
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Error("write report", zap.Error(err))
		os.Exit(1)
	}
	log.Info("report written", zap.String("path", *out))
}

func generate(layout string, n int, box geom.Rect, seed int64) []voronoi.Site {
	switch layout {
	case "grid":
		return sites.Grid(n, box)
	case "circle":
		return sites.Circle(n, box.Center(), box.Width()*0.4, seed)
	default:
		return sites.Random(n, box, seed)
	}
}
