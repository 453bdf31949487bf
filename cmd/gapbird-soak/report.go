package main

import (
	"cmp"
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/gapbird/game"
)

type Report struct {
	// Configuration
	Duration       time.Duration
	Seed           uint64
	JumpChance     float64
	GCPauseMetrics bool

	// Results
	Rounds         int
	TotalTicks     int64
	TotalTime      time.Duration
	AnimationSteps int64
	MinScore       int64
	MaxScore       int64
	TotalScore     int64
	TickTime       Stats
	Systems        map[string]*SystemTotals
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

// SystemTotals accumulates one system's timings over every finished round.
type SystemTotals struct {
	Name       string
	Executions int64
	Total      time.Duration
	Max        time.Duration
}

func (r *Report) addRound(score int64, stats game.Stats) {
	if r.Rounds == 0 || score < r.MinScore {
		r.MinScore = score
	}
	r.MaxScore = max(r.MaxScore, score)
	r.TotalScore += score
	r.Rounds++
	r.AnimationSteps += stats.AnimationSteps

	for _, sys := range stats.Systems {
		totals, ok := r.Systems[sys.Name]
		if !ok {
			totals = &SystemTotals{Name: sys.Name}
			r.Systems[sys.Name] = totals
		}
		totals.Executions += sys.ExecutionCount
		totals.Total += sys.TotalDuration
		totals.Max = max(totals.Max, sys.MaxDuration)
	}
}

// AvgScore is zero when no round finished.
func (r *Report) AvgScore() float64 {
	if r.Rounds == 0 {
		return 0
	}
	return float64(r.TotalScore) / float64(r.Rounds)
}

// SystemList orders systems by total time spent, slowest first.
func (r *Report) SystemList() []*SystemTotals {
	list := make([]*SystemTotals, 0, len(r.Systems))
	for _, totals := range r.Systems {
		list = append(list, totals)
	}
	slices.SortFunc(list, func(a, b *SystemTotals) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return list
}

func (s *SystemTotals) Avg() time.Duration {
	if s.Executions == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Executions)
}

// Stats keeps running figures rather than samples; a soak can tick millions of times.
type Stats struct {
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
	Count int64
	total time.Duration
}

func (s *Stats) Add(d time.Duration) {
	if s.Count == 0 || d < s.Min {
		s.Min = d
	}
	s.Max = max(s.Max, d)
	s.total += d
	s.Count++
}

func (s *Stats) Finalize() {
	if s.Count == 0 {
		return
	}
	s.Avg = s.total / time.Duration(s.Count)
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Gapbird Soak Report

## Configuration
- **Run Duration:** {{.Duration}}
- **Seed:** {{.Seed}}
- **Jump Chance:** {{printf "%.2f" .JumpChance}}

## Rounds
- **Finished Rounds:** {{.Rounds}}
{{- if .Rounds}}
- **Score:** min {{.MinScore}}, max {{.MaxScore}}, avg {{printf "%.1f" .AvgScore}}
{{- end}}
- **Total Ticks:** {{.TotalTicks}}
- **Animation Steps:** {{.AnimationSteps}}
- **Total Time:** {{.TotalTime}}
- **Tick Time:**
  - **Avg:** {{.TickTime.Avg}}
  - **Min:** {{.TickTime.Min}}
  - **Max:** {{.TickTime.Max}}

## Systems
{{range .SystemList}}- {{.Name}}: {{.Executions}} runs, avg {{.Avg}}, max {{.Max}}
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
{{end}}`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("parse report template: %w", err)
	}

	return tmpl.Execute(w, r)
}
