package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/gapbird/ecs"
)

// Snapshot is what the performance window shows for one frame.
type Snapshot struct {
	// Lines are free-form status lines printed above the statistics.
	Lines   []string
	Storage *ecs.StorageStats
	Systems []ecs.SystemStats
}

// Source is polled once per rendered frame.
type Source func() Snapshot

type PerformanceWindow struct {
	history *frameHistory
	timer   *FrameTimer
}

func NewPerformanceWindow(historyFrames int) *PerformanceWindow {
	return &PerformanceWindow{
		history: newFrameHistory(historyFrames),
		timer:   NewFrameTimer(),
	}
}

func (pw *PerformanceWindow) Render(snapshot Snapshot) {
	pw.history.push(pw.timer.GetDeltaTime() * 1000.0)

	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(340, 320), imgui.CondOnce)
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	for _, line := range snapshot.Lines {
		imgui.Text(line)
	}
	if len(snapshot.Lines) > 0 {
		imgui.Separator()
	}

	if stats := snapshot.Storage; stats != nil {
		imgui.Text(fmt.Sprintf("Total Entities: %d", stats.TotalEntityCount))
		imgui.Text(fmt.Sprintf("Archetypes: %d", stats.ArchetypeCount))
		imgui.Text(fmt.Sprintf("Singletons: %d", stats.SingletonCount))
	}

	avg := pw.history.average()
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &pw.history.samples[0], int32(len(pw.history.samples)))

	if len(snapshot.Systems) > 0 && imgui.TreeNodeStr("Systems") {
		tableFlags := imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemStatsTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, sys := range snapshot.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if stats := snapshot.Storage; stats != nil && imgui.TreeNodeStr("Archetype Details") {
		for _, arch := range stats.ArchetypeBreakdown {
			imgui.BulletText(fmt.Sprintf("#%d %v: %d live / %d rows", arch.ID, arch.ComponentTypes, arch.EntityCount, arch.Rows))
		}
		imgui.TreePop()
	}

	imgui.End()
}

// frameHistory is a ring of frame times in milliseconds.
type frameHistory struct {
	samples []float32
	next    int
	filled  int
}

func newFrameHistory(size int) *frameHistory {
	return &frameHistory{samples: make([]float32, max(size, 1))}
}

func (h *frameHistory) push(ms float32) {
	h.samples[h.next] = ms
	h.next = (h.next + 1) % len(h.samples)
	h.filled = min(h.filled+1, len(h.samples))
}

// average ignores slots that have not been written yet.
func (h *frameHistory) average() float32 {
	if h.filled == 0 {
		return 0
	}
	var sum float32
	for _, ms := range h.samples {
		sum += ms
	}
	return sum / float32(h.filled)
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
