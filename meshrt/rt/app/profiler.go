package app

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profiler times the stages of a run and collects scene counters.
type Profiler struct {
	Scopes     map[string]time.Duration
	StartTimes map[string]time.Time
	Counts     map[string]int
	Order      []string

	now func() time.Time
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes:     make(map[string]time.Duration),
		StartTimes: make(map[string]time.Time),
		Counts:     make(map[string]int),
		Order:      make([]string, 0),
		now:        time.Now,
	}
}

func (p *Profiler) BeginScope(name string) {
	if _, seen := p.Scopes[name]; !seen {
		p.Order = append(p.Order, name)
		p.Scopes[name] = 0
	}
	p.StartTimes[name] = p.now()
}

// EndScope adds the time since the matching BeginScope to the scope total.
func (p *Profiler) EndScope(name string) {
	start, ok := p.StartTimes[name]
	if !ok {
		return
	}
	p.Scopes[name] += p.now().Sub(start)
	delete(p.StartTimes, name)
}

// Measure runs fn inside the named scope and returns its error.
func (p *Profiler) Measure(name string, fn func() error) error {
	p.BeginScope(name)
	defer p.EndScope(name)
	return fn()
}

func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

// Total is the sum of all scope durations.
func (p *Profiler) Total() time.Duration {
	var total time.Duration
	for _, d := range p.Scopes {
		total += d
	}
	return total
}

func (p *Profiler) GetStatsString() string {
	var sb strings.Builder

	sb.WriteString("Timings:\n")
	for _, name := range p.Order {
		ms := float64(p.Scopes[name].Microseconds()) / 1000.0
		fmt.Fprintf(&sb, "  %-10s: %.2f ms\n", name, ms)
	}
	fmt.Fprintf(&sb, "  %-10s: %.2f ms\n", "total", float64(p.Total().Microseconds())/1000.0)

	if len(p.Counts) == 0 {
		return sb.String()
	}
	sb.WriteString("\nStats:\n")
	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %-10s: %d\n", k, p.Counts[k])
	}
	return sb.String()
}
