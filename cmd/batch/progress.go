package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// progressBar redraws a single stderr line while a batch runs. Update is
// called from the batch loop; drawing happens on its own ticker.
type progressBar struct {
	w        io.Writer
	label    string
	barWidth int
	start    time.Time

	done  atomic.Int64
	total atomic.Int64

	stop chan struct{}
	wg   sync.WaitGroup
	mu   sync.Mutex
}

func newProgressBar(w io.Writer, label string) *progressBar {
	pb := &progressBar{
		w:        w,
		label:    label,
		barWidth: 30,
		start:    time.Now(),
		stop:     make(chan struct{}),
	}
	pb.wg.Add(1)
	go pb.run()
	return pb
}

// Update matches domain.ProgressFunc.
func (pb *progressBar) Update(done, total int) {
	pb.done.Store(int64(done))
	pb.total.Store(int64(total))
}

// Finish draws the final state and ends the line.
func (pb *progressBar) Finish() {
	close(pb.stop)
	pb.wg.Wait()
	pb.draw()
	fmt.Fprint(pb.w, "\n")
}

func (pb *progressBar) run() {
	defer pb.wg.Done()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-pb.stop:
			return
		case <-ticker.C:
			pb.draw()
		}
	}
}

func (pb *progressBar) draw() {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	fmt.Fprintf(pb.w, "\r%s\033[K", pb.line(pb.done.Load(), pb.total.Load(), time.Since(pb.start)))
}

func (pb *progressBar) line(done, total int64, elapsed time.Duration) string {
	var frac float64
	if total > 0 {
		frac = float64(done) / float64(total)
	}
	if frac > 1 {
		frac = 1
	}

	filled := int(float64(pb.barWidth) * frac)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", pb.barWidth-filled)

	rate := float64(0)
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(done) / secs
	}
	return fmt.Sprintf("%s [%s] %3.0f%%  %d/%d rows  %.0f/s  %s",
		pb.label, bar, frac*100, done, total, rate, formatDuration(elapsed))
}

// formatDuration renders "45s" or "1m23s".
func formatDuration(d time.Duration) string {
	d = d.Truncate(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) - m*60
	return fmt.Sprintf("%dm%02ds", m, s)
}
