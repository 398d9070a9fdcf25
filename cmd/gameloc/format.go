package main

import (
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"

	"github.com/ZaguanLabs/gameloc"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
)

func newTable(w io.Writer, header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row(header))
	return t
}

// truncate shortens s to n display columns, so CJK text lines up.
func truncate(s string, n int) string {
	return runewidth.Truncate(s, n, "...")
}

// progressBar renders batch progress on stderr.
type progressBar struct {
	pw      progress.Writer
	tracker *progress.Tracker
}

func newProgressBar(w io.Writer, message string, total int) *progressBar {
	pw := progress.NewWriter()
	pw.SetOutputWriter(w)
	pw.SetAutoStop(false)
	pw.SetTrackerLength(30)
	pw.SetMessageLength(24)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.SetStyle(progress.StyleDefault)
	pw.Style().Options.PercentFormat = "%4.1f%%"
	pw.Style().Visibility.ETA = true
	pw.Style().Visibility.Value = true

	tracker := &progress.Tracker{
		Message: truncate(message, 24),
		Total:   int64(total),
		Units:   progress.UnitsDefault,
	}
	pw.AppendTracker(tracker)

	go pw.Render()
	for !pw.IsRenderInProgress() {
		time.Sleep(time.Millisecond)
	}
	return &progressBar{pw: pw, tracker: tracker}
}

func (b *progressBar) observe(p gameloc.Progress) {
	b.tracker.SetValue(int64(p.Completed))
}

// stop marks the tracker and waits for the final render.
func (b *progressBar) stop() {
	if b.tracker.Value() >= b.tracker.Total {
		b.tracker.MarkAsDone()
	} else {
		b.tracker.MarkAsErrored()
	}
	b.pw.Stop()
	for b.pw.IsRenderInProgress() {
		time.Sleep(10 * time.Millisecond)
	}
}
