package main

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/text/message"

	"vidconv/internal/conversion"
	"vidconv/internal/language"
	"vidconv/internal/logging"
	"vidconv/internal/services"
	"vidconv/internal/source"
)

// plainProgressStep is the percent interval between progress lines when the
// output is not a terminal.
const plainProgressStep = 10

// progressView renders batch events. On a terminal it drives one progress
// bar per task; elsewhere it prints a line every plainProgressStep percent.
type progressView struct {
	out     io.Writer
	printer *message.Printer
	live    bool

	bar     *progressbar.ProgressBar
	sampler *logging.ProgressSampler
}

func newProgressView(out io.Writer, printer *message.Printer, live bool) *progressView {
	return &progressView{
		out:     out,
		printer: printer,
		live:    live,
		sampler: logging.NewProgressSampler(plainProgressStep),
	}
}

func (v *progressView) handle(ev conversion.Event) {
	switch ev.Kind {
	case conversion.EventStarted:
		v.started(ev)
	case conversion.EventProgress:
		v.progress(ev)
	case conversion.EventFinished:
		v.finished(ev)
	case conversion.EventSkipped:
		fmt.Fprintln(v.out, v.prefix(ev)+v.printer.Sprintf(language.MsgRenditionSkip, ev.Rendition.Tag()))
	}
}

func (v *progressView) prefix(ev conversion.Event) string {
	return fmt.Sprintf("[%d/%d] ", ev.Index+1, ev.Total)
}

func (v *progressView) started(ev conversion.Event) {
	v.sampler.Reset()
	label := v.prefix(ev) + v.printer.Sprintf(language.MsgConverting, source.Descriptor{Path: ev.Task.SourcePath}.Name(), ev.Rendition.Tag())
	if !v.live {
		fmt.Fprintln(v.out, label)
		return
	}
	v.bar = progressbar.NewOptions(100,
		progressbar.OptionSetWriter(v.out),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func (v *progressView) progress(ev conversion.Event) {
	if v.live {
		if v.bar != nil {
			_ = v.bar.Set(int(ev.Sample.Percent))
		}
		return
	}
	if v.sampler.ShouldLog(ev.Rendition.Tag(), ev.Sample.Percent) {
		fmt.Fprintf(v.out, "%s%s %.0f%%\n", v.prefix(ev), ev.Rendition.Tag(), ev.Sample.Percent)
	}
}

func (v *progressView) finished(ev conversion.Event) {
	if v.bar != nil {
		if ev.Outcome.Succeeded() {
			_ = v.bar.Finish()
		} else {
			_ = v.bar.Exit()
		}
		v.bar = nil
	}
	tag := ev.Rendition.Tag()
	if ev.Outcome.Succeeded() {
		fmt.Fprintln(v.out, v.prefix(ev)+v.printer.Sprintf(language.MsgRenditionDone, tag, source.FormatDuration(ev.Outcome.Elapsed.Seconds())))
		return
	}
	reason := ev.Outcome.Err.Error()
	if services.Kind(ev.Outcome.Err) == services.KindAborted {
		reason = v.printer.Sprintf(language.MsgCancelled)
	}
	fmt.Fprintln(v.out, v.prefix(ev)+v.printer.Sprintf(language.MsgRenditionFail, tag, reason))
}
