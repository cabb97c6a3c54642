package main

import (
	"bytes"
	"io"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/log"
	"github.com/rawprouk/scrape/discovery"
)

// spinnerStatus shows driver events as the spinner suffix. Log lines are held
// back while the spinner is drawing and written out by stop.
type spinnerStatus struct {
	spinner *spinner.Spinner
	logger  *log.Logger
	out     io.Writer
	held    bytes.Buffer
}

// newSpinnerStatus redirects logger into a buffer until stop is called; out
// is where the logger writes afterwards.
func newSpinnerStatus(s *spinner.Spinner, logger *log.Logger, out io.Writer) *spinnerStatus {
	status := &spinnerStatus{
		spinner: s,
		logger:  logger,
		out:     out,
	}
	logger.SetOutput(&status.held)
	return status
}

// Report implements discovery.Reporter.
func (st *spinnerStatus) Report(e discovery.Event) {
	st.spinner.Lock()
	st.spinner.Suffix = " " + e.Message
	st.spinner.Unlock()

	if e.Kind == discovery.EventExhausted {
		st.logger.Warn(e.Message, "page", e.Page)
	}
}

func (st *spinnerStatus) start() {
	st.spinner.Start()
}

// stop clears the spinner, then flushes the held log lines.
func (st *spinnerStatus) stop() {
	st.spinner.Stop()
	st.logger.SetOutput(st.out)
	st.out.Write(st.held.Bytes())
	st.held.Reset()
}
