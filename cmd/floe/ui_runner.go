package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"floe/internal/driver"
	"floe/internal/source"
	"floe/internal/ui"
)

type indexOutcome struct {
	fileSet *source.FileSet
	results []driver.FileResult
	err     error
}

// runIndexWithUI runs the indexing batch under a Bubble Tea progress view.
// The driver publishes events to a channel the model consumes; the batch
// keeps running even if the UI fails.
func runIndexWithUI(cmd *cobra.Command, args []string, opts driver.Options) (*source.FileSet, []driver.FileResult, error) {
	files, err := driver.ExpandPaths(args, opts.Manifest)
	if err != nil {
		return nil, nil, err
	}

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan indexOutcome, 1)
	opts.Observer = func(ev driver.Event) { events <- ev }

	go func() {
		fileSet, results, err := driver.IndexPaths(cmd.Context(), files, opts)
		outcomeCh <- indexOutcome{fileSet: fileSet, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("indexing", files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}
