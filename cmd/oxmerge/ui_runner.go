package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"oxmerge/internal/driver"
	"oxmerge/internal/ui"
)

type runOutcome struct {
	result *driver.Result
	err    error
}

// runWithUI drives the pipeline on a goroutine while the progress view
// consumes its events. The view quits when the event channel closes.
func runWithUI(ctx context.Context, title string, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Run(ctx, opts)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	program := tea.NewProgram(ui.NewProgressModel(title, events), tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// дочитываем канал, иначе воркеры встанут на отправке
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if outcome.err != nil {
		return outcome.result, outcome.err
	}
	return outcome.result, uiErr
}
