package output

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
)

// RunWithSpinner runs action while showing a spinner titled title.
// Without a TTY the action runs directly.
func RunWithSpinner(ctx context.Context, title string, action func(ctx context.Context) error) error {
	if !IsTTY() {
		return action(ctx)
	}

	done := make(chan struct{})
	var actionErr error
	go func() {
		actionErr = action(ctx)
		close(done)
	}()

	spinnerErr := spinner.New().
		Title(title).
		Action(func() {
			select {
			case <-ctx.Done():
			case <-done:
			}
		}).
		Run()

	// The action owns ctx and always finishes, even when the spinner is interrupted.
	<-done
	if actionErr != nil {
		return actionErr
	}
	if spinnerErr != nil {
		return fmt.Errorf("spinner error: %w", spinnerErr)
	}
	return nil
}
