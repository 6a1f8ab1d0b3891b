package operations

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ignitionstack/serverless-datadog/internal/ui"
	"github.com/ignitionstack/serverless-datadog/internal/ui/models/spinner"
)

type OperationFunc func(ctx context.Context) (interface{}, error)

// WithSpinner runs operation while a spinner is drawn on the UI writer. In
// plain mode the operation runs without a spinner.
func WithSpinner(ctx context.Context, message string, operation OperationFunc) (interface{}, error) {
	if ui.IsPlain() {
		return operation(ctx)
	}

	program := tea.NewProgram(spinner.New(message),
		tea.WithContext(ctx),
		tea.WithOutput(ui.Output()),
		tea.WithInput(nil),
	)

	go func() {
		result, err := operation(ctx)
		if err != nil {
			program.Send(spinner.ErrorMsg{Err: err})
			return
		}
		program.Send(spinner.ResultMsg{Result: result})
	}()

	model, err := program.Run()
	if err != nil {
		return nil, err
	}

	final, ok := model.(spinner.Model)
	if !ok {
		return nil, fmt.Errorf("program finished with invalid model")
	}
	if final.HasError() {
		return nil, final.Err()
	}
	return final.Result(), nil
}
