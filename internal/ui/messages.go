package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/statelist/internal/state"
)

// SetStateMsg replaces the list's desired state. It is safe to send from
// other goroutines through tea.Program.Send.
type SetStateMsg struct {
	State state.ViewState
}

// ShowErrorMsg replaces the list with an error row. Selecting the row runs
// Retry when it is set.
type ShowErrorMsg struct {
	Title       string
	Description string
	Retry       tea.Cmd
}

// ShowLoadingMsg appends a loading row to the list
type ShowLoadingMsg struct{}

// loadedMsg carries the result of Options.Initial
type loadedMsg struct {
	state state.ViewState
	err   error
}
