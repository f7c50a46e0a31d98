package ui

import tea "github.com/charmbracelet/bubbletea"

// NewProgram creates a program showing the list described by opts
func NewProgram(opts Options, programOpts ...tea.ProgramOption) *tea.Program {
	return tea.NewProgram(NewApp(opts), programOpts...)
}

// Run shows the list until the user quits
func Run(opts Options) error {
	_, err := NewProgram(opts).Run()
	return err
}
