package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/scatterbrainlabs/scatterbrain/internal/client"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the active plan live in the terminal",
	Long: `Render the active plan's distilled context and refresh it whenever the
server reports a change on the plan's event feed. Press q to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolvePlanID()
		if err != nil {
			return err
		}
		api := getClient()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		program := tea.NewProgram(watchModel{planID: id, api: api}, tea.WithAltScreen())

		// Follow the SSE feed; every update nudges the model to refetch.
		go func() {
			_ = api.Watch(ctx, id, func() {
				program.Send(refreshMsg{})
			})
		}()

		_, err = program.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

type refreshMsg struct{}

type contextMsg string

type watchErrMsg struct{ err error }

type watchModel struct {
	planID string
	api    *client.Client
	view   string
	err    error
}

func (m watchModel) Init() tea.Cmd {
	return m.fetch
}

func (m watchModel) fetch() tea.Msg {
	resp, err := m.api.Context(context.Background(), m.planID)
	if err != nil {
		return watchErrMsg{err: err}
	}
	return contextMsg(renderContext(resp.DistilledContext))
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case refreshMsg:
		return m, m.fetch
	case contextMsg:
		m.view = string(msg)
		m.err = nil
	case watchErrMsg:
		m.err = msg.err
	}
	return m, nil
}

func (m watchModel) View() string {
	header := styleHeading.Render(fmt.Sprintf("scatterbrain watch — plan %s", m.planID))
	body := m.view
	if m.err != nil {
		body = styleReminder.Render(fmt.Sprintf("error: %v", m.err))
	}
	if body == "" {
		body = styleIndex.Render("waiting for first update...")
	}
	return header + "\n\n" + body + "\n" + styleIndex.Render("q to quit")
}
