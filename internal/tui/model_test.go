package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/kitout-sh/kitout/internal/catalog"
	"github.com/kitout-sh/kitout/internal/engine"
	"github.com/kitout-sh/kitout/internal/model"
)

func testComponents() []catalog.Component {
	return []catalog.Component{
		{ID: "git", Label: "Git"},
		{ID: "tmux", Label: "tmux"},
	}
}

func TestNewModelTracksEveryComponent(t *testing.T) {
	t.Parallel()

	m := NewModel("workstation", testComponents())
	require.Equal(t, 2, m.TotalSteps())
	require.Equal(t, 0, m.CompletedSteps())
	require.False(t, m.IsFinished())
	require.Equal(t, []string{"git", "tmux"}, m.order)
	require.Equal(t, statusPending, m.statuses["git"])
}

func TestProgressAdapterConvertsEvents(t *testing.T) {
	t.Parallel()

	var msgs []tea.Msg
	send := Progress(func(msg tea.Msg) { msgs = append(msgs, msg) })

	comp := catalog.Component{ID: "git", Label: "Git"}
	send(engine.ProgressEvent{Index: 0, Total: 2, Component: comp})
	out := model.Succeeded("git", "installed (2.43.0)")
	send(engine.ProgressEvent{Index: 0, Total: 2, Component: comp, Outcome: &out})

	require.Len(t, msgs, 2)
	start, ok := msgs[0].(StepStartMsg)
	require.True(t, ok)
	require.Equal(t, "git", start.ComponentID)
	done, ok := msgs[1].(StepDoneMsg)
	require.True(t, ok)
	require.Equal(t, model.ActionSucceeded, done.Outcome.Status)
}
