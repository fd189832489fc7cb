package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lonelyless/decisionaid/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	// Standard tea.Msg types
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentHeight := max(0, msg.Height-4)
		m.homeModel.SetSize(msg.Width, contentHeight)
		m.parametersModel.SetSize(msg.Width, contentHeight)
		m.scenariosModel.SetSize(msg.Width, contentHeight)
		m.resultsModel.SetSize(msg.Width, contentHeight)
		return m, nil

	// Custom messages
	case NavigateMsg:
		if msg.Scene != m.currentScene {
			m.previousScene = m.currentScene
			m.currentScene = msg.Scene
		}
		return m, nil

	case QuitMsg:
		return m, tea.Quit

	case tuimsg.ErrorMsg:
		m.err = msg.Err
		return m, nil

	case tuimsg.InputChangedMsg:
		m.input = msg.Input
		return m, m.recompute()

	case tuimsg.SegmentChangedMsg:
		m.segment = msg.Segment
		return m, m.recompute()

	case tuimsg.DefinitionChangedMsg:
		m.definition = msg.Definition
		return m, m.recompute()

	case tuimsg.ResultComputedMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.result = msg.Result
		m.definitions = msg.Definitions
		m.homeModel.SetResult(m.result)
		m.resultsModel.SetResults(m.result, m.definitions)
		m.refreshScenarios()
		return m, nil

	case tuimsg.SaveRequestMsg:
		return m, saveCmd(m.session, m.result, msg.Name)

	case tuimsg.ScenarioSavedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.status = fmt.Sprintf("Saved %q", msg.Scenario.Name)
		result := msg.Scenario.Result
		m.homeModel.SetReference(msg.Scenario.Name, &result)
		m.refreshScenarios()
		return m, nil

	case tuimsg.ScenarioLoadMsg:
		r := msg.Scenario.Result
		m.input = r.Configuration.Input()
		m.segment = r.Segment
		m.definition = r.Definition
		m.parametersModel.SetInput(m.input)
		m.homeModel.SetSelection(m.segment, m.definition)
		m.status = fmt.Sprintf("Loaded %q", msg.Scenario.Name)
		m.previousScene = m.currentScene
		m.currentScene = SceneHome
		return m, m.recompute()
	}

	// Delegate to scene-specific update handlers
	return m.updateCurrentScene(msg)
}

// refreshScenarios rebuilds the saved list and benefit table from the session
func (m *Model) refreshScenarios() {
	m.scenariosModel.SetScenarios(m.session.List(), m.session.BenefitTable(m.result))
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Any key dismisses an error
	if m.err != nil {
		m.err = nil
		return m, nil
	}

	// The name prompt gets every key while it is open
	if m.currentScene == SceneScenarios && m.scenariosModel.Editing() {
		return m.updateCurrentScene(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "?":
		return m, navigate(SceneHelp)

	case "esc":
		if m.currentScene != SceneHome {
			target := m.previousScene
			if target == m.currentScene {
				target = SceneHome
			}
			return m, navigate(target)
		}
		return m, nil

	case "1":
		return m, navigate(SceneHome)
	case "2":
		return m, navigate(SceneParameters)
	case "3":
		return m, navigate(SceneScenarios)
	case "4":
		return m, navigate(SceneResults)

	case "s":
		// Save the current result under the session's default name
		return m, saveCmd(m.session, m.result, "")
	}

	// Let the current scene handle other keys
	return m.updateCurrentScene(msg)
}

func navigate(scene Scene) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Scene: scene}
	}
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneHome:
		m.homeModel, cmd = m.homeModel.Update(msg)
	case SceneParameters:
		m.parametersModel, cmd = m.parametersModel.Update(msg)
	case SceneScenarios:
		m.scenariosModel, cmd = m.scenariosModel.Update(msg)
	case SceneResults:
		m.resultsModel, cmd = m.resultsModel.Update(msg)
	}
	return m, cmd
}
