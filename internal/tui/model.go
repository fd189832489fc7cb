package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/lonelyless/decisionaid/internal/config"
	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/lonelyless/decisionaid/internal/session"
	"github.com/lonelyless/decisionaid/internal/tui/scenes"
	"github.com/lonelyless/decisionaid/internal/tui/tuimsg"
)

// Options configure a new TUI model
type Options struct {
	Session    *session.Session
	Input      *domain.ScenarioInput // starting design; nil starts from the reference levels
	Segment    string                // empty selects the table default
	Definition domain.BenefitDefinition
	Regions    []string // region codes offered for cost adjustment
}

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	// Session and the design being explored
	session     *session.Session
	assumptions domain.Assumptions
	input       *domain.ScenarioInput
	segment     string
	definition  domain.BenefitDefinition

	// Latest results
	seq         int
	result      *domain.ResultBundle
	definitions []*domain.ResultBundle

	// Scene-specific models
	homeModel       *scenes.HomeModel
	parametersModel *scenes.ParametersModel
	scenariosModel  *scenes.ScenariosModel
	resultsModel    *scenes.ResultsModel

	// Error state
	err error

	// One-line feedback shown in the status bar
	status string
}

// DefaultInput is the design the TUI opens with when none is given: the
// reference levels at a unit cost of 100 with two groups of ten.
func DefaultInput() *domain.ScenarioInput {
	in := &domain.ScenarioInput{
		UnitCost:               decimal.NewFromInt(100),
		ParticipantsPerGroup:   10,
		NumberOfGroups:         2,
		IncludeOpportunityCost: true,
	}
	for _, d := range domain.Dimensions() {
		in.SetLevel(d, d.ReferenceLevel())
	}
	return in
}

// NewModel creates a new application model
func NewModel(opts Options) Model {
	sess := opts.Session
	if sess == nil {
		sess = session.NewSession(nil, config.DefaultCoefficientTable())
	}
	input := opts.Input
	if input == nil {
		input = DefaultInput()
	}
	def := opts.Definition
	if def.Kind == "" {
		def = domain.WTPBenefit()
	}
	segment := opts.Segment
	if segment == "" && sess.Table() != nil {
		segment = sess.Table().DefaultSegment
	}
	assumptions := sess.Engine().Assumptions

	m := Model{
		currentScene:    SceneHome,
		previousScene:   SceneHome,
		width:           80,
		height:          24,
		session:         sess,
		assumptions:     assumptions,
		input:           input.DeepCopy(),
		segment:         segment,
		definition:      def,
		homeModel:       scenes.NewHomeModel(sess.Table(), assumptions),
		parametersModel: scenes.NewParametersModel(input, opts.Regions, assumptions),
		scenariosModel:  scenes.NewScenariosModel(assumptions),
		resultsModel:    scenes.NewResultsModel(assumptions),
	}
	m.homeModel.SetSelection(segment, def)
	return m
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return recomputeCmd(m.session, m.seq, m.input, m.segment, m.definition)
}

// Result returns the latest computed result, nil before the first recompute
func (m Model) Result() *domain.ResultBundle {
	return m.result
}

// CurrentScene returns the scene on screen
func (m Model) CurrentScene() Scene {
	return m.currentScene
}

// recompute starts a new recompute and invalidates any still in flight
func (m *Model) recompute() tea.Cmd {
	m.seq++
	return recomputeCmd(m.session, m.seq, m.input.DeepCopy(), m.segment, m.definition)
}

// recomputeCmd returns a command that computes the design under the selected
// definition and, for the results scene, under every other definition
func recomputeCmd(s *session.Session, seq int, input *domain.ScenarioInput, segment string, def domain.BenefitDefinition) tea.Cmd {
	return func() tea.Msg {
		result, err := s.RecomputeInput(input, segment, def)
		if err != nil {
			return tuimsg.ResultComputedMsg{Seq: seq, Err: err}
		}

		all := domain.AllBenefitDefinitions()
		definitions := make([]*domain.ResultBundle, 0, len(all))
		for _, d := range all {
			if d == def {
				definitions = append(definitions, result)
				continue
			}
			b, err := s.Recompute(result.Configuration, segment, d)
			if err != nil {
				return tuimsg.ResultComputedMsg{Seq: seq, Err: err}
			}
			definitions = append(definitions, b)
		}
		return tuimsg.ResultComputedMsg{Seq: seq, Result: result, Definitions: definitions}
	}
}

// saveCmd returns a command that saves the result in the session
func saveCmd(s *session.Session, result *domain.ResultBundle, name string) tea.Cmd {
	return func() tea.Msg {
		saved, err := s.Save(result, name, "")
		return tuimsg.ScenarioSavedMsg{Scenario: saved, Err: err}
	}
}
