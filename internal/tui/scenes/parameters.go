package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/lonelyless/decisionaid/internal/output"
	"github.com/lonelyless/decisionaid/internal/tui/components"
	"github.com/lonelyless/decisionaid/internal/tui/tuimsg"
	"github.com/lonelyless/decisionaid/internal/tui/tuistyles"
)

// Slider positions
const (
	sliderUnitCost = iota
	sliderParticipants
	sliderGroups
	sliderDuration
	sliderCount
)

// Options of the switch pickers that follow the attribute pickers
const (
	optExcluded = "excluded"
	optIncluded = "included"
	optNoRegion = "none"
)

var (
	keyUp    = key.NewBinding(key.WithKeys("up", "k"))
	keyDown  = key.NewBinding(key.WithKeys("down", "j"))
	keyLeft  = key.NewBinding(key.WithKeys("left", "h", "-"))
	keyRight = key.NewBinding(key.WithKeys("right", "l", "+"))
	keyReset = key.NewBinding(key.WithKeys("r"))
)

// ParametersModel edits the programme design. Every change is sent to the root
// model as an InputChangedMsg so the result is recomputed straight away.
type ParametersModel struct {
	input   *domain.ScenarioInput
	initial *domain.ScenarioInput
	regions []string
	money   output.Money

	sliders    []*components.ParameterSlider
	attributes []*components.LevelPicker // one per dimension, in domain.Dimensions() order
	oppCost    *components.LevelPicker
	region     *components.LevelPicker
	focus      int

	width  int
	height int
}

// NewParametersModel creates the parameters scene for a starting design.
// regions lists the region codes offered for cost adjustment.
func NewParametersModel(input *domain.ScenarioInput, regions []string, assumptions domain.Assumptions) *ParametersModel {
	if input == nil {
		input = &domain.ScenarioInput{}
	}
	m := &ParametersModel{
		initial: input.DeepCopy(),
		regions: regions,
		money:   output.NewMoney(assumptions),
	}
	m.SetInput(input)
	return m
}

// SetInput replaces the design being edited and rebuilds the controls from it
func (m *ParametersModel) SetInput(input *domain.ScenarioInput) {
	m.input = input.DeepCopy()
	m.buildControls()
	m.applyFocus()
}

// Input returns a copy of the design being edited
func (m *ParametersModel) Input() *domain.ScenarioInput {
	return m.input.DeepCopy()
}

// SetSize updates the scene dimensions
func (m *ParametersModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *ParametersModel) buildControls() {
	in := m.input

	m.sliders = make([]*components.ParameterSlider, sliderCount)
	m.sliders[sliderUnitCost] = components.NewParameterSlider("Unit cost per participant per month",
		in.UnitCost.InexactFloat64(), 0, rangeMax(in.UnitCost.InexactFloat64(), 1000), 10).
		WithFormatter(func(v float64) string { return m.money.Format(decimal.NewFromFloat(v)) }).
		WithDescription("Direct cost of running the programme, before any regional adjustment")
	m.sliders[sliderParticipants] = components.NewParameterSlider("Participants per group",
		float64(in.ParticipantsPerGroup), 1, rangeMax(float64(in.ParticipantsPerGroup), 100), 1).
		WithDescription("Number of people enrolled in each group")
	m.sliders[sliderGroups] = components.NewParameterSlider("Number of groups",
		float64(in.NumberOfGroups), 1, rangeMax(float64(in.NumberOfGroups), 100), 1).
		WithDescription("Groups run in parallel across the programme")
	m.sliders[sliderDuration] = components.NewParameterSlider("Duration (months)",
		float64(in.DurationPeriods), 0, 36, 1).
		WithFormatter(m.formatDuration).
		WithDescription("0 uses the duration implied by the programme intensity")

	m.attributes = m.attributes[:0]
	for _, d := range domain.Dimensions() {
		levels := d.Levels()
		options := make([]string, len(levels))
		for i, l := range levels {
			options[i] = string(l)
		}
		selected := string(d.ReferenceLevel())
		if sel := in.Attributes[d]; len(sel) > 0 {
			selected = string(sel[0].Normalize())
		}
		dim := d
		m.attributes = append(m.attributes, components.NewLevelPicker(d.Label(), options, selected).
			WithDescriber(func(level string) string { return dim.Describe(domain.Level(level)) }))
	}

	opp := optExcluded
	if in.IncludeOpportunityCost {
		opp = optIncluded
	}
	m.oppCost = components.NewLevelPicker("Opportunity cost", []string{optExcluded, optIncluded}, opp)

	region := optNoRegion
	if in.RegionAdjustment && in.RegionCode != "" {
		region = in.RegionCode
	}
	m.region = components.NewLevelPicker("Region adjustment", append([]string{optNoRegion}, m.regions...), region)
}

// rangeMax keeps a starting value inside the slider range
func rangeMax(v, floor float64) float64 {
	if v > floor {
		return v * 2
	}
	return floor
}

func (m *ParametersModel) formatDuration(v float64) string {
	if v <= 0 {
		tier := domain.Level("")
		if sel := m.input.Attributes[domain.DimensionTier]; len(sel) > 0 {
			tier = sel[0]
		}
		return fmt.Sprintf("tier default (%d)", domain.DurationForTier(tier))
	}
	return fmt.Sprintf("%.0f", v)
}

// pickers returns every picker in focus order
func (m *ParametersModel) pickers() []*components.LevelPicker {
	out := make([]*components.LevelPicker, 0, len(m.attributes)+2)
	out = append(out, m.attributes...)
	return append(out, m.oppCost, m.region)
}

func (m *ParametersModel) controlCount() int {
	return len(m.sliders) + len(m.attributes) + 2
}

func (m *ParametersModel) applyFocus() {
	for i, s := range m.sliders {
		s.SetFocused(i == m.focus)
	}
	for i, p := range m.pickers() {
		p.SetFocused(len(m.sliders)+i == m.focus)
	}
}

// Update handles messages for the parameters scene
func (m *ParametersModel) Update(msg tea.Msg) (*ParametersModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keyUp):
		if m.focus > 0 {
			m.focus--
			m.applyFocus()
		}
		return m, nil

	case key.Matches(keyMsg, keyDown):
		if m.focus < m.controlCount()-1 {
			m.focus++
			m.applyFocus()
		}
		return m, nil

	case key.Matches(keyMsg, keyLeft):
		m.adjust(-1)
		return m, m.changed()

	case key.Matches(keyMsg, keyRight):
		m.adjust(1)
		return m, m.changed()

	case key.Matches(keyMsg, keyReset):
		m.SetInput(m.initial)
		return m, m.changed()
	}

	return m, nil
}

// adjust moves the focused control one step in direction dir and writes the
// new value into the input
func (m *ParametersModel) adjust(dir int) {
	if m.focus < len(m.sliders) {
		s := m.sliders[m.focus]
		if dir < 0 {
			s.Decrement()
		} else {
			s.Increment()
		}
	} else {
		p := m.pickers()[m.focus-len(m.sliders)]
		if dir < 0 {
			p.Prev()
		} else {
			p.Next()
		}
	}
	m.writeInput()
}

func (m *ParametersModel) writeInput() {
	in := m.input
	in.UnitCost = decimal.NewFromFloat(m.sliders[sliderUnitCost].Value)
	in.ParticipantsPerGroup = int(m.sliders[sliderParticipants].Value)
	in.NumberOfGroups = int(m.sliders[sliderGroups].Value)
	in.DurationPeriods = int(m.sliders[sliderDuration].Value)

	for i, d := range domain.Dimensions() {
		in.SetLevel(d, domain.Level(m.attributes[i].Selected()))
	}
	in.IncludeOpportunityCost = m.oppCost.Selected() == optIncluded
	if code := m.region.Selected(); code == optNoRegion {
		in.RegionAdjustment = false
		in.RegionCode = ""
	} else {
		in.RegionAdjustment = true
		in.RegionCode = code
	}
}

func (m *ParametersModel) changed() tea.Cmd {
	input := m.input.DeepCopy()
	return func() tea.Msg {
		return tuimsg.InputChangedMsg{Input: input}
	}
}

// View renders the parameters scene
func (m *ParametersModel) View() string {
	var content strings.Builder

	content.WriteString(tuistyles.SectionStyle.Render("Cost and scale"))
	content.WriteString("\n")
	for _, s := range m.sliders {
		content.WriteString(s.Render())
		content.WriteString("\n")
	}

	content.WriteString(tuistyles.SectionStyle.Render("Programme design"))
	content.WriteString("\n")
	for _, p := range m.attributes {
		content.WriteString(p.Render())
		content.WriteString("\n")
	}

	content.WriteString(tuistyles.SectionStyle.Render("Costing options"))
	content.WriteString("\n")
	content.WriteString(m.oppCost.Render())
	content.WriteString("\n")
	content.WriteString(m.region.Render())
	content.WriteString("\n\n")

	hint := lipgloss.NewStyle().Foreground(tuistyles.ColorInfo).Italic(true)
	content.WriteString(hint.Render("↑↓ select • ← → adjust • r reset • s save scenario"))

	return tuistyles.BorderStyle.Render(content.String())
}
