package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lonelyless/decisionaid/internal/tui/tuistyles"
)

// LevelPicker cycles through a fixed list of options, such as the levels of a
// programme attribute or an on/off switch.
type LevelPicker struct {
	Label     string
	Options   []string
	Index     int
	IsFocused bool

	describe func(string) string
}

// NewLevelPicker creates a picker positioned on selected, or on the first
// option when selected is not in the list.
func NewLevelPicker(label string, options []string, selected string) *LevelPicker {
	p := &LevelPicker{Label: label, Options: options}
	p.Select(selected)
	return p
}

// WithDescriber sets the text shown next to the selected option
func (p *LevelPicker) WithDescriber(describe func(string) string) *LevelPicker {
	p.describe = describe
	return p
}

// SetFocused sets the focus state
func (p *LevelPicker) SetFocused(focused bool) {
	p.IsFocused = focused
}

// Next moves to the following option, wrapping around
func (p *LevelPicker) Next() {
	if len(p.Options) == 0 {
		return
	}
	p.Index = (p.Index + 1) % len(p.Options)
}

// Prev moves to the previous option, wrapping around
func (p *LevelPicker) Prev() {
	if len(p.Options) == 0 {
		return
	}
	p.Index = (p.Index - 1 + len(p.Options)) % len(p.Options)
}

// Select positions the picker on an option. Matching ignores case.
func (p *LevelPicker) Select(option string) bool {
	for i, o := range p.Options {
		if strings.EqualFold(o, option) {
			p.Index = i
			return true
		}
	}
	p.Index = 0
	return false
}

// Selected returns the current option
func (p *LevelPicker) Selected() string {
	if len(p.Options) == 0 {
		return ""
	}
	return p.Options[p.Index]
}

// Render returns the picker as one line: label, the option strip, and a
// description of the selected option
func (p *LevelPicker) Render() string {
	labelStyle := tuistyles.ParameterLabelStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
	}

	options := make([]string, len(p.Options))
	for i, o := range p.Options {
		if i == p.Index {
			style := tuistyles.SelectedItemStyle
			if p.IsFocused {
				style = style.Foreground(tuistyles.ColorAccent)
			}
			options[i] = style.Render("[" + o + "]")
			continue
		}
		options[i] = tuistyles.UnselectedItemStyle.Render(" " + o + " ")
	}

	line := labelStyle.Width(28).Render(p.Label) + strings.Join(options, " ")
	if p.describe != nil {
		if text := p.describe(p.Selected()); text != "" {
			line += "  " + lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true).Render(text)
		}
	}
	return line
}
