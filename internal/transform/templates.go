package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in scenario templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Category    string
	Description string
	Transforms  []ScenarioTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const (
	categoryDesign   = "Programme Design"
	categoryCost     = "Cost"
	categoryScale    = "Scale"
	categoryDelivery = "Delivery Context"
)

// CreateBuiltInTemplates creates a template registry with common programme variants
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{
		Name:        "online",
		Category:    categoryDesign,
		Description: "Deliver the programme fully online",
		Transforms: []ScenarioTransform{
			&SetLevel{Dimension: domain.DimensionDelivery, Level: "online"},
		},
	})

	registry.Register(Template{
		Name:        "in-person",
		Category:    categoryDesign,
		Description: "Deliver the programme in person in community settings",
		Transforms: []ScenarioTransform{
			&SetLevel{Dimension: domain.DimensionDelivery, Level: "inperson"},
		},
	})

	registry.Register(Template{
		Name:        "intensive",
		Category:    categoryDesign,
		Description: "High-intensity programme with a high level of structured contact",
		Transforms: []ScenarioTransform{
			&SetLevel{Dimension: domain.DimensionTier, Level: "advanced"},
			&SetLevel{Dimension: domain.DimensionMentorship, Level: "high"},
		},
	})

	registry.Register(Template{
		Name:        "light-touch",
		Category:    categoryDesign,
		Description: "Light-touch online programme with lighter contact",
		Transforms: []ScenarioTransform{
			&SetLevel{Dimension: domain.DimensionTier, Level: "frontline"},
			&SetLevel{Dimension: domain.DimensionMentorship, Level: "low"},
			&SetLevel{Dimension: domain.DimensionDelivery, Level: "online"},
		},
	})

	registry.Register(Template{
		Name:        "high-mentorship",
		Category:    categoryDesign,
		Description: "High level of structured contact",
		Transforms: []ScenarioTransform{
			&SetLevel{Dimension: domain.DimensionMentorship, Level: "high"},
		},
	})

	registry.Register(Template{
		Name:        "fast-response",
		Category:    categoryDesign,
		Description: "Noticeable impact within around 2 months",
		Transforms: []ScenarioTransform{
			&SetLevel{Dimension: domain.DimensionResponse, Level: "7"},
		},
	})

	registry.Register(Template{
		Name:        "cost-plus-20",
		Category:    categoryCost,
		Description: "Unit cost 20% higher",
		Transforms: []ScenarioTransform{
			&ScaleUnitCost{Factor: decimal.NewFromFloat(1.2)},
		},
	})

	registry.Register(Template{
		Name:        "cost-minus-20",
		Category:    categoryCost,
		Description: "Unit cost 20% lower",
		Transforms: []ScenarioTransform{
			&ScaleUnitCost{Factor: decimal.NewFromFloat(0.8)},
		},
	})

	registry.Register(Template{
		Name:        "double-groups",
		Category:    categoryScale,
		Description: "Deliver twice as many groups",
		Transforms: []ScenarioTransform{
			&ScaleGroups{Factor: 2},
		},
	})

	registry.Register(Template{
		Name:        "no-opportunity-cost",
		Category:    categoryCost,
		Description: "Exclude the opportunity cost of participant time",
		Transforms: []ScenarioTransform{
			&SetOpportunityCost{Include: false},
		},
	})

	registry.Register(Template{
		Name:        "nsw",
		Category:    categoryDelivery,
		Description: "Deliver in New South Wales with regional cost adjustment",
		Transforms: []ScenarioTransform{
			&SetRegion{Code: "NSW", Adjust: true},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base scenario. The result is named
// after the template.
func ApplyTemplate(base *domain.ScenarioInput, template Template) (*domain.ScenarioInput, error) {
	result, err := ApplyTransforms(base, template.Transforms)
	if err != nil {
		return nil, err
	}
	result.Name = template.Name
	return result, nil
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	categories := make(map[string][]Template)
	for _, name := range registry.List() {
		t := registry.templates[name]
		categories[t.Category] = append(categories[t.Category], t)
	}

	for _, category := range []string{categoryDesign, categoryCost, categoryScale, categoryDelivery, ""} {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}
		if category == "" {
			category = "Other"
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-22s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  lonelyless compare scenario.yaml --templates online,intensive\n")
	sb.WriteString("  lonelyless compare scenario.yaml --templates cost-plus-20,cost-minus-20\n")

	return sb.String()
}
