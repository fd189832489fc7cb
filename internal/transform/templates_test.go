package transform

import (
	"strings"
	"testing"

	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
)

func TestTemplateRegistry_RegisterAndGet(t *testing.T) {
	registry := NewTemplateRegistry()

	template := Template{
		Name:        "Test_Template",
		Description: "A test template",
	}
	registry.Register(template)

	retrieved, ok := registry.Get("test_template")
	if !ok {
		t.Fatal("Expected to find template")
	}
	if retrieved.Name != template.Name {
		t.Errorf("Expected name %s, got %s", template.Name, retrieved.Name)
	}

	if _, ok := registry.Get(" TEST_TEMPLATE "); !ok {
		t.Error("Expected case-insensitive lookup to work")
	}

	if _, ok := registry.Get("nonexistent"); ok {
		t.Error("Expected not to find nonexistent template")
	}
}

func TestCreateBuiltInTemplates(t *testing.T) {
	registry := CreateBuiltInTemplates()

	expected := []string{
		"online", "in-person", "intensive", "light-touch", "high-mentorship", "fast-response",
		"cost-plus-20", "cost-minus-20", "double-groups", "no-opportunity-cost", "nsw",
	}
	if len(registry.List()) != len(expected) {
		t.Errorf("Expected %d templates, got %d", len(expected), len(registry.List()))
	}

	base := createTestInput()
	for _, name := range expected {
		template, ok := registry.Get(name)
		if !ok {
			t.Errorf("Expected to find template: %s", name)
			continue
		}
		if len(template.Transforms) == 0 {
			t.Errorf("Template %s has no transforms", name)
		}
		result, err := ApplyTemplate(base, template)
		if err != nil {
			t.Errorf("Template %s failed to apply: %v", name, err)
			continue
		}
		if result.Name != name {
			t.Errorf("Expected result named %s, got %s", name, result.Name)
		}
		if _, err := result.Build(); err != nil {
			t.Errorf("Template %s produced an invalid scenario: %v", name, err)
		}
	}
}

func TestApplyTemplate_Values(t *testing.T) {
	registry := CreateBuiltInTemplates()
	base := createTestInput()

	apply := func(name string) *domain.ScenarioInput {
		t.Helper()
		template, _ := registry.Get(name)
		result, err := ApplyTemplate(base, template)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		return result
	}

	if got := apply("cost-plus-20").UnitCost; !got.Equal(decimal.NewFromInt(120)) {
		t.Errorf("cost-plus-20: expected 120, got %s", got)
	}
	if got := apply("cost-minus-20").UnitCost; !got.Equal(decimal.NewFromInt(80)) {
		t.Errorf("cost-minus-20: expected 80, got %s", got)
	}
	if got := apply("double-groups").NumberOfGroups; got != 8 {
		t.Errorf("double-groups: expected 8, got %d", got)
	}
	if apply("no-opportunity-cost").IncludeOpportunityCost {
		t.Error("no-opportunity-cost: expected opportunity cost excluded")
	}

	intensive, err := apply("intensive").Build()
	if err != nil {
		t.Fatal(err)
	}
	if intensive.Tier != "advanced" || intensive.Mentorship != "high" || intensive.DurationPeriods != 12 {
		t.Errorf("intensive: unexpected configuration %+v", intensive)
	}

	nsw, err := apply("nsw").Build()
	if err != nil {
		t.Fatal(err)
	}
	if nsw.RegionCode != "NSW" || !nsw.RegionAdjustment {
		t.Errorf("nsw: unexpected region %s %v", nsw.RegionCode, nsw.RegionAdjustment)
	}
}

func TestParseTemplateList(t *testing.T) {
	got := ParseTemplateList(" online, ,intensive ,")
	if len(got) != 2 || got[0] != "online" || got[1] != "intensive" {
		t.Errorf("Unexpected list %v", got)
	}
	if ParseTemplateList("") != nil {
		t.Error("Expected nil for empty list")
	}
}

func TestGetTemplateHelp(t *testing.T) {
	help := GetTemplateHelp(CreateBuiltInTemplates())
	for _, want := range []string{"Programme Design:", "Cost:", "Scale:", "Delivery Context:", "light-touch", "Usage:"} {
		if !strings.Contains(help, want) {
			t.Errorf("Help text missing %q", want)
		}
	}
	if GetTemplateHelp(NewTemplateRegistry()) != "No templates registered" {
		t.Error("Expected empty registry message")
	}
}
