package transform

import (
	"testing"

	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
)

func TestTransformRegistry_ParseTransformSpec(t *testing.T) {
	registry := NewTransformRegistry()

	tests := []struct {
		spec    string
		want    string
		wantErr bool
	}{
		{"set_level:dimension=Delivery,level=Online", "set_level", false},
		{"scale_unit_cost:factor=1.2", "scale_unit_cost", false},
		{"set_unit_cost:amount=75.50", "set_unit_cost", false},
		{"set_groups:groups=6", "set_groups", false},
		{"scale_groups:factor=2", "scale_groups", false},
		{"set_participants:per_group=12", "set_participants", false},
		{"set_region:code=nsw", "set_region", false},
		{"set_region:code=nsw,adjust=maybe", "", true},
		{"set_opportunity_cost:include=no", "set_opportunity_cost", false},
		{"set_opportunity_cost:", "", true},
		{"set_duration:periods=6", "set_duration", false},
		{"set_level:dimension=colour,level=red", "", true},
		{"set_level:dimension=tier", "", true},
		{"set_groups:groups=many", "", true},
		{"set_groups", "", true},
		{"set_groups:groups", "", true},
		{"unknown:x=1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			transform, err := registry.ParseTransformSpec(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTransformSpec(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
			if err == nil && transform.Name() != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, transform.Name())
			}
		})
	}
}

func TestTransformRegistry_ParsedValues(t *testing.T) {
	registry := NewTransformRegistry()

	level, err := registry.ParseTransformSpec("set_level:dimension=Delivery,level=Online")
	if err != nil {
		t.Fatal(err)
	}
	sl := level.(*SetLevel)
	if sl.Dimension != domain.DimensionDelivery || sl.Level != "online" {
		t.Errorf("Unexpected SetLevel: %+v", sl)
	}

	region, err := registry.ParseTransformSpec("set_region:code=nsw")
	if err != nil {
		t.Fatal(err)
	}
	if !region.(*SetRegion).Adjust {
		t.Error("Expected region adjustment to default on")
	}

	scale, err := registry.ParseTransformSpec("scale_unit_cost:factor=1.2")
	if err != nil {
		t.Fatal(err)
	}
	if !scale.(*ScaleUnitCost).Factor.Equal(decimal.NewFromFloat(1.2)) {
		t.Errorf("Unexpected factor %s", scale.(*ScaleUnitCost).Factor)
	}
}

func TestTransformRegistry_List(t *testing.T) {
	names := NewTransformRegistry().List()
	if len(names) != 9 {
		t.Errorf("Expected 9 transforms, got %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("List is not sorted: %v", names)
		}
	}
}
