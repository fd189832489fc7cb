package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("set_level", createSetLevel)
	registry.Register("scale_unit_cost", createScaleUnitCost)
	registry.Register("set_unit_cost", createSetUnitCost)
	registry.Register("set_groups", createSetGroups)
	registry.Register("scale_groups", createScaleGroups)
	registry.Register("set_participants", createSetParticipants)
	registry.Register("set_region", createSetRegion)
	registry.Register("set_opportunity_cost", createSetOpportunityCost)
	registry.Register("set_duration", createSetDuration)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "set_level:dimension=delivery,level=online"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

func requireParam(transform, key string, params map[string]string) (string, error) {
	value, ok := params[key]
	if !ok {
		return "", fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	return value, nil
}

func intParam(transform, key string, params map[string]string) (int, error) {
	raw, err := requireParam(transform, key, params)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func decimalParam(transform, key string, params map[string]string) (decimal.Decimal, error) {
	raw, err := requireParam(transform, key, params)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

func boolParam(transform, key string, params map[string]string, fallback bool) (bool, error) {
	raw, ok := params[key]
	if !ok {
		return fallback, nil
	}
	switch strings.ToLower(raw) {
	case "true", "yes", "1", "on":
		return true, nil
	case "false", "no", "0", "off":
		return false, nil
	}
	return false, fmt.Errorf("%s: invalid %s value %q", transform, key, raw)
}

// Factory functions for each transform

func createSetLevel(params map[string]string) (ScenarioTransform, error) {
	rawDimension, err := requireParam("set_level", "dimension", params)
	if err != nil {
		return nil, err
	}
	dimension, ok := domain.ParseDimension(rawDimension)
	if !ok {
		return nil, fmt.Errorf("unknown dimension %q", rawDimension)
	}
	level, err := requireParam("set_level", "level", params)
	if err != nil {
		return nil, err
	}
	return &SetLevel{Dimension: dimension, Level: domain.Level(level).Normalize()}, nil
}

func createScaleUnitCost(params map[string]string) (ScenarioTransform, error) {
	factor, err := decimalParam("scale_unit_cost", "factor", params)
	if err != nil {
		return nil, err
	}
	return &ScaleUnitCost{Factor: factor}, nil
}

func createSetUnitCost(params map[string]string) (ScenarioTransform, error) {
	amount, err := decimalParam("set_unit_cost", "amount", params)
	if err != nil {
		return nil, err
	}
	return &SetUnitCost{Amount: amount}, nil
}

func createSetGroups(params map[string]string) (ScenarioTransform, error) {
	groups, err := intParam("set_groups", "groups", params)
	if err != nil {
		return nil, err
	}
	return &SetGroups{Groups: groups}, nil
}

func createScaleGroups(params map[string]string) (ScenarioTransform, error) {
	factor, err := intParam("scale_groups", "factor", params)
	if err != nil {
		return nil, err
	}
	return &ScaleGroups{Factor: factor}, nil
}

func createSetParticipants(params map[string]string) (ScenarioTransform, error) {
	perGroup, err := intParam("set_participants", "per_group", params)
	if err != nil {
		return nil, err
	}
	return &SetParticipants{PerGroup: perGroup}, nil
}

func createSetRegion(params map[string]string) (ScenarioTransform, error) {
	code, err := requireParam("set_region", "code", params)
	if err != nil {
		return nil, err
	}
	adjust, err := boolParam("set_region", "adjust", params, true)
	if err != nil {
		return nil, err
	}
	return &SetRegion{Code: code, Adjust: adjust}, nil
}

func createSetOpportunityCost(params map[string]string) (ScenarioTransform, error) {
	if _, err := requireParam("set_opportunity_cost", "include", params); err != nil {
		return nil, err
	}
	include, err := boolParam("set_opportunity_cost", "include", params, false)
	if err != nil {
		return nil, err
	}
	return &SetOpportunityCost{Include: include}, nil
}

func createSetDuration(params map[string]string) (ScenarioTransform, error) {
	periods, err := intParam("set_duration", "periods", params)
	if err != nil {
		return nil, err
	}
	return &SetDuration{Periods: periods}, nil
}
