package breakeven

import (
	"context"
	"fmt"
)

// OptimizeAcrossSegments solves the same request once per coefficient segment
// and compares the break-even unit costs.
func (s *Solver) OptimizeAcrossSegments(ctx context.Context, req OptimizationRequest) (*MultiSegmentResult, error) {
	if s.Coefficients == nil || len(s.Coefficients.Segments) == 0 {
		return nil, &BreakEvenError{
			Operation: "optimize_across_segments",
			Message:   "no coefficient segments available",
		}
	}

	var results []OptimizationResult
	for _, set := range s.Coefficients.Segments {
		segReq := req
		segReq.Segment = set.Key

		result, err := s.Optimize(ctx, segReq)
		if err != nil {
			return nil, fmt.Errorf("segment %s: %w", set.Key, err)
		}
		results = append(results, *result)
	}

	msResult := &MultiSegmentResult{Results: results}
	for i := range results {
		r := &results[i]
		if r.BreakEvenUnitCost == nil {
			continue
		}
		if msResult.MostTolerant == nil || r.BreakEvenUnitCost.GreaterThan(*msResult.MostTolerant.BreakEvenUnitCost) {
			msResult.MostTolerant = r
		}
		if msResult.LeastTolerant == nil || r.BreakEvenUnitCost.LessThan(*msResult.LeastTolerant.BreakEvenUnitCost) {
			msResult.LeastTolerant = r
		}
	}

	msResult.Recommendations = s.generateSegmentRecommendations(msResult)
	return msResult, nil
}

// generateSegmentRecommendations creates recommendations from per-segment results
func (s *Solver) generateSegmentRecommendations(result *MultiSegmentResult) []string {
	var recommendations []string

	unreachable := 0
	for _, r := range result.Results {
		if r.BreakEvenUnitCost == nil {
			unreachable++
		}
	}

	if result.LeastTolerant != nil {
		recommendations = append(recommendations,
			fmt.Sprintf("Keep unit cost at or below %s to meet the target for every segment that can reach it (%s is the binding segment)",
				result.LeastTolerant.BreakEvenUnitCost.StringFixed(2), result.LeastTolerant.Segment))
	}
	if result.MostTolerant != nil && result.LeastTolerant != nil && result.MostTolerant != result.LeastTolerant {
		recommendations = append(recommendations,
			fmt.Sprintf("The %s segment tolerates unit costs up to %s",
				result.MostTolerant.Segment, result.MostTolerant.BreakEvenUnitCost.StringFixed(2)))
	}
	if unreachable > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("⚠️ %d segment(s) cannot reach the target at any cost in range; revisit the programme design", unreachable))
	}

	return recommendations
}
