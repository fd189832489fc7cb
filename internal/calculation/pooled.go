package calculation

import "github.com/lonelyless/decisionaid/internal/domain"

// ComputePooled evaluates every segment and averages their uptake. The result is
// labelled as a convenience view; it is not a pooled model estimate.
func ComputePooled(cfg domain.Configuration, table *domain.CoefficientTable, regions domain.RegionTable) domain.PooledChoice {
	pooled := domain.PooledChoice{Label: domain.PooledLabel}
	if table == nil || len(table.Segments) == 0 {
		return pooled
	}

	sum := 0.0
	for _, set := range table.Segments {
		choice := ComputeChoice(cfg, set, regions)
		pooled.Segments = append(pooled.Segments, domain.SegmentChoice{
			Segment: set.Key,
			Label:   set.DisplayName(),
			Choice:  choice,
		})
		sum += choice.UptakeProbability
	}

	pooled.UptakeProbability = sum / float64(len(table.Segments))
	pooled.OptOutProbability = 1 - pooled.UptakeProbability
	return pooled
}
