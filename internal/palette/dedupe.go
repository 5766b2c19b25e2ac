package palette

import (
	"palette-finder/internal/settings"
)

// Dedupe turns candidates into detections, one per swatch.
//
// Candidates are walked in order, or backwards when cfg.Reverse is set. The
// stacking axis decides what "nearby" means: a vertical strip is compared by
// column, a horizontal strip by row. A candidate is kept only if its
// coordinate on that axis is more than MergeRadius away from every candidate
// kept so far. The result is empty when nothing was kept.
func Dedupe(candidates []Candidate, cfg settings.Config) []Detection {
	if len(candidates) == 0 {
		return nil
	}

	window := cfg.Window()
	var (
		detections []Detection
		accepted   []int
	)

	visit := func(c Candidate) {
		coord := c.Point().Axis(cfg.Vertical)
		for _, a := range accepted {
			if abs(coord-a) <= MergeRadius {
				return
			}
		}
		accepted = append(accepted, coord)
		detections = append(detections, NewDetection(c, window))
	}

	if cfg.Reverse {
		for i := len(candidates) - 1; i >= 0; i-- {
			visit(candidates[i])
		}
	} else {
		for _, c := range candidates {
			visit(c)
		}
	}
	return detections
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
