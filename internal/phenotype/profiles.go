package phenotype

import "math"

// profiles summarizes each cluster by its size and raw (unstandardized) trait
// means, keyed by trait name. Standard deviations are population ones and are
// only included for the main clustering report.
func profiles(traits [][]float64, labels []int, k int, withStds bool) []ClusterProfile {
	out := make([]ClusterProfile, 0, k)
	for c := 0; c < k; c++ {
		var members [][]float64
		for i, label := range labels {
			if label == c {
				members = append(members, traits[i])
			}
		}
		profile := ClusterProfile{
			ClusterID: c,
			Count:     len(members),
			Traits:    map[string]float64{},
		}
		if withStds {
			profile.TraitStds = map[string]float64{}
		}
		for j, name := range TraitNames {
			mean, std := columnStats(members, j)
			profile.Traits[name] = round4(mean)
			if withStds {
				profile.TraitStds[name] = round4(std)
			}
		}
		out = append(out, profile)
	}
	return out
}

// windowSummary describes one temporal window's clustering: the share of
// seeds in each cluster plus the per-cluster trait profiles.
func windowSummary(traits [][]float64, labels []int, k int) WindowSummary {
	counts := make([]int, k)
	for _, label := range labels {
		counts[label]++
	}
	proportions := make([]float64, k)
	for c, n := range counts {
		proportions[c] = round4(float64(n) / float64(len(labels)))
	}
	return WindowSummary{
		NClusters:          k,
		ClusterProportions: proportions,
		ClusterProfiles:    profiles(traits, labels, k, false),
	}
}

func columnStats(rows [][]float64, col int) (mean, std float64) {
	if len(rows) == 0 {
		return 0, 0
	}
	for _, row := range rows {
		mean += row[col]
	}
	mean /= float64(len(rows))
	for _, row := range rows {
		d := row[col] - mean
		std += d * d
	}
	std = math.Sqrt(std / float64(len(rows)))
	return mean, std
}
