package phenotype

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"goablate/domain/experiment"
	"goablate/internal"
	"goablate/internal/errors"
	"goablate/internal/results"
)

// TraitNames are the population-level traits clustered, in column order.
var TraitNames = []string{
	"energy_mean",
	"waste_mean",
	"boundary_mean",
	"genome_diversity",
	"mean_generation",
}

// clusterSeed fixes the k-means restarts so reruns of the analysis produce
// identical cluster assignments for identical inputs.
const clusterSeed = 42

// ClusterProfile describes one cluster's size and raw trait means.
type ClusterProfile struct {
	ClusterID int                `json:"cluster_id"`
	Count     int                `json:"count"`
	Traits    map[string]float64 `json:"traits"`
	TraitStds map[string]float64 `json:"trait_stds,omitempty"`
}

// ClusteringReport is the output of phenotype clustering over final samples.
type ClusteringReport struct {
	NClusters       int              `json:"n_clusters"`
	SilhouetteScore float64          `json:"silhouette_score"`
	ClusterProfiles []ClusterProfile `json:"cluster_profiles"`
	Labels          []int            `json:"labels"`
	TraitNames      []string         `json:"trait_names"`
}

// WindowSummary describes the clustering of one temporal window.
type WindowSummary struct {
	NClusters          int              `json:"n_clusters"`
	ClusterProportions []float64        `json:"cluster_proportions"`
	ClusterProfiles    []ClusterProfile `json:"cluster_profiles"`
}

// PersistenceReport measures cluster stability between an early and a late
// trajectory window via the adjusted Rand index.
type PersistenceReport struct {
	EarlyClusters     WindowSummary `json:"early_clusters"`
	LateClusters      WindowSummary `json:"late_clusters"`
	AdjustedRandIndex float64       `json:"adjusted_rand_index"`
	Interpretation    string        `json:"interpretation"`
}

// Report is the full phenotype analysis output.
type Report struct {
	Analysis            string             `json:"analysis"`
	NSeeds              int                `json:"n_seeds"`
	NTraitVectors       int                `json:"n_trait_vectors"`
	Clustering          *ClusteringReport  `json:"clustering"`
	TemporalPersistence *PersistenceReport `json:"temporal_persistence"`
}

// PersistenceClaimGate decides whether the measured ARI is strong enough to
// support the manuscript's persistence claim. The boundary is inclusive: an
// ARI exactly at the threshold passes.
func PersistenceClaimGate(ari, threshold float64) bool {
	return ari >= threshold
}

// ExtractFinalTraits builds the trait matrix from each run's final sample.
// Runs without samples contribute no row.
func ExtractFinalTraits(runs []experiment.RunResult) [][]float64 {
	traits := make([][]float64, 0, len(runs))
	for _, r := range runs {
		last, ok := r.LastSample()
		if !ok {
			continue
		}
		traits = append(traits, traitRow(last))
	}
	return traits
}

// ExtractTraitsAtStep builds the trait matrix from the sample closest to
// targetStep in each run.
func ExtractTraitsAtStep(runs []experiment.RunResult, targetStep int) [][]float64 {
	traits := make([][]float64, 0, len(runs))
	for _, r := range runs {
		if len(r.Samples) == 0 {
			continue
		}
		best := r.Samples[0]
		for _, s := range r.Samples[1:] {
			if abs(s.Step-targetStep) < abs(best.Step-targetStep) {
				best = s
			}
		}
		traits = append(traits, traitRow(best))
	}
	return traits
}

func traitRow(s experiment.Sample) []float64 {
	row := make([]float64, len(TraitNames))
	for j, name := range TraitNames {
		row[j] = s.Metric(name)
	}
	return row
}

// ClusterTraits standardizes the trait matrix and k-means clusters it,
// selecting k in [2, maxK] by silhouette score.
func ClusterTraits(traits [][]float64, maxK int) (*ClusteringReport, error) {
	if len(traits) < 4 {
		return nil, errors.New(errors.CodeInsufficientData, "clustering requires at least 4 trait vectors")
	}
	scaled := Standardize(traits)
	rng := rand.New(rand.NewSource(clusterSeed))

	bestK := 2
	bestScore := -1.0
	var bestLabels []int
	for k := 2; k <= maxK && k < len(traits); k++ {
		labels := KMeans(scaled, k, 10, rng)
		score, err := SilhouetteScore(scaled, labels)
		if err != nil {
			continue
		}
		if score > bestScore {
			bestScore = score
			bestK = k
			bestLabels = labels
		}
	}
	if bestLabels == nil {
		return nil, errors.New(errors.CodeInsufficientData, "no valid clustering found")
	}

	return &ClusteringReport{
		NClusters:       bestK,
		SilhouetteScore: round4(bestScore),
		ClusterProfiles: profiles(traits, bestLabels, bestK, true),
		Labels:          bestLabels,
		TraitNames:      TraitNames,
	}, nil
}

// AnalyzeTemporalPersistence clusters an early and a late trajectory window
// independently (fixed k=2) and scores agreement with the adjusted Rand
// index.
func AnalyzeTemporalPersistence(runs []experiment.RunResult, earlyStep, lateStep int) (*PersistenceReport, error) {
	const k = 2
	earlyTraits := ExtractTraitsAtStep(runs, earlyStep)
	lateTraits := ExtractTraitsAtStep(runs, lateStep)
	if len(earlyTraits) < 4 || len(lateTraits) < 4 {
		return nil, errors.New(errors.CodeInsufficientData, "temporal persistence requires at least 4 trait vectors per window")
	}

	rng := rand.New(rand.NewSource(clusterSeed))
	earlyLabels := KMeans(Standardize(earlyTraits), k, 10, rng)
	lateLabels := KMeans(Standardize(lateTraits), k, 10, rng)
	ari := AdjustedRandIndex(earlyLabels, lateLabels)

	return &PersistenceReport{
		EarlyClusters:     windowSummary(earlyTraits, earlyLabels, k),
		LateClusters:      windowSummary(lateTraits, lateLabels, k),
		AdjustedRandIndex: round4(ari),
		Interpretation:    interpretARI(ari),
	}, nil
}

func interpretARI(ari float64) string {
	switch {
	case ari > 0.6:
		return fmt.Sprintf("Strong temporal persistence (ARI=%.3f): phenotypic clusters remain stable from early to late windows.", ari)
	case ari > 0.3:
		return fmt.Sprintf("Moderate temporal persistence (ARI=%.3f): clusters partially reorganize between early and late windows.", ari)
	default:
		return fmt.Sprintf("Weak temporal persistence (ARI=%.3f): cluster assignments change substantially between windows.", ari)
	}
}

// Analyze loads the evolution experiment data under experimentDir and runs
// the full phenotype analysis: clustering over final samples plus temporal
// persistence over the primary ablation baseline.
func Analyze(experimentDir string, log *internal.Logger) (*Report, error) {
	if log == nil {
		log = internal.DefaultLogger
	}

	runs := loadEvolutionRuns(experimentDir, log)
	if len(runs) == 0 {
		return nil, errors.MissingInput("evolution result data in " + experimentDir)
	}
	log.Progress("  Total seeds: %d", len(runs))

	traits := ExtractFinalTraits(runs)
	log.Progress("  Trait matrix: %dx%d", len(traits), len(TraitNames))

	clustering, err := ClusterTraits(traits, 5)
	if err != nil {
		return nil, err
	}
	log.Progress("  Best k=%d, silhouette=%.4f", clustering.NClusters, clustering.SilhouetteScore)

	report := &Report{
		Analysis:      "phenotype_clustering",
		NSeeds:        len(runs),
		NTraitVectors: len(traits),
		Clustering:    clustering,
	}

	baselinePath := filepath.Join(experimentDir, "final_graph_normal.json")
	if _, err := os.Stat(baselinePath); err == nil {
		baselineRuns, err := results.Load(baselinePath)
		if err != nil {
			return nil, err
		}
		persistence, err := AnalyzeTemporalPersistence(baselineRuns, 750, 1750)
		if err != nil {
			log.Warn("temporal persistence skipped: %v", err)
		} else {
			log.Progress("  Temporal persistence ARI=%.3f", persistence.AdjustedRandIndex)
			report.TemporalPersistence = persistence
		}
	}
	return report, nil
}

// loadEvolutionRuns prefers the evolution experiment files and falls back to
// the primary ablation baseline when none exist.
func loadEvolutionRuns(experimentDir string, log *internal.Logger) []experiment.RunResult {
	var runs []experiment.RunResult
	for _, name := range []string{"evolution_long_normal", "evolution_shift_normal"} {
		path := filepath.Join(experimentDir, name+".json")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		loaded, err := results.Load(path)
		if err != nil {
			log.Warn("skipping %s: %v", path, err)
			continue
		}
		runs = append(runs, loaded...)
		log.Progress("  Loaded %d seeds from %s", len(loaded), filepath.Base(path))
	}
	if len(runs) > 0 {
		return runs
	}

	path := filepath.Join(experimentDir, "final_graph_normal.json")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	loaded, err := results.Load(path)
	if err != nil {
		log.Warn("skipping %s: %v", path, err)
		return nil
	}
	log.Progress("  Loaded %d seeds from %s", len(loaded), filepath.Base(path))
	return loaded
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
