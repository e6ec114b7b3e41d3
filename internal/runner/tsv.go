package runner

import (
	"fmt"
	"io"
	"strings"

	"goablate/domain/experiment"
)

// tsvColumns is the sample data stream header. The std/age/diversity columns
// print as zero for engine versions that predate them.
var tsvColumns = []string{
	"condition", "seed", "step",
	"alive_count", "energy_mean", "waste_mean", "boundary_mean",
	"birth_count", "death_count", "population_size",
	"mean_generation", "mean_genome_drift",
	"energy_std", "waste_std", "boundary_std",
	"mean_age", "genome_diversity", "max_generation",
}

func writeHeaderTSV(w io.Writer) {
	fmt.Fprintln(w, strings.Join(tsvColumns, "\t"))
}

func writeSampleTSV(w io.Writer, condition string, seed int, s experiment.Sample) {
	fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.4f\t%.4f\t%.4f\t%d\t%d\t%d\t%.2f\t%.4f\t%.4f\t%.4f\t%.4f\t%.1f\t%.4f\t%d\n",
		condition, seed, s.Step,
		s.AliveCount, s.EnergyMean, s.WasteMean, s.BoundaryMean,
		s.BirthCount, s.DeathCount, s.PopulationSize,
		s.MeanGeneration, s.MeanGenomeDrift,
		s.EnergyStd, s.WasteStd, s.BoundaryStd,
		s.MeanAge, s.GenomeDiversity, s.MaxGeneration)
}
