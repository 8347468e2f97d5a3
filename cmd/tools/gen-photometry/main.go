// Command gen-photometry generates sample photometry tables for testing
// the cleaning pipeline.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
)

func main() {
	output := flag.String("o", "sample_photometry.dat", "output path")
	rows := flag.Int("n", 500, "number of data rows")
	outliers := flag.Int("outliers", 3, "number of injected centroid outliers")
	nans := flag.Int("nans", 2, "number of injected NaN flux values")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create output file: %v", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	fmt.Fprintln(w, "flux flux_err time t_err x x_err y y_err psfxw psfxw_err psfyw")

	// Times are written shuffled so the sort step has work to do.
	times := make([]float64, *rows)
	for i := range times {
		times[i] = 55370.0 + float64(i)*0.0001
	}
	rng.Shuffle(len(times), func(i, j int) { times[i], times[j] = times[j], times[i] })

	outlierAt := pickRows(rng, *rows, *outliers)
	nanAt := pickRows(rng, *rows, *nans)

	for i := 0; i < *rows; i++ {
		flux := 480.0 + rng.NormFloat64()*1.5
		fluxErr := 1.2 + rng.NormFloat64()*0.05
		x := 15.0 + rng.NormFloat64()*0.08
		y := 15.0 + rng.NormFloat64()*0.08
		psfxw := 1.05 + rng.NormFloat64()*0.02
		psfyw := 1.10 + rng.NormFloat64()*0.02

		if outlierAt[i] {
			x += 50.0
		}
		if nanAt[i] {
			flux = math.NaN()
		}

		fmt.Fprintf(w, "%.6f %.6f %.6f %.4f %.6f %.4f %.6f %.4f %.6f %.4f %.6f\n",
			flux, fluxErr, times[i],
			rng.Float64(), x, rng.Float64(), y, rng.Float64(),
			psfxw, rng.Float64(), psfyw)

		if (i+1)%1000 == 0 {
			log.Printf("%d/%d rows", i+1, *rows)
		}
	}

	log.Printf("✓ Created: %s (%d rows, %d outliers, %d NaNs)", *output, *rows, *outliers, *nans)
}

// pickRows marks n distinct random row indices.
func pickRows(rng *rand.Rand, total, n int) map[int]bool {
	picked := make(map[int]bool, n)
	if n > total {
		n = total
	}
	for len(picked) < n {
		picked[rng.Intn(total)] = true
	}
	return picked
}
