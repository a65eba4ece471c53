// Package analysis provides offline tools for tuning and inspecting runs.
//
//   - [PowerSpectrum]: magnitude spectrum of a diagnostic series
//   - [DominantFrequency]: strongest non-DC component of a series
//   - [ThetaSweep]: accuracy and cost of the tree approximation across
//     opening angles, measured against the exact pairwise sum
//
// # Choosing θ
//
// Each sweep point reports the mean relative acceleration error and how
// many nodes were approximated versus visited exactly:
//
//	points, err := analysis.ThetaSweep(cfg, []float64{0.2, 0.5, 1})
//	for _, pt := range points {
//	    fmt.Println(pt.Theta, pt.MeanError, pt.Approximated)
//	}
package analysis
