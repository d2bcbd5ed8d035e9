// Package analysis provides outcome statistics and trace analysis for spins.
//
//   - [Histogram] and [ChiSquare]: how evenly an ensemble covers the wheel
//   - [PowerSpectrum] and [DominantFrequency]: periodicity in a recorded trace
//   - [Sweep]: outcome statistics across a range of one tuning parameter
//   - [PhasePortrait]: 2D phase space of recorded samples
//
// # Fairness Check
//
// A fair wheel spreads outcomes evenly over its pockets:
//
//	h := analysis.Histogram(wheel.Numbers(), numbers)
//	chi2, dof := analysis.ChiSquare(h)
//	if chi2 > analysis.ChiSquareCritical(dof) {
//	    // Outcomes are biased at the 5% level
//	}
package analysis
