// Package analysis measures the spatial structure of a concentration field.
//
// [Spectrum] takes the 2D FFT of chemical B and averages the power over
// rings of equal wavenumber. The peak of that radial profile gives the
// characteristic length of spots and stripes:
//
//	if lambda, ok := analysis.DominantWavelength(g); ok {
//	    // pattern repeats every lambda cells
//	}
//
// [Wavelength] wraps the same measurement as a metrics.Metric that only
// recomputes every few ticks.
package analysis
