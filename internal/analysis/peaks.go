// internal/analysis/peaks.go
package analysis

// findPeaks returns the indices of local maxima. A sample qualifies when it
// is strictly greater than its immediate neighbors; a flat plateau bounded by
// strictly smaller samples reports its middle index. The first and last
// samples never qualify.
func findPeaks(v []float64) []int {
	var peaks []int
	n := len(v)
	i := 1
	for i < n-1 {
		if v[i-1] >= v[i] {
			i++
			continue
		}
		// Rising edge at i; extend across any plateau.
		j := i
		for j < n-1 && v[j+1] == v[i] {
			j++
		}
		if j < n-1 && v[j+1] < v[i] {
			peaks = append(peaks, (i+j)/2)
		}
		i = j + 1
	}
	return peaks
}

// findTroughs returns local minima as peaks of the negated series.
func findTroughs(v []float64) []int {
	neg := make([]float64, len(v))
	for i, x := range v {
		neg[i] = -x
	}
	return findPeaks(neg)
}
