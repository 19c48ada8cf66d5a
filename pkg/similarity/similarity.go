// Package similarity provides set similarity utilities for topic signals.
package similarity

// SetOf builds a membership set from a slice of terms.
func SetOf(terms []string) map[string]bool {
	set := make(map[string]bool, len(terms))
	for _, t := range terms {
		if t != "" {
			set[t] = true
		}
	}
	return set
}

// Jaccard calculates the Jaccard similarity between two term sets.
// Returns a value between 0 (no overlap) and 1 (identical).
func Jaccard(set1, set2 map[string]bool) float64 {
	if len(set1) == 0 && len(set2) == 0 {
		return 1.0
	}
	if len(set1) == 0 || len(set2) == 0 {
		return 0.0
	}

	intersection := 0
	for term := range set1 {
		if set2[term] {
			intersection++
		}
	}

	union := len(set1) + len(set2) - intersection
	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}

// JaccardSlices is Jaccard over plain string slices.
func JaccardSlices(a, b []string) float64 {
	return Jaccard(SetOf(a), SetOf(b))
}

// MeanPairwiseJaccard returns the mean Jaccard similarity over every
// unordered pair of sets. With fewer than two sets there are no pairs to
// compare and 0.5 is returned by convention.
func MeanPairwiseJaccard(sets []map[string]bool) float64 {
	if len(sets) < 2 {
		return 0.5
	}

	var total float64
	pairs := 0
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			total += Jaccard(sets[i], sets[j])
			pairs++
		}
	}
	if pairs == 0 {
		return 0.5
	}
	return total / float64(pairs)
}

// Overlap counts how many terms of a are present in set b.
func Overlap(a []string, b map[string]bool) int {
	count := 0
	for _, t := range a {
		if b[t] {
			count++
		}
	}
	return count
}
