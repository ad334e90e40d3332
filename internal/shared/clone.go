package shared

// CloneFloat64Slice returns a deep copy of a float64 slice.
func CloneFloat64Slice(source []float64) []float64 {
	if source == nil {
		return nil
	}
	cloned := make([]float64, len(source))
	copy(cloned, source)
	return cloned
}

// CloneFloat64Matrix returns a deep copy of a float64 matrix.
// Rows are copied independently so the clone shares no storage with the source.
func CloneFloat64Matrix(source [][]float64) [][]float64 {
	if source == nil {
		return nil
	}
	cloned := make([][]float64, len(source))
	for i, row := range source {
		cloned[i] = CloneFloat64Slice(row)
	}
	return cloned
}

// CloneIntSlice returns a deep copy of an int slice.
func CloneIntSlice(source []int) []int {
	if source == nil {
		return nil
	}
	cloned := make([]int, len(source))
	copy(cloned, source)
	return cloned
}

// CloneIntSliceMap returns a deep copy of a map from class id to identifier slice.
func CloneIntSliceMap(source map[int][]int) map[int][]int {
	if source == nil {
		return nil
	}
	cloned := make(map[int][]int, len(source))
	for key, value := range source {
		cloned[key] = CloneIntSlice(value)
	}
	return cloned
}
