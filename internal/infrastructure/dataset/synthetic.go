package dataset

import "math/rand"

// SyntheticConfig configures the seeded Gaussian-cluster generator used by
// the CLI and end-to-end tests.
type SyntheticConfig struct {
	// Classes is the half-open class-id range [ClassLo, ClassHi) to generate.
	ClassLo int `json:"classLo"`
	ClassHi int `json:"classHi"`

	// PerClass is the number of samples generated for each class.
	PerClass int `json:"perClass"`

	// InputDimension is the raw input dimensionality.
	InputDimension int `json:"inputDimension"`

	// Spread is the standard deviation of samples around each class center.
	Spread float64 `json:"spread"`

	// FirstID is the identifier assigned to the first generated sample.
	// Identifiers increase by one per sample.
	FirstID int `json:"firstID"`

	// Seed drives the generator. Class centers depend only on the class id,
	// so the same class is reproducible across configs.
	Seed int64 `json:"seed"`
}

// SyntheticSamples generates seeded Gaussian class clusters.
func SyntheticSamples(config SyntheticConfig) []Sample {
	if config.Spread <= 0 {
		config.Spread = 0.2
	}
	if config.InputDimension <= 0 {
		config.InputDimension = 8
	}

	samples := make([]Sample, 0, (config.ClassHi-config.ClassLo)*config.PerClass)
	id := config.FirstID

	for classID := config.ClassLo; classID < config.ClassHi; classID++ {
		center := classCenter(classID, config.InputDimension)
		rng := rand.New(rand.NewSource(config.Seed + int64(classID)))

		for i := 0; i < config.PerClass; i++ {
			input := make([]float64, config.InputDimension)
			for d := range input {
				input[d] = center[d] + rng.NormFloat64()*config.Spread
			}
			samples = append(samples, Sample{ID: id, Input: input, Target: classID})
			id++
		}
	}

	return samples
}

// classCenter derives a reproducible cluster center for a class id.
func classCenter(classID, dimension int) []float64 {
	rng := rand.New(rand.NewSource(int64(classID)*7919 + 17))
	center := make([]float64, dimension)
	for d := range center {
		center[d] = rng.Float64()*4.0 - 2.0
	}
	return center
}
