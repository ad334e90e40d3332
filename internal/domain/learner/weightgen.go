package learner

import "fmt"

// WeightGeneration selects how fresh classifier rows are produced when the
// head grows at a task boundary.
type WeightGeneration string

const (
	// WeightGenerationBasic initializes new rows with Kaiming-normal noise.
	WeightGenerationBasic WeightGeneration = "basic"
	// WeightGenerationEmbeddingMean seeds new rows from normalized per-class
	// mean embeddings, optionally sampling several proxies per class.
	WeightGenerationEmbeddingMean WeightGeneration = "embedding"
	// WeightGenerationImprinted imprints new rows with the normalized class
	// mean embedding.
	WeightGenerationImprinted WeightGeneration = "imprinted"
)

// WeightGenerationConfig configures head growth.
type WeightGenerationConfig struct {
	// Type is the weight-generation policy.
	Type WeightGeneration `json:"type"`

	// ProxyPerClass is the number of proxy rows sampled per class for the
	// embedding policy. Only meaningful when Type is embedding.
	ProxyPerClass int `json:"proxyPerClass,omitempty"`
}

// DefaultWeightGenerationConfig returns the default growth policy.
func DefaultWeightGenerationConfig() WeightGenerationConfig {
	return WeightGenerationConfig{
		Type:          WeightGenerationBasic,
		ProxyPerClass: 1,
	}
}

// Validate rejects unknown policies at configuration time.
func (c WeightGenerationConfig) Validate() error {
	switch c.Type {
	case WeightGenerationBasic, WeightGenerationImprinted:
		return nil
	case WeightGenerationEmbeddingMean:
		if c.ProxyPerClass < 1 {
			return fmt.Errorf("embedding weight generation requires at least one proxy per class, got %d", c.ProxyPerClass)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownWeightGeneration, string(c.Type))
	}
}
