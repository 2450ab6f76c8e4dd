package domain

// KeyPrefix namespaces all Redis cache keys written by this service.
const KeyPrefix = "magicsearch:"

// VectorConfig holds internal vectorization settings, not exposed to clients.
type VectorConfig struct {
	Model          string
	Dimensions     int
	DistanceMetric string
}

// DefaultVectorConfig returns the default configuration tuned for Qwen3-Embedding-8B.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:          "Qwen3-Embedding-8B",
		Dimensions:     1024,
		DistanceMetric: "cosine",
	}
}
