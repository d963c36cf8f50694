package models

// FeatureUpdate is the JSON PUT body for a single feature.
type FeatureUpdate struct {
	Value string `json:"value"`
}

// FeatureBatch is the PATCH body for setting several features at once.
// Entries are applied in name order.
type FeatureBatch map[string]string
