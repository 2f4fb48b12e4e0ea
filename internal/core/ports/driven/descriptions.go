package driven

// DescriptionLookup maps entity ids to short human-readable descriptions.
type DescriptionLookup interface {
	// Describe returns the description of an entity and whether one exists.
	Describe(entityID string) (string, bool)
}
