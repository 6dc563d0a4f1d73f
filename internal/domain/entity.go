package domain

// Identified is implemented by every stored entity
type Identified interface {
	EntityID() string
}

// Named is implemented by entities whose names are unique within their list
type Named interface {
	Identified
	DisplayName() string
}
