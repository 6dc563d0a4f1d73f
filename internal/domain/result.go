package domain

// MutationStatus describes what a store mutation actually did
type MutationStatus string

const (
	StatusCreated       MutationStatus = "created"
	StatusUpdated       MutationStatus = "updated"
	StatusDeleted       MutationStatus = "deleted"
	StatusAlreadyExists MutationStatus = "already_exists"
	StatusRejected      MutationStatus = "rejected"
)

// MutationResult is returned by every store mutation. Entity holds the
// created, updated or pre-existing record; Reason is set when rejected.
type MutationResult[T any] struct {
	Status MutationStatus `json:"status"`
	Entity T              `json:"entity"`
	Reason error          `json:"-"`
}

// Applied reports whether the mutation changed the store
func (r MutationResult[T]) Applied() bool {
	switch r.Status {
	case StatusCreated, StatusUpdated, StatusDeleted:
		return true
	}
	return false
}

// Created wraps a newly stored entity
func Created[T any](entity T) MutationResult[T] {
	return MutationResult[T]{Status: StatusCreated, Entity: entity}
}

// Updated wraps the entity after an update
func Updated[T any](entity T) MutationResult[T] {
	return MutationResult[T]{Status: StatusUpdated, Entity: entity}
}

// Deleted wraps the removed entity
func Deleted[T any](entity T) MutationResult[T] {
	return MutationResult[T]{Status: StatusDeleted, Entity: entity}
}

// AlreadyExists returns the existing entity a duplicate add resolved to
func AlreadyExists[T any](existing T) MutationResult[T] {
	return MutationResult[T]{Status: StatusAlreadyExists, Entity: existing}
}

// Rejected reports a mutation refused for reason, carrying the unchanged entity
func Rejected[T any](current T, reason error) MutationResult[T] {
	return MutationResult[T]{Status: StatusRejected, Entity: current, Reason: reason}
}
