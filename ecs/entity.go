package ecs

// EntityId is a stable, never-reused identifier for an entity within one Storage.
// Ids are handed out in creation order starting at 1, so comparing two ids
// tells which entity was created first. The zero value never names an entity.
type EntityId uint64

// location records where an entity's components currently live
type location struct {
	archetype *Archetype
	row       int
}
