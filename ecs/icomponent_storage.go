package ecs

// iComponentStorage is a type-erased column of components inside an archetype.
// Rows are appended in insertion order and never reused until Compact runs.
type iComponentStorage interface {
	Append(item any) int
	Set(index int, item any) bool
	Clear(index int)
	Get(index int) any
	Len() int
	Compact(keep []bool)
}
