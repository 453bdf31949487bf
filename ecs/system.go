package ecs

// System is a behavior run once per Scheduler step. Implementations may embed
// Query and Singleton fields, which the Scheduler binds on Register, plus any
// state of their own that persists between frames.
type System interface {
	Execute(frame *UpdateFrame)
}
