package ecs

import "reflect"

// Commands buffers structural changes requested while systems iterate the
// storage. Nothing touches the storage until Flush, which the owner of the
// frame calls once every system for the tick has run.
type Commands struct {
	spawns   [][]any
	deletes  []EntityId
	attaches []attachCommand
	detaches []detachCommand
	defers   []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type attachCommand struct {
	entity    EntityId
	component any
}

type detachCommand struct {
	entity   EntityId
	compType reflect.Type
}

// Defer queues fn to run after every other queued command has been applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues an entity spawn operation with the given components.
func (c *Commands) Spawn(components ...any) {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}
	c.spawns = append(c.spawns, components)
}

// Delete queues an entity deletion operation.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// Attach queues adding (or replacing) a component on an entity.
func (c *Commands) Attach(entity EntityId, component any) {
	c.attaches = append(c.attaches, attachCommand{entity: entity, component: component})
}

// Detach queues a component removal operation.
func (c *Commands) Detach(entity EntityId, compType reflect.Type) {
	c.detaches = append(c.detaches, detachCommand{entity: entity, compType: compType})
}

// Pending returns the number of queued spawns and deletes.
func (c *Commands) Pending() (spawns, deletes int) {
	return len(c.spawns), len(c.deletes)
}

// Flush applies every queued command to storage in a fixed order (deletes,
// detaches, attaches, spawns, deferred funcs) and resets the buffer.
func (c *Commands) Flush(storage *Storage) {
	deleted := make(map[EntityId]bool, len(c.deletes))
	for _, id := range c.deletes {
		storage.Delete(id)
		deleted[id] = true
	}

	for _, cmd := range c.detaches {
		if !deleted[cmd.entity] {
			storage.Detach(cmd.entity, cmd.compType)
		}
	}

	for _, cmd := range c.attaches {
		if !deleted[cmd.entity] {
			storage.Attach(cmd.entity, cmd.component)
		}
	}

	for _, components := range c.spawns {
		storage.Spawn(components...)
	}

	storage.Compact()

	defers := c.defers
	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.attaches = c.attaches[:0]
	c.detaches = c.detaches[:0]
	c.defers = nil

	for _, fn := range defers {
		fn()
	}
}
