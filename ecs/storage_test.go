package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/gapbird/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{X: 1.0, Y: 2.0}, &Velocity{DX: 0.5, DY: 0.5}, Score(32))
	assert.Equal(t, ecs.EntityId(1), id)
	assert.True(t, storage.Alive(id))
}

func TestEntityIdsAreNeverReused(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Position{})
	b := storage.Spawn(Position{})
	storage.Delete(a)
	storage.Compact()
	c := storage.Spawn(Position{})

	assert.Equal(t, []ecs.EntityId{1, 2, 3}, []ecs.EntityId{a, b, c})
	assert.False(t, storage.Alive(a))
	assert.True(t, storage.Alive(b))
}

func TestSpawnPanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { storage.Spawn() })
	assert.Panics(t, func() { storage.Spawn(Position{}, &Position{}) }, "duplicate component type")
	assert.Panics(t, func() { storage.Spawn(map[string]int{}) })
	assert.PanicsWithValue(t, "component type float64 not registered", func() { storage.Spawn(1.5) })
}

func TestGetComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{X: 3.0, Y: 4.0}, Name{Value: "Test Entity"})

	pos := storage.GetComponent(id, reflect.TypeOf(Position{})).(*Position)
	assert.Equal(t, Position{X: 3.0, Y: 4.0}, *pos)

	name := storage.GetComponent(id, reflect.TypeOf(Name{})).(*Name)
	assert.Equal(t, "Test Entity", name.Value)

	assert.Nil(t, storage.GetComponent(id, reflect.TypeOf(Velocity{})))
	assert.Nil(t, storage.GetComponent(ecs.EntityId(999), reflect.TypeOf(Position{})))
}

func TestDeleteEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{X: 1.0, Y: 1.0}, &Health{Current: 100, Max: 100})
	require.NotNil(t, storage.GetComponent(id, reflect.TypeOf(Position{})))

	storage.Delete(id)

	assert.Nil(t, storage.GetComponent(id, reflect.TypeOf(Position{})))
	assert.False(t, storage.HasComponent(id, reflect.TypeOf(Position{})))
	assert.False(t, storage.Alive(id))

	// Deleting twice is harmless.
	storage.Delete(id)
}

func TestComponentMutation(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1, Y: 1})

	ecs.ReadComponent[Position](storage, id).X = 42

	assert.Equal(t, float32(42), ecs.ReadComponent[Position](storage, id).X)
}

func TestComponentTypeOrderIndependence(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	storage.Spawn(Position{}, Velocity{})
	storage.Spawn(Velocity{}, Position{})

	require.Len(t, storage.Archetypes(), 1)
	assert.Equal(t, 2, storage.Archetypes()[0].Len())
}

func TestCreateAndAttach(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Create()
	assert.True(t, storage.Alive(id))
	assert.False(t, storage.HasComponent(id, reflect.TypeOf(Position{})))

	storage.Attach(id, Position{X: 1, Y: 2})
	storage.Attach(id, &Velocity{DX: 3})

	assert.Equal(t, Position{X: 1, Y: 2}, *ecs.ReadComponent[Position](storage, id))
	assert.Equal(t, Velocity{DX: 3}, *ecs.ReadComponent[Velocity](storage, id))

	// Attaching an existing type replaces it in place.
	storage.Attach(id, Position{X: 9})
	assert.Equal(t, Position{X: 9}, *ecs.ReadComponent[Position](storage, id))

	// Attaching to a dead entity is ignored.
	storage.Delete(id)
	storage.Attach(id, Name{Value: "ghost"})
	assert.False(t, storage.Alive(id))
}

func TestDetach(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 5}, Velocity{DX: 1})
	other := storage.Spawn(Position{X: 6}, Velocity{DX: 2})

	storage.Detach(id, reflect.TypeOf(Velocity{}))

	assert.False(t, storage.HasComponent(id, reflect.TypeOf(Velocity{})))
	assert.Equal(t, float32(5), ecs.ReadComponent[Position](storage, id).X)
	assert.Equal(t, float32(2), ecs.ReadComponent[Velocity](storage, other).DX)

	storage.Detach(id, reflect.TypeOf(Position{}))
	assert.True(t, storage.Alive(id), "an entity without components stays alive")
	assert.Nil(t, ecs.ReadComponent[Position](storage, id))
}

func TestPrimitiveComponents(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Score(100), Tag("player"), int32(7), "label")

	assert.Equal(t, Score(100), *ecs.ReadComponent[Score](storage, id))
	assert.Equal(t, Tag("player"), *ecs.ReadComponent[Tag](storage, id))
	assert.Equal(t, int32(7), *ecs.ReadComponent[int32](storage, id))
	assert.Equal(t, "label", *ecs.ReadComponent[string](storage, id))
}

func TestReferenceComponents(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	target := &Position{X: 10}

	id := storage.Spawn(Inventory{Items: []string{"a", "b"}}, Link{Next: target})
	target.X = 20

	assert.Equal(t, []string{"a", "b"}, ecs.ReadComponent[Inventory](storage, id).Items)
	assert.Equal(t, float32(20), ecs.ReadComponent[Link](storage, id).Next.X)

	storage.Delete(id)
	storage.Compact()
	assert.Nil(t, ecs.ReadComponent[Inventory](storage, id))
}

func TestLargeNumberOfEntities(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	ids := make([]ecs.EntityId, 1000)
	for i := range ids {
		ids[i] = storage.Spawn(Position{X: float32(i)}, Health{Current: i})
	}

	for i, id := range ids {
		assert.Equal(t, float32(i), ecs.ReadComponent[Position](storage, id).X)
	}
}

func TestCompactKeepsIdsAndOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	var ids []ecs.EntityId
	for i := range 10 {
		ids = append(ids, storage.Spawn(Position{X: float32(i)}))
	}
	for i, id := range ids {
		if i%3 != 0 {
			storage.Delete(id)
		}
	}

	storage.Compact()

	archetype := storage.Archetypes()[0]
	assert.Equal(t, 4, archetype.Len())

	var live []ecs.EntityId
	for id := range archetype.Iter() {
		live = append(live, id)
	}
	assert.Equal(t, []ecs.EntityId{ids[0], ids[3], ids[6], ids[9]}, live)

	for _, i := range []int{0, 3, 6, 9} {
		assert.Equal(t, float32(i), ecs.ReadComponent[Position](storage, ids[i]).X)
	}

	// Rows appended after compaction land behind the survivors.
	late := storage.Spawn(Position{X: 99})
	assert.Equal(t, float32(99), ecs.ReadComponent[Position](storage, late).X)
}

func TestCompactEmptyArchetype(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{})
	storage.Delete(id)

	storage.Compact()

	require.Len(t, storage.Archetypes(), 1)
	assert.Zero(t, storage.Archetypes()[0].Len())
	storage.Spawn(Position{X: 1})
	assert.Equal(t, 1, storage.Archetypes()[0].Len())
}

func TestArchetypeAccessors(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Velocity{}, Position{})

	archetype := storage.Archetypes()[0]
	assert.Equal(t, uint32(1), archetype.ID())
	assert.Equal(t, "{ecs_test.Position, ecs_test.Velocity}", archetype.String())
	assert.True(t, archetype.HasComponent(reflect.TypeOf(Position{})))
	assert.False(t, archetype.HasComponent(reflect.TypeOf(Name{})))
	assert.Len(t, archetype.Types(), 2)
}

func TestComponentReader(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Health{Current: 50, Max: 100})

	var reader ecs.ComponentReader = storage
	assert.Equal(t, 50, ecs.ReadComponent[Health](reader, id).Current)
	assert.Nil(t, ecs.ReadComponent[Position](reader, id))
}

func TestSingletons(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	storage.AddSingleton(Health{Current: 3})

	var health *Health
	require.True(t, storage.ReadSingleton(&health))
	assert.Equal(t, 3, health.Current)

	storage.AddSingleton(Health{Current: 4})
	assert.Equal(t, 4, health.Current, "replacing keeps the same instance")

	var name *Name
	assert.False(t, storage.ReadSingleton(&name))
	assert.Panics(t, func() { storage.ReadSingleton(health) })
	assert.Panics(t, func() { storage.AddSingleton(nil) })
}
