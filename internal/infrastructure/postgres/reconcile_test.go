package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapStore backs reconcileNames with a plain name->id map so the pure logic
// can be exercised without a database.
type mapStore struct {
	rows    map[string]string
	created []string
	nextID  int
	fail    bool
}

func newMapStore(existing map[string]string) *mapStore {
	rows := make(map[string]string, len(existing))
	for k, v := range existing {
		rows[k] = v
	}
	return &mapStore{rows: rows}
}

func (s *mapStore) lookup(name string) (string, bool) {
	id, ok := s.rows[name]
	return id, ok
}

func (s *mapStore) create(name string) (string, error) {
	if s.fail {
		return "", errors.New("create failed")
	}
	s.nextID++
	id := fmt.Sprintf("new-%d", s.nextID)
	s.rows[name] = id
	s.created = append(s.created, name)
	return id, nil
}

func TestReconcileNamesReusesExistingRows(t *testing.T) {
	store := newMapStore(map[string]string{"Vegan": "t1", "Dinner": "t2"})

	ids, err := reconcileNames([]string{"Vegan", "Dinner"}, store.lookup, store.create)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2"}, ids)
	assert.Empty(t, store.created)
}

func TestReconcileNamesCreatesMissingRows(t *testing.T) {
	store := newMapStore(map[string]string{"Vegan": "t1"})

	ids, err := reconcileNames([]string{"Vegan", "Dessert"}, store.lookup, store.create)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "new-1"}, ids)
	assert.Equal(t, []string{"Dessert"}, store.created)
}

func TestReconcileNamesCollapsesDuplicates(t *testing.T) {
	store := newMapStore(nil)

	ids, err := reconcileNames([]string{"Soup", "Soup", "Soup"}, store.lookup, store.create)
	require.NoError(t, err)
	assert.Equal(t, []string{"new-1"}, ids)
	assert.Equal(t, []string{"Soup"}, store.created)
}

func TestReconcileNamesKeepsFirstAppearanceOrder(t *testing.T) {
	store := newMapStore(map[string]string{"B": "b"})

	ids, err := reconcileNames([]string{"C", "B", "A", "C"}, store.lookup, store.create)
	require.NoError(t, err)
	assert.Equal(t, []string{"new-1", "b", "new-2"}, ids)
	assert.Equal(t, []string{"C", "A"}, store.created)
}

func TestReconcileNamesIsIdempotent(t *testing.T) {
	store := newMapStore(nil)

	first, err := reconcileNames([]string{"Vegan", "Dessert"}, store.lookup, store.create)
	require.NoError(t, err)
	require.Len(t, store.created, 2)

	// Second run resolves the same names against the now-populated store.
	second, err := reconcileNames([]string{"Vegan", "Dessert"}, store.lookup, store.create)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, store.created, 2)
}

func TestReconcileNamesCaseSensitive(t *testing.T) {
	store := newMapStore(map[string]string{"vegan": "t1"})

	ids, err := reconcileNames([]string{"Vegan"}, store.lookup, store.create)
	require.NoError(t, err)
	assert.Equal(t, []string{"new-1"}, ids)
}

func TestReconcileNamesPropagatesCreateError(t *testing.T) {
	store := newMapStore(nil)
	store.fail = true

	_, err := reconcileNames([]string{"Soup"}, store.lookup, store.create)
	assert.Error(t, err)
}

func TestReconcileNamesEmptyInput(t *testing.T) {
	store := newMapStore(map[string]string{"Vegan": "t1"})

	ids, err := reconcileNames(nil, store.lookup, store.create)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDiffAssociations(t *testing.T) {
	cases := []struct {
		name    string
		current []string
		target  []string
		add     []string
		remove  []string
	}{
		{name: "no change", current: []string{"a", "b"}, target: []string{"a", "b"}},
		{name: "all new", target: []string{"a", "b"}, add: []string{"a", "b"}},
		{name: "clear", current: []string{"a", "b"}, remove: []string{"a", "b"}},
		{name: "swap one", current: []string{"a", "b"}, target: []string{"b", "c"}, add: []string{"c"}, remove: []string{"a"}},
		{name: "both empty"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			add, remove := diffAssociations(tc.current, tc.target)
			assert.ElementsMatch(t, tc.add, add)
			assert.ElementsMatch(t, tc.remove, remove)
		})
	}
}
