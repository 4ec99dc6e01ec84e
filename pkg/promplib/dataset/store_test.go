package dataset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lu-cici/promplib/pkg/promplib/dataset"
)

// storeFactory creates a store instance for testing.
type storeFactory func(t *testing.T) dataset.Store

var testDemo = dataset.JointTrajectory{
	{0.0, 0.1, 0.2},
	{0.1, 0.2, 0.3},
	{0.2, 0.3, 0.4},
}

var testEEF = dataset.EEFTrajectory{
	{Position: []float64{0.5, 0.0, 0.3}, Orientation: []float64{0, 0, 0, 1}},
	{Position: []float64{0.5, 0.1, 0.3}, Orientation: []float64{0, 0, 0, 1}},
	{Position: []float64{0.5, 0.2, 0.3}, Orientation: []float64{0, 0, 0, 1}},
}

// storeContractTest runs contract tests against any Store implementation.
func storeContractTest(t *testing.T, name string, factory storeFactory) {
	t.Run(name+"/SaveDemo_and_LoadDemo", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		require.NoError(t, store.SaveDemo(0, testDemo, testEEF))

		demo, eef, err := store.LoadDemo(0)
		require.NoError(t, err)
		assert.Equal(t, testDemo, demo)
		assert.Equal(t, testEEF, eef)
	})

	t.Run(name+"/LoadDemo_NotFound", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		_, _, err := store.LoadDemo(5)
		assert.ErrorIs(t, err, dataset.ErrNotFound)
	})

	t.Run(name+"/SaveDemo_Overwrite", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		require.NoError(t, store.SaveDemo(0, testDemo, testEEF))

		replacement := dataset.JointTrajectory{{9, 9, 9}}
		require.NoError(t, store.SaveDemo(0, replacement, testEEF[:1]))

		demo, eef, err := store.LoadDemo(0)
		require.NoError(t, err)
		assert.Equal(t, replacement, demo)
		assert.Equal(t, testEEF[:1], eef)
	})

	t.Run(name+"/SaveGoal_and_LoadGoal", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		cart := dataset.Pose{Position: []float64{0.4, 0.1, 0.2}, Orientation: []float64{0, 0, 0, 1}}
		joint := dataset.JointGoal{0.1, 0.2, 0.3}
		require.NoError(t, store.SaveGoal(0, cart, joint))

		gotCart, gotJoint, err := store.LoadGoal(0)
		require.NoError(t, err)
		assert.Equal(t, cart, gotCart)
		assert.Equal(t, joint, gotJoint)
	})

	t.Run(name+"/LoadGoal_OptionalJoint", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		cart := dataset.Pose{Position: []float64{0.4, 0.1, 0.2}}
		require.NoError(t, store.SaveGoal(0, cart, nil))

		gotCart, gotJoint, err := store.LoadGoal(0)
		require.NoError(t, err)
		assert.Equal(t, cart, gotCart)
		assert.Nil(t, gotJoint)
	})

	t.Run(name+"/LoadGoal_NotFound", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		_, _, err := store.LoadGoal(0)
		assert.ErrorIs(t, err, dataset.ErrNotFound)
	})

	t.Run(name+"/LoadManifest_BeforeSave", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		_, err := store.LoadManifest()
		assert.ErrorIs(t, err, dataset.ErrNotFound)
	})

	t.Run(name+"/Manifest_RoundTrip_Ordered", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		events := []dataset.Event{
			{Kind: dataset.KindDemo, AddedTo: 0},
			{Kind: dataset.KindGoal, GoalID: 0, GoalLog: "evaluated"},
			{Kind: dataset.KindDemo, AddedTo: 0},
			{Kind: dataset.KindGoal, GoalID: 1, GoalLog: "refined"},
		}
		require.NoError(t, store.SaveManifest(events))

		loaded, err := store.LoadManifest()
		require.NoError(t, err)
		assert.Equal(t, events, loaded)
	})

	t.Run(name+"/Manifest_Overwrite", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		require.NoError(t, store.SaveManifest([]dataset.Event{{Kind: dataset.KindDemo, AddedTo: 0}}))
		require.NoError(t, store.SaveManifest([]dataset.Event{{Kind: dataset.KindGoal, GoalID: 2, GoalLog: "x"}}))

		loaded, err := store.LoadManifest()
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		assert.Equal(t, dataset.KindGoal, loaded[0].Kind)
	})

	t.Run(name+"/Manifest_Empty", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		require.NoError(t, store.SaveManifest(nil))

		loaded, err := store.LoadManifest()
		require.NoError(t, err)
		assert.Empty(t, loaded)
	})

	t.Run(name+"/Closed", func(t *testing.T) {
		store := factory(t)
		require.NoError(t, store.Close())

		assert.ErrorIs(t, store.SaveDemo(0, testDemo, testEEF), dataset.ErrStoreClosed)
		_, _, err := store.LoadDemo(0)
		assert.ErrorIs(t, err, dataset.ErrStoreClosed)
		assert.ErrorIs(t, store.SaveManifest(nil), dataset.ErrStoreClosed)
		_, err = store.LoadManifest()
		assert.ErrorIs(t, err, dataset.ErrStoreClosed)
	})
}

func TestMemoryStore_Contract(t *testing.T) {
	storeContractTest(t, "memory", func(t *testing.T) dataset.Store {
		return dataset.NewMemoryStore()
	})
}

func TestFSStore_Contract(t *testing.T) {
	storeContractTest(t, "fs", func(t *testing.T) dataset.Store {
		ds, err := dataset.Resolve(t.TempDir(), 0)
		require.NoError(t, err)
		return dataset.NewFSStore(ds)
	})
}

func TestSQLiteStore_Contract(t *testing.T) {
	storeContractTest(t, "sqlite", func(t *testing.T) dataset.Store {
		store, err := dataset.NewSQLiteStore(filepath.Join(t.TempDir(), "dataset.db"))
		require.NoError(t, err)
		return store
	})
}

func TestFSStore_Layout(t *testing.T) {
	ds, err := dataset.Resolve(t.TempDir(), 0)
	require.NoError(t, err)
	store := dataset.NewFSStore(ds)
	defer store.Close()

	require.NoError(t, store.SaveDemo(0, testDemo, testEEF))
	require.NoError(t, store.SaveGoal(0, dataset.Pose{Position: []float64{1, 2, 3}}, nil))
	require.NoError(t, store.SaveGoal(1, dataset.Pose{Position: []float64{1, 2, 3}}, dataset.JointGoal{0.5}))
	require.NoError(t, store.SaveManifest([]dataset.Event{{Kind: dataset.KindDemo, AddedTo: 0}}))

	assert.FileExists(t, filepath.Join(ds.Path, "demo_0.json"))
	assert.FileExists(t, filepath.Join(ds.Path, "path_0.json"))
	assert.FileExists(t, filepath.Join(ds.Path, "cart_goal_0.json"))
	assert.FileExists(t, filepath.Join(ds.Path, "cart_goal_1.json"))
	assert.FileExists(t, filepath.Join(ds.Path, "joint_goal_1.json"))
	assert.FileExists(t, filepath.Join(ds.Path, "sequence.json"))

	// The optional joint goal of occurrence 0 was not recorded.
	_, err = os.Stat(filepath.Join(ds.Path, "joint_goal_0.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestSQLiteStore_ReopenSurvivesClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.db")

	store, err := dataset.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveDemo(0, testDemo, testEEF))
	require.NoError(t, store.SaveManifest([]dataset.Event{{Kind: dataset.KindDemo, AddedTo: 0}}))
	require.NoError(t, store.Close())

	reopened, err := dataset.NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	demo, _, err := reopened.LoadDemo(0)
	require.NoError(t, err)
	assert.Equal(t, testDemo, demo)

	events, err := reopened.LoadManifest()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, dataset.KindDemo, events[0].Kind)
}
