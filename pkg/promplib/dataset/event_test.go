package dataset_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lu-cici/promplib/pkg/promplib/dataset"
)

func TestEvent_DemoJSON(t *testing.T) {
	ev := dataset.Event{Kind: dataset.KindDemo, AddedTo: 2}

	data, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"demo","added_to":2}`, string(data))

	var back dataset.Event
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ev, back)
}

func TestEvent_GoalJSON(t *testing.T) {
	ev := dataset.Event{Kind: dataset.KindGoal, GoalID: 4, GoalLog: "goal 4: primitive 1 within range"}

	data, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"goal","id":4,"log":"goal 4: primitive 1 within range"}`, string(data))

	var back dataset.Event
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ev, back)
}

func TestEvent_DemoJSON_OmitsGoalKeys(t *testing.T) {
	data, err := json.Marshal(dataset.Event{Kind: dataset.KindDemo, AddedTo: 0})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw, "id")
	assert.NotContains(t, raw, "log")
	assert.Contains(t, raw, "added_to")
}

func TestEvent_UnknownKind(t *testing.T) {
	_, err := json.Marshal(dataset.Event{Kind: "pause"})
	assert.Error(t, err)

	var ev dataset.Event
	err = json.Unmarshal([]byte(`{"type":"pause"}`), &ev)
	assert.Error(t, err)
}

func TestManifest_OrderPreserved(t *testing.T) {
	events := []dataset.Event{
		{Kind: dataset.KindDemo, AddedTo: 0},
		{Kind: dataset.KindGoal, GoalID: 0, GoalLog: "first goal"},
		{Kind: dataset.KindDemo, AddedTo: 1},
	}

	data, err := json.Marshal(events)
	require.NoError(t, err)

	var back []dataset.Event
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, events, back)
}

func TestPose_JSON_WithOrientation(t *testing.T) {
	p := dataset.Pose{
		Position:    []float64{0.1, 0.2, 0.3},
		Orientation: []float64{0, 0, 0, 1},
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `[[0.1,0.2,0.3],[0,0,0,1]]`, string(data))

	var back dataset.Pose
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p, back)
}

func TestPose_JSON_PositionOnly(t *testing.T) {
	p := dataset.Pose{Position: []float64{1, 2, 3}}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `[[1,2,3]]`, string(data))

	var back dataset.Pose
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Nil(t, back.Orientation)
	assert.Equal(t, p.Position, back.Position)
}

func TestPose_JSON_RejectsExtraElements(t *testing.T) {
	var p dataset.Pose
	err := json.Unmarshal([]byte(`[[1,2,3],[0,0,0,1],[9]]`), &p)
	assert.Error(t, err)
}
