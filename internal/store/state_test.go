package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thraizz/combat-tracker/internal/encounter"
	"go.uber.org/zap/zaptest"
)

func hp(v int) *int { return &v }

func sampleEngine(t *testing.T) *encounter.Engine {
	t.Helper()
	e := encounter.NewEngine(zaptest.NewLogger(t))
	for _, cmd := range []encounter.Command{
		encounter.AddParticipant{Name: "Ogre", Initiative: 8, HP: hp(30)},
		encounter.AddParticipant{Name: "Aria", Initiative: 15},
		encounter.StartEncounter{},
		encounter.Damage{Name: "Ogre", Amount: 12},
		encounter.AdvanceTurn{},
	} {
		_, err := e.ProcessCommand(cmd)
		require.NoError(t, err)
	}
	return e
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	e := Load(filepath.Join(t.TempDir(), "missing.json"), zaptest.NewLogger(t))
	assert.Equal(t, 0, e.Round())
	assert.Empty(t, e.Roster())
	assert.Empty(t, e.History())
}

func TestLoadCorruptFileIsEmpty(t *testing.T) {
	for name, content := range map[string]string{
		"not json":       "{{{",
		"wrong types":    `{"round":"one","turn":0,"entities":[],"history":[]}`,
		"unknown action": `{"round":0,"turn":0,"entities":[],"history":[{"round":0,"action":{"Fireball":{}}}]}`,
		"half health":    `{"round":0,"turn":0,"entities":[{"name":"A","initiative":1,"max_hp":3}],"history":[]}`,
		"turn too large": `{"round":1,"turn":4,"entities":[{"name":"A","initiative":1}],"history":[]}`,
		"negative round": `{"round":-1,"turn":0,"entities":[],"history":[]}`,
		"negative hp":    `{"round":0,"turn":0,"entities":[{"name":"A","initiative":1,"max_hp":20,"current_hp":-3}],"history":[]}`,
		"hp above max":   `{"round":0,"turn":0,"entities":[{"name":"A","initiative":1,"max_hp":20,"current_hp":50}],"history":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "state.json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			e := Load(path, zaptest.NewLogger(t))
			assert.Equal(t, encounter.NewEngine(nil).Snapshot(), e.Snapshot())
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.json")
	original := sampleEngine(t)

	require.NoError(t, Save(original, path))

	loaded := Load(path, zaptest.NewLogger(t))
	assert.Equal(t, original.Snapshot(), loaded.Snapshot())
}

func TestSaveLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, Save(sampleEngine(t), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.ElementsMatch(t, []string{"round", "turn", "entities", "history"}, keys(doc))
	assert.JSONEq(t, `1`, string(doc["round"]))
	assert.JSONEq(t, `1`, string(doc["turn"]))
	assert.JSONEq(t, `[
		{"name":"Aria","initiative":15},
		{"name":"Ogre","initiative":8,"max_hp":30,"current_hp":18}
	]`, string(doc["entities"]))
	assert.JSONEq(t, `[
		{"round":0,"action":{"AddParticipant":{"name":"Ogre","initiative":8,"hp":30}}},
		{"round":0,"action":{"AddParticipant":{"name":"Aria","initiative":15}}},
		{"round":0,"action":{"StartEncounter":{}}},
		{"round":1,"action":{"Damage":{"name":"Ogre","amount":12}}},
		{"round":1,"action":{"AdvanceTurn":{}}}
	]`, string(doc["history"]))
}

func TestSaveEmptyEngineWritesEmptyArrays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, Save(encounter.NewEngine(nil), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"round":0,"turn":0,"entities":[],"history":[]}`, string(data))
}

func TestSaveOverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, Save(sampleEngine(t), path))
	require.NoError(t, Save(encounter.NewEngine(nil), path))

	loaded := Load(path, nil)
	assert.Empty(t, loaded.Roster())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestDecodeAcceptsBareUnitActions(t *testing.T) {
	state, err := Decode([]byte(`{"round":1,"turn":0,"entities":[{"name":"A","initiative":3}],
		"history":[{"round":0,"action":"StartEncounter"},{"round":1,"action":"AdvanceTurn"}]}`))
	require.NoError(t, err)
	require.Len(t, state.History, 2)
	assert.Equal(t, encounter.StartEncounter{}, state.History[0].Command)
	assert.Equal(t, encounter.AdvanceTurn{}, state.History[1].Command)
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestSaveLoadAfterUndoingAdvanceOnEmptyRoster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	e := encounter.NewEngine(zaptest.NewLogger(t))

	_, err := e.ProcessCommand(encounter.Damage{Name: "X", Amount: 1})
	assert.ErrorIs(t, err, encounter.ErrNotFound)
	_, err = e.ProcessCommand(encounter.AdvanceTurn{})
	assert.ErrorIs(t, err, encounter.ErrEmptyRoster)
	_, _, err = e.Undo()
	require.NoError(t, err)

	require.NoError(t, Save(e, path))
	loaded := Load(path, zaptest.NewLogger(t))
	assert.Equal(t, 0, loaded.Round())
	assert.Len(t, loaded.History(), 1)
	assert.Equal(t, e.Snapshot(), loaded.Snapshot())
}
