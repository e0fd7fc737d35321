package selection

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compare(ids ...string) State {
	return State{SelectedIDs: ids, IsCompareMode: true}
}

func single(ids ...string) State {
	return State{SelectedIDs: ids}
}

func TestReconcile_ClickSingleModeReplaces(t *testing.T) {
	got := Reconcile(single("a"), DrawingClicked{ID: "b"})
	assert.Equal(t, []string{"b"}, got.SelectedIDs)
	assert.False(t, got.IsCompareMode)
}

func TestReconcile_ClickSingleModeSameIDStaysSelected(t *testing.T) {
	got := Reconcile(single("a"), DrawingClicked{ID: "a"})
	assert.Equal(t, []string{"a"}, got.SelectedIDs)
}

func TestReconcile_ClickCompareModeAppends(t *testing.T) {
	got := Reconcile(compare("a", "b"), DrawingClicked{ID: "c"})
	assert.Equal(t, []string{"a", "b", "c"}, got.SelectedIDs)
}

func TestReconcile_ClickCompareModeTogglesOff(t *testing.T) {
	tests := []struct {
		name   string
		start  []string
		click  string
		expect []string
	}{
		{"middle", []string{"a", "b", "c", "d"}, "b", []string{"a", "c", "d"}},
		{"primary", []string{"a", "b", "c"}, "a", []string{"b", "c"}},
		{"last", []string{"a", "b", "c"}, "c", []string{"a", "b"}},
		{"only", []string{"a"}, "a", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(compare(tt.start...), DrawingClicked{ID: tt.click})
			assert.Equal(t, tt.expect, got.SelectedIDs)
		})
	}
}

func TestReconcile_ClickCompareModeEvictsOldestPartner(t *testing.T) {
	got := Reconcile(compare("a", "b", "c", "d"), DrawingClicked{ID: "e"})
	assert.Equal(t, []string{"a", "c", "d", "e"}, got.SelectedIDs)

	got = Reconcile(got, DrawingClicked{ID: "f"})
	assert.Equal(t, []string{"a", "d", "e", "f"}, got.SelectedIDs)
}

func TestReconcile_ToggleCompareOnKeepsSelection(t *testing.T) {
	got := Reconcile(single("a"), CompareModeToggled{})
	assert.True(t, got.IsCompareMode)
	assert.Equal(t, []string{"a"}, got.SelectedIDs)
}

func TestReconcile_ToggleCompareOffKeepsPrimaryOnly(t *testing.T) {
	got := Reconcile(compare("a", "b", "c"), CompareModeToggled{})
	assert.False(t, got.IsCompareMode)
	assert.Equal(t, []string{"a"}, got.SelectedIDs)

	got = Reconcile(compare(), CompareModeToggled{})
	assert.False(t, got.IsCompareMode)
	assert.Empty(t, got.SelectedIDs)
}

func TestReconcile_DisciplineChangedKeepsValidSelection(t *testing.T) {
	got := Reconcile(compare("a", "x", "b"), DisciplineChanged{Filtered: []string{"b", "c", "a"}})
	assert.Equal(t, []string{"a", "b"}, got.SelectedIDs)
	assert.True(t, got.IsCompareMode)
}

func TestReconcile_DisciplineChangedAutoSelectsFirst(t *testing.T) {
	got := Reconcile(single("x"), DisciplineChanged{Filtered: []string{"b1", "b2"}})
	assert.Equal(t, []string{"b1"}, got.SelectedIDs)

	got = Reconcile(single(), DisciplineChanged{Filtered: []string{"b1"}})
	assert.Equal(t, []string{"b1"}, got.SelectedIDs)
}

func TestReconcile_DisciplineChangedToEmptyList(t *testing.T) {
	got := Reconcile(single("x"), DisciplineChanged{Filtered: nil})
	assert.Empty(t, got.SelectedIDs)
}

func TestReconcile_DoesNotMutateInput(t *testing.T) {
	start := compare("a", "b", "c", "d")
	_ = Reconcile(start, DrawingClicked{ID: "b"})
	_ = Reconcile(start, DrawingClicked{ID: "e"})
	_ = Reconcile(start, CompareModeToggled{})

	assert.Equal(t, []string{"a", "b", "c", "d"}, start.SelectedIDs)
	assert.True(t, start.IsCompareMode)
}

func TestReconcile_NilEvent(t *testing.T) {
	got := Reconcile(single("a"), nil)
	assert.Equal(t, single("a"), got)
}

func TestReconcile_RandomClicksKeepCapAndUniqueness(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ids := make([]string, 8)
	for i := range ids {
		ids[i] = fmt.Sprintf("d%d", i)
	}

	state := compare()
	for step := 0; step < 2000; step++ {
		var event Event
		switch rng.Intn(10) {
		case 0:
			event = CompareModeToggled{}
		case 1:
			event = DisciplineChanged{Filtered: ids[rng.Intn(4):]}
		default:
			event = DrawingClicked{ID: ids[rng.Intn(len(ids))]}
		}
		state = Reconcile(state, event)

		require.LessOrEqual(t, len(state.SelectedIDs), MaxSelected, "step %d", step)
		if !state.IsCompareMode {
			require.LessOrEqual(t, len(state.SelectedIDs), 1, "step %d", step)
		}
		seen := map[string]bool{}
		for _, id := range state.SelectedIDs {
			require.False(t, seen[id], "duplicate %s at step %d", id, step)
			seen[id] = true
		}
	}
}

func TestState_Primary(t *testing.T) {
	assert.Equal(t, "", single().Primary())
	assert.Equal(t, "a", compare("a", "b").Primary())
	assert.True(t, compare("a", "b").Contains("b"))
	assert.False(t, compare("a", "b").Contains("c"))
}
