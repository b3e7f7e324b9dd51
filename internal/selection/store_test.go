package selection

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStoreAddCreatesSet(t *testing.T) {
	var st Store
	if st.Exists() {
		t.Fatalf("new store has a selection")
	}
	st.Add(Interval{1, 3})
	st.Add(Interval{4, 6})
	if !st.Exists() {
		t.Fatalf("store has no selection after Add")
	}
	if !st.Set().Dirty() {
		t.Fatalf("store consolidated eagerly")
	}
	if st.Count() != 1 {
		t.Fatalf("Count = %d, want 1", st.Count())
	}
	if diff := cmp.Diff(ivs(1, 6), st.Intervals()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreClear(t *testing.T) {
	var st Store
	st.Clear(Interval{1, 5}, 10)
	if st.Exists() || st.CanRestore() {
		t.Fatalf("Clear without selection mutated the store")
	}

	st.Add(Interval{1, 10})
	st.Clear(Interval{4, 6}, 20)
	if diff := cmp.Diff(ivs(1, 3, 7, 10), st.Intervals()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	st.Clear(Interval{1, 20}, 20)
	if st.Exists() {
		t.Fatalf("clearing the whole buffer kept %v", st.Set())
	}

	st.Add(Interval{2, 3})
	st.Clear(Interval{2, 3}, 20)
	if st.Exists() {
		t.Fatalf("empty subtract result kept %v", st.Set())
	}
}

func TestStoreInvert(t *testing.T) {
	var st Store
	st.Invert(Interval{5, 9})
	if diff := cmp.Diff(ivs(5, 9), st.Intervals()); diff != "" {
		t.Fatalf("invert without set (-want +got):\n%s", diff)
	}
	st.Invert(Interval{1, 12})
	if diff := cmp.Diff(ivs(1, 4, 10, 12), st.Intervals()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	st.Invert(Interval{1, 4})
	st.Invert(Interval{10, 12})
	if st.Exists() {
		t.Fatalf("store kept %v after inverting every selection away", st.Set())
	}
}

func TestStoreDeleteAt(t *testing.T) {
	var st Store
	if st.DeleteAt(1) {
		t.Fatalf("DeleteAt without selection reported success")
	}
	st.AddAll(Interval{3, 5}, Interval{8, 9})

	if st.DeleteAt(6) || st.DeleteAt(2) {
		t.Fatalf("DeleteAt outside any interval deleted one")
	}
	if st.Count() != 2 {
		t.Fatalf("Count = %d, want 2", st.Count())
	}
	if !st.DeleteAt(5) {
		t.Fatalf("DeleteAt on interval end found nothing")
	}
	if !st.DeleteAt(8) {
		t.Fatalf("DeleteAt on interval start found nothing")
	}
	if st.Exists() {
		t.Fatalf("store kept %v after deleting every interval", st.Set())
	}
}

func TestStoreRestoreOneLevel(t *testing.T) {
	var st Store
	if st.Restore() {
		t.Fatalf("Restore without history succeeded")
	}
	st.AddAll(Interval{1, 2}, Interval{5, 6})
	st.Clear(Interval{5, 6}, 10)

	if !st.Restore() {
		t.Fatalf("Restore failed")
	}
	if diff := cmp.Diff(ivs(1, 2, 5, 6), st.Intervals()); diff != "" {
		t.Fatalf("restored mismatch (-want +got):\n%s", diff)
	}
	if st.Set().Dirty() {
		t.Fatalf("restored set is not consolidated")
	}
	if st.Restore() {
		t.Fatalf("second Restore succeeded")
	}
	if diff := cmp.Diff(ivs(1, 2, 5, 6), st.Intervals()); diff != "" {
		t.Fatalf("second restore changed selection (-want +got):\n%s", diff)
	}
}

func TestStoreRestoreToNothing(t *testing.T) {
	var st Store
	st.Add(Interval{3, 4})
	if !st.Restore() {
		t.Fatalf("Restore failed")
	}
	if st.Exists() {
		t.Fatalf("restoring the first add kept %v", st.Set())
	}
}

func TestStoreMatch(t *testing.T) {
	src := lines{"x", "", "x", "x"}
	var st Store
	if n := st.Match(Interval{1, 4}, func(line int) bool { return src.Line(line) == "y" }, false); n != 0 {
		t.Fatalf("Match count = %d, want 0", n)
	}
	if st.Exists() || st.CanRestore() {
		t.Fatalf("Match without results mutated the store")
	}
	if n := st.Match(Interval{1, 4}, func(line int) bool { return src.Line(line) == "x" }, false); n != 2 {
		t.Fatalf("Match count = %d, want 2", n)
	}
	if diff := cmp.Diff(ivs(1, 1, 3, 4), st.Intervals()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryLifecycle(t *testing.T) {
	reg := NewRegistry[int]()
	if _, ok := reg.Lookup(1); ok {
		t.Fatalf("Lookup created a store")
	}
	reg.Store(1).Add(Interval{1, 2})
	if reg.Set(1).Len() != 1 {
		t.Fatalf("Set(1) = %v", reg.Set(1))
	}
	if reg.Set(2) != nil {
		t.Fatalf("Set(2) = %v, want nil", reg.Set(2))
	}

	st := reg.Store(1)
	st.Clear(Interval{1, 2}, 2)
	reg.Prune(1)
	if reg.Len() != 1 {
		t.Fatalf("Prune dropped a store that can still be restored")
	}

	st.Restore()
	st.Restore()
	if !st.Exists() {
		t.Fatalf("Restore did not bring back the selection")
	}
	reg.Remove(1)

	st = reg.Store(2)
	st.Add(Interval{4, 4})
	st.Restore()
	st.SetHidden(true)
	reg.Prune(2)
	if _, ok := reg.Lookup(2); !ok {
		t.Fatalf("Prune dropped a hidden store")
	}
	st.SetHidden(false)
	reg.Prune(2)
	if _, ok := reg.Lookup(2); ok {
		t.Fatalf("Prune kept an idle store")
	}

	reg.Store(3).Add(Interval{1, 1})
	reg.Remove(3)
	if _, ok := reg.Lookup(3); ok {
		t.Fatalf("Remove kept the store")
	}
}
