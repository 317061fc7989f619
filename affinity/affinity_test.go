package affinity

import "testing"

func TestMask_Intersect(t *testing.T) {
	a := FromCPUs(0, 1, 2, 3)
	b := FromCPUs(2, 3, 4, 5)

	got := a.Intersect(b).CPUs()
	want := []int{2, 3}

	if len(got) != len(want) {
		t.Fatalf("Intersect() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Intersect() = %v, want %v", got, want)
		}
	}
}

func TestMask_IntersectDisjoint_Empty(t *testing.T) {
	a := FromCPUs(0, 1)
	b := FromCPUs(2, 3)

	if !a.Intersect(b).Empty() {
		t.Fatal("expected empty intersection for disjoint masks")
	}
}

func TestMask_All_NotEmpty(t *testing.T) {
	if All().Empty() {
		t.Fatal("All() should never be empty on a real process")
	}
}

func TestMask_CPUs_SortedAscending(t *testing.T) {
	m := FromCPUs(5, 1, 3, 0)
	got := m.CPUs()
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("CPUs() not sorted ascending: %v", got)
		}
	}
}

func TestProcessMask_ReturnsNonEmpty(t *testing.T) {
	m, err := ProcessMask()
	if err != nil {
		t.Fatalf("ProcessMask() error: %v", err)
	}
	if m.Empty() {
		t.Fatal("ProcessMask() should not be empty")
	}
}
