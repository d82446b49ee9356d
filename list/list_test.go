package list

import "testing"

func TestPushBackFrontOrder(t *testing.T) {
	l := New[int]()
	l.PushBack(NewElem(1))
	l.PushBack(NewElem(2))
	l.PushFront(NewElem(0))

	var got []int
	l.Each(func(v int) { got = append(got, v) })
	want := []int{0, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRemove(t *testing.T) {
	l := New[int]()
	a := NewElem(1)
	b := NewElem(2)
	c := NewElem(3)
	l.PushBack(a)
	l.PushBack(b)
	l.PushBack(c)

	l.Remove(b)
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
	if b.Linked() {
		t.Fatal("removed element still reports Linked()")
	}

	var got []int
	l.Each(func(v int) { got = append(got, v) })
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("got %v, want [1 3]", got)
	}

	// Remove on an already-removed element is a no-op, not a panic.
	l.Remove(b)
}

func TestPopFrontEmpty(t *testing.T) {
	l := New[int]()
	if _, ok := l.PopFront(); ok {
		t.Fatal("PopFront on empty list returned ok=true")
	}
}

func TestPopFrontOrder(t *testing.T) {
	l := New[string]()
	l.PushBack(NewElem("a"))
	l.PushBack(NewElem("b"))

	v, ok := l.PopFront()
	if !ok || v != "a" {
		t.Fatalf("PopFront() = %q, %v, want %q, true", v, ok, "a")
	}
	if l.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", l.Len())
	}
}

func TestMaxByEmpty(t *testing.T) {
	l := New[int]()
	if _, ok := l.MaxBy(func(a, b int) bool { return a < b }); ok {
		t.Fatal("MaxBy on empty list returned ok=true")
	}
}

func TestMaxByStableTieBreak(t *testing.T) {
	type item struct {
		id       int
		priority int
	}
	l := New[item]()
	l.PushBack(NewElem(item{id: 1, priority: 5}))
	l.PushBack(NewElem(item{id: 2, priority: 10}))
	l.PushBack(NewElem(item{id: 3, priority: 10})) // same priority, inserted later
	l.PushBack(NewElem(item{id: 4, priority: 3}))

	got, ok := l.MaxBy(func(a, b item) bool { return a.priority < b.priority })
	if !ok {
		t.Fatal("MaxBy returned ok=false")
	}
	if got.id != 2 {
		t.Fatalf("MaxBy tie-break: got id %d, want id 2 (earlier-inserted of equal priority)", got.id)
	}
}

func TestLinkedIntoWrongListPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when linking an already-linked element into another list")
		}
	}()
	l1 := New[int]()
	l2 := New[int]()
	e := NewElem(1)
	l1.PushBack(e)
	l2.PushBack(e)
}

func TestZeroValueListInitializesLazily(t *testing.T) {
	var l List[int]
	l.PushBack(NewElem(42))
	if l.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", l.Len())
	}
}
