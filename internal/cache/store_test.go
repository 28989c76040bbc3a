package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestRecordLookup(t *testing.T) {
	s := New()
	s.Record("X.java", "body")
	if got, ok := s.Lookup("X.java"); !ok || got != "body" {
		t.Fatalf("Lookup(X.java) = %q, %v", got, ok)
	}
	s.Record("X.java", "body2")
	if got, _ := s.Lookup("X.java"); got != "body2" {
		t.Fatalf("overwrite lost: %q", got)
	}
}

func TestLookupEmpty(t *testing.T) {
	if _, ok := New().Lookup("Y.java"); ok {
		t.Fatalf("empty cache returned a hit")
	}
}

func TestClearDropsEverything(t *testing.T) {
	s := New()
	s.Record("a/B.java", "class B {}")
	s.Record("a/C.java", "class C {}")
	before := s.Generation()
	gen := s.Clear()
	if gen <= before || s.Generation() != gen {
		t.Fatalf("generation not advanced: %d -> %d", before, gen)
	}
	for _, name := range []string{"a/B.java", "a/C.java"} {
		if _, ok := s.Lookup(name); ok {
			t.Fatalf("%s survived Clear", name)
		}
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d", s.Len())
	}
}

func TestStaleWriterDropped(t *testing.T) {
	s := New()
	old := s.Writer(s.Generation())
	old.ClassDecompiled("A.java", "class A {}")
	if _, ok := s.Lookup("A.java"); !ok {
		t.Fatalf("current-generation write dropped")
	}

	gen := s.Clear()
	old.ClassDecompiled("B.java", "class B {}")
	if _, ok := s.Lookup("B.java"); ok {
		t.Fatalf("stale write accepted after Clear")
	}
	if s.RecordAt(gen-1, "B.java", "x") {
		t.Fatalf("RecordAt with an old generation reported success")
	}

	fresh := s.Writer(s.Generation())
	fresh.ClassDecompiled("C.java", "class C {}")
	if _, ok := s.Lookup("C.java"); !ok {
		t.Fatalf("fresh writer dropped")
	}
}

func TestNamesSorted(t *testing.T) {
	s := New()
	for _, n := range []string{"b.java", "a/Z.java", "a/A.java"} {
		s.Record(n, n)
	}
	got := s.Names()
	want := []string{"a/A.java", "a/Z.java", "b.java"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names = %v, want %v", got, want)
		}
	}
}

func TestConcurrentWritersAndReaders(t *testing.T) {
	s := New()
	w := s.Writer(s.Generation())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				w.ClassDecompiled(fmt.Sprintf("p%d/C%d.java", i, j), "x")
			}
		}(i)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Lookup(fmt.Sprintf("p%d/C%d.java", i, j))
			}
		}(i)
	}
	wg.Wait()
	if s.Len() != 400 {
		t.Fatalf("Len = %d, want 400", s.Len())
	}
}
