//nolint:goconst // test file with repeated string literals
package playlist

import (
	"fmt"
	"testing"
)

func audio(path string) Item {
	return Item{Path: path, Type: "audio"}
}

func TestNewStore(t *testing.T) {
	s := NewStore()

	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if s.Tracks() == nil {
		t.Error("Tracks() should return empty slice, not nil")
	}
	if _, ok := s.First(); ok {
		t.Error("First() on empty store should report false")
	}
}

func TestStore_Replace_AssignsIDsFromZero(t *testing.T) {
	s := NewStore()
	s.AppendUnique([]Item{audio("/old1.mp3"), audio("/old2.mp3")})

	n := s.Replace([]Item{audio("/a.mp3"), audio("/b.mp3"), audio("/c.mp3")})

	if n != 3 {
		t.Fatalf("Replace() = %d, want 3", n)
	}
	for i, tr := range s.Tracks() {
		if tr.ID != i {
			t.Errorf("tracks[%d].ID = %d, want %d", i, tr.ID, i)
		}
	}
	if tr, _ := s.First(); tr.Path != "/a.mp3" {
		t.Errorf("First().Path = %q, want /a.mp3", tr.Path)
	}
}

func TestStore_Replace_DropsInvalidItems(t *testing.T) {
	s := NewStore()

	n := s.Replace([]Item{
		{Path: "/no-type.mp3"},
		{Type: "audio"},
		audio("/ok.mp3"),
	})

	if n != 1 {
		t.Errorf("Replace() = %d, want 1", n)
	}
	if tr, _ := s.First(); tr.ID != 0 || tr.Path != "/ok.mp3" {
		t.Errorf("First() = %+v, want id 0 /ok.mp3", tr)
	}
}

func TestStore_Replace_NoValidItems(t *testing.T) {
	s := NewStore()
	s.AppendUnique([]Item{audio("/old.mp3")})

	n := s.Replace([]Item{{Path: "/no-type.mp3"}})

	if n != 0 {
		t.Errorf("Replace() = %d, want 0", n)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0 (old contents cleared)", s.Len())
	}
}

func TestStore_Replace_DedupsWithinInput(t *testing.T) {
	s := NewStore()

	n := s.Replace([]Item{audio("/a.mp3"), audio("/a.mp3"), audio("/b.mp3")})

	if n != 2 {
		t.Errorf("Replace() = %d, want 2", n)
	}
}

func TestStore_AppendUnique_ContinuesIDs(t *testing.T) {
	s := NewStore()
	s.Replace([]Item{audio("/a.mp3"), audio("/b.mp3")})

	added := s.AppendUnique([]Item{audio("/b.mp3"), audio("/c.mp3")})

	if len(added) != 1 {
		t.Fatalf("len(added) = %d, want 1", len(added))
	}
	if added[0].ID != 2 || added[0].Path != "/c.mp3" {
		t.Errorf("added[0] = %+v, want id 2 /c.mp3", added[0])
	}
}

func TestStore_AppendUnique_AfterRemoval(t *testing.T) {
	s := NewStore()
	s.Replace([]Item{audio("/a/1.mp3"), audio("/b/2.mp3"), audio("/b/3.mp3")})
	s.RemoveByPathPrefix("/a/")

	added := s.AppendUnique([]Item{audio("/c/4.mp3")})

	if added[0].ID != 3 {
		t.Errorf("new ID = %d, want 3 (continues from last id)", added[0].ID)
	}
}

func TestStore_AppendUnique_Invariants(t *testing.T) {
	s := NewStore()
	batches := [][]Item{
		{audio("/x/1"), audio("/x/2"), audio("/x/1")},
		{audio("/x/2"), audio("/x/3")},
		{},
		{audio("/x/4"), {Path: "/x/5"}, audio("/x/3"), audio("/x/6")},
	}

	for _, b := range batches {
		s.AppendUnique(b)
	}

	seen := make(map[string]bool)
	lastID := -1
	for _, tr := range s.Tracks() {
		if seen[tr.Path] {
			t.Errorf("duplicate path %q", tr.Path)
		}
		seen[tr.Path] = true
		if tr.ID <= lastID {
			t.Errorf("ID %d not greater than previous %d", tr.ID, lastID)
		}
		lastID = tr.ID
	}
	if s.Len() != 5 {
		t.Errorf("Len() = %d, want 5", s.Len())
	}
}

func TestStore_RemoveByPathPrefix_CaseInsensitive(t *testing.T) {
	s := NewStore()
	s.Replace([]Item{
		audio("file:///Music/Rock/a.mp3"),
		audio("file:///music/jazz/b.mp3"),
		audio("file:///MUSIC/ROCK/c.mp3"),
	})

	removed := s.RemoveByPathPrefix("file:///music/rock")

	if len(removed) != 2 {
		t.Fatalf("len(removed) = %d, want 2", len(removed))
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if tr, _ := s.First(); tr.Path != "file:///music/jazz/b.mp3" {
		t.Errorf("remaining = %q, want jazz track", tr.Path)
	}
	if s.Contains(0) || s.Contains(2) {
		t.Error("removed ids should no longer resolve")
	}
	if _, ok := s.Find(1); !ok {
		t.Error("Find(1) should still resolve after removal")
	}
}

func TestStore_RemoveByPathPrefix_NoMatch(t *testing.T) {
	s := NewStore()
	s.Replace([]Item{audio("/a.mp3")})

	if removed := s.RemoveByPathPrefix("/zzz"); removed != nil {
		t.Errorf("removed = %v, want nil", removed)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStore_Navigation_InsertionOrder(t *testing.T) {
	s := NewStore()
	s.Replace([]Item{audio("/a"), audio("/b"), audio("/c"), audio("/d")})
	// Remove /b so ids are no longer contiguous: 0, 2, 3.
	s.RemoveByPathPrefix("/b")

	next, ok := s.NextOf(0)
	if !ok || next.ID != 2 {
		t.Errorf("NextOf(0) = %d,%v, want 2,true", next.ID, ok)
	}
	prev, ok := s.PreviousOf(2)
	if !ok || prev.ID != 0 {
		t.Errorf("PreviousOf(2) = %d,%v, want 0,true", prev.ID, ok)
	}
	if _, ok := s.NextOf(3); ok {
		t.Error("NextOf(tail) should report false")
	}
	if _, ok := s.PreviousOf(0); ok {
		t.Error("PreviousOf(head) should report false")
	}
	if _, ok := s.NextOf(1); ok {
		t.Error("NextOf(removed id) should report false")
	}
}

func TestStore_SetDuration(t *testing.T) {
	s := NewStore()
	s.Replace([]Item{audio("/a.mp3")})

	if !s.SetDuration(0, 180000) {
		t.Fatal("SetDuration(0) = false, want true")
	}
	tr, _ := s.Find(0)
	if tr.Duration != 180000 {
		t.Errorf("Duration = %d, want 180000", tr.Duration)
	}
	if s.SetDuration(9, 1) {
		t.Error("SetDuration(unknown id) = true, want false")
	}
	if s.SetDuration(0, -1) {
		t.Error("SetDuration(negative) = true, want false")
	}
}

func TestStore_Tracks_ReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Replace([]Item{audio("/a.mp3")})

	tracks := s.Tracks()
	tracks[0].Path = "/modified.mp3"

	if tr, _ := s.First(); tr.Path != "/a.mp3" {
		t.Error("Tracks() should return a copy")
	}
}

func BenchmarkStore_AppendUnique(b *testing.B) {
	items := make([]Item, 500)
	for i := range items {
		items[i] = audio(fmt.Sprintf("/music/%04d.mp3", i))
	}
	for b.Loop() {
		s := NewStore()
		s.AppendUnique(items)
	}
}
