package store

import (
	"testing"
	"time"
)

func TestStore_AddPost(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db)

	p := &Post{
		Content: "A drifter ingests metadata.",
		Title:   "Show X",
		Status:  StatusPublish,
		Slug:    "show-x",
		Type:    TypeFilm,
	}

	before := time.Now()
	if err := s.AddPost(p); err != nil {
		t.Fatalf("AddPost: %v", err)
	}
	after := time.Now()

	if p.ID == 0 {
		t.Error("ID should be set after AddPost")
	}
	if p.Date.Before(before) || p.Date.After(after) {
		t.Errorf("Date %v not in expected range [%v, %v]", p.Date, before, after)
	}
	if p.Modified.Before(before) || p.Modified.After(after) {
		t.Errorf("Modified %v not in expected range [%v, %v]", p.Modified, before, after)
	}
}

func TestStore_FindBySlug(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db)

	original := &Post{
		Title:  "Show X",
		Status: StatusPublish,
		Slug:   "show-x",
		Type:   TypeFilm,
	}
	if err := s.AddPost(original); err != nil {
		t.Fatalf("AddPost: %v", err)
	}

	found, err := s.FindBySlug("show-x")
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found == nil {
		t.Fatal("FindBySlug returned nil for existing slug")
	}
	if found.ID != original.ID {
		t.Errorf("ID = %d, want %d", found.ID, original.ID)
	}
	if found.Title != "Show X" {
		t.Errorf("Title = %q", found.Title)
	}
}

func TestStore_FindBySlug_Absent(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db)

	found, err := s.FindBySlug("no-such-slug")
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found != nil {
		t.Errorf("expected nil for absent slug, got %+v", found)
	}
}

func TestStore_FindBySlug_NoUniqueConstraint(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db)

	// The schema deliberately allows duplicate slugs; the engine is the
	// only guard. FindBySlug must return a single deterministic row.
	for i := 0; i < 2; i++ {
		p := &Post{Title: "Dup", Status: StatusPublish, Slug: "dup", Type: TypeFilm}
		if err := s.AddPost(p); err != nil {
			t.Fatalf("AddPost: %v", err)
		}
	}

	found, err := s.FindBySlug("dup")
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found == nil {
		t.Fatal("FindBySlug returned nil")
	}
}

func TestStore_ChildPosts(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db)

	root := &Post{Title: "Root", Status: StatusPublish, Slug: "root", Type: TypeFilm}
	if err := s.AddPost(root); err != nil {
		t.Fatalf("AddPost root: %v", err)
	}
	for i, slug := range []string{"root-episode-1", "root-episode-2"} {
		ep := &Post{Title: "Episode", Status: StatusPublish, Slug: slug, Parent: root.ID, Type: TypeEpisode}
		if err := s.AddPost(ep); err != nil {
			t.Fatalf("AddPost episode %d: %v", i+1, err)
		}
	}

	children, err := s.ChildPosts(root.ID)
	if err != nil {
		t.Fatalf("ChildPosts: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("child count = %d, want 2", len(children))
	}
	if children[0].Slug != "root-episode-1" || children[1].Slug != "root-episode-2" {
		t.Errorf("unexpected child order: %q, %q", children[0].Slug, children[1].Slug)
	}
}

func TestStore_CountPosts(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db)

	if err := s.AddPost(&Post{Title: "A", Status: StatusPublish, Slug: "a", Type: TypeFilm}); err != nil {
		t.Fatalf("AddPost: %v", err)
	}
	if err := s.AddPost(&Post{Title: "B", Status: StatusInherit, Slug: "b", Type: TypeAttachment}); err != nil {
		t.Fatalf("AddPost: %v", err)
	}

	n, err := s.CountPosts(TypeFilm)
	if err != nil {
		t.Fatalf("CountPosts: %v", err)
	}
	if n != 1 {
		t.Errorf("CountPosts(%q) = %d, want 1", TypeFilm, n)
	}
}

func TestTx_RollbackDiscardsPost(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db)

	tx, err := s.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	p := &Post{Title: "Gone", Status: StatusPublish, Slug: "gone", Type: TypeFilm}
	if err := tx.AddPost(p); err != nil {
		t.Fatalf("AddPost in tx: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	found, err := s.FindBySlug("gone")
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found != nil {
		t.Error("post survived rollback")
	}
}
