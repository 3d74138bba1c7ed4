package store

import (
	"database/sql"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"

	"sportwire/internal/models"
	"sportwire/internal/pagination"
)

func testPost(t *testing.T, db *sql.DB, ps *PostStore, authorID, categoryID uuid.UUID, status models.PostStatus) *models.Post {
	t.Helper()

	slug := "t-post-" + uuid.NewString()[:8]
	p, err := ps.Create(&models.Post{
		Title:      "Test Post",
		Slug:       slug,
		Body:       "Body text",
		CategoryID: categoryID,
		AuthorID:   authorID,
		Status:     status,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM posts WHERE id = $1", p.ID) })
	return p
}

func TestPostCreateAndFind(t *testing.T) {
	db := testDB(t)
	ps := NewPostStore(db)
	cs := NewCategoryStore(db)

	author := testUser(t, db, models.RoleEditor)
	cat := testCategory(t, db)
	sub, err := cs.CreateSubcategory(&models.Subcategory{
		CategoryID: cat.ID, Name: "Test Sub", Slug: "t-sub-" + uuid.NewString()[:8],
	})
	if err != nil {
		t.Fatalf("create subcategory: %v", err)
	}

	slug := "t-post-" + uuid.NewString()[:8]
	created, err := ps.Create(&models.Post{
		Title:          "Derby Preview",
		Slug:           slug,
		Body:           "Match preview body",
		CategoryID:     cat.ID,
		AuthorID:       author.ID,
		Status:         models.PostStatusDraft,
		SubcategoryIDs: []uuid.UUID{sub.ID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanPosts(t, db, slug) })
	if created.ID == uuid.Nil {
		t.Error("expected generated ID")
	}
	if created.Status != models.PostStatusDraft {
		t.Errorf("status: got %s, want DRAFT", created.Status)
	}

	found, err := ps.FindBySlug(slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found == nil {
		t.Fatal("expected post, got nil")
	}
	if found.Author == nil || found.Author.Username != author.Username {
		t.Errorf("expected author projection for %s", author.Username)
	}
	if len(found.SubcategoryIDs) != 1 || found.SubcategoryIDs[0] != sub.ID {
		t.Errorf("subcategory ids: got %v, want [%s]", found.SubcategoryIDs, sub.ID)
	}

	exists, err := ps.SlugExists(slug)
	if err != nil {
		t.Fatalf("SlugExists: %v", err)
	}
	if !exists {
		t.Error("expected slug to exist")
	}

	missing, err := ps.FindBySlug("no-such-slug-" + uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("FindBySlug missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown slug")
	}
}

func TestPostUpdateStatusStampsPublishedOnce(t *testing.T) {
	db := testDB(t)
	ps := NewPostStore(db)

	author := testUser(t, db, models.RoleEditor)
	cat := testCategory(t, db)
	p := testPost(t, db, ps, author.ID, cat.ID, models.PostStatusPending)

	if err := ps.UpdateStatus(p.ID, models.PostStatusPublished); err != nil {
		t.Fatalf("UpdateStatus publish: %v", err)
	}
	pub, err := ps.FindByID(p.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if pub.PublishedAt == nil {
		t.Fatal("expected published_at to be stamped")
	}
	first := *pub.PublishedAt

	// Deny then re-publish: the original publication date survives.
	if err := ps.UpdateStatus(p.ID, models.PostStatusDenied); err != nil {
		t.Fatalf("UpdateStatus deny: %v", err)
	}
	if err := ps.UpdateStatus(p.ID, models.PostStatusPublished); err != nil {
		t.Fatalf("UpdateStatus republish: %v", err)
	}
	again, err := ps.FindByID(p.ID)
	if err != nil {
		t.Fatalf("FindByID again: %v", err)
	}
	if again.PublishedAt == nil || !again.PublishedAt.Equal(first) {
		t.Errorf("published_at changed on republish: got %v, want %v", again.PublishedAt, first)
	}
}

func TestPostListFiltersAndCounts(t *testing.T) {
	db := testDB(t)
	ps := NewPostStore(db)

	author := testUser(t, db, models.RoleEditor)
	cat := testCategory(t, db)

	published := testPost(t, db, ps, author.ID, cat.ID, models.PostStatusPublished)
	draft := testPost(t, db, ps, author.ID, cat.ID, models.PostStatusDraft)
	_ = draft

	page := pagination.Normalize(1, 50)

	pubOnly, total, err := ps.List(PostFilter{
		Status:        models.PostStatusPublished,
		CategorySlugs: []string{cat.Slug},
	}, page)
	if err != nil {
		t.Fatalf("List published: %v", err)
	}
	if total != 1 || len(pubOnly) != 1 {
		t.Fatalf("published in category: got %d rows total %d, want 1/1", len(pubOnly), total)
	}
	if pubOnly[0].ID != published.ID {
		t.Errorf("got post %s, want %s", pubOnly[0].ID, published.ID)
	}

	// A slug list matches posts in any of the listed categories.
	other := testCategory(t, db)
	elsewhere := testPost(t, db, ps, author.ID, other.ID, models.PostStatusPublished)
	both, total, err := ps.List(PostFilter{
		Status:        models.PostStatusPublished,
		CategorySlugs: []string{cat.Slug, other.Slug},
	}, page)
	if err != nil {
		t.Fatalf("List across categories: %v", err)
	}
	if total != 2 || len(both) != 2 {
		t.Fatalf("across categories: got %d rows total %d, want 2/2", len(both), total)
	}
	ids := map[uuid.UUID]bool{both[0].ID: true, both[1].ID: true}
	if !ids[published.ID] || !ids[elsewhere.ID] {
		t.Errorf("across categories: got %v, want %s and %s", ids, published.ID, elsewhere.ID)
	}

	none, total, err := ps.List(PostFilter{CategorySlugs: []string{"no-such-slug"}}, page)
	if err != nil {
		t.Fatalf("List unknown slug: %v", err)
	}
	if total != 0 || len(none) != 0 {
		t.Errorf("unknown slug: got %d rows total %d, want 0/0", len(none), total)
	}

	mine, total, err := ps.List(PostFilter{AuthorID: &author.ID}, page)
	if err != nil {
		t.Fatalf("List by author: %v", err)
	}
	if total != 2 || len(mine) != 2 {
		t.Errorf("author posts: got %d rows total %d, want 2/2", len(mine), total)
	}
}

func TestPostPopularRanking(t *testing.T) {
	db := testDB(t)
	ps := NewPostStore(db)
	vs := NewVisitStore(db)

	author := testUser(t, db, models.RoleEditor)
	cat := testCategory(t, db)

	quiet := testPost(t, db, ps, author.ID, cat.ID, models.PostStatusPublished)
	busy := testPost(t, db, ps, author.ID, cat.ID, models.PostStatusPublished)

	for i := 0; i < 3; i++ {
		ip := "10.1.2." + strconv.Itoa(i)
		if err := vs.Record(busy.ID, models.VisitorIdentity{IP: &ip}, nil); err != nil {
			t.Fatalf("record visit: %v", err)
		}
	}

	ranked, err := ps.Popular(30*24*time.Hour, 100)
	if err != nil {
		t.Fatalf("Popular: %v", err)
	}

	posBusy, posQuiet := -1, -1
	for i, p := range ranked {
		switch p.ID {
		case busy.ID:
			posBusy = i
		case quiet.ID:
			posQuiet = i
		}
	}
	if posBusy == -1 || posQuiet == -1 {
		t.Fatalf("expected both posts in ranking, got busy=%d quiet=%d", posBusy, posQuiet)
	}
	if posBusy > posQuiet {
		t.Errorf("visited post ranked below unvisited one: busy=%d quiet=%d", posBusy, posQuiet)
	}
}

func TestPostDelete(t *testing.T) {
	db := testDB(t)
	ps := NewPostStore(db)

	author := testUser(t, db, models.RoleEditor)
	cat := testCategory(t, db)
	p := testPost(t, db, ps, author.ID, cat.ID, models.PostStatusDraft)

	if err := ps.Delete(p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	found, err := ps.FindByID(p.ID)
	if err != nil {
		t.Fatalf("FindByID after delete: %v", err)
	}
	if found != nil {
		t.Error("expected nil after delete")
	}
}
