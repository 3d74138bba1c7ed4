// Integration tests for the engagement ledger. They require PostgreSQL
// and are skipped when it is not reachable.
package engagement

import (
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"sportwire/internal/apperr"
	"sportwire/internal/authz"
	"sportwire/internal/database"
	"sportwire/internal/models"
	"sportwire/internal/pagination"
	"sportwire/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "sportwire")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "sportwire")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

func testLedger(t *testing.T) (*Ledger, *sql.DB) {
	t.Helper()
	db := testDB(t)
	return NewLedger(
		store.NewPostStore(db),
		store.NewCommentStore(db),
		store.NewVoteStore(db),
		store.NewVisitStore(db),
	), db
}

func testIdentity(t *testing.T, db *sql.DB, role models.Role) authz.Identity {
	t.Helper()

	username := "t-" + uuid.NewString()[:13]
	var id uuid.UUID
	err := db.QueryRow(`
		INSERT INTO users (username, name, email, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, username, "Test "+string(role), username+"@test.local", role).Scan(&id)
	if err != nil {
		t.Fatalf("insert test user: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id = $1", id) })
	return authz.Identity{UserID: id, Username: username, Role: role}
}

func testPublishedPost(t *testing.T, db *sql.DB, authorID uuid.UUID) uuid.UUID {
	t.Helper()

	var catID uuid.UUID
	err := db.QueryRow(`
		INSERT INTO categories (name, slug) VALUES ('Test', $1) RETURNING id
	`, "t-cat-"+uuid.NewString()[:8]).Scan(&catID)
	if err != nil {
		t.Fatalf("insert category: %v", err)
	}

	var postID uuid.UUID
	err = db.QueryRow(`
		INSERT INTO posts (title, slug, body, category_id, author_id, status, published_at)
		VALUES ('Test Post', $1, 'body', $2, $3, 'PUBLISHED', now())
		RETURNING id
	`, "t-post-"+uuid.NewString()[:8], catID, authorID).Scan(&postID)
	if err != nil {
		t.Fatalf("insert post: %v", err)
	}

	t.Cleanup(func() {
		db.Exec("DELETE FROM posts WHERE id = $1", postID)
		db.Exec("DELETE FROM categories WHERE id = $1", catID)
	})
	return postID
}

func TestToggleVoteRequiresAuth(t *testing.T) {
	l, db := testLedger(t)
	author := testIdentity(t, db, models.RoleEditor)
	postID := testPublishedPost(t, db, author.UserID)

	_, err := l.ToggleVote(authz.Identity{}, models.VoteTargetPost, postID, true)
	if !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Errorf("anonymous vote: got %v, want permission denied", err)
	}
}

func TestToggleVoteRoundTrip(t *testing.T) {
	l, db := testLedger(t)
	author := testIdentity(t, db, models.RoleEditor)
	voter := testIdentity(t, db, models.RoleUser)
	postID := testPublishedPost(t, db, author.UserID)

	counts, err := l.ToggleVote(voter, models.VoteTargetPost, postID, true)
	if err != nil {
		t.Fatalf("upvote: %v", err)
	}
	if counts.Upvotes != 1 || counts.Downvotes != 0 {
		t.Errorf("after upvote: %+v", counts)
	}

	counts, err = l.ToggleVote(voter, models.VoteTargetPost, postID, false)
	if err != nil {
		t.Fatalf("flip: %v", err)
	}
	if counts.Upvotes != 0 || counts.Downvotes != 1 {
		t.Errorf("after flip: %+v", counts)
	}

	// Votes on unknown posts answer not-found.
	_, err = l.ToggleVote(voter, models.VoteTargetPost, uuid.New(), true)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("vote on missing post: got %v, want not found", err)
	}
}

func TestCommentsThread(t *testing.T) {
	l, db := testLedger(t)
	author := testIdentity(t, db, models.RoleEditor)
	reader := testIdentity(t, db, models.RoleUser)
	postID := testPublishedPost(t, db, author.UserID)

	top, err := l.CreateComment(reader, postID, nil, "What a match")
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	reply, err := l.CreateComment(author, postID, &top.ID, "Agreed")
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}

	// Replies cannot be nested further.
	_, err = l.CreateComment(reader, postID, &reply.ID, "nested")
	if !apperr.IsValidation(err) {
		t.Errorf("nested reply: got %v, want validation error", err)
	}

	// Parent must belong to the same post.
	otherPost := testPublishedPost(t, db, author.UserID)
	_, err = l.CreateComment(reader, otherPost, &top.ID, "cross-post reply")
	if !apperr.IsValidation(err) {
		t.Errorf("cross-post reply: got %v, want validation error", err)
	}

	thread, err := l.ListComments(reader, postID)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(thread) != 1 {
		t.Fatalf("top-level comments: got %d, want 1", len(thread))
	}
	if len(thread[0].Replies) != 1 || thread[0].Replies[0].ID != reply.ID {
		t.Errorf("replies: %+v", thread[0].Replies)
	}
	if thread[0].Author == nil || thread[0].Author.Username != reader.Username {
		t.Errorf("comment author projection: %+v", thread[0].Author)
	}

	// Vote on the comment.
	counts, err := l.ToggleVote(author, models.VoteTargetComment, top.ID, true)
	if err != nil {
		t.Fatalf("comment vote: %v", err)
	}
	if counts.Upvotes != 1 {
		t.Errorf("comment upvotes: got %d, want 1", counts.Upvotes)
	}
}

func TestRecordVisitIdentities(t *testing.T) {
	l, db := testLedger(t)
	author := testIdentity(t, db, models.RoleEditor)
	reader := testIdentity(t, db, models.RoleUser)
	postID := testPublishedPost(t, db, author.UserID)

	// No identity at all: silent no-op.
	if err := l.RecordVisit(authz.Identity{}, postID, "", nil); err != nil {
		t.Fatalf("no-identity visit: %v", err)
	}
	vs := store.NewVisitStore(db)
	count, err := vs.CountByPost(postID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("visits after no-identity open: got %d, want 0", count)
	}

	// Logged-in identity wins over IP; repeats collapse to one row.
	if err := l.RecordVisit(reader, postID, "203.0.113.1", nil); err != nil {
		t.Fatalf("user visit: %v", err)
	}
	if err := l.RecordVisit(reader, postID, "203.0.113.2", nil); err != nil {
		t.Fatalf("repeat user visit: %v", err)
	}
	if err := l.RecordVisit(authz.Identity{}, postID, "203.0.113.1", nil); err != nil {
		t.Fatalf("ip visit: %v", err)
	}
	count, err = vs.CountByPost(postID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("visits: got %d, want 2 (one user, one ip)", count)
	}
}

func TestReadProgressAndHistory(t *testing.T) {
	l, db := testLedger(t)
	author := testIdentity(t, db, models.RoleEditor)
	reader := testIdentity(t, db, models.RoleUser)
	postID := testPublishedPost(t, db, author.UserID)

	if err := l.SaveReadProgress(reader, postID, 150); !apperr.IsValidation(err) {
		t.Errorf("out-of-range progress: got %v, want validation error", err)
	}
	if err := l.SaveReadProgress(reader, postID, 60); err != nil {
		t.Fatalf("save progress: %v", err)
	}

	if err := l.RecordVisit(reader, postID, "", nil); err != nil {
		t.Fatalf("visit: %v", err)
	}

	page := pagination.Normalize(1, 10)
	history, meta, err := l.ReadHistory(reader, "", page)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if meta.Total != 1 || len(history) != 1 || history[0].ID != postID {
		t.Errorf("history: total %d items %d", meta.Total, len(history))
	}

	// No identity → empty history, not an error.
	history, meta, err = l.ReadHistory(authz.Identity{}, "", page)
	if err != nil {
		t.Fatalf("anonymous history: %v", err)
	}
	if meta.Total != 0 || len(history) != 0 {
		t.Errorf("anonymous history should be empty, got %d", len(history))
	}
}
