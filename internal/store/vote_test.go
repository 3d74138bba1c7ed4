package store

import (
	"sync"
	"testing"

	"github.com/google/uuid"

	"sportwire/internal/models"
)

func TestVoteToggleOnPost(t *testing.T) {
	db := testDB(t)
	ps := NewPostStore(db)
	vs := NewVoteStore(db)

	author := testUser(t, db, models.RoleEditor)
	voter := testUser(t, db, models.RoleUser)
	cat := testCategory(t, db)
	p := testPost(t, db, ps, author.ID, cat.ID, models.PostStatusPublished)

	// First upvote inserts.
	counts, err := vs.Toggle(models.VoteTargetPost, p.ID, voter.ID, true)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if counts.Upvotes != 1 || counts.Downvotes != 0 {
		t.Errorf("after upvote: got %d/%d, want 1/0", counts.Upvotes, counts.Downvotes)
	}

	// Same polarity removes.
	counts, err = vs.Toggle(models.VoteTargetPost, p.ID, voter.ID, true)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if counts.Upvotes != 0 || counts.Downvotes != 0 {
		t.Errorf("after removal: got %d/%d, want 0/0", counts.Upvotes, counts.Downvotes)
	}

	// Upvote then downvote flips.
	if _, err := vs.Toggle(models.VoteTargetPost, p.ID, voter.ID, true); err != nil {
		t.Fatalf("re-upvote: %v", err)
	}
	counts, err = vs.Toggle(models.VoteTargetPost, p.ID, voter.ID, false)
	if err != nil {
		t.Fatalf("flip: %v", err)
	}
	if counts.Upvotes != 0 || counts.Downvotes != 1 {
		t.Errorf("after flip: got %d/%d, want 0/1", counts.Upvotes, counts.Downvotes)
	}

	// Counters on the post row match what Toggle reported.
	found, err := ps.FindByID(p.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.UpvoteCount != 0 || found.DownvoteCount != 1 {
		t.Errorf("persisted counters: got %d/%d, want 0/1", found.UpvoteCount, found.DownvoteCount)
	}

	// Find reflects the stored vote.
	v, err := vs.Find(models.VoteTargetPost, p.ID, voter.ID)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if v == nil || v.Positive {
		t.Errorf("expected stored downvote, got %+v", v)
	}
}

func TestVoteToggleOnComment(t *testing.T) {
	db := testDB(t)
	ps := NewPostStore(db)
	cs := NewCommentStore(db)
	vs := NewVoteStore(db)

	author := testUser(t, db, models.RoleEditor)
	voter := testUser(t, db, models.RoleUser)
	cat := testCategory(t, db)
	p := testPost(t, db, ps, author.ID, cat.ID, models.PostStatusPublished)

	c, err := cs.Create(&models.Comment{PostID: p.ID, UserID: voter.ID, Body: "Great read"})
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}

	counts, err := vs.Toggle(models.VoteTargetComment, c.ID, voter.ID, false)
	if err != nil {
		t.Fatalf("toggle comment vote: %v", err)
	}
	if counts.Upvotes != 0 || counts.Downvotes != 1 {
		t.Errorf("comment counters: got %d/%d, want 0/1", counts.Upvotes, counts.Downvotes)
	}

	found, err := cs.FindByID(c.ID)
	if err != nil {
		t.Fatalf("find comment: %v", err)
	}
	if found.DownvoteCount != 1 {
		t.Errorf("persisted comment downvotes: got %d, want 1", found.DownvoteCount)
	}
}

func TestVoteToggleConcurrent(t *testing.T) {
	db := testDB(t)
	ps := NewPostStore(db)
	vs := NewVoteStore(db)

	author := testUser(t, db, models.RoleEditor)
	cat := testCategory(t, db)
	p := testPost(t, db, ps, author.ID, cat.ID, models.PostStatusPublished)

	// Eight voters upvote once, four of them also cast interleaved
	// downvote flips, and one extra voter toggles an upvote three times.
	// The row lock serializes each toggle, so whatever the interleaving,
	// the denormalized counters must equal the surviving vote rows.
	voters := make([]*models.User, 9)
	for i := range voters {
		voters[i] = testUser(t, db, models.RoleUser)
	}

	var wg sync.WaitGroup
	errc := make(chan error, 32)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			if _, err := vs.Toggle(models.VoteTargetPost, p.ID, id, true); err != nil {
				errc <- err
			}
		}(voters[i].ID)
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			if _, err := vs.Toggle(models.VoteTargetPost, p.ID, id, false); err != nil {
				errc <- err
			}
		}(voters[i].ID)
	}
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := vs.Toggle(models.VoteTargetPost, p.ID, voters[8].ID, true); err != nil {
				errc <- err
			}
		}()
	}
	wg.Wait()
	close(errc)
	for err := range errc {
		t.Fatalf("concurrent toggle: %v", err)
	}

	var rowUp, rowDown int
	err := db.QueryRow(`
		SELECT
			COUNT(*) FILTER (WHERE positive),
			COUNT(*) FILTER (WHERE NOT positive)
		FROM post_votes WHERE post_id = $1
	`, p.ID).Scan(&rowUp, &rowDown)
	if err != nil {
		t.Fatalf("count vote rows: %v", err)
	}

	found, err := ps.FindByID(p.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.UpvoteCount != rowUp || found.DownvoteCount != rowDown {
		t.Errorf("counters diverged from vote rows: got %d/%d, rows %d/%d",
			found.UpvoteCount, found.DownvoteCount, rowUp, rowDown)
	}

	// The same-user triple toggle serializes to a net single upvote.
	v, err := vs.Find(models.VoteTargetPost, p.ID, voters[8].ID)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if v == nil || !v.Positive {
		t.Errorf("odd toggle count: expected a stored upvote, got %+v", v)
	}
}

func TestVoteToggleMissingTarget(t *testing.T) {
	db := testDB(t)
	vs := NewVoteStore(db)

	voter := testUser(t, db, models.RoleUser)

	counts, err := vs.Toggle(models.VoteTargetPost, voter.ID /* not a post id */, voter.ID, true)
	if err != nil {
		t.Fatalf("toggle on missing target: %v", err)
	}
	if counts != nil {
		t.Errorf("expected nil counts for missing target, got %+v", counts)
	}
}

func TestVoteUnknownTarget(t *testing.T) {
	db := testDB(t)
	vs := NewVoteStore(db)

	u := testUser(t, db, models.RoleUser)
	if _, err := vs.Toggle(models.VoteTarget("page"), u.ID, u.ID, true); err == nil {
		t.Error("expected error for unknown vote target")
	}
}
