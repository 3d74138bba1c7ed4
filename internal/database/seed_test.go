package database

import (
	"testing"
)

func TestSeedIdempotent(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed should be callable safely — it creates data only when tables are
	// empty. We call it twice to verify idempotency. We don't clear the
	// database first because other test packages may be running
	// concurrently against the same database.
	if err := Seed(db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	// Verify the admin account exists.
	var userCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE role = 'ADMIN'").Scan(&userCount); err != nil {
		t.Fatalf("count admin users: %v", err)
	}
	if userCount < 1 {
		t.Errorf("expected at least 1 admin user, got %d", userCount)
	}

	// Verify categories exist.
	var catCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&catCount); err != nil {
		t.Fatalf("count categories: %v", err)
	}
	if catCount < 1 {
		t.Errorf("expected at least 1 category, got %d", catCount)
	}

	// Verify subcategories are attached to categories.
	var subCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM subcategories").Scan(&subCount); err != nil {
		t.Fatalf("count subcategories: %v", err)
	}
	if subCount < 1 {
		t.Errorf("expected at least 1 subcategory, got %d", subCount)
	}
}
