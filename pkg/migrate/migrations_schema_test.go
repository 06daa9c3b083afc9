package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no init migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE deals",
		"user_id uuid NOT NULL REFERENCES users (id)",
		"dealer_id uuid NOT NULL REFERENCES dealers (id)",
		"CHECK (asking_price IS NULL OR asking_price >= 0)",
		"status deal_status NOT NULL DEFAULT 'quote_requested'",
		"CHECK (rating IS NULL OR (rating >= 1 AND rating <= 5))",
		"FOREIGN KEY (fallback_deal_id) REFERENCES deals (id)",
		"DROP TABLE IF EXISTS deals;",
		"DROP TABLE IF EXISTS market_data;",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
