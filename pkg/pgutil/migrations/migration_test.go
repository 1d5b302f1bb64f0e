package migrations

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/uptrace/bun"

	"github.com/chainsafe/claims-registry/pkg/config"
	"github.com/chainsafe/claims-registry/pkg/pgutil"
)

type testDao struct {
	bun.BaseModel `bun:"table:test_claims"`
	Fingerprint   []byte `bun:"fingerprint,pk,type:bytea"`
	Owner         string `bun:"owner,notnull,type:varchar(100)"`
}

func requireDockerAccess(t *testing.T) {
	t.Helper()
	for _, sock := range []string{"/var/run/docker.sock", filepath.Join(os.Getenv("HOME"), ".docker/run/docker.sock")} {
		if _, err := os.Stat(sock); err != nil {
			continue
		}
		if conn, err := (&net.Dialer{}).DialContext(context.Background(), "unix", sock); err == nil {
			_ = conn.Close()
			return
		}
	}
	t.Skip("docker daemon socket is not accessible; skipping testcontainer-backed migration tests")
}

func TestConnectDB_InvalidHost(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "invalid-host-that-does-not-exist",
		Port:     5432,
		User:     "test",
		Password: "test",
		Database: "test",
		SSLMode:  "disable",
	}

	db, err := pgutil.ConnectDB(context.Background(), cfg)
	if err == nil {
		_ = db.Close()
		t.Fatal("ConnectDB() should fail with invalid host")
	}
}

func TestModelIndexName(t *testing.T) {
	if _, err := ModelIndexName(nil, nil, "owner"); err == nil {
		t.Fatal("expected error for nil model")
	}
}

func TestRunMigrations_RequiresCommand(t *testing.T) {
	if err := RunMigrations(context.Background(), nil); err == nil {
		t.Fatal("expected error without command")
	}
}

func TestCreateSchema_DropTables(t *testing.T) {
	requireDockerAccess(t)
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	if err := CreateSchema(ctx, db, &testDao{}); err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}
	pgutil.AssertTableExists(t, db, "test_claims")

	if err := CreateSchema(ctx, db, &testDao{}); err != nil {
		t.Fatalf("CreateSchema() second call failed: %v", err)
	}

	if err := DropTables(ctx, db, &testDao{}); err != nil {
		t.Fatalf("DropTables() failed: %v", err)
	}
	pgutil.AssertTableNotExists(t, db, "test_claims")

	if err := DropTables(ctx, db, &testDao{}); err != nil {
		t.Fatalf("DropTables() second call failed: %v", err)
	}
}

func TestCreateModelIndexes(t *testing.T) {
	requireDockerAccess(t)
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	if err := CreateSchema(ctx, db, &testDao{}); err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}
	if err := CreateModelIndexes(ctx, db, &testDao{}, "owner"); err != nil {
		t.Fatalf("CreateModelIndexes() failed: %v", err)
	}
	pgutil.AssertIndexExists(t, db, "idx_test_claims_owner")

	if err := DropModelIndexes(ctx, db, &testDao{}, "owner"); err != nil {
		t.Fatalf("DropModelIndexes() failed: %v", err)
	}

	var exists bool
	err := db.NewRaw(`SELECT EXISTS (SELECT FROM pg_indexes WHERE schemaname = 'public' AND indexname = ?)`,
		"idx_test_claims_owner").Scan(ctx, &exists)
	if err != nil {
		t.Fatalf("failed to check index: %v", err)
	}
	if exists {
		t.Fatal("idx_test_claims_owner should be dropped")
	}
}
