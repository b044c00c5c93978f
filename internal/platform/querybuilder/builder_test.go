package querybuilder

import (
	"testing"
	"time"
)

func TestSelectBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id", "actor", "to_status").
		From("moderation_events").
		Where(Eq("user_id", "u1"), Expr("created_at >= ?", time.Unix(0, 0).UTC())).
		OrderBy("created_at DESC").
		Limit(50).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, actor, to_status FROM moderation_events WHERE user_id = $1 AND created_at >= $2 ORDER BY created_at DESC LIMIT 50"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "u1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	t.Parallel()

	query, _, err := Select("id").From("sync_runs").Where(In("kind", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM sync_runs WHERE 1=0" {
		t.Fatalf("unexpected query: %s", query)
	}
}

func TestUpdateBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := Update("sync_runs").
		Set("succeeded", 3).
		SetExpr("finished_at", "NOW()").
		SetExpr("failed", "failed + ?", 1).
		Where(Eq("id", "run-1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE sync_runs SET succeeded = $1, finished_at = NOW(), failed = failed + $2 WHERE id = $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != 3 || args[1] != 1 || args[2] != "run-1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

type itemRow struct {
	RunID   string `db:"run_id"`
	Ref     string `db:"ref"`
	Status  string `db:"status"`
	ignored string
	Skip    string `db:"-"`
}

func TestInsertModels_MultiRow(t *testing.T) {
	t.Parallel()

	rows := []itemRow{
		{RunID: "r1", Ref: "100", Status: "succeeded", ignored: "x"},
		{RunID: "r1", Ref: "101", Status: "failed", Skip: "y"},
	}
	query, args, err := InsertModels("sync_run_items", rows, "ON CONFLICT DO NOTHING")
	if err != nil {
		t.Fatalf("build insert: %v", err)
	}

	wantQuery := "INSERT INTO sync_run_items (run_id, ref, status) VALUES ($1, $2, $3), ($4, $5, $6) ON CONFLICT DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 || args[4] != "101" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel_RejectsNonStruct(t *testing.T) {
	t.Parallel()

	if _, _, err := InsertModel("t", 42, ""); err == nil {
		t.Fatalf("expected error for non struct model")
	}
}
