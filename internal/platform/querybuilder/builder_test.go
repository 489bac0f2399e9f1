package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "player_id").
		From("roster_assignments").
		Where(Eq("league_id", "l1"), IsNull("released_at")).
		OrderBy("player_id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, player_id FROM roster_assignments WHERE league_id = $1 AND released_at IS NULL ORDER BY player_id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "l1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderForUpdate(t *testing.T) {
	query, args, err := Select("*").
		From("wallets").
		Where(Eq("league_id", "l1"), Eq("club_id", "c1")).
		ForUpdate().
		ToSQL()
	if err != nil {
		t.Fatalf("build locking select: %v", err)
	}

	wantQuery := "SELECT * FROM wallets WHERE league_id = $1 AND club_id = $2 FOR UPDATE"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "l1" || args[1] != "c1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderExprAndIn(t *testing.T) {
	query, args, err := Select("COALESCE(SUM(amount), 0)").
		From("transfer_records").
		Where(
			Expr("(league_id = ? OR origin_league_id = ?)", "l1", "l1"),
			In("type", []any{"sale", "fine"}),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("build aggregate query: %v", err)
	}

	wantQuery := "SELECT COALESCE(SUM(amount), 0) FROM transfer_records WHERE (league_id = $1 OR origin_league_id = $2) AND type IN ($3, $4)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != "sale" || args[3] != "fine" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderEmptyIn(t *testing.T) {
	query, _, err := Select("*").From("players").Where(In("id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT * FROM players WHERE 1=0" {
		t.Fatalf("unexpected query: %s", query)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("payroll_batches").
		Columns("league_id", "club_id", "round").
		Values("l1", "c1", 3).
		Suffix("ON CONFLICT DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO payroll_batches (league_id, club_id, round) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "l1" || args[2] != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderRowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("wallets").Columns("league_id", "club_id").Values("l1").ToSQL()
	if err == nil {
		t.Fatalf("expected error for short row")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("wallets").
		SetExpr("balance", "balance + ?", int64(-50)).
		SetExpr("updated_at", "NOW()").
		Where(Eq("league_id", "l1"), Eq("club_id", "c1")).
		Suffix("RETURNING balance").
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE wallets SET balance = balance + $1, updated_at = NOW() WHERE league_id = $2 AND club_id = $3 RETURNING balance"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != int64(-50) || args[1] != "l1" || args[2] != "c1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderGroupedConditions(t *testing.T) {
	query, args, err := Select("id").
		From("transfer_records").
		Where(
			Or(
				And(Eq("league_id", "l1"), Eq("destination_club_id", "c1")),
				And(Eq("origin_league_id", "l1"), Eq("origin_club_id", "c1")),
			),
			IsTrue("visible"),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("build grouped query: %v", err)
	}

	wantQuery := "SELECT id FROM transfer_records WHERE ((league_id = $1 AND destination_club_id = $2) OR (origin_league_id = $3 AND origin_club_id = $4)) AND visible = TRUE"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != "l1" || args[1] != "c1" || args[2] != "l1" || args[3] != "c1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderEmptyOr(t *testing.T) {
	query, _, err := Select("*").From("players").Where(Or()).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT * FROM players WHERE 1=0" {
		t.Fatalf("unexpected query: %s", query)
	}
}
