package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("users").
		Where(Eq("tenant_id", "t1"), IsNull("deleted_at")).
		OrderBy("id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM users WHERE tenant_id = $1 AND deleted_at IS NULL ORDER BY id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "t1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("users").
		Columns("id", "name").
		Values("u1", "name-1").
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO users (id, name) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "u1" || args[1] != "name-1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("users").
		Set("name", "new").
		Where(Eq("id", "u1"), IsNull("deleted_at")).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE users SET name = $1 WHERE id = $2 AND deleted_at IS NULL RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "new" || args[1] != "u1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_RangeAndIn(t *testing.T) {
	query, args, err := Select("player_id", "minutes").
		From("match_appearances").
		Where(InStrings("player_id", []string{"pl-1", "pl-2"}), Lte("match_date", "2026-01-31"), Eq("minutes", 90)).
		OrderBy("match_date DESC").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT player_id, minutes FROM match_appearances WHERE player_id IN ($1, $2) AND match_date <= $3 AND minutes = $4 ORDER BY match_date DESC"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != "pl-1" || args[3] != 90 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("id").From("players").Where(InStrings("id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM players WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected query %q args %+v", query, args)
	}
}

type ratingRow struct {
	PlayerID  string `db:"player_id"`
	Rating365 int    `db:"rating_365"`
	ignored   string
	Transient string `db:"-"`
}

func TestInsertModels(t *testing.T) {
	rows := []ratingRow{
		{PlayerID: "pl-1", Rating365: 80},
		{PlayerID: "pl-2", Rating365: 61},
	}

	query, args, err := InsertModels("player_ratings", rows, "ON CONFLICT (player_id) DO UPDATE SET rating_365 = EXCLUDED.rating_365")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO player_ratings (player_id, rating_365) VALUES ($1, $2), ($3, $4) ON CONFLICT (player_id) DO UPDATE SET rating_365 = EXCLUDED.rating_365"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != "pl-2" || args[3] != 61 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertModels[ratingRow]("player_ratings", nil, ""); err == nil {
		t.Fatalf("expected error for empty models")
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("player_ratings").
		Where(InStrings("competition_public_id", []string{"c1", "c2"}), Lt("computed_at", "2026-05-01")).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM player_ratings WHERE competition_public_id IN ($1, $2) AND computed_at < $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[2] != "2026-05-01" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder_RequiresConditions(t *testing.T) {
	if _, _, err := DeleteFrom("player_ratings").ToSQL(); err == nil {
		t.Fatal("expected error for unconditioned delete")
	}
}
