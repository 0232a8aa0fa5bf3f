package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// linkSide is one end of a many-to-many link table.
type linkSide struct {
	table string // entity table owning this side
	col   string // id column in the link table
	pos   string // position of the linked ids within this side's list
}

// linkTable stores a relation that both entities expose as an ordered id
// list. Each side keeps its own ordering so either list round-trips.
type linkTable struct {
	name string
	a, b linkSide
}

var (
	goalObjectives = linkTable{
		name: "goal_objectives",
		a:    linkSide{table: "goals", col: "goal_id", pos: "objective_position"},
		b:    linkSide{table: "objectives", col: "objective_id", pos: "goal_position"},
	}
	objectiveProjects = linkTable{
		name: "objective_projects",
		a:    linkSide{table: "objectives", col: "objective_id", pos: "project_position"},
		b:    linkSide{table: "projects", col: "project_id", pos: "objective_position"},
	}
)

type linkRow struct {
	Owner string `db:"owner"`
	Other string `db:"other"`
	Pos   int    `db:"pos"`
}

// replace sets ownerID's list to otherIDs. Positions on the other side are
// kept for surviving links and appended for new ones.
func (l linkTable) replace(ctx context.Context, tx *sqlx.Tx, owner, other linkSide, ownerID string, otherIDs []string) error {
	var rows []linkRow
	query := fmt.Sprintf(`SELECT %s AS owner, %s AS other, %s AS pos FROM %s WHERE %s = $1`,
		owner.col, other.col, other.pos, l.name, owner.col)
	if err := tx.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return fmt.Errorf("load %s: %w", l.name, err)
	}
	kept := make(map[string]int, len(rows))
	for _, row := range rows {
		kept[row.Other] = row.Pos
	}

	query = fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, l.name, owner.col)
	if _, err := tx.ExecContext(ctx, query, ownerID); err != nil {
		return fmt.Errorf("clear %s: %w", l.name, err)
	}

	next := fmt.Sprintf(`SELECT COALESCE(MAX(%s), -1) + 1 FROM %s WHERE %s = $1`, other.pos, l.name, other.col)
	insert := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		l.name, owner.col, other.col, owner.pos, other.pos)

	for i, otherID := range otherIDs {
		pos, ok := kept[otherID]
		if !ok {
			if err := tx.GetContext(ctx, &pos, next, otherID); err != nil {
				return fmt.Errorf("next %s: %w", other.pos, err)
			}
		}
		if _, err := tx.ExecContext(ctx, insert, ownerID, otherID, i, pos); err != nil {
			return fmt.Errorf("insert %s: %w", l.name, err)
		}
	}
	return nil
}

// forUser returns every owner's ordered list for userID, keyed by owner id.
func (l linkTable) forUser(ctx context.Context, q sqlx.QueryerContext, owner, other linkSide, userID string) (map[string][]string, error) {
	var rows []linkRow
	query := fmt.Sprintf(`SELECT l.%s AS owner, l.%s AS other, l.%s AS pos
	          FROM %s l JOIN %s o ON o.id = l.%s
	          WHERE o.user_id = $1
	          ORDER BY l.%s, l.%s`,
		owner.col, other.col, owner.pos, l.name, owner.table, owner.col, owner.col, owner.pos)
	if err := sqlx.SelectContext(ctx, q, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("load %s: %w", l.name, err)
	}
	lists := make(map[string][]string)
	for _, row := range rows {
		lists[row.Owner] = append(lists[row.Owner], row.Other)
	}
	return lists, nil
}

// forOwner returns ownerID's ordered list, never nil.
func (l linkTable) forOwner(ctx context.Context, q sqlx.QueryerContext, owner, other linkSide, ownerID string) ([]string, error) {
	ids := []string{}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s`, other.col, l.name, owner.col, owner.pos)
	if err := sqlx.SelectContext(ctx, q, &ids, query, ownerID); err != nil {
		return nil, fmt.Errorf("load %s: %w", l.name, err)
	}
	return ids, nil
}

func listOrEmpty(lists map[string][]string, id string) []string {
	if ids, ok := lists[id]; ok {
		return ids
	}
	return []string{}
}
