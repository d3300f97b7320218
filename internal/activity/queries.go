package activity

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
}

type Queries struct {
	db DBTX
}

func newQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

const insertActivity = `
INSERT INTO activity (action, employee_id, employee_name, occurred_at)
VALUES (?, ?, ?, ?)
`

type insertActivityParams struct {
	Action       string
	EmployeeID   int64
	EmployeeName string
	OccurredAt   string
}

func (q *Queries) InsertActivity(ctx context.Context, arg insertActivityParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, insertActivity,
		arg.Action,
		arg.EmployeeID,
		arg.EmployeeName,
		arg.OccurredAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const listRecentActivity = `
SELECT id, action, employee_id, employee_name, occurred_at
FROM activity
ORDER BY occurred_at DESC, id DESC
LIMIT ?
`

type activityRow struct {
	ID           int64
	Action       string
	EmployeeID   int64
	EmployeeName string
	OccurredAt   string
}

func (q *Queries) ListRecentActivity(ctx context.Context, limit int64) ([]activityRow, error) {
	rows, err := q.db.QueryContext(ctx, listRecentActivity, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []activityRow
	for rows.Next() {
		var i activityRow
		if err := rows.Scan(
			&i.ID,
			&i.Action,
			&i.EmployeeID,
			&i.EmployeeName,
			&i.OccurredAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
