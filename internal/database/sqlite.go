package database

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"project-editor/backend/internal/models"
)

// sqlQuerier is satisfied by both *sql.DB and *sql.Tx.
type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqliteQueries struct {
	db sqlQuerier
}

// SQLiteStore keeps nodes in an embedded SQLite database.
type SQLiteStore struct {
	sqliteQueries
	db *sql.DB
}

// NewSQLite opens the database at dbPath (":memory:" for a throwaway store)
// and creates the files table if needed.
func NewSQLite(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening sqlite database")
	}
	// SQLite serializes writers anyway, and an in-memory database only
	// exists on the connection that created it.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "connecting to sqlite")
	}

	stmts := append(append([]string{}, sqlitePragmas...), sqliteSchema, sqliteParentIndex)
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "creating schema")
		}
	}

	return &SQLiteStore{sqliteQueries: sqliteQueries{db: db}, db: db}, nil
}

func (s *SQLiteStore) InTx(ctx context.Context, fn func(q Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()

	if err := fn(&sqliteQueries{db: tx}); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "failed to commit transaction")
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (q *sqliteQueries) ListNodes(ctx context.Context) ([]models.Node, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+nodeColumns+` FROM files ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "listing nodes")
	}
	return collectSQLNodes(rows)
}

func (q *sqliteQueries) ListChildren(ctx context.Context, parentID *int64) ([]models.Node, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if parentID == nil {
		rows, err = q.db.QueryContext(ctx, `SELECT `+nodeColumns+` FROM files WHERE parent_id IS NULL ORDER BY id`)
	} else {
		rows, err = q.db.QueryContext(ctx, `SELECT `+nodeColumns+` FROM files WHERE parent_id = ? ORDER BY id`, *parentID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "listing children")
	}
	return collectSQLNodes(rows)
}

func (q *sqliteQueries) GetNode(ctx context.Context, id int64) (*models.Node, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+nodeColumns+` FROM files WHERE id = ?`, id)
	node, err := scanNode(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "getting node %d", id)
	}
	return node, nil
}

func (q *sqliteQueries) InsertNode(ctx context.Context, node *models.Node) error {
	query := `INSERT INTO files (name, type, parent_id, content, language) VALUES (?, ?, ?, ?, ?)`
	res, err := q.db.ExecContext(ctx, query, node.Name, string(node.Type), node.ParentID, node.Content, node.Language)
	if err != nil {
		return errors.Wrap(err, "inserting node")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "reading inserted id")
	}
	node.ID = id
	return nil
}

func (q *sqliteQueries) UpdateNode(ctx context.Context, node *models.Node) error {
	query := `UPDATE files SET name = ?, content = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := q.db.ExecContext(ctx, query, node.Name, node.Content, node.ID)
	if err != nil {
		return errors.Wrapf(err, "updating node %d", node.ID)
	}
	return checkAffected(res)
}

func (q *sqliteQueries) DeleteNode(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "deleting node %d", id)
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "reading affected rows")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func collectSQLNodes(rows *sql.Rows) ([]models.Node, error) {
	defer rows.Close()

	nodes := make([]models.Node, 0)
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning node")
		}
		nodes = append(nodes, *node)
	}
	return nodes, errors.Wrap(rows.Err(), "reading nodes")
}
