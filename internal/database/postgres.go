package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"project-editor/backend/internal/models"
)

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgQueries struct {
	db pgxQuerier
}

// PostgresStore keeps nodes in a PostgreSQL table through a pgx pool.
type PostgresStore struct {
	pgQueries
	pool *pgxpool.Pool
}

// NewPostgres connects to connStr and creates the files table if needed.
func NewPostgres(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, errors.Wrap(err, "unable to connect to database")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "unable to ping database")
	}

	for _, stmt := range []string{postgresSchema, postgresParentIndex} {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, errors.Wrap(err, "creating schema")
		}
	}

	return &PostgresStore{pgQueries: pgQueries{db: pool}, pool: pool}, nil
}

func (s *PostgresStore) InTx(ctx context.Context, fn func(q Queries) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgQueries{db: tx}); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(ctx), "failed to commit transaction")
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (q *pgQueries) ListNodes(ctx context.Context) ([]models.Node, error) {
	rows, err := q.db.Query(ctx, `SELECT `+nodeColumns+` FROM files ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "listing nodes")
	}
	return collectPgNodes(rows)
}

func (q *pgQueries) ListChildren(ctx context.Context, parentID *int64) ([]models.Node, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if parentID == nil {
		rows, err = q.db.Query(ctx, `SELECT `+nodeColumns+` FROM files WHERE parent_id IS NULL ORDER BY id`)
	} else {
		rows, err = q.db.Query(ctx, `SELECT `+nodeColumns+` FROM files WHERE parent_id = $1 ORDER BY id`, *parentID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "listing children")
	}
	return collectPgNodes(rows)
}

func (q *pgQueries) GetNode(ctx context.Context, id int64) (*models.Node, error) {
	row := q.db.QueryRow(ctx, `SELECT `+nodeColumns+` FROM files WHERE id = $1`, id)
	node, err := scanNode(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "getting node %d", id)
	}
	return node, nil
}

func (q *pgQueries) InsertNode(ctx context.Context, node *models.Node) error {
	query := `INSERT INTO files (name, type, parent_id, content, language) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := q.db.QueryRow(ctx, query, node.Name, string(node.Type), node.ParentID, node.Content, node.Language).Scan(&node.ID)
	return errors.Wrap(err, "inserting node")
}

func (q *pgQueries) UpdateNode(ctx context.Context, node *models.Node) error {
	query := `UPDATE files SET name = $1, content = $2, updated_at = NOW() WHERE id = $3`
	tag, err := q.db.Exec(ctx, query, node.Name, node.Content, node.ID)
	if err != nil {
		return errors.Wrapf(err, "updating node %d", node.ID)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (q *pgQueries) DeleteNode(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "deleting node %d", id)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectPgNodes(rows pgx.Rows) ([]models.Node, error) {
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
