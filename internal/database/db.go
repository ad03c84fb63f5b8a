package database

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"project-editor/backend/internal/models"
)

// Supported store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverNeo4j    = "neo4j"
)

// Config selects and addresses a store backend.
type Config struct {
	Driver     string
	URL        string // postgres connection string
	SQLitePath string
	Neo4j      Neo4jConfig
}

// Open connects the backend named by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Driver {
	case DriverPostgres:
		if cfg.URL == "" {
			return nil, errors.New("DATABASE_URL environment variable is not set")
		}
		store, err = NewPostgres(ctx, cfg.URL)
	case DriverSQLite:
		store, err = NewSQLite(ctx, cfg.SQLitePath)
	case DriverNeo4j:
		store, err = NewNeo4j(ctx, cfg.Neo4j)
	default:
		return nil, errors.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	logrus.WithField("driver", cfg.Driver).Info("successfully connected to database")
	return store, nil
}

// rowScanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (*models.Node, error) {
	var (
		node     models.Node
		nodeType string
	)
	if err := row.Scan(&node.ID, &node.Name, &nodeType, &node.ParentID, &node.Content, &node.Language); err != nil {
		return nil, err
	}
	node.Type = models.NodeType(nodeType)
	return &node, nil
}
