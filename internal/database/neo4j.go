package database

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/pkg/errors"

	"project-editor/backend/internal/models"
)

// Neo4jConfig holds Neo4j connection configuration.
type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	Database string
}

// cypherRunner is satisfied by neo4j.ManagedTransaction and
// neo4j.ExplicitTransaction.
type cypherRunner interface {
	Run(ctx context.Context, cypher string, params map[string]any) (neo4j.ResultWithContext, error)
}

type neo4jQueries struct {
	tx cypherRunner
}

// Neo4jStore keeps nodes as :File vertices. The tree is carried by the
// parent_id property rather than relationships so that orphaned and
// forward-referencing parents behave the same as in the SQL stores.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4j connects to the server in cfg and ensures the id constraint and
// parent index exist.
func NewNeo4j(ctx context.Context, cfg Neo4jConfig) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
	)
	if err != nil {
		return nil, errors.Wrap(err, "creating neo4j driver")
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, errors.Wrap(err, "connecting to neo4j")
	}

	s := &Neo4jStore{driver: driver, database: cfg.Database}
	if s.database == "" {
		s.database = "neo4j"
	}

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)
	for _, stmt := range []string{neo4jIDConstraint, neo4jParentIndex} {
		result, err := session.Run(ctx, stmt, nil)
		if err == nil {
			_, err = result.Consume(ctx)
		}
		if err != nil {
			driver.Close(ctx)
			return nil, errors.Wrap(err, "creating schema")
		}
	}

	return s, nil
}

func (s *Neo4jStore) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database, AccessMode: mode})
}

func readNeo4j[T any](ctx context.Context, s *Neo4jStore, fn func(q *neo4jQueries) (T, error)) (T, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return fn(&neo4jQueries{tx: tx})
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out.(T), nil
}

func (s *Neo4jStore) InTx(ctx context.Context, fn func(q Queries) error) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, fn(&neo4jQueries{tx: tx})
	})
	return err
}

func (s *Neo4jStore) Ping(ctx context.Context) error {
	return s.driver.VerifyConnectivity(ctx)
}

func (s *Neo4jStore) Close() error {
	return s.driver.Close(context.Background())
}

func (s *Neo4jStore) ListNodes(ctx context.Context) ([]models.Node, error) {
	return readNeo4j(ctx, s, func(q *neo4jQueries) ([]models.Node, error) {
		return q.ListNodes(ctx)
	})
}

func (s *Neo4jStore) ListChildren(ctx context.Context, parentID *int64) ([]models.Node, error) {
	return readNeo4j(ctx, s, func(q *neo4jQueries) ([]models.Node, error) {
		return q.ListChildren(ctx, parentID)
	})
}

func (s *Neo4jStore) GetNode(ctx context.Context, id int64) (*models.Node, error) {
	return readNeo4j(ctx, s, func(q *neo4jQueries) (*models.Node, error) {
		return q.GetNode(ctx, id)
	})
}

func (s *Neo4jStore) InsertNode(ctx context.Context, node *models.Node) error {
	return s.InTx(ctx, func(q Queries) error { return q.InsertNode(ctx, node) })
}

func (s *Neo4jStore) UpdateNode(ctx context.Context, node *models.Node) error {
	return s.InTx(ctx, func(q Queries) error { return q.UpdateNode(ctx, node) })
}

func (s *Neo4jStore) DeleteNode(ctx context.Context, id int64) error {
	return s.InTx(ctx, func(q Queries) error { return q.DeleteNode(ctx, id) })
}

const neo4jReturnNode = `
	RETURN n.id AS id, n.name AS name, n.type AS type, n.parent_id AS parent_id,
	       n.content AS content, n.language AS language
	ORDER BY id`

func (q *neo4jQueries) ListNodes(ctx context.Context) ([]models.Node, error) {
	return q.collect(ctx, `MATCH (n:File)`+neo4jReturnNode, nil)
}

func (q *neo4jQueries) ListChildren(ctx context.Context, parentID *int64) ([]models.Node, error) {
	if parentID == nil {
		return q.collect(ctx, `MATCH (n:File) WHERE n.parent_id IS NULL`+neo4jReturnNode, nil)
	}
	return q.collect(ctx, `MATCH (n:File) WHERE n.parent_id = $parent_id`+neo4jReturnNode,
		map[string]any{"parent_id": *parentID})
}

func (q *neo4jQueries) GetNode(ctx context.Context, id int64) (*models.Node, error) {
	nodes, err := q.collect(ctx, `MATCH (n:File {id: $id})`+neo4jReturnNode, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, ErrNotFound
	}
	return &nodes[0], nil
}

func (q *neo4jQueries) InsertNode(ctx context.Context, node *models.Node) error {
	// A sequence vertex hands out ids so they are never reused after deletes.
	result, err := q.tx.Run(ctx, `
		MERGE (s:Sequence {name: 'files'})
		ON CREATE SET s.value = 0
		SET s.value = s.value + 1
		WITH s.value AS id
		CREATE (n:File {id: id, name: $name, type: $type, parent_id: $parent_id,
		                content: $content, language: $language})
		RETURN id`,
		map[string]any{
			"name":      node.Name,
			"type":      string(node.Type),
			"parent_id": int64OrNil(node.ParentID),
			"content":   stringOrNil(node.Content),
			"language":  stringOrNil(node.Language),
		})
	if err != nil {
		return errors.Wrap(err, "inserting node")
	}
	record, err := result.Single(ctx)
	if err != nil {
		return errors.Wrap(err, "inserting node")
	}
	id, _ := record.Get("id")
	node.ID = id.(int64)
	return nil
}

func (q *neo4jQueries) UpdateNode(ctx context.Context, node *models.Node) error {
	return q.affecting(ctx, `
		MATCH (n:File {id: $id})
		SET n.name = $name, n.content = $content
		RETURN count(n) AS affected`,
		map[string]any{"id": node.ID, "name": node.Name, "content": stringOrNil(node.Content)})
}

func (q *neo4jQueries) DeleteNode(ctx context.Context, id int64) error {
	return q.affecting(ctx, `
		MATCH (n:File {id: $id})
		WITH n, n.id AS id
		DELETE n
		RETURN count(id) AS affected`,
		map[string]any{"id": id})
}

func (q *neo4jQueries) affecting(ctx context.Context, cypher string, params map[string]any) error {
	result, err := q.tx.Run(ctx, cypher, params)
	if err != nil {
		return errors.Wrap(err, "running cypher")
	}
	record, err := result.Single(ctx)
	if err != nil {
		return errors.Wrap(err, "reading cypher result")
	}
	affected, _ := record.Get("affected")
	if n, _ := affected.(int64); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (q *neo4jQueries) collect(ctx context.Context, cypher string, params map[string]any) ([]models.Node, error) {
	result, err := q.tx.Run(ctx, cypher, params)
	if err != nil {
		return nil, errors.Wrap(err, "running cypher")
	}

	nodes := make([]models.Node, 0)
	for result.Next(ctx) {
		nodes = append(nodes, recordToNode(result.Record()))
	}
	return nodes, errors.Wrap(result.Err(), "reading nodes")
}

func recordToNode(record *neo4j.Record) models.Node {
	var node models.Node
	if v, ok := record.Get("id"); ok {
		node.ID, _ = v.(int64)
	}
	if v, ok := record.Get("name"); ok {
		node.Name, _ = v.(string)
	}
	if v, ok := record.Get("type"); ok {
		s, _ := v.(string)
		node.Type = models.NodeType(s)
	}
	if v, ok := record.Get("parent_id"); ok && v != nil {
		id := v.(int64)
		node.ParentID = &id
	}
	if v, ok := record.Get("content"); ok && v != nil {
		s := v.(string)
		node.Content = &s
	}
	if v, ok := record.Get("language"); ok && v != nil {
		s := v.(string)
		node.Language = &s
	}
	return node
}

func int64OrNil(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func stringOrNil(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
