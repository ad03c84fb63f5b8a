package database

import (
	"context"
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-editor/backend/internal/models"
)

func strPtr(s string) *string { return &s }
func idPtr(id int64) *int64   { return &id }

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// runStoreContract exercises the behavior every backend must share.
func runStoreContract(t *testing.T, store Store) {
	ctx := context.Background()

	folder := &models.Node{Name: "src", Type: models.TypeFolder}
	require.NoError(t, store.InsertNode(ctx, folder))
	require.NotZero(t, folder.ID)

	file := &models.Node{
		Name:     "app.py",
		Type:     models.TypeFile,
		ParentID: idPtr(folder.ID),
		Content:  strPtr(""),
		Language: strPtr("python"),
	}
	require.NoError(t, store.InsertNode(ctx, file))
	assert.Greater(t, file.ID, folder.ID)

	t.Run("get round trip", func(t *testing.T) {
		got, err := store.GetNode(ctx, file.ID)
		require.NoError(t, err)
		assert.Equal(t, file, got)

		got, err = store.GetNode(ctx, folder.ID)
		require.NoError(t, err)
		assert.Nil(t, got.ParentID)
		assert.Nil(t, got.Content)
		assert.Nil(t, got.Language)
	})

	t.Run("list and children", func(t *testing.T) {
		all, err := store.ListNodes(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		roots, err := store.ListChildren(ctx, nil)
		require.NoError(t, err)
		require.Len(t, roots, 1)
		assert.Equal(t, folder.ID, roots[0].ID)

		children, err := store.ListChildren(ctx, idPtr(folder.ID))
		require.NoError(t, err)
		require.Len(t, children, 1)
		assert.Equal(t, file.ID, children[0].ID)
	})

	t.Run("update", func(t *testing.T) {
		updated := *file
		updated.Name = "main.py"
		updated.Content = strPtr("print(1)")
		require.NoError(t, store.UpdateNode(ctx, &updated))

		got, err := store.GetNode(ctx, file.ID)
		require.NoError(t, err)
		assert.Equal(t, "main.py", got.Name)
		assert.Equal(t, "print(1)", *got.Content)
		assert.Equal(t, "python", *got.Language)

		missing := models.Node{ID: 9999, Name: "x"}
		assert.True(t, errors.Is(store.UpdateNode(ctx, &missing), ErrNotFound))
	})

	t.Run("rollback", func(t *testing.T) {
		boom := errors.New("boom")
		err := store.InTx(ctx, func(q Queries) error {
			require.NoError(t, q.DeleteNode(ctx, file.ID))
			return boom
		})
		assert.True(t, errors.Is(err, boom))

		_, err = store.GetNode(ctx, file.ID)
		assert.NoError(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.InTx(ctx, func(q Queries) error {
			if err := q.DeleteNode(ctx, file.ID); err != nil {
				return err
			}
			return q.DeleteNode(ctx, folder.ID)
		}))

		_, err := store.GetNode(ctx, file.ID)
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.True(t, errors.Is(store.DeleteNode(ctx, folder.ID), ErrNotFound))
	})

	t.Run("ids are not reused", func(t *testing.T) {
		next := &models.Node{Name: "again", Type: models.TypeFolder}
		require.NoError(t, store.InsertNode(ctx, next))
		assert.Greater(t, next.ID, file.ID)
	})

	assert.NoError(t, store.Ping(ctx))
}

func TestSQLiteStore(t *testing.T) {
	runStoreContract(t, newSQLiteStore(t))
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	store, err := NewPostgres(ctx, url)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.pool.Exec(ctx, `TRUNCATE files RESTART IDENTITY`)
	require.NoError(t, err)
	runStoreContract(t, store)
}

func TestNeo4jStore(t *testing.T) {
	uri := os.Getenv("TEST_NEO4J_URI")
	if uri == "" {
		t.Skip("TEST_NEO4J_URI not set")
	}

	ctx := context.Background()
	store, err := NewNeo4j(ctx, Neo4jConfig{
		URI:      uri,
		Username: os.Getenv("TEST_NEO4J_USER"),
		Password: os.Getenv("TEST_NEO4J_PASSWORD"),
	})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.InTx(ctx, func(q Queries) error {
		_, err := q.(*neo4jQueries).tx.Run(ctx, `MATCH (n:File) DELETE n`, nil)
		return err
	}))
	runStoreContract(t, store)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, Config{Driver: DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	require.NoError(t, store.Close())

	_, err = Open(ctx, Config{Driver: "mysql"})
	assert.Error(t, err)

	_, err = Open(ctx, Config{Driver: DriverPostgres})
	assert.Error(t, err)
}
