package database

// parent_id carries no foreign key: parents are validated by the tree
// service, not by the store.

const postgresSchema = `
CREATE TABLE IF NOT EXISTS files (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    type TEXT NOT NULL CHECK (type IN ('file', 'folder')),
    parent_id BIGINT,
    content TEXT,
    language TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const postgresParentIndex = `CREATE INDEX IF NOT EXISTS files_parent_id_idx ON files (parent_id)`

// AUTOINCREMENT keeps ids from being reused after deletes.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS files (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    type TEXT NOT NULL CHECK (type IN ('file', 'folder')),
    parent_id INTEGER,
    content TEXT,
    language TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const sqliteParentIndex = `CREATE INDEX IF NOT EXISTS files_parent_id_idx ON files (parent_id)`

var sqlitePragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
}

const neo4jIDConstraint = `CREATE CONSTRAINT file_id IF NOT EXISTS FOR (n:File) REQUIRE n.id IS UNIQUE`

const neo4jParentIndex = `CREATE INDEX file_parent_id IF NOT EXISTS FOR (n:File) ON (n.parent_id)`

const nodeColumns = `id, name, type, parent_id, content, language`
