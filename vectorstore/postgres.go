package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

const collectionTable = "transcript_chunks"

// PostgresStore keeps chunk documents in a pgvector-backed table. The row key
// is a UUID; the chunk's composite identity is a unique natural key so a
// re-run upserts instead of duplicating.
type PostgresStore struct {
	pool      *pgxpool.Pool
	dimension int
}

func NewPostgresStore(pool *pgxpool.Pool, dimension int) *PostgresStore {
	return &PostgresStore{pool: pool, dimension: dimension}
}

func NewPostgresPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	return pool, nil
}

// Ready reports whether the collection exists. A missing collection is the
// fatal precondition the query path must not silently treat as empty results.
func (s *PostgresStore) Ready(ctx context.Context) error {
	var regclass *string
	if err := s.pool.QueryRow(ctx, "SELECT to_regclass($1)::text", collectionTable).Scan(&regclass); err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if regclass == nil {
		return ErrCollectionMissing
	}
	return nil
}

// Recreate drops and rebuilds the collection. Indexing always starts clean:
// a full re-ingestion replaces the whole indexed set.
func (s *PostgresStore) Recreate(ctx context.Context) error {
	if s.dimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive")
	}

	stmts := []string{
		"CREATE EXTENSION IF NOT EXISTS vector",
		fmt.Sprintf("DROP TABLE IF EXISTS %s", collectionTable),
		fmt.Sprintf(`CREATE TABLE %s (
			id UUID PRIMARY KEY,
			chunk_id TEXT UNIQUE NOT NULL,
			document TEXT NOT NULL,
			metadata JSONB NOT NULL,
			embedding VECTOR(%d) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, collectionTable, s.dimension),
		fmt.Sprintf("CREATE INDEX idx_%[1]s_embedding ON %[1]s USING ivfflat (embedding vector_cosine_ops)", collectionTable),
	}

	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("execute schema statement: %w", err)
		}
	}
	return nil
}

// Drop removes the collection entirely.
func (s *PostgresStore) Drop(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", collectionTable)); err != nil {
		return fmt.Errorf("drop collection: %w", err)
	}
	return nil
}

func (s *PostgresStore) Add(ctx context.Context, ids []string, embeddings [][]float32, documents []string, metadatas []Metadata) error {
	if len(ids) != len(embeddings) || len(ids) != len(documents) || len(ids) != len(metadatas) {
		return fmt.Errorf("add: misaligned inputs: %d ids, %d embeddings, %d documents, %d metadatas",
			len(ids), len(embeddings), len(documents), len(metadatas))
	}
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	for i, id := range ids {
		meta, marshalErr := json.Marshal(metadatas[i])
		if marshalErr != nil {
			err = fmt.Errorf("encode metadata for %s: %w", id, marshalErr)
			return err
		}
		if _, err = tx.Exec(ctx, fmt.Sprintf(`
			INSERT INTO %s (id, chunk_id, document, metadata, embedding)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (chunk_id) DO UPDATE
			SET document = EXCLUDED.document,
			    metadata = EXCLUDED.metadata,
			    embedding = EXCLUDED.embedding
		`, collectionTable), uuid.New(), id, documents[i], meta, pgvector.NewVector(embeddings[i])); err != nil {
			err = fmt.Errorf("insert chunk %s: %w", id, err)
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Query returns the k nearest documents by cosine distance, closest first.
// An empty result set is a valid answer, not an error.
func (s *PostgresStore) Query(ctx context.Context, embedding []float32, k int) ([]Hit, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("embedding is empty")
	}
	if k <= 0 {
		k = 10
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT document, metadata, (embedding <=> $1::vector) AS distance
		FROM %s
		ORDER BY embedding <=> $1::vector
		LIMIT $2
	`, collectionTable), pgvector.NewVector(embedding), k)
	if err != nil {
		return nil, fmt.Errorf("query similar chunks: %w", err)
	}
	defer rows.Close()

	hits := make([]Hit, 0, k)
	for rows.Next() {
		var (
			hit  Hit
			meta []byte
		)
		if scanErr := rows.Scan(&hit.Document, &meta, &hit.Distance); scanErr != nil {
			return nil, fmt.Errorf("scan hit: %w", scanErr)
		}
		if err := json.Unmarshal(meta, &hit.Metadata); err != nil {
			return nil, fmt.Errorf("decode hit metadata: %w", err)
		}
		hits = append(hits, hit)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return hits, nil
}

var _ Store = (*PostgresStore)(nil)
