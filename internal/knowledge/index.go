package knowledge

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS chunks (
	id          TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	page        INTEGER NOT NULL,
	chunk_index INTEGER NOT NULL,
	content     TEXT NOT NULL,
	embedding   BLOB NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source);
`

const defaultBatchSize = 64

// Index stores guide chunks and their embeddings in SQLite and answers
// nearest-neighbour queries by cosine similarity.
type Index struct {
	db        *sql.DB
	embedder  Embedder
	batchSize int
	logger    *log.Logger
}

func OpenIndex(path string, embedder Embedder, logger *log.Logger) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Index{db: db, embedder: embedder, batchSize: defaultBatchSize, logger: logger}, nil
}

func (x *Index) Close() error {
	return x.db.Close()
}

// Add embeds chunks in batches and upserts them by ID.
func (x *Index) Add(ctx context.Context, chunks []Chunk) error {
	for start := 0; start < len(chunks); start += x.batchSize {
		end := min(start+x.batchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}
		vectors, err := x.embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed batch %d-%d: %w", start, end, err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embed batch %d-%d: got %d vectors", start, end, len(vectors))
		}
		if err := x.insert(ctx, batch, vectors); err != nil {
			return err
		}
		x.logger.Debug("indexed batch", "from", start, "to", end)
	}
	return nil
}

func (x *Index) insert(ctx context.Context, batch []Chunk, vectors [][]float32) error {
	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for i, c := range batch {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO chunks (id, source, page, chunk_index, content, embedding, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   source = excluded.source, page = excluded.page, chunk_index = excluded.chunk_index,
			   content = excluded.content, embedding = excluded.embedding`,
			c.ID, c.Source, c.Page, c.Index, c.Content, encodeVector(vectors[i]), now,
		)
		if err != nil {
			return fmt.Errorf("insert chunk %s: %w", c.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (x *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := x.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

// Sources lists distinct document names in the index.
func (x *Index) Sources(ctx context.Context) ([]string, error) {
	rows, err := x.db.QueryContext(ctx, `SELECT DISTINCT source FROM chunks ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (x *Index) Reset(ctx context.Context) error {
	if _, err := x.db.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("reset chunks: %w", err)
	}
	return nil
}

// Search returns up to k passages most similar to query. Empty chunks,
// duplicate content and vectors of a foreign dimension are skipped.
func (x *Index) Search(ctx context.Context, query string, k int) ([]Passage, error) {
	if k <= 0 || strings.TrimSpace(query) == "" {
		return nil, nil
	}
	vectors, err := x.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed query: got %d vectors", len(vectors))
	}
	q := vectors[0]

	rows, err := x.db.QueryContext(ctx, `SELECT id, source, page, content, embedding FROM chunks`)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	type scored struct {
		id string
		Passage
	}
	var candidates []scored
	seen := make(map[string]bool)
	for rows.Next() {
		var (
			c    scored
			blob []byte
		)
		if err := rows.Scan(&c.id, &c.Source, &c.Page, &c.Content, &blob); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		content := strings.TrimSpace(c.Content)
		if content == "" || seen[content] {
			continue
		}
		vec := decodeVector(blob)
		if len(vec) != len(q) {
			x.logger.Warn("skipping chunk with mismatched dimension", "id", c.id, "dim", len(vec), "want", len(q))
			continue
		}
		seen[content] = true
		c.Score = cosine(q, vec)
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].id < candidates[j].id
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	out := make([]Passage, len(candidates))
	for i, c := range candidates {
		c.Rank = i + 1
		out[i] = c.Passage
	}
	return out, nil
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte) []float32 {
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
