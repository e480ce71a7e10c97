// Package archive stores past scripts with embeddings so new generations
// can be steered away from topics and jokes already used. Like history,
// the whole package is optional; a nil service disables it.
package archive

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"
)

const embeddingModel = openai.SmallEmbedding3

// Entry is one archived script.
type Entry struct {
	ID         string
	RunID      string
	Topic      string
	Title      string
	ScriptText string
	Score      float64 // cosine similarity, set on search results
}

type Service struct {
	db     *pgxpool.Pool
	openai *openai.Client
}

// NewService returns nil unless both a database pool and an OpenAI key are
// available; the archive is useless without either.
func NewService(db *pgxpool.Pool, openaiKey string) *Service {
	if db == nil || openaiKey == "" {
		return nil
	}
	return &Service{db: db, openai: openai.NewClient(openaiKey)}
}

// Save embeds the script text and inserts the archive row.
func (s *Service) Save(ctx context.Context, e Entry) error {
	if s == nil {
		return nil
	}
	vec, err := s.embed(ctx, e.ScriptText)
	if err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	var runID any
	if e.RunID != "" {
		runID = e.RunID
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO script_archive (id, run_id, topic, title, script_text, embedding)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET script_text = $5, embedding = $6`,
		e.ID, runID, e.Topic, e.Title, e.ScriptText, pgvector.NewVector(vec),
	)
	if err != nil {
		return fmt.Errorf("insert archived script: %w", err)
	}
	return nil
}

// Similar returns the k archived scripts closest to the topic.
func (s *Service) Similar(ctx context.Context, topic string, k int) ([]Entry, error) {
	if s == nil {
		return nil, nil
	}
	if k <= 0 {
		k = 3
	}
	vec, err := s.embed(ctx, topic)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx,
		`SELECT id, COALESCE(run_id::text, ''), topic, title, script_text,
		        1 - (embedding <=> $1) AS score
		 FROM script_archive
		 WHERE embedding IS NOT NULL
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		pgvector.NewVector(vec), k,
	)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.RunID, &e.Topic, &e.Title, &e.ScriptText, &e.Score); err != nil {
			return nil, fmt.Errorf("scan archive entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// PastContext formats the closest past scripts into the prompt snippet the
// generator folds in, so new scripts avoid repeating old angles. Empty
// when the archive has nothing relevant.
func (s *Service) PastContext(ctx context.Context, topic string) (string, error) {
	entries, err := s.Similar(ctx, topic, 3)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", nil
	}
	var b strings.Builder
	b.WriteString("Scripts already made on similar topics (do not repeat their angles or jokes):\n")
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = e.Topic
		}
		fmt.Fprintf(&b, "- %q: %s\n", title, excerpt(e.ScriptText, 200))
	}
	return b.String(), nil
}

func (s *Service) embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := s.openai.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: embeddingModel,
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return resp.Data[0].Embedding, nil
}

func excerpt(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= max {
		return text
	}
	cut := strings.LastIndex(text[:max], " ")
	if cut <= 0 {
		cut = max
	}
	return text[:cut] + "…"
}
