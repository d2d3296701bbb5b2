// Package postgres provides Postgres-backed persistence implementations.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JakeFAU/feedback-unfurler/internal/unfurl"
)

var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ContentStoreConfig controls the Postgres connection pool used for content lookups.
type ContentStoreConfig struct {
	DSN             string
	Schema          string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type rowQuerier interface {
	QueryRow(context.Context, string, ...any) pgx.Row
	Ping(context.Context) error
	Close()
}

// ContentStore reads knowledge and discussion rows. It never writes.
type ContentStore struct {
	pool           rowQuerier
	knowledgeQuery string
	discussQuery   string
}

// NewContentStore creates a Postgres-backed ContentStore using the provided config.
func NewContentStore(ctx context.Context, cfg ContentStoreConfig) (*ContentStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	store, err := NewContentStoreWithPool(pool, cfg.Schema)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

// NewContentStoreWithPool constructs a store from an existing pool (primarily for testing).
func NewContentStoreWithPool(pool rowQuerier, schema string) (*ContentStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if schema == "" {
		schema = "public"
	}
	if !validIdentifier.MatchString(schema) {
		return nil, fmt.Errorf("invalid schema name %q", schema)
	}
	return &ContentStore{
		pool:           pool,
		knowledgeQuery: fmt.Sprintf(knowledgeQuery, schema, schema, schema),
		discussQuery:   fmt.Sprintf(discussionQuery, schema, schema, schema),
	}, nil
}

// Close releases the underlying pool resources.
func (s *ContentStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// Ping checks connectivity; used by the readiness probe.
func (s *ContentStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

const knowledgeQuery = `
SELECT
	k.id,
	COALESCE(k.title, ''),
	COALESCE(k.emoji, ''),
	COALESCE(k.content, ''),
	k.views,
	k.updated_at,
	k.published,
	(SELECT count(*) FROM %s.bookmarks b WHERE b.knowledge_id = k.id),
	(SELECT count(DISTINCT c.user_id) FROM %s.knowledge_contributors c WHERE c.knowledge_id = k.id)
FROM %s.knowledge k
WHERE k.id = $1 AND k.published = true`

// FindKnowledge loads a published knowledge article with its bookmark and
// distinct contributor counts.
func (s *ContentStore) FindKnowledge(ctx context.Context, id string) (unfurl.KnowledgeRecord, error) {
	var rec unfurl.KnowledgeRecord
	err := s.pool.QueryRow(ctx, s.knowledgeQuery, id).Scan(
		&rec.ID,
		&rec.Title,
		&rec.Emoji,
		&rec.Content,
		&rec.Views,
		&rec.UpdatedAt,
		&rec.Published,
		&rec.BookmarkCount,
		&rec.ContributorCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return unfurl.KnowledgeRecord{}, unfurl.ErrNotFound
		}
		return unfurl.KnowledgeRecord{}, fmt.Errorf("query knowledge: %w", err)
	}
	return rec, nil
}

const discussionQuery = `
SELECT
	d.id,
	COALESCE(d.title, ''),
	COALESCE(d.content, ''),
	d.views,
	d.archive,
	d.created_at,
	d.last_comment_created_at,
	(SELECT count(*) FROM %s.comments c WHERE c.discussion_id = d.id),
	COALESCE(u.displayname, ''),
	COALESCE(u.image, ''),
	COALESCE(u.handle, '')
FROM %s.discussions d
LEFT JOIN %s.users u ON u.id = d.user_id
WHERE d.id = $1`

// FindDiscussion loads a discussion with its comment count and author profile.
func (s *ContentStore) FindDiscussion(ctx context.Context, id string) (unfurl.DiscussionRecord, error) {
	var rec unfurl.DiscussionRecord
	err := s.pool.QueryRow(ctx, s.discussQuery, id).Scan(
		&rec.ID,
		&rec.Title,
		&rec.Content,
		&rec.Views,
		&rec.Archived,
		&rec.CreatedAt,
		&rec.LastCommentAt,
		&rec.CommentCount,
		&rec.Author.DisplayName,
		&rec.Author.AvatarURL,
		&rec.Author.Handle,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return unfurl.DiscussionRecord{}, unfurl.ErrNotFound
		}
		return unfurl.DiscussionRecord{}, fmt.Errorf("query discussion: %w", err)
	}
	return rec, nil
}
