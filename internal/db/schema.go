package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const schema = `
-- Profiles
CREATE TABLE IF NOT EXISTS profiles (
    email TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    avatar TEXT NOT NULL DEFAULT '',
    role TEXT NOT NULL DEFAULT 'parent' CHECK (role IN ('parent', 'monitor')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_profiles_name ON profiles(LOWER(name));

-- Camps
CREATE TABLE IF NOT EXISTS camps (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    location TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    long_description TEXT NOT NULL DEFAULT '',
    main_image TEXT NOT NULL DEFAULT '',
    images JSONB NOT NULL DEFAULT '[]',
    highlights JSONB NOT NULL DEFAULT '[]',
    official_site TEXT NOT NULL DEFAULT '',
    contact_phone TEXT NOT NULL DEFAULT '',
    contact_email TEXT NOT NULL DEFAULT '',
    price NUMERIC NOT NULL DEFAULT 0,
    start_date TIMESTAMPTZ NOT NULL,
    end_date TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_camps_start_date ON camps(start_date);

-- Enrollments
CREATE TABLE IF NOT EXISTS enrollments (
    id BIGSERIAL PRIMARY KEY,
    user_id TEXT NOT NULL,
    camp_id BIGINT NOT NULL REFERENCES camps(id) ON DELETE CASCADE,
    start_date TIMESTAMPTZ NOT NULL,
    end_date TIMESTAMPTZ NOT NULL,
    form_data JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_enrollments_user_id ON enrollments(user_id);

-- Favorites
CREATE TABLE IF NOT EXISTS favorites (
    user_id TEXT NOT NULL,
    camp_id BIGINT NOT NULL REFERENCES camps(id) ON DELETE CASCADE,
    PRIMARY KEY (user_id, camp_id)
);

-- Reviews
CREATE TABLE IF NOT EXISTS reviews (
    id BIGSERIAL PRIMARY KEY,
    camp_id BIGINT NOT NULL REFERENCES camps(id) ON DELETE CASCADE,
    author_name TEXT NOT NULL,
    author_avatar TEXT NOT NULL DEFAULT '',
    author_email TEXT NOT NULL,
    rating INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
    comment TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_reviews_camp_id ON reviews(camp_id);

-- Community posts
CREATE TABLE IF NOT EXISTS community_posts (
    id BIGSERIAL PRIMARY KEY,
    camp_id BIGINT NOT NULL,
    type TEXT NOT NULL CHECK (type IN ('photo', 'poll', 'text')),
    monitor_name TEXT NOT NULL,
    monitor_avatar TEXT NOT NULL DEFAULT '',
    caption TEXT NOT NULL DEFAULT '',
    image_url TEXT,
    poll JSONB,
    likes INT NOT NULL DEFAULT 0,
    liked_by JSONB NOT NULL DEFAULT '[]',
    comments JSONB NOT NULL DEFAULT '[]',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_community_posts_created_at ON community_posts(created_at DESC);

-- Community stories
CREATE TABLE IF NOT EXISTS community_stories (
    id BIGSERIAL PRIMARY KEY,
    monitor_name TEXT NOT NULL,
    monitor_avatar TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL,
    caption TEXT NOT NULL DEFAULT '',
    reactions JSONB NOT NULL DEFAULT '[]',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Application event log
CREATE TABLE IF NOT EXISTS logs (
    id BIGSERIAL PRIMARY KEY,
    timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    category TEXT NOT NULL,
    data JSONB NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_logs_timestamp ON logs(timestamp DESC);
`
