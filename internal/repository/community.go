package repository

import (
	"context"
	"fmt"

	"camp-hub-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CommunityRepository handles database operations for the community feed.
// Poll, liked_by, comments and reactions live in JSONB columns; pgx maps
// them to and from the model types directly.
type CommunityRepository struct {
	db *pgxpool.Pool
}

// NewCommunityRepository creates a new community repository
func NewCommunityRepository(db *pgxpool.Pool) *CommunityRepository {
	return &CommunityRepository{db: db}
}

// LoadPosts retrieves all posts, newest first
func (r *CommunityRepository) LoadPosts(ctx context.Context) ([]models.Post, error) {
	query := `
		SELECT id, camp_id, type, monitor_name, monitor_avatar, caption,
		       COALESCE(image_url, ''), poll, likes, liked_by, comments, created_at
		FROM community_posts
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var p models.Post
		err := rows.Scan(&p.ID, &p.CampID, &p.Type, &p.MonitorName, &p.MonitorAvatar,
			&p.Caption, &p.ImageURL, &p.Poll, &p.Likes, &p.LikedBy, &p.Comments, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// LoadStories retrieves all stories, newest first
func (r *CommunityRepository) LoadStories(ctx context.Context) ([]models.Story, error) {
	query := `
		SELECT id, monitor_name, monitor_avatar, image_url, caption, reactions, created_at
		FROM community_stories
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load stories: %w", err)
	}
	defer rows.Close()

	stories := []models.Story{}
	for rows.Next() {
		var s models.Story
		err := rows.Scan(&s.ID, &s.MonitorName, &s.MonitorAvatar, &s.ImageURL,
			&s.Caption, &s.Reactions, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}
		stories = append(stories, s)
	}
	return stories, rows.Err()
}

// InsertPost inserts a post and returns its assigned id
func (r *CommunityRepository) InsertPost(ctx context.Context, post *models.Post) (int64, error) {
	query := `
		INSERT INTO community_posts
			(camp_id, type, monitor_name, monitor_avatar, caption, image_url,
			 poll, likes, liked_by, comments, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query,
		post.CampID, post.Type, post.MonitorName, post.MonitorAvatar,
		post.Caption, post.ImageURL, post.Poll, post.Likes,
		post.LikedBy, post.Comments, post.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert post: %w", err)
	}
	return id, nil
}

// InsertStory inserts a story and returns its assigned id
func (r *CommunityRepository) InsertStory(ctx context.Context, story *models.Story) (int64, error) {
	query := `
		INSERT INTO community_stories
			(monitor_name, monitor_avatar, image_url, caption, reactions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query,
		story.MonitorName, story.MonitorAvatar, story.ImageURL,
		story.Caption, story.Reactions, story.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert story: %w", err)
	}
	return id, nil
}

// UpdateLikes writes the like counter and set for a post
func (r *CommunityRepository) UpdateLikes(ctx context.Context, postID int64, likes int, likedBy []string) error {
	query := `UPDATE community_posts SET likes = $1, liked_by = $2 WHERE id = $3`
	if _, err := r.db.Exec(ctx, query, likes, likedBy, postID); err != nil {
		return fmt.Errorf("failed to update likes: %w", err)
	}
	return nil
}

// UpdateComments writes a post's comment list
func (r *CommunityRepository) UpdateComments(ctx context.Context, postID int64, comments []models.Comment) error {
	query := `UPDATE community_posts SET comments = $1 WHERE id = $2`
	if _, err := r.db.Exec(ctx, query, comments, postID); err != nil {
		return fmt.Errorf("failed to update comments: %w", err)
	}
	return nil
}

// UpdatePoll writes a post's poll state
func (r *CommunityRepository) UpdatePoll(ctx context.Context, postID int64, poll *models.Poll) error {
	query := `UPDATE community_posts SET poll = $1 WHERE id = $2`
	if _, err := r.db.Exec(ctx, query, poll, postID); err != nil {
		return fmt.Errorf("failed to update poll: %w", err)
	}
	return nil
}

// UpdateReactions writes a story's reaction list
func (r *CommunityRepository) UpdateReactions(ctx context.Context, storyID int64, reactions []models.Reaction) error {
	query := `UPDATE community_stories SET reactions = $1 WHERE id = $2`
	if _, err := r.db.Exec(ctx, query, reactions, storyID); err != nil {
		return fmt.Errorf("failed to update reactions: %w", err)
	}
	return nil
}

// DeletePost removes a post row
func (r *CommunityRepository) DeletePost(ctx context.Context, postID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM community_posts WHERE id = $1`, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}
