// Package feed keeps the community feed (posts and stories) in memory
// and mutates it optimistically: every operation updates local state
// synchronously, then propagates the same change to the database in the
// background. A failed write is logged and never rolled back or retried,
// so the in-memory view is authoritative for the running process and the
// database trails it as an eventually consistent copy.
package feed

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"camp-hub-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const persistTimeout = 10 * time.Second

var (
	ErrPostNotFound   = errors.New("post not found")
	ErrStoryNotFound  = errors.New("story not found")
	ErrNotPoll        = errors.New("post is not a poll")
	ErrUnknownOption  = errors.New("unknown poll option")
	ErrNotAuthor      = errors.New("only the authoring monitor can delete a post")
	ErrMissingPoll    = errors.New("poll post requires a poll")
	ErrUnexpectedPoll = errors.New("only poll posts may carry a poll")
)

// Persister is the write-through side of the store. Inserts run
// synchronously so new entities carry database-assigned identifiers;
// updates and deletes are fired asynchronously after the local mutation.
type Persister interface {
	LoadPosts(ctx context.Context) ([]models.Post, error)
	LoadStories(ctx context.Context) ([]models.Story, error)
	InsertPost(ctx context.Context, post *models.Post) (int64, error)
	InsertStory(ctx context.Context, story *models.Story) (int64, error)
	UpdateLikes(ctx context.Context, postID int64, likes int, likedBy []string) error
	UpdateComments(ctx context.Context, postID int64, comments []models.Comment) error
	UpdatePoll(ctx context.Context, postID int64, poll *models.Poll) error
	UpdateReactions(ctx context.Context, storyID int64, reactions []models.Reaction) error
	DeletePost(ctx context.Context, postID int64) error
}

// Store is the in-memory feed. All exported methods lock, mutate and
// return before any network write resolves.
type Store struct {
	mu        sync.Mutex
	posts     []models.Post
	stories   []models.Story
	persister Persister

	// viewed tracks which stories each email has opened; session-scoped
	// state that never reaches the database
	viewed map[int64]map[string]bool
}

// NewStore creates an empty feed store
func NewStore(persister Persister) *Store {
	return &Store{
		persister: persister,
		viewed:    make(map[int64]map[string]bool),
	}
}

// Load replaces the in-memory feed with the persisted one, newest first
func (s *Store) Load(ctx context.Context) error {
	posts, err := s.persister.LoadPosts(ctx)
	if err != nil {
		return err
	}
	stories, err := s.persister.LoadStories(ctx)
	if err != nil {
		return err
	}

	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	sort.Slice(stories, func(i, j int) bool { return stories[i].CreatedAt.After(stories[j].CreatedAt) })

	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = posts
	s.stories = stories
	return nil
}

// Posts returns a copy of the feed with the Viewed flag irrelevant
func (s *Store) Posts() []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePosts(s.posts)
}

// Stories returns a copy of the stories with Viewed computed for the
// requesting email.
func (s *Store) Stories(email string) []models.Story {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := cloneStories(s.stories)
	for i := range out {
		out[i].Viewed = s.viewed[out[i].ID][email]
	}
	return out
}

// AddPost persists the post first so the database assigns its id, then
// prepends it to the feed. The poll shape invariant (poll iff type poll)
// is enforced here.
func (s *Store) AddPost(ctx context.Context, post models.Post) (models.Post, error) {
	if post.Type == models.PostTypePoll && post.Poll == nil {
		return models.Post{}, ErrMissingPoll
	}
	if post.Type != models.PostTypePoll && post.Poll != nil {
		return models.Post{}, ErrUnexpectedPoll
	}
	if post.LikedBy == nil {
		post.LikedBy = []string{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	post.Likes = len(post.LikedBy)
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}

	id, err := s.persister.InsertPost(ctx, &post)
	if err != nil {
		return models.Post{}, err
	}
	post.ID = id

	s.mu.Lock()
	s.posts = append([]models.Post{post}, s.posts...)
	s.mu.Unlock()
	return post, nil
}

// AddStory persists the story first, then prepends it
func (s *Store) AddStory(ctx context.Context, story models.Story) (models.Story, error) {
	if story.Reactions == nil {
		story.Reactions = []models.Reaction{}
	}
	if story.CreatedAt.IsZero() {
		story.CreatedAt = time.Now()
	}

	id, err := s.persister.InsertStory(ctx, &story)
	if err != nil {
		return models.Story{}, err
	}
	story.ID = id

	s.mu.Lock()
	s.stories = append([]models.Story{story}, s.stories...)
	s.mu.Unlock()
	return story, nil
}

// ToggleLike flips the email's membership in the post's like set. The
// counter moves in the same step, so likes == len(likedBy) holds after
// every call.
func (s *Store) ToggleLike(postID int64, email string) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findPost(postID)
	if p == nil {
		return models.Post{}, ErrPostNotFound
	}

	idx := -1
	for i, e := range p.LikedBy {
		if e == email {
			idx = i
			break
		}
	}
	if idx >= 0 {
		p.LikedBy = append(p.LikedBy[:idx], p.LikedBy[idx+1:]...)
	} else {
		p.LikedBy = append(p.LikedBy, email)
	}
	p.Likes = len(p.LikedBy)

	likes, likedBy := p.Likes, append([]string(nil), p.LikedBy...)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.persister.UpdateLikes(ctx, postID, likes, likedBy); err != nil {
			log.Warn().Err(err).Int64("post_id", postID).Msg("Failed to persist likes")
		}
	}()
	return clonePost(*p), nil
}

// AddComment appends a comment with a fresh identifier. Text validation
// beyond trimming is the caller's job.
func (s *Store) AddComment(postID int64, author models.User, text string) (models.Comment, error) {
	comment := models.Comment{
		ID:           uuid.New().String(),
		AuthorName:   author.Name,
		AuthorAvatar: author.Avatar,
		Text:         strings.TrimSpace(text),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findPost(postID)
	if p == nil {
		return models.Comment{}, ErrPostNotFound
	}
	p.Comments = append(p.Comments, comment)

	comments := append([]models.Comment(nil), p.Comments...)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.persister.UpdateComments(ctx, postID, comments); err != nil {
			log.Warn().Err(err).Int64("post_id", postID).Msg("Failed to persist comments")
		}
	}()
	return comment, nil
}

// Vote records a poll vote. A second vote from the same email is a
// silent no-op: one vote per user, immutable once cast.
func (s *Store) Vote(postID int64, optionID int, email string) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findPost(postID)
	if p == nil {
		return models.Post{}, ErrPostNotFound
	}
	if p.Type != models.PostTypePoll || p.Poll == nil {
		return models.Post{}, ErrNotPoll
	}
	if _, voted := p.Poll.VotedBy[email]; voted {
		return clonePost(*p), nil
	}

	found := false
	for i := range p.Poll.Options {
		if p.Poll.Options[i].ID == optionID {
			p.Poll.Options[i].Votes++
			found = true
			break
		}
	}
	if !found {
		return models.Post{}, ErrUnknownOption
	}
	if p.Poll.VotedBy == nil {
		p.Poll.VotedBy = make(map[string]int)
	}
	p.Poll.VotedBy[email] = optionID

	poll := clonePoll(p.Poll)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.persister.UpdatePoll(ctx, postID, poll); err != nil {
			log.Warn().Err(err).Int64("post_id", postID).Msg("Failed to persist poll vote")
		}
	}()
	return clonePost(*p), nil
}

// DeletePost removes a post. Only its authoring monitor may do so.
func (s *Store) DeletePost(postID int64, requesterName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.posts {
		if s.posts[i].ID == postID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrPostNotFound
	}
	if s.posts[idx].MonitorName != requesterName {
		return ErrNotAuthor
	}
	s.posts = append(s.posts[:idx], s.posts[idx+1:]...)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.persister.DeletePost(ctx, postID); err != nil {
			log.Warn().Err(err).Int64("post_id", postID).Msg("Failed to delete post")
		}
	}()
	return nil
}

// ReactToStory toggles or replaces the email's single story reaction:
// same emoji removes it, a different emoji replaces it, otherwise it is
// added.
func (s *Store) ReactToStory(storyID int64, email, emoji string) (models.Story, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.findStory(storyID)
	if st == nil {
		return models.Story{}, ErrStoryNotFound
	}

	idx := -1
	for i, r := range st.Reactions {
		if r.UserEmail == email {
			idx = i
			break
		}
	}
	switch {
	case idx >= 0 && st.Reactions[idx].Emoji == emoji:
		st.Reactions = append(st.Reactions[:idx], st.Reactions[idx+1:]...)
	case idx >= 0:
		st.Reactions[idx] = models.Reaction{UserEmail: email, Emoji: emoji}
	default:
		st.Reactions = append(st.Reactions, models.Reaction{UserEmail: email, Emoji: emoji})
	}

	reactions := append([]models.Reaction(nil), st.Reactions...)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.persister.UpdateReactions(ctx, storyID, reactions); err != nil {
			log.Warn().Err(err).Int64("story_id", storyID).Msg("Failed to persist story reactions")
		}
	}()
	return cloneStory(*st), nil
}

// MarkViewed flags a story as seen by the email for this process
// lifetime only.
func (s *Store) MarkViewed(storyID int64, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findStory(storyID) == nil {
		return ErrStoryNotFound
	}
	if s.viewed[storyID] == nil {
		s.viewed[storyID] = make(map[string]bool)
	}
	s.viewed[storyID][email] = true
	return nil
}

// OptionResult is one poll option with its share of the total vote
type OptionResult struct {
	ID      int     `json:"id"`
	Text    string  `json:"text"`
	Votes   int     `json:"votes"`
	Percent float64 `json:"percent"`
}

// PollResults computes the result bars shown once a user has voted.
// With no votes every option is 0%.
func PollResults(poll models.Poll) []OptionResult {
	total := 0
	for _, opt := range poll.Options {
		total += opt.Votes
	}
	results := make([]OptionResult, len(poll.Options))
	for i, opt := range poll.Options {
		pct := 0.0
		if total > 0 {
			pct = float64(opt.Votes) / float64(total) * 100
		}
		results[i] = OptionResult{ID: opt.ID, Text: opt.Text, Votes: opt.Votes, Percent: pct}
	}
	return results
}

// findPost returns a pointer into the slice; callers hold the lock
func (s *Store) findPost(id int64) *models.Post {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return &s.posts[i]
		}
	}
	return nil
}

func (s *Store) findStory(id int64) *models.Story {
	for i := range s.stories {
		if s.stories[i].ID == id {
			return &s.stories[i]
		}
	}
	return nil
}

func clonePost(p models.Post) models.Post {
	p.LikedBy = append([]string(nil), p.LikedBy...)
	p.Comments = append([]models.Comment(nil), p.Comments...)
	p.Poll = clonePoll(p.Poll)
	return p
}

func clonePoll(poll *models.Poll) *models.Poll {
	if poll == nil {
		return nil
	}
	cp := *poll
	cp.Options = append([]models.PollOption(nil), poll.Options...)
	cp.VotedBy = make(map[string]int, len(poll.VotedBy))
	for k, v := range poll.VotedBy {
		cp.VotedBy[k] = v
	}
	return &cp
}

func cloneStory(st models.Story) models.Story {
	st.Reactions = append([]models.Reaction(nil), st.Reactions...)
	return st
}

func clonePosts(posts []models.Post) []models.Post {
	out := make([]models.Post, len(posts))
	for i, p := range posts {
		out[i] = clonePost(p)
	}
	return out
}

func cloneStories(stories []models.Story) []models.Story {
	out := make([]models.Story, len(stories))
	for i, st := range stories {
		out[i] = cloneStory(st)
	}
	return out
}
