package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"camp-hub-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePersister records writes and can be told to fail. Every completed
// call (success or failure) is signalled on done so tests can wait for
// the async write-through without sleeping.
type fakePersister struct {
	mu       sync.Mutex
	nextID   int64
	fail     bool
	likes    map[int64][]string
	comments map[int64][]models.Comment
	polls    map[int64]*models.Poll
	deleted  []int64
	done     chan string
}

func newFakePersister() *fakePersister {
	return &fakePersister{
		nextID:   100,
		likes:    make(map[int64][]string),
		comments: make(map[int64][]models.Comment),
		polls:    make(map[int64]*models.Poll),
		done:     make(chan string, 16),
	}
}

func (p *fakePersister) signal(op string) error {
	defer func() { p.done <- op }()
	if p.fail {
		return errors.New("database unavailable")
	}
	return nil
}

func (p *fakePersister) LoadPosts(context.Context) ([]models.Post, error)    { return nil, nil }
func (p *fakePersister) LoadStories(context.Context) ([]models.Story, error) { return nil, nil }

func (p *fakePersister) InsertPost(_ context.Context, _ *models.Post) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return 0, errors.New("database unavailable")
	}
	p.nextID++
	return p.nextID, nil
}

func (p *fakePersister) InsertStory(_ context.Context, _ *models.Story) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return 0, errors.New("database unavailable")
	}
	p.nextID++
	return p.nextID, nil
}

func (p *fakePersister) UpdateLikes(_ context.Context, postID int64, _ int, likedBy []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.likes[postID] = likedBy
	return p.signal("likes")
}

func (p *fakePersister) UpdateComments(_ context.Context, postID int64, comments []models.Comment) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.comments[postID] = comments
	return p.signal("comments")
}

func (p *fakePersister) UpdatePoll(_ context.Context, postID int64, poll *models.Poll) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.polls[postID] = poll
	return p.signal("poll")
}

func (p *fakePersister) UpdateReactions(_ context.Context, storyID int64, _ []models.Reaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.signal("reactions")
}

func (p *fakePersister) DeletePost(_ context.Context, postID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, postID)
	return p.signal("delete")
}

func (p *fakePersister) wait(t *testing.T, op string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-p.done:
			if got == op {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q persistence call", op)
		}
	}
}

var monitor = models.User{Name: "Marta", Email: "marta@camp.example", Avatar: "a.png", Role: models.RoleMonitor}

func seedPost(t *testing.T, s *Store, post models.Post) models.Post {
	t.Helper()
	created, err := s.AddPost(context.Background(), post)
	require.NoError(t, err)
	return created
}

func textPost() models.Post {
	return models.Post{
		CampID:        1,
		Type:          models.PostTypeText,
		MonitorName:   monitor.Name,
		MonitorAvatar: monitor.Avatar,
		Caption:       "First bonfire tonight!",
	}
}

func pollPost() models.Post {
	return models.Post{
		CampID:        1,
		Type:          models.PostTypePoll,
		MonitorName:   monitor.Name,
		MonitorAvatar: monitor.Avatar,
		Caption:       "Pick tomorrow's activity",
		Poll: &models.Poll{
			Question: "Kayak or hike?",
			Options: []models.PollOption{
				{ID: 1, Text: "Kayak"},
				{ID: 2, Text: "Hike"},
			},
			VotedBy: map[string]int{},
		},
	}
}

func TestToggleLikeKeepsCounterInLockstep(t *testing.T) {
	p := newFakePersister()
	s := NewStore(p)
	post := seedPost(t, s, textPost())

	// arbitrary sequence of likes and unlikes
	sequence := []string{"a@x.com", "b@x.com", "a@x.com", "c@x.com", "b@x.com", "b@x.com"}
	for _, email := range sequence {
		got, err := s.ToggleLike(post.ID, email)
		require.NoError(t, err)
		assert.Equal(t, len(got.LikedBy), got.Likes, "likes must equal len(likedBy) after every step")
	}

	// after the sequence b and c are liked; one more toggle adds a back
	final, err := s.ToggleLike(post.ID, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 3, final.Likes)
	assert.ElementsMatch(t, []string{"a@x.com", "b@x.com", "c@x.com"}, final.LikedBy)
}

func TestToggleLikeTwiceRestoresOriginalState(t *testing.T) {
	p := newFakePersister()
	s := NewStore(p)
	post := textPost()
	post.LikedBy = []string{"a@x.com"}
	created := seedPost(t, s, post)
	require.Equal(t, 1, created.Likes)

	liked, err := s.ToggleLike(created.ID, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, 2, liked.Likes)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, liked.LikedBy)

	unliked, err := s.ToggleLike(created.ID, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, 1, unliked.Likes)
	assert.Equal(t, []string{"a@x.com"}, unliked.LikedBy)
}

func TestToggleLikeSurvivesPersistenceFailure(t *testing.T) {
	p := newFakePersister()
	s := NewStore(p)
	post := seedPost(t, s, textPost())

	p.mu.Lock()
	p.fail = true
	p.mu.Unlock()

	got, err := s.ToggleLike(post.ID, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)

	p.wait(t, "likes")

	// no rollback: the local state still shows the like
	posts := s.Posts()
	require.Len(t, posts, 1)
	assert.Equal(t, 1, posts[0].Likes)
	assert.Equal(t, []string{"a@x.com"}, posts[0].LikedBy)
}

func TestAddCommentAppendsWithFreshID(t *testing.T) {
	p := newFakePersister()
	s := NewStore(p)
	post := seedPost(t, s, textPost())

	c1, err := s.AddComment(post.ID, models.User{Name: "Ana", Avatar: "ana.png"}, "  looks great!  ")
	require.NoError(t, err)
	c2, err := s.AddComment(post.ID, models.User{Name: "Ben"}, "wish I was there")
	require.NoError(t, err)

	assert.NotEmpty(t, c1.ID)
	assert.NotEqual(t, c1.ID, c2.ID)
	assert.Equal(t, "looks great!", c1.Text)

	posts := s.Posts()
	require.Len(t, posts, 1)
	require.Len(t, posts[0].Comments, 2)
	assert.Equal(t, "Ana", posts[0].Comments[0].AuthorName)

	p.wait(t, "comments")
	p.wait(t, "comments")
	p.mu.Lock()
	defer p.mu.Unlock()
	assert.Len(t, p.comments[post.ID], 2)
}

func TestVoteOncePerEmailImmutable(t *testing.T) {
	p := newFakePersister()
	s := NewStore(p)
	post := seedPost(t, s, pollPost())

	first, err := s.Vote(post.ID, 1, "c@x.com")
	require.NoError(t, err)
	require.NotNil(t, first.Poll)
	assert.Equal(t, 1, first.Poll.Options[0].Votes)
	assert.Equal(t, 0, first.Poll.Options[1].Votes)
	assert.Equal(t, map[string]int{"c@x.com": 1}, first.Poll.VotedBy)

	// voting again, even for a different option, is a no-op
	second, err := s.Vote(post.ID, 2, "c@x.com")
	require.NoError(t, err)
	assert.Equal(t, first.Poll.Options, second.Poll.Options)
	assert.Equal(t, first.Poll.VotedBy, second.Poll.VotedBy)
}

func TestVoteTalliesMatchVotedBy(t *testing.T) {
	p := newFakePersister()
	s := NewStore(p)
	post := seedPost(t, s, pollPost())

	voters := map[string]int{"a@x.com": 1, "b@x.com": 2, "c@x.com": 1, "d@x.com": 1}
	for email, option := range voters {
		_, err := s.Vote(post.ID, option, email)
		require.NoError(t, err)
	}

	posts := s.Posts()
	require.Len(t, posts, 1)
	poll := posts[0].Poll
	require.NotNil(t, poll)

	for _, opt := range poll.Options {
		count := 0
		for _, chosen := range poll.VotedBy {
			if chosen == opt.ID {
				count++
			}
		}
		assert.Equal(t, count, opt.Votes, "option %d tally must match votedBy", opt.ID)
	}
}

func TestVoteRejectsNonPollAndUnknownOption(t *testing.T) {
	p := newFakePersister()
	s := NewStore(p)
	text := seedPost(t, s, textPost())
	poll := seedPost(t, s, pollPost())

	_, err := s.Vote(text.ID, 1, "a@x.com")
	assert.ErrorIs(t, err, ErrNotPoll)

	_, err = s.Vote(poll.ID, 99, "a@x.com")
	assert.ErrorIs(t, err, ErrUnknownOption)
}

func TestPollResults(t *testing.T) {
	poll := models.Poll{
		Options: []models.PollOption{
			{ID: 1, Text: "Kayak", Votes: 3},
			{ID: 2, Text: "Hike", Votes: 1},
		},
	}
	results := PollResults(poll)
	require.Len(t, results, 2)
	assert.InDelta(t, 75.0, results[0].Percent, 0.001)
	assert.InDelta(t, 25.0, results[1].Percent, 0.001)

	// zero total votes renders as all-zero bars, not a division by zero
	empty := PollResults(models.Poll{Options: []models.PollOption{{ID: 1}, {ID: 2}}})
	assert.Equal(t, 0.0, empty[0].Percent)
	assert.Equal(t, 0.0, empty[1].Percent)
}

func TestDeletePostAuthorOnly(t *testing.T) {
	p := newFakePersister()
	s := NewStore(p)
	post := seedPost(t, s, textPost())

	err := s.DeletePost(post.ID, "Impostor")
	assert.ErrorIs(t, err, ErrNotAuthor)
	assert.Len(t, s.Posts(), 1)

	require.NoError(t, s.DeletePost(post.ID, monitor.Name))
	assert.Empty(t, s.Posts())

	p.wait(t, "delete")
	p.mu.Lock()
	defer p.mu.Unlock()
	assert.Equal(t, []int64{post.ID}, p.deleted)
}

func TestReactToStoryToggleAndReplace(t *testing.T) {
	p := newFakePersister()
	s := NewStore(p)
	story, err := s.AddStory(context.Background(), models.Story{
		MonitorName:   monitor.Name,
		MonitorAvatar: monitor.Avatar,
		ImageURL:      "https://cdn.example/story.jpg",
	})
	require.NoError(t, err)

	got, err := s.ReactToStory(story.ID, "a@x.com", "❤️")
	require.NoError(t, err)
	require.Len(t, got.Reactions, 1)

	// a different emoji replaces, never adds
	got, err = s.ReactToStory(story.ID, "a@x.com", "😂")
	require.NoError(t, err)
	require.Len(t, got.Reactions, 1)
	assert.Equal(t, "😂", got.Reactions[0].Emoji)

	// the same emoji toggles the reaction off
	got, err = s.ReactToStory(story.ID, "a@x.com", "😂")
	require.NoError(t, err)
	assert.Empty(t, got.Reactions)

	// independent users keep independent reactions
	_, err = s.ReactToStory(story.ID, "a@x.com", "👍")
	require.NoError(t, err)
	got, err = s.ReactToStory(story.ID, "b@x.com", "❤️")
	require.NoError(t, err)
	assert.Len(t, got.Reactions, 2)
}

func TestAddPostAssignsIDFromPersister(t *testing.T) {
	p := newFakePersister()
	s := NewStore(p)

	first := seedPost(t, s, textPost())
	second := seedPost(t, s, textPost())
	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	// newest first
	posts := s.Posts()
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
}

func TestAddPostFailsWhenInsertFails(t *testing.T) {
	p := newFakePersister()
	p.fail = true
	s := NewStore(p)

	_, err := s.AddPost(context.Background(), textPost())
	require.Error(t, err)
	assert.Empty(t, s.Posts())
}

func TestAddPostEnforcesPollShape(t *testing.T) {
	p := newFakePersister()
	s := NewStore(p)

	missing := pollPost()
	missing.Poll = nil
	_, err := s.AddPost(context.Background(), missing)
	assert.ErrorIs(t, err, ErrMissingPoll)

	extra := textPost()
	extra.Poll = &models.Poll{Question: "?"}
	_, err = s.AddPost(context.Background(), extra)
	assert.ErrorIs(t, err, ErrUnexpectedPoll)
}

func TestMarkViewedIsPerEmailAndNotPersisted(t *testing.T) {
	p := newFakePersister()
	s := NewStore(p)
	story, err := s.AddStory(context.Background(), models.Story{MonitorName: monitor.Name, ImageURL: "x.jpg"})
	require.NoError(t, err)

	require.NoError(t, s.MarkViewed(story.ID, "a@x.com"))

	forA := s.Stories("a@x.com")
	forB := s.Stories("b@x.com")
	require.Len(t, forA, 1)
	assert.True(t, forA[0].Viewed)
	assert.False(t, forB[0].Viewed)
}

func TestSnapshotsAreIsolatedCopies(t *testing.T) {
	p := newFakePersister()
	s := NewStore(p)
	post := seedPost(t, s, pollPost())

	snap := s.Posts()
	snap[0].LikedBy = append(snap[0].LikedBy, "tamper@x.com")
	snap[0].Poll.VotedBy["tamper@x.com"] = 1

	fresh := s.Posts()
	assert.Empty(t, fresh[0].LikedBy)
	assert.Empty(t, fresh[0].Poll.VotedBy)
	_ = post
}
