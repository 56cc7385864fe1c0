package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"camp-hub-backend/internal/feed"
	"camp-hub-backend/internal/middleware"
	"camp-hub-backend/internal/models"
	"camp-hub-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memPersister backs the feed store with process memory only; id
// assignment stands in for the database sequence.
type memPersister struct {
	nextID atomic.Int64
}

func (p *memPersister) LoadPosts(context.Context) ([]models.Post, error)    { return nil, nil }
func (p *memPersister) LoadStories(context.Context) ([]models.Story, error) { return nil, nil }

func (p *memPersister) InsertPost(context.Context, *models.Post) (int64, error) {
	return p.nextID.Add(1), nil
}

func (p *memPersister) InsertStory(context.Context, *models.Story) (int64, error) {
	return p.nextID.Add(1), nil
}

func (p *memPersister) UpdateLikes(context.Context, int64, int, []string) error       { return nil }
func (p *memPersister) UpdateComments(context.Context, int64, []models.Comment) error { return nil }
func (p *memPersister) UpdatePoll(context.Context, int64, *models.Poll) error         { return nil }

func (p *memPersister) UpdateReactions(context.Context, int64, []models.Reaction) error {
	return nil
}

func (p *memPersister) DeletePost(context.Context, int64) error { return nil }

type fakeImageStore struct{ calls int }

func (f *fakeImageStore) StoreDataURI(_ context.Context, _ string) (string, error) {
	f.calls++
	return "https://media.example.com/img.png", nil
}

func asUser(user models.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), user)))
		})
	}
}

var (
	monitorClara = models.User{Name: "Clara", Email: "clara@camp.example", Role: models.RoleMonitor}
	parentAna    = models.User{Name: "Ana", Email: "ana@example.com", Role: models.RoleParent}
)

func communityRouter(t *testing.T, user models.User, media ImageStorer) (http.Handler, *feed.Store) {
	t.Helper()
	store := feed.NewStore(&memPersister{})
	h := NewCommunityHandler(store, media, services.NewFeedHub())

	r := chi.NewRouter()
	r.Use(asUser(user))
	r.Get("/api/community/feed", h.GetFeed)
	r.Post("/api/community/posts", h.CreatePost)
	r.Delete("/api/community/posts/{id}", h.DeletePost)
	r.Post("/api/community/posts/{id}/like", h.Like)
	r.Post("/api/community/posts/{id}/comments", h.AddComment)
	r.Post("/api/community/posts/{id}/vote", h.Vote)
	r.Post("/api/community/stories", h.CreateStory)
	r.Post("/api/community/stories/{id}/react", h.React)
	r.Post("/api/community/stories/{id}/viewed", h.MarkViewed)
	return r, store
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreatePostRequiresMonitorRole(t *testing.T) {
	router, _ := communityRouter(t, parentAna, nil)
	rec := doJSON(t, router, http.MethodPost, "/api/community/posts",
		`{"type": "text", "caption": "hi"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateTextPost(t *testing.T) {
	router, store := communityRouter(t, monitorClara, nil)
	rec := doJSON(t, router, http.MethodPost, "/api/community/posts",
		`{"camp_id": 2, "type": "text", "caption": "Great day at the lake"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Post
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Clara", created.MonitorName)
	require.Len(t, store.Posts(), 1)
}

func TestCreatePhotoPostUploadsDataURI(t *testing.T) {
	media := &fakeImageStore{}
	router, _ := communityRouter(t, monitorClara, media)

	rec := doJSON(t, router, http.MethodPost, "/api/community/posts",
		`{"type": "photo", "caption": "sunset", "image": "data:image/png;base64,aGk="}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Post
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "https://media.example.com/img.png", created.ImageURL)
	assert.Equal(t, 1, media.calls)
}

func TestCreatePhotoPostWithoutImageIsRejected(t *testing.T) {
	router, _ := communityRouter(t, monitorClara, nil)
	rec := doJSON(t, router, http.MethodPost, "/api/community/posts",
		`{"type": "photo", "caption": "sunset"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePollPostNeedsTwoOptions(t *testing.T) {
	router, _ := communityRouter(t, monitorClara, nil)
	rec := doJSON(t, router, http.MethodPost, "/api/community/posts",
		`{"type": "poll", "caption": "vote!", "poll": {"question": "Best activity?", "options": ["Kayak"]}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLikeAndVoteRoundTrip(t *testing.T) {
	router, store := communityRouter(t, parentAna, nil)
	_, err := store.AddPost(context.Background(), models.Post{
		Type:        models.PostTypePoll,
		MonitorName: "Clara",
		Caption:     "vote!",
		Poll: &models.Poll{
			Question: "Best activity?",
			Options:  []models.PollOption{{ID: 1, Text: "Kayak"}, {ID: 2, Text: "Hike"}},
			VotedBy:  map[string]int{},
		},
	})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, "/api/community/posts/1/like", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var liked models.Post
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&liked))
	assert.Equal(t, 1, liked.Likes)
	assert.Equal(t, []string{"ana@example.com"}, liked.LikedBy)

	rec = doJSON(t, router, http.MethodPost, "/api/community/posts/1/vote", `{"option_id": 2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var voted VoteResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&voted))
	assert.Equal(t, 2, voted.Post.Poll.VotedBy["ana@example.com"])
	require.Len(t, voted.Results, 2)
	assert.Equal(t, float64(100), voted.Results[1].Percent)

	// a second vote is a silent no-op, the first one is immutable
	rec = doJSON(t, router, http.MethodPost, "/api/community/posts/1/vote", `{"option_id": 1}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	fresh := store.Posts()
	assert.Equal(t, 2, fresh[0].Poll.VotedBy["ana@example.com"])
}

func TestVoteOnNonPollIs400(t *testing.T) {
	router, store := communityRouter(t, parentAna, nil)
	_, err := store.AddPost(context.Background(), models.Post{
		Type: models.PostTypeText, MonitorName: "Clara", Caption: "hi",
	})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, "/api/community/posts/1/vote", `{"option_id": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeletePostOnlyByAuthor(t *testing.T) {
	otherMonitor := models.User{Name: "Marc", Email: "marc@camp.example", Role: models.RoleMonitor}
	router, store := communityRouter(t, otherMonitor, nil)
	_, err := store.AddPost(context.Background(), models.Post{
		Type: models.PostTypeText, MonitorName: "Clara", Caption: "hi",
	})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodDelete, "/api/community/posts/1", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.Len(t, store.Posts(), 1)
}

func TestStoryReactAndViewed(t *testing.T) {
	router, store := communityRouter(t, parentAna, nil)
	_, err := store.AddStory(context.Background(), models.Story{
		MonitorName: "Clara", ImageURL: "https://media.example.com/s.png",
	})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, "/api/community/stories/1/react", `{"emoji": "🔥"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var story models.Story
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&story))
	require.Len(t, story.Reactions, 1)
	assert.Equal(t, "🔥", story.Reactions[0].Emoji)

	rec = doJSON(t, router, http.MethodPost, "/api/community/stories/1/viewed", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/community/feed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp FeedResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Stories, 1)
	assert.True(t, resp.Stories[0].Viewed)
}

func TestFeedNewestFirst(t *testing.T) {
	router, store := communityRouter(t, parentAna, nil)
	for _, caption := range []string{"first", "second"} {
		_, err := store.AddPost(context.Background(), models.Post{
			Type: models.PostTypeText, MonitorName: "Clara", Caption: caption,
		})
		require.NoError(t, err)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/community/feed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp FeedResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Posts, 2)
	assert.Equal(t, "second", resp.Posts[0].Caption)
}
