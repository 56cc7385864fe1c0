package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"camp-hub-backend/internal/feed"
	"camp-hub-backend/internal/metrics"
	"camp-hub-backend/internal/middleware"
	"camp-hub-backend/internal/models"
	"camp-hub-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ImageStorer uploads an inline data-URI image and returns its public
// URL; satisfied by *services.MediaService.
type ImageStorer interface {
	StoreDataURI(ctx context.Context, dataURI string) (string, error)
}

// CommunityHandler handles the community feed HTTP surface
type CommunityHandler struct {
	store *feed.Store
	media ImageStorer // nil when no media storage is configured
	hub   *services.FeedHub
}

// NewCommunityHandler creates a new community handler
func NewCommunityHandler(store *feed.Store, media ImageStorer, hub *services.FeedHub) *CommunityHandler {
	return &CommunityHandler{store: store, media: media, hub: hub}
}

// FeedResponse is the combined community feed
type FeedResponse struct {
	Posts   []models.Post  `json:"posts"`
	Stories []models.Story `json:"stories"`
}

// GetFeed handles GET /api/community/feed
func (h *CommunityHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	respondJSON(w, FeedResponse{
		Posts:   h.store.Posts(),
		Stories: h.store.Stories(user.Email),
	}, http.StatusOK)
}

// CreatePostRequest represents the creation-modal payload for a post
type CreatePostRequest struct {
	CampID  int64  `json:"camp_id"`
	Type    string `json:"type"`
	Caption string `json:"caption"`
	Image   string `json:"image,omitempty"` // data URI
	Poll    *struct {
		Question string   `json:"question"`
		Options  []string `json:"options"`
	} `json:"poll,omitempty"`
}

// CreatePost handles POST /api/community/posts (monitor only)
func (h *CommunityHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := requireMonitor(w, r)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Caption) == "" {
		respondError(w, "caption is required", http.StatusBadRequest)
		return
	}

	post := models.Post{
		CampID:        req.CampID,
		Type:          req.Type,
		MonitorName:   user.Name,
		MonitorAvatar: user.Avatar,
		Caption:       req.Caption,
	}

	switch req.Type {
	case models.PostTypePhoto:
		if req.Image == "" {
			respondError(w, "image is required for photo posts", http.StatusBadRequest)
			return
		}
		url, err := h.resolveImage(r.Context(), req.Image)
		if err != nil {
			log.Error().Err(err).Str("monitor", user.Name).Msg("Failed to store post image")
			respondError(w, "Failed to store image", http.StatusInternalServerError)
			return
		}
		post.ImageURL = url
	case models.PostTypePoll:
		if req.Poll == nil || strings.TrimSpace(req.Poll.Question) == "" || len(req.Poll.Options) < 2 {
			respondError(w, "poll posts need a question and at least two options", http.StatusBadRequest)
			return
		}
		options := make([]models.PollOption, 0, len(req.Poll.Options))
		for i, text := range req.Poll.Options {
			if strings.TrimSpace(text) == "" {
				continue
			}
			options = append(options, models.PollOption{ID: i + 1, Text: text})
		}
		if len(options) < 2 {
			respondError(w, "poll posts need at least two non-empty options", http.StatusBadRequest)
			return
		}
		post.Poll = &models.Poll{
			Question: req.Poll.Question,
			Options:  options,
			VotedBy:  map[string]int{},
		}
	case models.PostTypeText:
		// caption only
	default:
		respondError(w, "type must be photo, poll or text", http.StatusBadRequest)
		return
	}

	created, err := h.store.AddPost(r.Context(), post)
	if err != nil {
		log.Error().Err(err).Str("monitor", user.Name).Msg("Failed to add post")
		respondError(w, "Failed to add post", http.StatusInternalServerError)
		return
	}

	metrics.FeedMutations.WithLabelValues("add_post").Inc()
	h.hub.Broadcast(services.FeedEvent{Type: services.EventPostCreated, PostID: created.ID, Data: created})
	respondJSON(w, created, http.StatusCreated)
}

// DeletePost handles DELETE /api/community/posts/{id} (authoring monitor only)
func (h *CommunityHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	user, ok := requireMonitor(w, r)
	if !ok {
		return
	}
	postID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeletePost(postID, user.Name); err != nil {
		switch {
		case errors.Is(err, feed.ErrPostNotFound):
			respondError(w, "Post not found", http.StatusNotFound)
		case errors.Is(err, feed.ErrNotAuthor):
			respondError(w, "Only the author can delete a post", http.StatusForbidden)
		default:
			respondError(w, "Failed to delete post", http.StatusInternalServerError)
		}
		return
	}

	metrics.FeedMutations.WithLabelValues("delete_post").Inc()
	h.hub.Broadcast(services.FeedEvent{Type: services.EventPostDeleted, PostID: postID})
	w.WriteHeader(http.StatusNoContent)
}

// Like handles POST /api/community/posts/{id}/like
func (h *CommunityHandler) Like(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	postID, ok := pathID(w, r)
	if !ok {
		return
	}

	post, err := h.store.ToggleLike(postID, user.Email)
	if err != nil {
		respondError(w, "Post not found", http.StatusNotFound)
		return
	}

	metrics.FeedMutations.WithLabelValues("like").Inc()
	h.hub.Broadcast(services.FeedEvent{Type: services.EventPostLiked, PostID: postID, Data: map[string]any{
		"likes": post.Likes, "liked_by": post.LikedBy,
	}})
	respondJSON(w, post, http.StatusOK)
}

// AddCommentRequest represents the request body for commenting
type AddCommentRequest struct {
	Text string `json:"text"`
}

// AddComment handles POST /api/community/posts/{id}/comments
func (h *CommunityHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	postID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, "text is required", http.StatusBadRequest)
		return
	}

	comment, err := h.store.AddComment(postID, user, req.Text)
	if err != nil {
		respondError(w, "Post not found", http.StatusNotFound)
		return
	}

	metrics.FeedMutations.WithLabelValues("comment").Inc()
	h.hub.Broadcast(services.FeedEvent{Type: services.EventPostCommented, PostID: postID, Data: comment})
	respondJSON(w, comment, http.StatusCreated)
}

// VoteRequest represents the request body for a poll vote
type VoteRequest struct {
	OptionID int `json:"option_id"`
}

// VoteResponse carries the updated post plus the computed result bars
type VoteResponse struct {
	Post    models.Post         `json:"post"`
	Results []feed.OptionResult `json:"results"`
}

// Vote handles POST /api/community/posts/{id}/vote
func (h *CommunityHandler) Vote(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	postID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.store.Vote(postID, req.OptionID, user.Email)
	if err != nil {
		switch {
		case errors.Is(err, feed.ErrPostNotFound):
			respondError(w, "Post not found", http.StatusNotFound)
		case errors.Is(err, feed.ErrNotPoll):
			respondError(w, "Post is not a poll", http.StatusBadRequest)
		case errors.Is(err, feed.ErrUnknownOption):
			respondError(w, "Unknown poll option", http.StatusBadRequest)
		default:
			respondError(w, "Failed to vote", http.StatusInternalServerError)
		}
		return
	}

	metrics.FeedMutations.WithLabelValues("vote").Inc()
	h.hub.Broadcast(services.FeedEvent{Type: services.EventPollVoted, PostID: postID, Data: post.Poll})
	respondJSON(w, VoteResponse{Post: post, Results: feed.PollResults(*post.Poll)}, http.StatusOK)
}

// CreateStoryRequest represents the creation-modal payload for a story
type CreateStoryRequest struct {
	Image   string `json:"image"` // data URI
	Caption string `json:"caption"`
}

// CreateStory handles POST /api/community/stories (monitor only)
func (h *CommunityHandler) CreateStory(w http.ResponseWriter, r *http.Request) {
	user, ok := requireMonitor(w, r)
	if !ok {
		return
	}

	var req CreateStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Image == "" {
		respondError(w, "image is required", http.StatusBadRequest)
		return
	}

	url, err := h.resolveImage(r.Context(), req.Image)
	if err != nil {
		log.Error().Err(err).Str("monitor", user.Name).Msg("Failed to store story image")
		respondError(w, "Failed to store image", http.StatusInternalServerError)
		return
	}

	created, err := h.store.AddStory(r.Context(), models.Story{
		MonitorName:   user.Name,
		MonitorAvatar: user.Avatar,
		ImageURL:      url,
		Caption:       req.Caption,
	})
	if err != nil {
		log.Error().Err(err).Str("monitor", user.Name).Msg("Failed to add story")
		respondError(w, "Failed to add story", http.StatusInternalServerError)
		return
	}

	metrics.FeedMutations.WithLabelValues("add_story").Inc()
	h.hub.Broadcast(services.FeedEvent{Type: services.EventStoryCreated, StoryID: created.ID, Data: created})
	respondJSON(w, created, http.StatusCreated)
}

// ReactRequest represents the request body for a story reaction
type ReactRequest struct {
	Emoji string `json:"emoji"`
}

// React handles POST /api/community/stories/{id}/react
func (h *CommunityHandler) React(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	storyID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req ReactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Emoji == "" {
		respondError(w, "emoji is required", http.StatusBadRequest)
		return
	}

	story, err := h.store.ReactToStory(storyID, user.Email, req.Emoji)
	if err != nil {
		respondError(w, "Story not found", http.StatusNotFound)
		return
	}

	metrics.FeedMutations.WithLabelValues("react").Inc()
	h.hub.Broadcast(services.FeedEvent{Type: services.EventStoryReacted, StoryID: storyID, Data: story.Reactions})
	respondJSON(w, story, http.StatusOK)
}

// MarkViewed handles POST /api/community/stories/{id}/viewed
func (h *CommunityHandler) MarkViewed(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	storyID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.MarkViewed(storyID, user.Email); err != nil {
		respondError(w, "Story not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolveImage uploads data URIs when media storage is configured;
// plain URLs (and data URIs without storage) pass through unchanged.
func (h *CommunityHandler) resolveImage(ctx context.Context, image string) (string, error) {
	if h.media == nil || !strings.HasPrefix(image, "data:") {
		return image, nil
	}
	return h.media.StoreDataURI(ctx, image)
}

// requireMonitor resolves the session user and enforces the monitor role
func requireMonitor(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, "Authentication required", http.StatusUnauthorized)
		return models.User{}, false
	}
	if user.Role != models.RoleMonitor {
		respondError(w, "Monitor role required", http.StatusForbidden)
		return models.User{}, false
	}
	return user, true
}

// pathID parses the {id} URL parameter
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, "Invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
