package services

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/shared-places/backend/internal/apperr"
	"github.com/anonto42/shared-places/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPostService_CreateAndDelete(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	posts := NewPostService(store, zap.NewNop())
	owner := createUser(t, store, "writer@x.com")

	before := time.Now()
	post, err := posts.CreatePost(ctx, CreatePostInput{Title: "First", Body: "Hello there", Creator: owner.ID})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, post.Creator)
	assert.Equal(t, owner.Name, post.Name)
	assert.Equal(t, owner.Image, post.Avatar)
	assert.False(t, post.Date.Before(before))

	got := ownerOf(t, store, owner.ID)
	assert.Equal(t, []string{post.ID}, []string(got.Posts))

	require.NoError(t, posts.DeletePost(ctx, post.ID, owner.ID))
	assert.Empty(t, ownerOf(t, store, owner.ID).Posts)

	_, err = posts.GetPost(ctx, post.ID)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestPostService_CreatePost_Errors(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	posts := NewPostService(store, zap.NewNop())
	owner := createUser(t, store, "err@x.com")

	tests := []struct {
		name string
		in   CreatePostInput
		want apperr.Kind
	}{
		{"missing title", CreatePostInput{Body: "b", Creator: owner.ID}, apperr.Validation},
		{"blank body", CreatePostInput{Title: "t", Body: "  ", Creator: owner.ID}, apperr.Validation},
		{"unknown creator", CreatePostInput{Title: "t", Body: "b", Creator: "ghost"}, apperr.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := posts.CreatePost(ctx, tt.in)
			assert.Equal(t, tt.want, apperr.KindOf(err))
		})
	}

	all, err := posts.GetPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, ownerOf(t, store, owner.ID).Posts)
}

func TestPostService_CreatePost_RollsBack(t *testing.T) {
	ctx := context.Background()
	mem := repositories.NewMemoryDB()
	store := &repositories.Store{Users: &failingUsers{UserRepository: mem, addErr: errStore}, Places: mem, Posts: mem, Tx: mem}
	posts := NewPostService(store, zap.NewNop())
	owner := createUser(t, store, "rb@x.com")

	_, err := posts.CreatePost(ctx, CreatePostInput{Title: "t", Body: "b", Creator: owner.ID})
	assert.True(t, apperr.Is(err, apperr.Internal))

	all, err := mem.GetAllPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPostService_Listing(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	posts := NewPostService(store, zap.NewNop())
	alice := createUser(t, store, "alice@x.com")
	bob := createUser(t, store, "bob@x.com")

	mine, err := posts.GetPostsByUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	var ids []string
	for _, title := range []string{"one", "two"} {
		p, err := posts.CreatePost(ctx, CreatePostInput{Title: title, Body: "body", Creator: alice.ID})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	_, err = posts.CreatePost(ctx, CreatePostInput{Title: "bob's", Body: "body", Creator: bob.ID})
	require.NoError(t, err)

	alicePosts, err := posts.GetPostsByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, alicePosts, 2)
	assert.Equal(t, ids[0], alicePosts[0].ID)
	assert.Equal(t, ids[1], alicePosts[1].ID)

	all, err := posts.GetPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = posts.GetPostsByUser(ctx, "ghost")
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestPostService_UpdatePost(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	posts := NewPostService(store, zap.NewNop())
	owner := createUser(t, store, "upd@x.com")
	post, err := posts.CreatePost(ctx, CreatePostInput{Title: "t", Body: "b", Creator: owner.ID})
	require.NoError(t, err)

	updated, err := posts.UpdatePost(ctx, post.ID, owner.ID, UpdatePostInput{Title: "t2", Body: "b2"})
	require.NoError(t, err)
	assert.Equal(t, post.ID, updated.ID)
	assert.Equal(t, owner.ID, updated.Creator)
	assert.Equal(t, post.Date, updated.Date)

	stored, err := posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "t2", stored.Title)
	assert.Equal(t, "b2", stored.Body)

	tests := []struct {
		name  string
		id    string
		actor string
		in    UpdatePostInput
		want  apperr.Kind
	}{
		{"other user", post.ID, "intruder", UpdatePostInput{Title: "x", Body: "y"}, apperr.Forbidden},
		{"missing post", "missing", owner.ID, UpdatePostInput{Title: "x", Body: "y"}, apperr.NotFound},
		{"empty body", post.ID, owner.ID, UpdatePostInput{Title: "x"}, apperr.Validation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := posts.UpdatePost(ctx, tt.id, tt.actor, tt.in)
			assert.Equal(t, tt.want, apperr.KindOf(err))
		})
	}
}

func TestPostService_DeletePost_Forbidden(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	posts := NewPostService(store, zap.NewNop())
	owner := createUser(t, store, "del@x.com")
	post, err := posts.CreatePost(ctx, CreatePostInput{Title: "t", Body: "b", Creator: owner.ID})
	require.NoError(t, err)

	err = posts.DeletePost(ctx, post.ID, "intruder")
	assert.True(t, apperr.Is(err, apperr.Forbidden))
	assert.Contains(t, ownerOf(t, store, owner.ID).Posts, post.ID)

	err = posts.DeletePost(ctx, "missing", owner.ID)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}
