package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/shared-places/backend/internal/apperr"
	"github.com/anonto42/shared-places/backend/internal/models"
	"github.com/anonto42/shared-places/backend/internal/repositories"
	"go.uber.org/zap"
)

// PostService owns posts and keeps each creator's owned post set in step with
// the posts that reference it.
type PostService struct {
	posts  repositories.PostRepository
	users  repositories.UserRepository
	tx     repositories.Transactor
	logger *zap.Logger
}

func NewPostService(store *repositories.Store, logger *zap.Logger) *PostService {
	return &PostService{
		posts:  store.Posts,
		users:  store.Users,
		tx:     store.Tx,
		logger: logger,
	}
}

type CreatePostInput struct {
	Title   string
	Body    string
	Creator string
}

type UpdatePostInput struct {
	Title string
	Body  string
}

func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, err, "Could not find a post for that id.", "Something went wrong, could not find a post.")
	}
	return post, nil
}

func (s *PostService) GetPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.posts.GetAllPosts(ctx)
	if err != nil {
		return nil, storeError(s.logger, err, "", "Fetching posts failed, please try again later.")
	}
	return posts, nil
}

func (s *PostService) GetPostsByUser(ctx context.Context, userID string) ([]models.Post, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, storeError(s.logger, err, "Could not find a user for the provided id.", "Fetching posts failed, please try again later.")
	}
	posts, err := s.posts.GetPostsByCreator(ctx, userID)
	if err != nil {
		return nil, storeError(s.logger, err, "", "Fetching posts failed, please try again later.")
	}
	return posts, nil
}

// CreatePost inserts the post and appends it to the creator's owned posts in
// one transaction. The creator's name and image are copied onto the post.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	if !required(in.Title, strings.TrimSpace(in.Body), in.Creator) {
		return nil, apperr.New(apperr.Validation, invalidInputs)
	}

	creator, err := s.users.GetUserByID(ctx, in.Creator)
	if err != nil {
		return nil, storeError(s.logger, err, "Could not find a user for the provided id.", "Creating post failed, please try again.")
	}

	post := &models.Post{
		Title:   in.Title,
		Body:    in.Body,
		Name:    creator.Name,
		Avatar:  creator.Image,
		Creator: creator.ID,
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.posts.CreatePost(ctx, post); err != nil {
			return err
		}
		return s.users.AddPost(ctx, creator.ID, post.ID)
	})
	if err != nil {
		return nil, storeError(s.logger, err, "Could not find a user for the provided id.", "Creating post failed, please try again.")
	}
	return post, nil
}

// UpdatePost overwrites title and body. Only the creator may update.
func (s *PostService) UpdatePost(ctx context.Context, id, actorID string, in UpdatePostInput) (*models.Post, error) {
	if !required(strings.TrimSpace(in.Title), strings.TrimSpace(in.Body)) {
		return nil, apperr.New(apperr.Validation, invalidInputs)
	}

	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, err, "Could not find a post for that id.", "Something went wrong, could not update post.")
	}
	if post.Creator != actorID {
		return nil, apperr.New(apperr.Forbidden, "You are not allowed to edit this post.")
	}

	post.Title = strings.TrimSpace(in.Title)
	post.Body = in.Body
	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, storeError(s.logger, err, "Could not find a post for that id.", "Something went wrong, could not update post.")
	}
	return post, nil
}

// DeletePost removes the post and its id from the creator's owned posts in one
// transaction.
func (s *PostService) DeletePost(ctx context.Context, id, actorID string) error {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return storeError(s.logger, err, "Could not find a post for that id.", "Something went wrong, could not delete post.")
	}
	if post.Creator != actorID {
		return apperr.New(apperr.Forbidden, "You are not allowed to delete this post.")
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.posts.DeletePost(ctx, post.ID); err != nil {
			return err
		}
		if err := s.users.RemovePost(ctx, post.Creator, post.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return storeError(s.logger, err, "Could not find a post for that id.", "Something went wrong, could not delete post.")
	}
	return nil
}
