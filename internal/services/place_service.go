package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/shared-places/backend/internal/apperr"
	"github.com/anonto42/shared-places/backend/internal/models"
	"github.com/anonto42/shared-places/backend/internal/repositories"
	"github.com/anonto42/shared-places/backend/pkg/geocode"
	"github.com/anonto42/shared-places/backend/pkg/storage"
	"go.uber.org/zap"
)

// PlaceService owns places and keeps each creator's owned place set in step
// with the places that reference it.
type PlaceService struct {
	places   repositories.PlaceRepository
	users    repositories.UserRepository
	tx       repositories.Transactor
	geocoder geocode.Geocoder
	images   storage.ImageStore
	logger   *zap.Logger
}

func NewPlaceService(store *repositories.Store, geocoder geocode.Geocoder, images storage.ImageStore, logger *zap.Logger) *PlaceService {
	return &PlaceService{
		places:   store.Places,
		users:    store.Users,
		tx:       store.Tx,
		geocoder: geocoder,
		images:   images,
		logger:   logger,
	}
}

type CreatePlaceInput struct {
	Title       string
	Description string
	Address     string
	Image       string
	Creator     string
}

type UpdatePlaceInput struct {
	Title       string
	Description string
}

func (s *PlaceService) GetPlace(ctx context.Context, id string) (*models.Place, error) {
	place, err := s.places.GetPlaceByID(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, err, "Could not find a place for the provided id.", "Something went wrong, could not find a place.")
	}
	return place, nil
}

// GetPlacesByUser returns the user's places in creation order. A user without
// places gets an empty slice.
func (s *PlaceService) GetPlacesByUser(ctx context.Context, userID string) ([]models.Place, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, storeError(s.logger, err, "Could not find a user for the provided id.", "Fetching places failed, please try again later.")
	}
	places, err := s.places.GetPlacesByCreator(ctx, userID)
	if err != nil {
		return nil, storeError(s.logger, err, "", "Fetching places failed, please try again later.")
	}
	return places, nil
}

// CreatePlace geocodes the address, then inserts the place and appends it to
// the creator's owned places in one transaction.
func (s *PlaceService) CreatePlace(ctx context.Context, in CreatePlaceInput) (*models.Place, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Address = strings.TrimSpace(in.Address)
	if !required(in.Title, in.Description, in.Address, in.Creator) {
		return nil, apperr.New(apperr.Validation, invalidInputs)
	}

	if _, err := s.users.GetUserByID(ctx, in.Creator); err != nil {
		return nil, storeError(s.logger, err, "Could not find a user for the provided id.", "Creating place failed, please try again.")
	}

	coords, err := s.geocoder.Geocode(ctx, in.Address)
	if err != nil {
		if errors.Is(err, geocode.ErrNoResults) {
			return nil, apperr.Wrap(apperr.Validation, "Could not find location for the specified address.", err)
		}
		s.logger.Error("geocoding failed", zap.String("address", in.Address), zap.Error(err))
		return nil, apperr.Wrap(apperr.Internal, "Could not resolve the address, please try again.", err)
	}

	place := &models.Place{
		Title:       in.Title,
		Description: in.Description,
		Address:     in.Address,
		Location:    models.Location{Lat: coords.Lat, Lng: coords.Lng, PlusCode: coords.PlusCode},
		Image:       in.Image,
		Creator:     in.Creator,
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.places.CreatePlace(ctx, place); err != nil {
			return err
		}
		return s.users.AddPlace(ctx, in.Creator, place.ID)
	})
	if err != nil {
		return nil, storeError(s.logger, err, "Could not find a user for the provided id.", "Creating place failed, please try again.")
	}
	return place, nil
}

// UpdatePlace overwrites title and description. Only the creator may update.
func (s *PlaceService) UpdatePlace(ctx context.Context, id, actorID string, in UpdatePlaceInput) (*models.Place, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if !required(in.Title, in.Description) {
		return nil, apperr.New(apperr.Validation, invalidInputs)
	}

	place, err := s.places.GetPlaceByID(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, err, "Could not find a place for the provided id.", "Something went wrong, could not update place.")
	}
	if place.Creator != actorID {
		return nil, apperr.New(apperr.Forbidden, "You are not allowed to edit this place.")
	}

	place.Title = in.Title
	place.Description = in.Description
	if err := s.places.UpdatePlace(ctx, place); err != nil {
		return nil, storeError(s.logger, err, "Could not find a place for the provided id.", "Something went wrong, could not update place.")
	}
	return place, nil
}

// DeletePlace removes the place and its id from the creator's owned places in
// one transaction. The image is removed after commit; failures there are
// logged only.
func (s *PlaceService) DeletePlace(ctx context.Context, id, actorID string) error {
	place, err := s.places.GetPlaceByID(ctx, id)
	if err != nil {
		return storeError(s.logger, err, "Could not find a place for the provided id.", "Something went wrong, could not delete place.")
	}
	if place.Creator != actorID {
		return apperr.New(apperr.Forbidden, "You are not allowed to delete this place.")
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.places.DeletePlace(ctx, place.ID); err != nil {
			return err
		}
		// a missing owner has no back-reference left to remove
		if err := s.users.RemovePlace(ctx, place.Creator, place.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return storeError(s.logger, err, "Could not find a place for the provided id.", "Something went wrong, could not delete place.")
	}

	if place.Image != "" && s.images != nil {
		if err := s.images.Remove(ctx, place.Image); err != nil {
			s.logger.Warn("failed to remove place image", zap.String("place_id", place.ID), zap.String("image", place.Image), zap.Error(err))
		}
	}
	return nil
}
