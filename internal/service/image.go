package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/uniliving/backend/internal/model"
	"github.com/uniliving/backend/internal/repository"
)

// ImageStore is the persistence surface for image metadata, implemented by
// *repository.ImageRepo.
type ImageStore interface {
	Insert(ctx context.Context, img *model.PropertyImage) error
	ByID(ctx context.Context, id uint64) (model.PropertyImage, error)
	ListByProperty(ctx context.Context, propertyID uint64) ([]model.PropertyImage, error)
	HasMain(ctx context.Context, propertyID uint64) (bool, error)
	SetMain(ctx context.Context, propertyID, imageID uint64) error
	Delete(ctx context.Context, id uint64) error
}

// PropertyFinder is the slice of the property repository the image service
// needs for existence checks.
type PropertyFinder interface {
	ByID(ctx context.Context, id uint64) (model.Property, error)
}

// ImageService manages property image records together with their files on
// disk.  Database rows are authoritative; file deletion is best-effort
// through the file store.
type ImageService struct {
	images ImageStore
	props  PropertyFinder
	files  *FileStore
}

func NewImageService(images ImageStore, props PropertyFinder, files *FileStore) *ImageService {
	return &ImageService{images: images, props: props, files: files}
}

// Add records a stored image for a property.  The first image of a property
// automatically becomes its main image.
func (s *ImageService) Add(ctx context.Context, propertyID uint64, storedName string, size int64, mimeType string) (model.PropertyImage, error) {
	if _, err := s.props.ByID(ctx, propertyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.PropertyImage{}, &NotFoundError{Resource: "property"}
		}
		return model.PropertyImage{}, err
	}
	hasMain, err := s.images.HasMain(ctx, propertyID)
	if err != nil {
		return model.PropertyImage{}, err
	}
	img := model.PropertyImage{
		PropertyID:  propertyID,
		FileName:    storedName,
		FilePath:    fmt.Sprintf("properties/prop_%d/%s", propertyID, storedName),
		FileSize:    size,
		MimeType:    mimeType,
		IsMainImage: !hasMain,
	}
	if err := s.images.Insert(ctx, &img); err != nil {
		return model.PropertyImage{}, err
	}
	return img, nil
}

// List returns a property's images, main image first.
func (s *ImageService) List(ctx context.Context, propertyID uint64) ([]model.PropertyImage, error) {
	return s.images.ListByProperty(ctx, propertyID)
}

// Get fetches a single image record.
func (s *ImageService) Get(ctx context.Context, imageID uint64) (model.PropertyImage, error) {
	img, err := s.images.ByID(ctx, imageID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.PropertyImage{}, &NotFoundError{Resource: "image"}
	}
	return img, err
}

// SetMain promotes one image to main.  The repository recomputes the flag
// for every image of the property in a single statement, so exactly one
// main image remains whatever the previous state was.
func (s *ImageService) SetMain(ctx context.Context, propertyID, imageID uint64) error {
	err := s.images.SetMain(ctx, propertyID, imageID)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Resource: "image"}
	}
	return err
}

// Remove deletes an image record and then, best-effort, its file.
func (s *ImageService) Remove(ctx context.Context, imageID uint64) error {
	img, err := s.images.ByID(ctx, imageID)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Resource: "image"}
	}
	if err != nil {
		return err
	}
	if err := s.images.Delete(ctx, imageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Resource: "image"}
		}
		return err
	}
	s.files.Delete(img.PropertyID, img.FileName)
	return nil
}
