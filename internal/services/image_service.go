package services

import (
	"context"
	"errors"
	"io"
	"time"

	apperrors "realestate-catalog/internal/errors"
	"realestate-catalog/internal/locks"
	"realestate-catalog/internal/models"
	"realestate-catalog/internal/repositories"
	"realestate-catalog/internal/validators"
	"realestate-catalog/pkg/events"
	"realestate-catalog/pkg/imagehost"
	"realestate-catalog/pkg/logger"
	"realestate-catalog/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ImageService struct {
	images     repositories.ImageRepository
	properties repositories.PropertyRepository
	host       imagehost.Host
	locker     locks.Locker
	cache      repositories.PropertyCache
	validator  validators.ImageValidator
	publisher  events.Publisher
}

func NewImageService(
	images repositories.ImageRepository,
	properties repositories.PropertyRepository,
	host imagehost.Host,
	locker locks.Locker,
	cache repositories.PropertyCache,
	validator validators.ImageValidator,
	publisher events.Publisher,
) *ImageService {
	if locker == nil {
		locker = locks.NewKeyed()
	}
	if cache == nil {
		cache = repositories.NewNopPropertyCache()
	}
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	return &ImageService{
		images:     images,
		properties: properties,
		host:       host,
		locker:     locker,
		cache:      cache,
		validator:  validator,
		publisher:  publisher,
	}
}

var errNoImageHost = errors.New("image host is not configured")

func mainImageLockKey(propertyID primitive.ObjectID) string {
	return "main-image:" + propertyID.Hex()
}

// requireProperty parses propertyID and checks that the property exists.
func (s *ImageService) requireProperty(ctx context.Context, propertyID string) (primitive.ObjectID, error) {
	oid, err := repositories.ParseID(propertyID)
	if err != nil {
		return oid, err
	}
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return oid, err
	}
	if property == nil {
		return oid, apperrors.NotFound("property", propertyID)
	}
	return oid, nil
}

// Upload stores the photo on the image host and records it for the property.
// When the store write fails the hosted photo is removed again.
func (s *ImageService) Upload(ctx context.Context, propertyID string, upload *models.ImageUpload, file io.Reader) (*models.PropertyImage, error) {
	if err := s.validator.ValidateUpload(upload); err != nil {
		return nil, err
	}
	if s.host == nil {
		return nil, apperrors.Dependency("image upload", errNoImageHost)
	}
	pid, err := s.requireProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	asset, err := s.host.Upload(ctx, file, upload.FileName)
	if err != nil {
		logger.GlobalLogger.Errorf("Image upload failed: property=%s, file=%s, error=%v", propertyID, upload.FileName, err)
		return nil, apperrors.Dependency("image upload", err)
	}

	image := &models.PropertyImage{
		IdProperty:         pid,
		CloudinaryPublicId: asset.PublicID,
		CloudinaryUrl:      asset.SecureURL,
		OriginalFileName:   upload.FileName,
		Width:              asset.Width,
		Height:             asset.Height,
		Format:             asset.Format,
		Bytes:              asset.Bytes,
		Enabled:            true,
		Description:        upload.Description,
	}
	if err := s.images.Create(ctx, image); err != nil {
		if derr := s.host.Destroy(ctx, asset.PublicID); derr != nil {
			logger.GlobalLogger.Errorf("Failed to remove orphaned upload %s: %v", asset.PublicID, derr)
		}
		return nil, err
	}
	publish(ctx, s.publisher, events.ImageUploaded, image.ID.Hex(), image)

	if upload.IsMain {
		if err := s.setMain(ctx, pid, image.ID); err != nil {
			return nil, err
		}
		image.IsMain = true
	}
	s.invalidate(ctx, pid)
	return image, nil
}

// GetImages lists the images of a property. With enabledOnly the main image
// comes first.
func (s *ImageService) GetImages(ctx context.Context, propertyID string, enabledOnly bool) ([]models.PropertyImage, error) {
	pid, err := repositories.ParseID(propertyID)
	if err != nil {
		return nil, err
	}
	return s.images.FindByPropertyID(ctx, pid, enabledOnly)
}

func (s *ImageService) GetMainImage(ctx context.Context, propertyID string) (*models.PropertyImage, error) {
	pid, err := repositories.ParseID(propertyID)
	if err != nil {
		return nil, err
	}
	image, err := s.images.FindMain(ctx, pid)
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, apperrors.NotFound("main image of property", propertyID)
	}
	return image, nil
}

// SetMainImage makes imageID the only main image of propertyID. Calls for
// the same property are serialized. The target must be an enabled image of
// the property; otherwise NotFound is returned and the current main image is
// left as it was.
func (s *ImageService) SetMainImage(ctx context.Context, propertyID, imageID string) error {
	pid, err := repositories.ParseID(propertyID)
	if err != nil {
		return err
	}
	iid, err := repositories.ParseID(imageID)
	if err != nil {
		return err
	}
	if err := s.setMain(ctx, pid, iid); err != nil {
		return err
	}
	s.invalidate(ctx, pid)
	return nil
}

func (s *ImageService) setMain(ctx context.Context, pid, iid primitive.ObjectID) error {
	start := time.Now()
	release, err := s.locker.Lock(ctx, mainImageLockKey(pid))
	metrics.MainImageLockWait.Observe(time.Since(start).Seconds())
	if err != nil {
		return apperrors.Dependency("main image lock", err)
	}
	defer release()

	matched, err := s.images.MarkMain(ctx, pid, iid)
	if err != nil {
		return err
	}
	if !matched {
		return apperrors.NotFound("enabled image of property "+pid.Hex(), iid.Hex())
	}
	cleared, err := s.images.ClearMainExcept(ctx, pid, iid)
	if err != nil {
		return err
	}
	logger.GlobalLogger.Debugf("Main image of %s set to %s, %d cleared", pid.Hex(), iid.Hex(), cleared)
	publish(ctx, s.publisher, events.MainImageChanged, pid.Hex(), map[string]string{"imageId": iid.Hex()})
	return nil
}

// DisableImage soft-deletes the image. A disabled image is never main.
func (s *ImageService) DisableImage(ctx context.Context, propertyID, imageID string) error {
	pid, err := repositories.ParseID(propertyID)
	if err != nil {
		return err
	}
	iid, err := repositories.ParseID(imageID)
	if err != nil {
		return err
	}
	release, err := s.locker.Lock(ctx, mainImageLockKey(pid))
	if err != nil {
		return apperrors.Dependency("main image lock", err)
	}
	defer release()

	found, err := s.images.Disable(ctx, pid, iid)
	if err != nil {
		return err
	}
	if !found {
		return apperrors.NotFound("image", imageID)
	}
	publish(ctx, s.publisher, events.ImageDisabled, iid.Hex(), map[string]string{"propertyId": pid.Hex()})
	s.invalidate(ctx, pid)
	return nil
}

// DeleteImage removes the photo from the image host, then its record.
func (s *ImageService) DeleteImage(ctx context.Context, propertyID, imageID string) error {
	pid, err := repositories.ParseID(propertyID)
	if err != nil {
		return err
	}
	image, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return err
	}
	if image == nil || image.IdProperty != pid {
		return apperrors.NotFound("image", imageID)
	}
	if s.host == nil {
		return apperrors.Dependency("image delete", errNoImageHost)
	}
	if err := s.host.Destroy(ctx, image.CloudinaryPublicId); err != nil {
		return apperrors.Dependency("image delete", err)
	}
	n, err := s.images.Delete(ctx, imageID)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NotFound("image", imageID)
	}
	publish(ctx, s.publisher, events.ImageDeleted, imageID, map[string]string{"propertyId": pid.Hex()})
	s.invalidate(ctx, pid)
	return nil
}

// DeleteByPropertyID removes every image of a property from the host and the store.
func (s *ImageService) DeleteByPropertyID(ctx context.Context, pid primitive.ObjectID) (int64, error) {
	images, err := s.images.FindByPropertyID(ctx, pid, false)
	if err != nil {
		return 0, err
	}
	for _, img := range images {
		if s.host == nil {
			break
		}
		if err := s.host.Destroy(ctx, img.CloudinaryPublicId); err != nil {
			logger.GlobalLogger.Errorf("Failed to destroy hosted image %s: %v", img.CloudinaryPublicId, err)
		}
	}
	return s.images.DeleteByPropertyID(ctx, pid)
}

// DeleteByPublicID removes the records pointing at a hosted photo.
func (s *ImageService) DeleteByPublicID(ctx context.Context, publicID string) (int64, error) {
	if publicID == "" {
		return 0, apperrors.Validation("public id is required")
	}
	return s.images.DeleteByPublicID(ctx, publicID)
}

// GetResponsiveURLs returns the fixed renditions of an image.
func (s *ImageService) GetResponsiveURLs(ctx context.Context, propertyID, imageID string) (*models.ResponsiveURLs, error) {
	pid, err := repositories.ParseID(propertyID)
	if err != nil {
		return nil, err
	}
	image, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if image == nil || image.IdProperty != pid {
		return nil, apperrors.NotFound("image", imageID)
	}

	if s.host == nil {
		return nil, apperrors.Dependency("image url", errNoImageHost)
	}
	urls := &models.ResponsiveURLs{Original: image.CloudinaryUrl}
	for _, r := range []struct {
		dst  *string
		size [2]int
	}{
		{&urls.Thumbnail, models.ThumbnailSize},
		{&urls.Medium, models.MediumSize},
		{&urls.Large, models.LargeSize},
	} {
		u, err := s.host.URL(image.CloudinaryPublicId, r.size[0], r.size[1])
		if err != nil {
			return nil, apperrors.Dependency("image url", err)
		}
		*r.dst = u
	}
	return urls, nil
}

// RepairMainImages keeps the most recently updated main image of every
// property that has more than one and reports how many properties changed.
func (s *ImageService) RepairMainImages(ctx context.Context) (int, error) {
	ids, err := s.images.PropertiesWithMultipleMains(ctx)
	if err != nil {
		return 0, err
	}
	repaired := 0
	for _, pid := range ids {
		if err := s.repairOne(ctx, pid); err != nil {
			return repaired, err
		}
		repaired++
	}
	if repaired > 0 {
		publish(ctx, s.publisher, events.MainImagesRepaired, "", map[string]int{"properties": repaired})
	}
	return repaired, nil
}

func (s *ImageService) repairOne(ctx context.Context, pid primitive.ObjectID) error {
	release, err := s.locker.Lock(ctx, mainImageLockKey(pid))
	if err != nil {
		return apperrors.Dependency("main image lock", err)
	}
	defer release()

	keep, err := s.images.FindMain(ctx, pid)
	if err != nil {
		return err
	}
	if keep == nil {
		return nil
	}
	if _, err := s.images.ClearMainExcept(ctx, pid, keep.ID); err != nil {
		return err
	}
	logger.GlobalLogger.Printf("Repaired main image of property %s, kept %s", pid.Hex(), keep.ID.Hex())
	s.invalidate(ctx, pid)
	return nil
}

func (s *ImageService) invalidate(ctx context.Context, pid primitive.ObjectID) {
	invalidateProperty(ctx, s.cache, pid.Hex())
}
