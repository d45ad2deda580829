package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/cpatestos/bloomrn-app-esrvct/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// signedURLTTL is how long playback links stay valid. Blobs are never
// served through public URLs.
const signedURLTTL = time.Hour

// BlobStore abstracts the object storage the media service writes to.
type BlobStore interface {
	Upload(ctx context.Context, bucket, key string, body []byte, contentType string) error
	SignedURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
	Delete(ctx context.Context, bucket, key string) error
}

// MediaRemote is the metadata row client, satisfied by
// repository.MediaRepository.
type MediaRemote interface {
	Insert(ctx context.Context, rec *models.MediaRecording) error
	List(ctx context.Context, userID string, mediaType *models.MediaType) ([]models.MediaRecording, error)
	Get(ctx context.Context, userID, id string) (*models.MediaRecording, error)
	Delete(ctx context.Context, userID, id string) error
}

// MediaService handles audio/video recordings: a two-phase write (blob to
// a type-specific bucket, then a metadata row referencing it), listing,
// signed playback URLs, and blob-then-row delete. Recordings are
// remote-only; there is no local cache and every operation requires an
// established identity.
type MediaService struct {
	blobs       BlobStore
	repo        MediaRemote
	audioBucket string
	videoBucket string
}

// NewMediaService creates a new media service.
func NewMediaService(blobs BlobStore, repo MediaRemote, audioBucket, videoBucket string) *MediaService {
	return &MediaService{
		blobs:       blobs,
		repo:        repo,
		audioBucket: audioBucket,
		videoBucket: videoBucket,
	}
}

func (s *MediaService) bucketFor(t models.MediaType) string {
	if t == models.MediaVideo {
		return s.videoBucket
	}
	return s.audioBucket
}

func contentTypeFor(t models.MediaType) (ext, contentType string) {
	if t == models.MediaVideo {
		return "mp4", "video/mp4"
	}
	return "m4a", "audio/m4a"
}

// UploadRequest carries one recording to persist.
type UploadRequest struct {
	MediaType       models.MediaType
	Data            []byte
	Title           *string
	Description     *string
	DurationSeconds *int
}

// Upload stores the blob under {userID}/{timestamp}.{ext} and then inserts
// the metadata row. A row-insert failure after a successful upload leaves
// an orphaned blob; that is logged and reported, not compensated.
func (s *MediaService) Upload(ctx context.Context, id Identity, req UploadRequest) (*models.MediaRecording, error) {
	if !id.Established() {
		return nil, fmt.Errorf("no identity established")
	}
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("empty media payload")
	}

	ext, contentType := contentTypeFor(req.MediaType)
	key := fmt.Sprintf("%s/%d.%s", id.UserID, time.Now().UnixMilli(), ext)
	bucket := s.bucketFor(req.MediaType)

	if err := s.blobs.Upload(ctx, bucket, key, req.Data, contentType); err != nil {
		return nil, fmt.Errorf("failed to upload blob: %w", err)
	}

	size := int64(len(req.Data))
	rec := &models.MediaRecording{
		ID:              uuid.New().String(),
		UserID:          id.UserID,
		MediaType:       req.MediaType,
		FilePath:        key,
		Title:           req.Title,
		Description:     req.Description,
		DurationSeconds: req.DurationSeconds,
		FileSizeBytes:   &size,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		log.Error().Err(err).Str("bucket", bucket).Str("key", key).
			Msg("Metadata insert failed after upload, blob orphaned")
		return nil, fmt.Errorf("failed to save media metadata: %w", err)
	}

	log.Info().Str("bucket", bucket).Str("key", key).Int64("bytes", size).Msg("Media uploaded")
	return rec, nil
}

// List returns the caller's recordings newest first, optionally filtered
// by type.
func (s *MediaService) List(ctx context.Context, id Identity, mediaType *models.MediaType) ([]models.MediaRecording, error) {
	if !id.Established() {
		return nil, fmt.Errorf("no identity established")
	}
	return s.repo.List(ctx, id.UserID, mediaType)
}

// SignedURL returns a short-lived playback link for one recording.
func (s *MediaService) SignedURL(ctx context.Context, id Identity, recordingID string) (string, error) {
	if !id.Established() {
		return "", fmt.Errorf("no identity established")
	}
	rec, err := s.repo.Get(ctx, id.UserID, recordingID)
	if err != nil {
		return "", err
	}
	url, err := s.blobs.SignedURL(ctx, s.bucketFor(rec.MediaType), rec.FilePath, signedURLTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign media URL: %w", err)
	}
	return url, nil
}

// Delete removes the blob first and the metadata row second. If the blob
// removal fails nothing is touched, so the row never points at a missing
// blob. If the row delete fails after the blob is gone, the orphaned row
// is logged and left behind.
func (s *MediaService) Delete(ctx context.Context, id Identity, recordingID string) error {
	if !id.Established() {
		return fmt.Errorf("no identity established")
	}
	rec, err := s.repo.Get(ctx, id.UserID, recordingID)
	if err != nil {
		return err
	}

	bucket := s.bucketFor(rec.MediaType)
	if err := s.blobs.Delete(ctx, bucket, rec.FilePath); err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	if err := s.repo.Delete(ctx, id.UserID, recordingID); err != nil {
		log.Error().Err(err).Str("bucket", bucket).Str("key", rec.FilePath).
			Msg("Row delete failed after blob removal, metadata orphaned")
		return fmt.Errorf("failed to delete media metadata: %w", err)
	}

	log.Info().Str("bucket", bucket).Str("key", rec.FilePath).Msg("Media recording deleted")
	return nil
}

// s3BlobStore implements BlobStore over any S3-compatible endpoint.
type s3BlobStore struct {
	client  *s3.Client
	presign *s3.PresignClient
}

// NewS3BlobStore builds the object storage client. endpoint overrides the
// default AWS endpoint for S3-compatible providers; leave empty for AWS.
func NewS3BlobStore(ctx context.Context, region, accessKey, secretKey, endpoint string) (BlobStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &s3BlobStore{
		client:  client,
		presign: s3.NewPresignClient(client),
	}, nil
}

func (b *s3BlobStore) Upload(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	return err
}

func (b *s3BlobStore) SignedURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	req, err := b.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expires
	})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (b *s3BlobStore) Delete(ctx context.Context, bucket, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return err
}
