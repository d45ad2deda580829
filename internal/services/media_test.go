package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cpatestos/bloomrn-app-esrvct/internal/models"
)

type fakeBlobStore struct {
	objects    map[string][]byte // "bucket/key"
	failUpload bool
	failDelete bool
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (f *fakeBlobStore) Upload(_ context.Context, bucket, key string, body []byte, _ string) error {
	if f.failUpload {
		return fmt.Errorf("storage unavailable")
	}
	f.objects[bucket+"/"+key] = body
	return nil
}

func (f *fakeBlobStore) SignedURL(_ context.Context, bucket, key string, expires time.Duration) (string, error) {
	if _, ok := f.objects[bucket+"/"+key]; !ok {
		return "", fmt.Errorf("no such object")
	}
	return fmt.Sprintf("https://example.test/%s/%s?ttl=%d", bucket, key, int(expires.Seconds())), nil
}

func (f *fakeBlobStore) Delete(_ context.Context, bucket, key string) error {
	if f.failDelete {
		return fmt.Errorf("storage unavailable")
	}
	delete(f.objects, bucket+"/"+key)
	return nil
}

type fakeMediaRemote struct {
	rows       map[string]models.MediaRecording
	failInsert bool
	failDelete bool
}

func newFakeMediaRemote() *fakeMediaRemote {
	return &fakeMediaRemote{rows: make(map[string]models.MediaRecording)}
}

func (f *fakeMediaRemote) Insert(_ context.Context, rec *models.MediaRecording) error {
	if f.failInsert {
		return fmt.Errorf("insert failed")
	}
	f.rows[rec.ID] = *rec
	return nil
}

func (f *fakeMediaRemote) List(_ context.Context, userID string, mediaType *models.MediaType) ([]models.MediaRecording, error) {
	var out []models.MediaRecording
	for _, r := range f.rows {
		if r.UserID != userID {
			continue
		}
		if mediaType != nil && r.MediaType != *mediaType {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeMediaRemote) Get(_ context.Context, userID, id string) (*models.MediaRecording, error) {
	r, ok := f.rows[id]
	if !ok || r.UserID != userID {
		return nil, fmt.Errorf("recording not found")
	}
	return &r, nil
}

func (f *fakeMediaRemote) Delete(_ context.Context, userID, id string) error {
	if f.failDelete {
		return fmt.Errorf("delete failed")
	}
	delete(f.rows, id)
	return nil
}

func newTestMediaService() (*MediaService, *fakeBlobStore, *fakeMediaRemote) {
	blobs := newFakeBlobStore()
	repo := newFakeMediaRemote()
	return NewMediaService(blobs, repo, "audio-recordings", "video-recordings"), blobs, repo
}

func TestUploadRequiresIdentity(t *testing.T) {
	svc, _, _ := newTestMediaService()
	_, err := svc.Upload(context.Background(), Identity{}, UploadRequest{
		MediaType: models.MediaAudio, Data: []byte("x"),
	})
	if err == nil {
		t.Fatal("expected error for anonymous upload")
	}
}

func TestUploadWritesBlobThenRow(t *testing.T) {
	svc, blobs, repo := newTestMediaService()

	rec, err := svc.Upload(context.Background(), testIdentity(), UploadRequest{
		MediaType: models.MediaAudio, Data: []byte("audio-bytes"),
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if !strings.HasPrefix(rec.FilePath, testUserID+"/") || !strings.HasSuffix(rec.FilePath, ".m4a") {
		t.Errorf("unexpected object key %q", rec.FilePath)
	}
	if _, ok := blobs.objects["audio-recordings/"+rec.FilePath]; !ok {
		t.Error("blob not stored in the audio bucket")
	}
	stored, ok := repo.rows[rec.ID]
	if !ok {
		t.Fatal("metadata row not inserted")
	}
	if stored.FileSizeBytes == nil || *stored.FileSizeBytes != int64(len("audio-bytes")) {
		t.Errorf("file size not recorded: %+v", stored.FileSizeBytes)
	}
}

func TestUploadVideoUsesVideoBucket(t *testing.T) {
	svc, blobs, _ := newTestMediaService()

	rec, err := svc.Upload(context.Background(), testIdentity(), UploadRequest{
		MediaType: models.MediaVideo, Data: []byte("video-bytes"),
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if !strings.HasSuffix(rec.FilePath, ".mp4") {
		t.Errorf("expected .mp4 key, got %q", rec.FilePath)
	}
	if _, ok := blobs.objects["video-recordings/"+rec.FilePath]; !ok {
		t.Error("blob not stored in the video bucket")
	}
}

func TestUploadRowFailureReportsError(t *testing.T) {
	svc, blobs, repo := newTestMediaService()
	repo.failInsert = true

	_, err := svc.Upload(context.Background(), testIdentity(), UploadRequest{
		MediaType: models.MediaAudio, Data: []byte("x"),
	})
	if err == nil {
		t.Fatal("expected error when metadata insert fails")
	}
	// The blob stays behind as an orphan; it is not rolled back.
	if len(blobs.objects) != 1 {
		t.Errorf("expected orphaned blob to remain, got %d objects", len(blobs.objects))
	}
}

func TestSignedURLForOwnRecording(t *testing.T) {
	svc, _, _ := newTestMediaService()
	ctx := context.Background()
	id := testIdentity()

	rec, err := svc.Upload(ctx, id, UploadRequest{MediaType: models.MediaAudio, Data: []byte("x")})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	url, err := svc.SignedURL(ctx, id, rec.ID)
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}
	if !strings.Contains(url, rec.FilePath) {
		t.Errorf("signed URL does not reference the object: %q", url)
	}

	other := Identity{UserID: "someone-else", ExpiresAt: time.Now().Add(time.Hour)}
	if _, err := svc.SignedURL(ctx, other, rec.ID); err == nil {
		t.Error("expected error signing another user's recording")
	}
}

func TestDeleteBlobFailureLeavesBothIntact(t *testing.T) {
	svc, blobs, repo := newTestMediaService()
	ctx := context.Background()
	id := testIdentity()

	rec, err := svc.Upload(ctx, id, UploadRequest{MediaType: models.MediaAudio, Data: []byte("x")})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	blobs.failDelete = true
	if err := svc.Delete(ctx, id, rec.ID); err == nil {
		t.Fatal("expected error when blob delete fails")
	}
	if len(blobs.objects) != 1 {
		t.Error("blob should be untouched after failed delete")
	}
	if _, ok := repo.rows[rec.ID]; !ok {
		t.Error("metadata row should be untouched after failed blob delete")
	}
}

func TestDeleteRowFailureLeavesOrphanedRow(t *testing.T) {
	svc, blobs, repo := newTestMediaService()
	ctx := context.Background()
	id := testIdentity()

	rec, err := svc.Upload(ctx, id, UploadRequest{MediaType: models.MediaAudio, Data: []byte("x")})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	repo.failDelete = true
	if err := svc.Delete(ctx, id, rec.ID); err == nil {
		t.Fatal("expected error when row delete fails")
	}
	if len(blobs.objects) != 0 {
		t.Error("blob should be gone even though the row delete failed")
	}
	if _, ok := repo.rows[rec.ID]; !ok {
		t.Error("orphaned row should remain after failed row delete")
	}
}

func TestDeleteRemovesBlobAndRow(t *testing.T) {
	svc, blobs, repo := newTestMediaService()
	ctx := context.Background()
	id := testIdentity()

	rec, err := svc.Upload(ctx, id, UploadRequest{MediaType: models.MediaAudio, Data: []byte("x")})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if err := svc.Delete(ctx, id, rec.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(blobs.objects) != 0 || len(repo.rows) != 0 {
		t.Errorf("expected empty stores, got %d blobs and %d rows", len(blobs.objects), len(repo.rows))
	}
}

func TestListFiltersByType(t *testing.T) {
	svc, _, _ := newTestMediaService()
	ctx := context.Background()
	id := testIdentity()

	if _, err := svc.Upload(ctx, id, UploadRequest{MediaType: models.MediaAudio, Data: []byte("a")}); err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if _, err := svc.Upload(ctx, id, UploadRequest{MediaType: models.MediaVideo, Data: []byte("v")}); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	all, err := svc.List(ctx, id, nil)
	if err != nil || len(all) != 2 {
		t.Fatalf("expected 2 recordings, got %d (err %v)", len(all), err)
	}

	audio := models.MediaAudio
	onlyAudio, err := svc.List(ctx, id, &audio)
	if err != nil || len(onlyAudio) != 1 || onlyAudio[0].MediaType != models.MediaAudio {
		t.Errorf("audio filter mismatch: %+v (err %v)", onlyAudio, err)
	}
}
