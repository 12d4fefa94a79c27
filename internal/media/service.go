package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/villageessence/marketplace-backend/pkg/config"
	pkgerrors "github.com/villageessence/marketplace-backend/pkg/errors"
)

const (
	productImagePrefix = "product-images"
	profileImagePrefix = "profile-images"
	sniffLen           = 512
)

var extensionByMIME = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type objectStore interface {
	UploadObject(ctx context.Context, bucket, object, contentType string, body io.Reader) (string, error)
	DeleteObject(ctx context.Context, bucket, object string) error
}

// Upload is the stored-object reference returned to callers.
type Upload struct {
	StorageKey  string `json:"storage_key"`
	PublicURL   string `json:"public_url"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

// Service stores and removes vendor-owned images.
type Service interface {
	UploadProductImage(ctx context.Context, vendorID uuid.UUID, body io.Reader) (*Upload, error)
	UploadProfileImage(ctx context.Context, vendorID uuid.UUID, body io.Reader) (*Upload, error)
	Remove(ctx context.Context, vendorID uuid.UUID, storageKey string) error
}

type service struct {
	store    objectStore
	bucket   string
	maxBytes int64
}

// NewService builds the media service on the configured object store.
func NewService(store objectStore, gcsCfg config.GCSConfig, mediaCfg config.MediaConfig) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if gcsCfg.BucketName == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	if mediaCfg.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	return &service{
		store:    store,
		bucket:   gcsCfg.BucketName,
		maxBytes: int64(mediaCfg.MaxUploadMB) * 1024 * 1024,
	}, nil
}

func (s *service) UploadProductImage(ctx context.Context, vendorID uuid.UUID, body io.Reader) (*Upload, error) {
	return s.upload(ctx, productImagePrefix, vendorID, body)
}

func (s *service) UploadProfileImage(ctx context.Context, vendorID uuid.UUID, body io.Reader) (*Upload, error) {
	return s.upload(ctx, profileImagePrefix, vendorID, body)
}

func (s *service) upload(ctx context.Context, prefix string, vendorID uuid.UUID, body io.Reader) (*Upload, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	if body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file body required")
	}

	// Read one byte past the cap so oversized bodies are detectable without
	// buffering the whole stream.
	payload, err := io.ReadAll(io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading upload")
	}
	if int64(len(payload)) > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file exceeds the %d MB upload limit", s.maxBytes/(1024*1024)))
	}
	if len(payload) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}

	contentType := sniffContentType(payload)
	ext, ok := extensionByMIME[contentType]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unsupported file type %s", contentType))
	}

	key := path.Join(prefix, vendorID.String(), uuid.NewString()+ext)
	url, err := s.store.UploadObject(ctx, s.bucket, key, contentType, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "uploading object")
	}

	return &Upload{
		StorageKey:  key,
		PublicURL:   url,
		ContentType: contentType,
		SizeBytes:   int64(len(payload)),
	}, nil
}

// Remove deletes a stored object. Vendors may only remove keys under their
// own prefix.
func (s *service) Remove(ctx context.Context, vendorID uuid.UUID, storageKey string) error {
	key := strings.TrimSpace(storageKey)
	if key == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "storage key required")
	}
	if !ownsKey(vendorID, key) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "storage key does not belong to this vendor")
	}
	if err := s.store.DeleteObject(ctx, s.bucket, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting object")
	}
	return nil
}

func ownsKey(vendorID uuid.UUID, key string) bool {
	for _, prefix := range []string{productImagePrefix, profileImagePrefix} {
		if strings.HasPrefix(key, prefix+"/"+vendorID.String()+"/") {
			return true
		}
	}
	return false
}

func sniffContentType(payload []byte) string {
	head := payload
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	contentType := http.DetectContentType(head)
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.TrimSpace(contentType)
}
