package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode"

	"github.com/google/uuid"

	pkgerrors "github.com/turboost/turboost-backend/pkg/errors"
)

// Kind splits uploads into the two media families a product carries.
type Kind string

const (
	KindImage Kind = "image"
	KindSound Kind = "sound"
)

func (k Kind) IsValid() bool {
	return k == KindImage || k == KindSound
}

// folder the object lands in; public URLs keep this prefix.
var folderByKind = map[Kind]string{
	KindImage: "products",
	KindSound: "sounds",
}

var mimeTypesByKind = map[Kind][]string{
	KindImage: {"image/png", "image/jpeg", "image/webp", "image/gif"},
	KindSound: {"audio/mpeg", "audio/mp4", "audio/ogg", "audio/wav"},
}

type uploader interface {
	Upload(ctx context.Context, object, contentType string, body io.Reader) (string, error)
}

// Service streams admin uploads into object storage and hands back the
// public URL to store on the product row.
type Service struct {
	storage  uploader
	maxBytes int64
}

func NewService(storage uploader, maxBytes int64) (*Service, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage client required")
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	return &Service{storage: storage, maxBytes: maxBytes}, nil
}

// UploadInput carries one multipart file part.
type UploadInput struct {
	Kind        Kind
	FileName    string
	ContentType string
	SizeBytes   int64
	Body        io.Reader
}

// UploadOutput is what the admin UI stores back on the product.
type UploadOutput struct {
	URL       string `json:"url"`
	ObjectKey string `json:"object_key"`
}

func (s *Service) Upload(ctx context.Context, input UploadInput) (*UploadOutput, error) {
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media kind").
			WithDetails(map[string]any{"kind": string(input.Kind)})
	}

	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file name is required")
	}

	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}
	if input.SizeBytes > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file exceeds %d bytes", s.maxBytes))
	}

	contentType := strings.TrimSpace(input.ContentType)
	if !isAllowedMime(input.Kind, contentType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content type not allowed for media kind").
			WithDetails(map[string]any{"content_type": contentType})
	}

	object := buildObjectKey(input.Kind, fileName)

	// cap the stream too; the declared size is client-controlled
	url, err := s.storage.Upload(ctx, object, contentType, io.LimitReader(input.Body, s.maxBytes))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store media object")
	}

	return &UploadOutput{URL: url, ObjectKey: object}, nil
}

func isAllowedMime(kind Kind, contentType string) bool {
	for _, candidate := range mimeTypesByKind[kind] {
		if strings.EqualFold(candidate, contentType) {
			return true
		}
	}
	return false
}

func buildObjectKey(kind Kind, fileName string) string {
	id := uuid.New()
	clean := sanitizeFileName(fileName)
	if clean == "" {
		clean = id.String()
	}
	return fmt.Sprintf("%s/%s-%s", folderByKind[kind], id.String(), clean)
}

func sanitizeFileName(name string) string {
	clean := path.Base(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
