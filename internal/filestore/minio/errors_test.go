package minio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"

	"github.com/koustreak/pgmeta/internal/errs"
	"github.com/koustreak/pgmeta/internal/filestore"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errs.ErrKind
	}{
		{"deadline", context.DeadlineExceeded, errs.ErrKindTimeout},
		{"wrapped cancel", fmt.Errorf("put: %w", context.Canceled), errs.ErrKindTimeout},
		{"404", miniogo.ErrorResponse{StatusCode: http.StatusNotFound}, errs.ErrKindNotFound},
		{"403", miniogo.ErrorResponse{StatusCode: http.StatusForbidden}, errs.ErrKindPermissionDenied},
		{"400", miniogo.ErrorResponse{StatusCode: http.StatusBadRequest}, errs.ErrKindInvalidInput},
		{"no such bucket", miniogo.ErrorResponse{StatusCode: http.StatusOK, Code: "NoSuchBucket"}, errs.ErrKindNotFound},
		{"bad signature", miniogo.ErrorResponse{Code: "SignatureDoesNotMatch"}, errs.ErrKindPermissionDenied},
		{"key too long", miniogo.ErrorResponse{Code: "KeyTooLongError"}, errs.ErrKindInvalidInput},
		{"slow down", miniogo.ErrorResponse{StatusCode: http.StatusServiceUnavailable, Code: "SlowDown"}, errs.ErrKindTimeout},
		{"other s3 code", miniogo.ErrorResponse{StatusCode: http.StatusInternalServerError, Code: "InternalError"}, errs.ErrKindConnectionFailed},
		{"plain", errors.New("connection reset by peer"), errs.ErrKindConnectionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapError(tt.err, "op")
			assert.Equal(t, tt.want, errs.KindOf(err))
			assert.Equal(t, tt.err, errors.Unwrap(err))
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	assert.NoError(t, mapError(nil, "op"))
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  *filestore.Config
	}{
		{"nil", nil},
		{"no endpoint", &filestore.Config{Provider: filestore.ProviderMinIO, Bucket: "b"}},
		{"no bucket", &filestore.Config{Provider: filestore.ProviderMinIO, Endpoint: "localhost:9000"}},
		{"provider", &filestore.Config{Provider: "gcs", Endpoint: "localhost:9000", Bucket: "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(context.Background(), tt.cfg)
			assert.Nil(t, d)
			assert.True(t, errs.IsInvalidInput(err))
		})
	}
}
