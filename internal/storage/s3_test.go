package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakeUploader) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = input
	b, _ := io.ReadAll(input.Body)
	f.body = string(b)
	return &manager.UploadOutput{Location: "https://bucket.s3.amazonaws.com/" + aws.ToString(input.Key)}, nil
}

type fakeDeleter struct {
	keys []string
}

func (f *fakeDeleter) DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.keys = append(f.keys, aws.ToString(input.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Service_UploadAvatar(t *testing.T) {
	up := &fakeUploader{}
	svc := &S3Service{client: &fakeDeleter{}, uploader: up, bucket: "avatars", baseURL: "https://cdn.example.com"}

	url, err := svc.UploadAvatar(context.Background(), "/contacts/alice-1.png", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/contacts/alice-1.png", url)
	assert.Equal(t, "avatars", aws.ToString(up.input.Bucket))
	assert.Equal(t, "contacts/alice-1.png", aws.ToString(up.input.Key))
	assert.Equal(t, "image/png", aws.ToString(up.input.ContentType))
	assert.Equal(t, "png-bytes", up.body)
}

func TestS3Service_UploadAvatar_LocationFallback(t *testing.T) {
	svc := &S3Service{client: &fakeDeleter{}, uploader: &fakeUploader{}, bucket: "avatars"}

	url, err := svc.UploadAvatar(context.Background(), "a.png", strings.NewReader("x"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/a.png", url)
}

func TestS3Service_UploadAvatar_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := (&S3Service{uploader: &fakeUploader{}}).UploadAvatar(ctx, "a.png", strings.NewReader("x"), "image/png")
	require.Error(t, err)

	_, err = (&S3Service{uploader: &fakeUploader{}, bucket: "b"}).UploadAvatar(ctx, "/", strings.NewReader("x"), "image/png")
	require.Error(t, err)

	boom := errors.New("boom")
	_, err = (&S3Service{uploader: &fakeUploader{err: boom}, bucket: "b"}).UploadAvatar(ctx, "a.png", strings.NewReader("x"), "image/png")
	assert.ErrorIs(t, err, boom)
}

func TestS3Service_DeleteAvatar(t *testing.T) {
	del := &fakeDeleter{}
	svc := &S3Service{client: del, uploader: &fakeUploader{}, bucket: "avatars", baseURL: "https://cdn.example.com"}
	ctx := context.Background()

	require.NoError(t, svc.DeleteAvatar(ctx, "https://cdn.example.com/contacts/alice-1.png"))
	require.NoError(t, svc.DeleteAvatar(ctx, "https://www.gravatar.com/avatar/abc"))
	require.NoError(t, svc.DeleteAvatar(ctx, ""))

	assert.Equal(t, []string{"contacts/alice-1.png"}, del.keys)
}
