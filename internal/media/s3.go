package media

import (
	"bytes"
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Store keeps media blobs in an S3 compatible bucket. Blobs are served by
// the object store itself, so MEDIA_BASE_URL must point at the bucket.
type S3Store struct {
	client *minio.Client
	bucket string
}

// NewS3Store connects to the object store and makes sure the bucket exists.
func NewS3Store(ctx context.Context, c S3Config) (*S3Store, error) {
	client, err := minio.New(c.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
		Secure: c.UseSSL,
	})
	if err != nil {
		return nil, Error.Wrap(err)
	}

	exists, err := client.BucketExists(ctx, c.Bucket)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, c.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, Error.Wrap(err)
		}
	}
	return &S3Store{client: client, bucket: c.Bucket}, nil
}

func (s *S3Store) Save(ctx context.Context, u Upload) error {
	_, err := s.client.PutObject(ctx, s.bucket, u.Name, bytes.NewReader(u.Data), int64(len(u.Data)),
		minio.PutObjectOptions{ContentType: u.ContentType})
	return Error.Wrap(err)
}

func (s *S3Store) Delete(ctx context.Context, name string) error {
	err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{})
	return Error.Wrap(err)
}
