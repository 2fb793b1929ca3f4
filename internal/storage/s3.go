package storage

import (
	"bytes"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xltrail/git-xl/internal/config"
)

var _ Enumerable = (*s3Store)(nil)

// s3Store shares the cache between machines, e.g., CI runners.
type s3Store struct {
	client s3iface.S3API
	bucket string
}

var _ Store = (*s3Store)(nil)

func newS3Store(c config.Cache) (Store, error) {
	// Git waits for the driver; do not retry for long.
	const maxRetries = 3
	if c.S3Bucket == "" {
		return nil, errors.New("storage: s3 cache without bucket")
	}
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(c.S3Region),
		Credentials: credentials.NewSharedCredentials("", c.S3Profile),
		MaxRetries:  aws.Int(maxRetries),
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &s3Store{
		client: s3.New(sess),
		bucket: c.S3Bucket,
	}, nil
}

func (s *s3Store) Get(key Key) (contents Value, err error) {
	output, err := s.client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(string(key)),
	})
	if err != nil {
		if rfErr, ok := err.(awserr.RequestFailure); ok {
			if rfErr.StatusCode() == http.StatusNotFound {
				return nil, errors.Wrapf(ErrNotFound, "key=%q err=%+v", key, err)
			}
		}
		return nil, errors.WithStack(err)
	}
	defer func() {
		if err := output.Body.Close(); err != nil {
			log.WithFields(log.Fields{
				"key":   key,
				"cause": err,
			}).Warning("Could not close response body")
		}
	}()
	contents, err = io.ReadAll(output.Body)
	return contents, errors.WithStack(err)
}

func (s *s3Store) Put(key Key, value Value) (err error) {
	_, err = s.client.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(string(key)),
		Body:   bytes.NewReader(value),
	})
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func (s *s3Store) Contains(key Key) (bool, error) {
	_, err := s.client.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(string(key)),
	})
	if rfErr, ok := err.(awserr.RequestFailure); ok && rfErr.StatusCode() == http.StatusNotFound {
		return false, nil
	}
	if err != nil {
		return false, errors.WithStack(err)
	}
	return true, nil
}

// ForEach lists the bucket first, so f may delete keys.
func (s *s3Store) ForEach(f func(Key) error) error {
	var keys []Key
	err := s.client.ListObjectsV2Pages(&s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	}, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, object := range page.Contents {
			keys = append(keys, Key(aws.StringValue(object.Key)))
		}
		return true
	})
	if err != nil {
		return errors.WithStack(err)
	}
	for _, k := range keys {
		if err := f(k); err != nil {
			return err
		}
	}
	return nil
}

func (s *s3Store) Delete(key Key) error {
	if _, err := s.client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(string(key)),
	}); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
