// Package storage archives simulation reports and ledger exports in an AWS
// S3 bucket or compatible storage (minIO in development).
package storage

import (
	"bytes"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"

	"github.com/embedsure/embed-api/domain"
)

const presignedURLLifespan = 10 * time.Minute

type ObjectUrl struct {
	Url        string
	Expiration time.Time
}

type awsConfig struct {
	awsAccessKeyID     string
	awsSecretAccessKey string
	awsEndpoint        string
	awsRegion          string
	awsS3Bucket        string
	awsDisableSSL      bool
}

func getS3ConfigFromEnv() awsConfig {
	a := awsConfig{
		awsAccessKeyID:     domain.Env.AwsAccessKeyID,
		awsSecretAccessKey: domain.Env.AwsSecretAccessKey,
		awsEndpoint:        domain.Env.AwsS3Endpoint,
		awsRegion:          domain.Env.AwsRegion,
		awsS3Bucket:        domain.Env.AwsS3Bucket,
		awsDisableSSL:      domain.Env.AwsS3DisableSSL,
	}

	if domain.Env.GoEnv == domain.EnvDevelopment || domain.Env.GoEnv == domain.EnvTest {
		a.awsAccessKeyID = "abc123"
		a.awsSecretAccessKey = "abcd1234"
	}

	return a
}

func createS3Service(config awsConfig) (*s3.S3, error) {
	sess, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials(config.awsAccessKeyID, config.awsSecretAccessKey, ""),
		Endpoint:         aws.String(config.awsEndpoint),
		Region:           aws.String(config.awsRegion),
		DisableSSL:       aws.Bool(config.awsDisableSSL),
		S3ForcePathStyle: aws.Bool(len(config.awsEndpoint) > 0),
	})
	svc := s3.New(sess)

	return svc, err
}

func getObjectURL(config awsConfig, svc *s3.S3, key string) (ObjectUrl, error) {
	// a non-empty endpoint means minIO is in use, which doesn't support the
	// S3 object URL scheme
	if config.awsEndpoint == "" {
		return ObjectUrl{
			Url:        fmt.Sprintf("https://%s.s3.amazonaws.com/%s", config.awsS3Bucket, url.PathEscape(key)),
			Expiration: time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC),
		}, nil
	}

	req, _ := svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(config.awsS3Bucket),
		Key:    aws.String(key),
	})

	newUrl, err := req.Presign(presignedURLLifespan)
	if err != nil {
		return ObjectUrl{}, err
	}

	return ObjectUrl{
		Url: newUrl,
		// return a time slightly before the actual url expiration to account for delays
		Expiration: time.Now().Add(presignedURLLifespan - time.Minute),
	}, nil
}

// StoreFile saves content in an AWS S3 bucket or compatible storage, depending on environment configuration.
func StoreFile(key, contentType string, content []byte) (ObjectUrl, error) {
	config := getS3ConfigFromEnv()

	svc, err := createS3Service(config)
	if err != nil {
		return ObjectUrl{}, err
	}

	if _, err := svc.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(config.awsS3Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        bytes.NewReader(content),
	}); err != nil {
		return ObjectUrl{}, err
	}

	return getObjectURL(config, svc, key)
}

// RemoveFile deletes a stored object. A missing key is not an error.
func RemoveFile(key string) error {
	config := getS3ConfigFromEnv()

	svc, err := createS3Service(config)
	if err != nil {
		return err
	}

	if _, err := svc.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(config.awsS3Bucket),
		Key:    aws.String(key),
	}); err != nil {
		if e, ok := err.(awserr.Error); ok && e.Code() == s3.ErrCodeNoSuchKey {
			return nil
		}
		return err
	}

	return nil
}

// CreateS3Bucket creates an S3 bucket with a name defined by an environment
// variable. If the bucket already exists, no error is returned.
func CreateS3Bucket() error {
	if domain.Env.GoEnv != domain.EnvDevelopment && domain.Env.GoEnv != domain.EnvTest {
		return errors.New("CreateS3Bucket should only be used in test and development")
	}

	config := getS3ConfigFromEnv()

	svc, err := createS3Service(config)
	if err != nil {
		return err
	}

	if _, err := svc.CreateBucket(&s3.CreateBucketInput{
		Bucket: aws.String(config.awsS3Bucket),
	}); err != nil {
		if e, ok := err.(awserr.Error); ok {
			switch e.Code() {
			case s3.ErrCodeBucketAlreadyExists, s3.ErrCodeBucketAlreadyOwnedByYou:
				return nil
			}
		}
		return err
	}

	return nil
}
