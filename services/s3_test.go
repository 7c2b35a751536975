package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewS3Service_MissingCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_S3_BUCKET", "")

	service, err := NewS3Service()
	assert.Error(t, err)
	assert.Nil(t, service)
}

func TestS3Service_ObjectURL(t *testing.T) {
	service := &S3Service{
		bucket: "test-bucket",
		region: "us-east-1",
	}

	url := service.ObjectURL("screenshots/7/fill_123.png")
	assert.Equal(t, "https://test-bucket.s3.us-east-1.amazonaws.com/screenshots/7/fill_123.png", url)
}
