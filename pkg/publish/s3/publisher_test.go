package s3

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	mock.Mock
	body []byte
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if params.Body != nil {
		m.body, _ = io.ReadAll(params.Body)
	}
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func writeChart(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG fake"), 0o644))
	return path
}

func TestPublisher_Publish(t *testing.T) {
	// Given
	client := new(mockS3)
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "charts" &&
			aws.ToString(in.Key) == "reports/chart.png" &&
			aws.ToString(in.ContentType) == "image/png" &&
			aws.ToInt64(in.ContentLength) == int64(len("\x89PNG fake"))
	})).Return(&s3.PutObjectOutput{}, nil)

	p, err := NewPublisher(client, "charts")
	require.NoError(t, err)

	// When
	location, err := p.Publish(context.Background(), writeChart(t), "reports/chart.png")

	// Then
	require.NoError(t, err)
	assert.Equal(t, "s3://charts/reports/chart.png", location)
	assert.Equal(t, []byte("\x89PNG fake"), client.body)
	client.AssertExpectations(t)
}

func TestPublisher_UploadError(t *testing.T) {
	client := new(mockS3)
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	p, err := NewPublisher(client, "charts")
	require.NoError(t, err)

	_, err = p.Publish(context.Background(), writeChart(t), "chart.png")
	assert.ErrorContains(t, err, "access denied")
}

func TestPublisher_MissingFile(t *testing.T) {
	client := new(mockS3)
	p, err := NewPublisher(client, "charts")
	require.NoError(t, err)

	_, err = p.Publish(context.Background(), filepath.Join(t.TempDir(), "none.png"), "chart.png")
	assert.Error(t, err)
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
}

func TestNewPublisher_Validation(t *testing.T) {
	_, err := NewPublisher(nil, "charts")
	assert.Error(t, err)

	_, err = NewPublisher(new(mockS3), "")
	assert.Error(t, err)
}
