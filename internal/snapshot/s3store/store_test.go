package s3store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TapStake_Go/internal/snapshot"
)

type fakeAPI struct {
	objects map[string][]byte
	getErr  error
}

func (f *fakeAPI) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func TestStore_RoundTrip(t *testing.T) {
	api := &fakeAPI{objects: map[string][]byte{}}
	s := NewWithAPI(api, "bucket")
	ctx := context.Background()

	_, err := s.Load(ctx, snapshot.CollectionCashouts)
	assert.ErrorIs(t, err, snapshot.ErrNoSnapshot)

	require.NoError(t, s.Save(ctx, snapshot.CollectionCashouts, []byte(`[1]`)))
	assert.Contains(t, api.objects, "snapshots/cashouts.json")

	got, err := s.Load(ctx, snapshot.CollectionCashouts)
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))
}

func TestStore_LoadError(t *testing.T) {
	s := NewWithAPI(&fakeAPI{getErr: errors.New("denied")}, "bucket")

	_, err := s.Load(context.Background(), snapshot.CollectionWallets)
	assert.ErrorContains(t, err, "denied")
	assert.NotErrorIs(t, err, snapshot.ErrNoSnapshot)
}

func TestNormaliseEndpoint(t *testing.T) {
	assert.Equal(t, "https://minio:9000", normaliseEndpoint("minio:9000", true))
	assert.Equal(t, "http://minio:9000", normaliseEndpoint("minio:9000", false))
	assert.Equal(t, "http://x.y", normaliseEndpoint("http://x.y", true))
}
