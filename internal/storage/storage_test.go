package storage

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pngURI(data string) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(data))
}

func TestDecodeDataURI(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		wantExt string
		wantErr bool
	}{
		{name: "png", uri: pngURI("img"), wantExt: "png"},
		{name: "jpeg", uri: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("x")), wantExt: "jpg"},
		{name: "missing comma", uri: "data:image/png;base64", wantErr: true},
		{name: "not base64 header", uri: "data:image/png,abc", wantErr: true},
		{name: "unsupported type", uri: "data:text/plain;base64,YQ==", wantErr: true},
		{name: "bad payload", uri: "data:image/png;base64,!!!", wantErr: true},
		{name: "empty payload", uri: "data:image/png;base64,", wantErr: true},
		{name: "plain string", uri: "hello", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeDataURI(tt.uri)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidImage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, img.Ext)
		})
	}
}

func TestLocalStore_SaveDataURI(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "/media/")
	require.NoError(t, err)

	key, err := SaveDataURI(context.Background(), store, "recipes/images", pngURI("pixels"), 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "recipes/images/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	data, err := os.ReadFile(filepath.Join(root, key))
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))
	assert.Equal(t, "/media/"+key, store.URL(key))

	require.NoError(t, store.Delete(context.Background(), key))
	_, err = os.Stat(filepath.Join(root, key))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, store.Delete(context.Background(), key))
}

func TestLocalStore_KeyCannotEscapeRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "/media/")
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), "../../etc/evil.png", []byte("x"), "image/png"))
	_, err = os.Stat(filepath.Join(root, "etc", "evil.png"))
	assert.NoError(t, err)
}

func TestSaveDataURI_TooLarge(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/media/")
	require.NoError(t, err)

	_, err = SaveDataURI(context.Background(), store, "users", pngURI("0123456789"), 4)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	return &s3.PutObjectOutput{}, args.Error(0)
}

func (m *mockS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	return &s3.DeleteObjectOutput{}, args.Error(0)
}

func TestS3Store(t *testing.T) {
	client := new(mockS3)
	store := newS3Store(client, "foodgram", "https://cdn.example.com/")

	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "foodgram" && *in.Key == "users/a.png" && *in.ContentType == "image/png"
	})).Return(nil)
	client.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return *in.Key == "users/a.png"
	})).Return(nil)

	require.NoError(t, store.Save(context.Background(), "users/a.png", []byte("x"), "image/png"))
	require.NoError(t, store.Delete(context.Background(), "users/a.png"))
	assert.Equal(t, "https://cdn.example.com/users/a.png", store.URL("users/a.png"))
	assert.Equal(t, "", store.URL(""))

	client.AssertExpectations(t)
}
