package storage

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmsapi/internal/config"
)

type recordedRequest struct {
	Method string
	Path   string
	ACL    string
	Body   string
}

// fakeS3 answers just enough of the S3 protocol for single-part uploads and deletes.
func fakeS3(t *testing.T) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			ACL:    r.Header.Get("X-Amz-Acl"),
			Body:   string(body),
		})
		mu.Unlock()

		switch r.Method {
		case http.MethodPut:
			w.Header().Set("ETag", `"etag-1"`)
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), reqs...)
	}
}

func testConfig(driver, endpoint string) config.StorageConfig {
	return config.StorageConfig{
		Driver:    driver,
		Endpoint:  endpoint,
		Region:    "us-east-1",
		AccessKey: "access",
		SecretKey: "secret",
		Bucket:    "media",
	}
}

func TestBackends_PutPublicReadAndDelete(t *testing.T) {
	for _, driver := range []string{"minio", "s3"} {
		t.Run(driver, func(t *testing.T) {
			srv, requests := fakeS3(t)

			st, err := New(testConfig(driver, srv.URL))
			require.NoError(t, err)

			payload := "hello"
			info, err := st.Put(t.Context(), "post/thumbnail/u1/1-a.png", strings.NewReader(payload), PutObjectOptions{
				Size:        int64(len(payload)),
				ContentType: "image/png",
				PublicRead:  true,
			})
			require.NoError(t, err)
			assert.Equal(t, "post/thumbnail/u1/1-a.png", info.Key)

			require.NoError(t, st.Delete(t.Context(), "post/thumbnail/u1/1-a.png"))

			var put, del *recordedRequest
			for _, r := range requests() {
				r := r
				switch r.Method {
				case http.MethodPut:
					put = &r
				case http.MethodDelete:
					del = &r
				}
			}
			require.NotNil(t, put)
			assert.Equal(t, "/media/post/thumbnail/u1/1-a.png", put.Path)
			assert.Equal(t, "public-read", put.ACL)
			assert.Contains(t, put.Body, payload)
			require.NotNil(t, del)
			assert.Equal(t, "/media/post/thumbnail/u1/1-a.png", del.Path)
		})
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
	}{
		{"unknown driver", config.StorageConfig{Driver: "ftp"}},
		{"minio without endpoint", config.StorageConfig{Driver: "minio", AccessKey: "a", SecretKey: "b", Bucket: "c"}},
		{"missing credentials", config.StorageConfig{Driver: "s3", Bucket: "c"}},
		{"missing bucket", config.StorageConfig{Driver: "s3", AccessKey: "a", SecretKey: "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestPublicBaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
		want string
	}{
		{"explicit cdn", config.StorageConfig{PublicBaseURL: "https://cdn.example.com/"}, "https://cdn.example.com"},
		{"aws default", config.StorageConfig{Driver: "s3", Bucket: "media", Region: "eu-west-1"}, "https://media.s3.eu-west-1.amazonaws.com"},
		{"endpoint with ssl", config.StorageConfig{Driver: "minio", Endpoint: "sgp1.digitaloceanspaces.com", Bucket: "media", UseSSL: true}, "https://sgp1.digitaloceanspaces.com/media"},
		{"endpoint without ssl", config.StorageConfig{Driver: "minio", Endpoint: "localhost:9000", Bucket: "media"}, "http://localhost:9000/media"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PublicBaseURL(tt.cfg))
		})
	}
}
