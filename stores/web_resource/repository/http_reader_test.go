package repository

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	bCtx "github.com/tonscope/goapi/base/ctx"
	"github.com/tonscope/goapi/domain"
)

func Test_httpReaderRepo_Get(t *testing.T) {
	body := `{"name":"Scaled","description":"Reptiles on TON"}`
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/meta.json":
			w.Write([]byte(body))
		case "/missing.json":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	c := http.Client{}
	timeout := 10 * time.Second
	ctx := bCtx.Background()
	r := NewHttpReaderRepo(c, timeout, map[string]string{"User-Agent": "tonscope/1.0"})

	t.Run("ok", func(t *testing.T) {
		req := require.New(t)
		b, err := r.Get(ctx, srv.URL+"/meta.json")
		req.NoError(err)
		req.Equal([]byte(body), b)
		req.Equal("tonscope/1.0", gotAgent)
	})

	t.Run("not found", func(t *testing.T) {
		req := require.New(t)
		_, err := r.Get(ctx, srv.URL+"/missing.json")
		req.ErrorIs(err, domain.ErrNotFound)
	})

	t.Run("unexpected status", func(t *testing.T) {
		req := require.New(t)
		_, err := r.Get(ctx, srv.URL+"/broken.json")
		req.Error(err)
	})
}
