package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	bCtx "github.com/tonscope/goapi/base/ctx"
	"github.com/tonscope/goapi/domain"
	"github.com/tonscope/goapi/domain/mocks"
)

func newReaders() map[string]*mocks.WebResourceReaderRepository {
	return map[string]*mocks.WebResourceReaderRepository{
		"http":    {},
		"ipfs":    {},
		"datauri": {},
		"ar":      {},
	}
}

func newUseCase(readers map[string]*mocks.WebResourceReaderRepository) domain.WebResourceUseCase {
	return NewWebResourceUseCase(&WebResourceUseCaseCfg{
		HttpReader:    readers["http"],
		IpfsReader:    readers["ipfs"],
		DataUriReader: readers["datauri"],
		ArUriReader:   readers["ar"],
	})
}

func Test_webResourceUseCase_Get(t *testing.T) {
	c := bCtx.Background()
	body := []byte(`{"name":"Scaled"}`)

	tests := []struct {
		name         string
		url          string
		calledReader string
		calledUrl    string
		wantErr      bool
	}{
		{
			name:         "https goes to the http reader",
			url:          "https://example.com/meta.json",
			calledReader: "http",
			calledUrl:    "https://example.com/meta.json",
		},
		{
			name:         "http goes to the http reader",
			url:          "http://example.com/meta.json",
			calledReader: "http",
			calledUrl:    "http://example.com/meta.json",
		},
		{
			name:         "ipfs scheme strips down to the cid",
			url:          "ipfs://QmSome/5.json",
			calledReader: "ipfs",
			calledUrl:    "QmSome/5.json",
		},
		{
			name:         "doubled ipfs prefix strips twice",
			url:          "ipfs://ipfs/QmSome/5.json",
			calledReader: "ipfs",
			calledUrl:    "QmSome/5.json",
		},
		{
			name:         "data uri goes to the data reader",
			url:          "data:application/json;base64,e30=",
			calledReader: "datauri",
			calledUrl:    "data:application/json;base64,e30=",
		},
		{
			name:         "ar uri goes to the ar reader",
			url:          "ar://sometx",
			calledReader: "ar",
			calledUrl:    "ar://sometx",
		},
		{
			name:    "unsupported scheme",
			url:     "ftp://example.com/meta.json",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			readers := newReaders()
			if len(tt.calledReader) > 0 {
				readers[tt.calledReader].On("Get", mock.Anything, tt.calledUrl).Return(body, nil)
			}
			u := newUseCase(readers)

			got, err := u.Get(c, tt.url)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrUnsupportedSchema)
				return
			}
			require.NoError(t, err)
			require.Equal(t, body, got)
			readers[tt.calledReader].AssertExpectations(t)
		})
	}
}

func Test_webResourceUseCase_GatewayFallback(t *testing.T) {
	c := bCtx.Background()
	body := []byte(`{"name":"Scaled"}`)
	errGateway := errors.New("status code 504")

	t.Run("failed gateway fetch retries through the ipfs reader", func(t *testing.T) {
		readers := newReaders()
		readers["http"].On("Get", mock.Anything, "https://ipfs.io/ipfs/QmSome/5.json").
			Return(nil, errGateway)
		readers["ipfs"].On("Get", mock.Anything, "QmSome/5.json").Return(body, nil)
		u := newUseCase(readers)

		got, err := u.Get(c, "https://ipfs.io/ipfs/QmSome/5.json")
		require.NoError(t, err)
		require.Equal(t, body, got)
		readers["ipfs"].AssertExpectations(t)
	})

	t.Run("non-gateway url does not fall back", func(t *testing.T) {
		readers := newReaders()
		readers["http"].On("Get", mock.Anything, "https://example.com/meta.json").
			Return(nil, errGateway)
		u := newUseCase(readers)

		_, err := u.Get(c, "https://example.com/meta.json")
		require.ErrorIs(t, err, errGateway)
		readers["ipfs"].AssertNotCalled(t, "Get")
	})
}

func Test_webResourceUseCase_GetJson(t *testing.T) {
	c := bCtx.Background()

	t.Run("valid json passes through", func(t *testing.T) {
		readers := newReaders()
		readers["http"].On("Get", mock.Anything, "https://example.com/meta.json").
			Return([]byte(`{"name":"Scaled"}`), nil)
		u := newUseCase(readers)

		got, err := u.GetJson(c, "https://example.com/meta.json")
		require.NoError(t, err)
		require.JSONEq(t, `{"name":"Scaled"}`, string(got))
	})

	t.Run("invalid json is rejected", func(t *testing.T) {
		readers := newReaders()
		readers["http"].On("Get", mock.Anything, "https://example.com/meta.json").
			Return([]byte("<html>not json</html>"), nil)
		u := newUseCase(readers)

		_, err := u.GetJson(c, "https://example.com/meta.json")
		require.ErrorIs(t, err, domain.ErrInvalidJsonFormat)
	})
}

func Test_getIpfsUrl(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "pinata",
			url:  "https://gateway.pinata.cloud/ipfs/QmVVutd4A4i1jCQnJXR49miQdXLNLVeGwyo5wWznpgRGeH",
			want: "ipfs://QmVVutd4A4i1jCQnJXR49miQdXLNLVeGwyo5wWznpgRGeH",
		},
		{
			name: "pinata dedicated",
			url:  "https://scaled.mypinata.cloud/ipfs/QmTeTTMFgPYULCNkfxLcJSu5KByxDWh6JA4HFZY4CQnxdS",
			want: "ipfs://QmTeTTMFgPYULCNkfxLcJSu5KByxDWh6JA4HFZY4CQnxdS",
		},
		{
			name: "ipfs.io",
			url:  "https://ipfs.io/ipfs/QmRM6jM1Agru6fgm9aae1oFukwSi5d3Kk71Lue2rYznEYm/0.png",
			want: "ipfs://QmRM6jM1Agru6fgm9aae1oFukwSi5d3Kk71Lue2rYznEYm/0.png",
		},
		{
			name: "cloudflare",
			url:  "https://cloudflare-ipfs.com/ipfs/QmSddkqicov3HC1Urzv5AKPy2S7KqcnMQR5fjBnrFs2Z7A",
			want: "ipfs://QmSddkqicov3HC1Urzv5AKPy2S7KqcnMQR5fjBnrFs2Z7A",
		},
		{
			name: "dweb",
			url:  "https://dweb.link/ipfs/QmSddkqicov3HC1Urzv5AKPy2S7KqcnMQR5fjBnrFs2Z7A",
			want: "ipfs://QmSddkqicov3HC1Urzv5AKPy2S7KqcnMQR5fjBnrFs2Z7A",
		},
		{
			name: "noop",
			url:  "https://some.url",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, getIpfsUrl(tt.url))
		})
	}
}
