package repository

import (
	"io"
	"net/http"
	"strings"
	"time"

	bCtx "github.com/tonscope/goapi/base/ctx"
	"github.com/tonscope/goapi/base/log"
	"github.com/tonscope/goapi/domain"
	"golang.org/x/xerrors"
)

const arUriSchema = "ar://"

type arReaderRepo struct {
	client     http.Client
	ctxTimeout time.Duration
	headers    map[string]string
}

// NewArReaderRepo resolves ar:// uris through the arweave.net gateway.
func NewArReaderRepo(client http.Client, timeout time.Duration, headers map[string]string) domain.WebResourceReaderRepository {
	return &arReaderRepo{client: client, ctxTimeout: timeout, headers: headers}
}

func (r *arReaderRepo) Get(c bCtx.Ctx, url string) ([]byte, error) {
	if !strings.HasPrefix(url, arUriSchema) {
		return nil, xerrors.Errorf("invalid ar uri")
	}
	url = strings.Replace(url, arUriSchema, "https://arweave.net/", 1)
	ctx, cancel := bCtx.WithTimeout(c, r.ctxTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		ctx.WithField("url", url).Warn("failed with request")
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		ctx.WithFields(log.Fields{
			"url":        url,
			"statusCode": resp.StatusCode,
		}).Error("unexpected status code")
		return nil, xerrors.Errorf("status code %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("failed to read body")
		return nil, err
	}
	return body, nil
}
