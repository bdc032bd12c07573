package toncenter

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/xerrors"

	"github.com/tonscope/goapi/base/backoff"
	"github.com/tonscope/goapi/base/cell"
	bCtx "github.com/tonscope/goapi/base/ctx"
	"github.com/tonscope/goapi/base/log"
	"github.com/tonscope/goapi/base/metrics"
	"github.com/tonscope/goapi/domain"
)

const apikeyHeader = "X-API-Key"

var (
	met     metrics.Service
	metOnce sync.Once
)

func NewClient(cfg *ClientCfg) Client {
	metOnce.Do(func() {
		met = metrics.New("toncenter")
	})
	nb := cfg.NewBackoff
	if nb == nil {
		nb = func() *backoff.Backoff {
			return backoff.NewExponential(time.Second, 30*time.Second)
		}
	}
	retryLimit := cfg.RetryLimit
	if retryLimit == 0 {
		retryLimit = 3
	}
	return &client{
		client:     cfg.HttpClient,
		url:        cfg.Url,
		timeout:    cfg.Timeout,
		apikey:     cfg.Apikey,
		retryLimit: retryLimit,
		newBackoff: nb,
	}
}

type client struct {
	client     http.Client
	url        string
	timeout    time.Duration
	apikey     string
	retryLimit int
	newBackoff func() *backoff.Backoff
}

func (c *client) RunGetMethod(ctx bCtx.Ctx, address domain.Address, method string, args []domain.CallArg) (*domain.TonCallResult, error) {
	defer met.BumpTime("runGetMethod.latency", "method", method).End()

	payload, err := json.Marshal(rpcRequest{
		Id:      "1",
		Jsonrpc: "2.0",
		Method:  "runGetMethod",
		Params: runGetMethodParams{
			Address: address.String(),
			Method:  method,
			Stack:   encodeStack(args),
		},
	})
	if err != nil {
		return nil, err
	}
	data, err := c.post(ctx, payload)
	if err != nil {
		ctx.WithFields(log.Fields{
			"address": address,
			"method":  method,
			"err":     err,
		}).Error("c.post failed")
		return nil, err
	}
	resp := &rpcResponse{}
	if err := json.Unmarshal(data, resp); err != nil {
		ctx.WithField("err", err).Error("json.Unmarshal failed")
		return nil, err
	}
	if !resp.Ok {
		ctx.WithFields(log.Fields{
			"address": address,
			"method":  method,
			"code":    resp.Code,
			"error":   resp.Error,
		}).Error("toncenter returned an error")
		return nil, xerrors.Errorf("toncenter error %d: %s: %w", resp.Code, resp.Error, domain.ErrRemoteCall)
	}
	if resp.Result.ExitCode != 0 {
		ctx.WithFields(log.Fields{
			"address":  address,
			"method":   method,
			"exitCode": resp.Result.ExitCode,
		}).Warn("get method exited with non-zero code")
		return nil, xerrors.Errorf("%s exited with %d: %w", method, resp.Result.ExitCode, domain.ErrRemoteCall)
	}
	items, err := decodeStack(resp.Result.Stack)
	if err != nil {
		ctx.WithFields(log.Fields{
			"address": address,
			"method":  method,
			"err":     err,
		}).Error("failed to decode result stack")
		return nil, err
	}
	return domain.NewTonCallResult(items), nil
}

func encodeStack(args []domain.CallArg) [][]interface{} {
	stack := make([][]interface{}, 0, len(args))
	for _, a := range args {
		if a.Cell != nil {
			stack = append(stack, []interface{}{"tvm.Cell", base64.StdEncoding.EncodeToString(a.Cell.ToBOC())})
		} else {
			stack = append(stack, []interface{}{"num", a.Num.String()})
		}
	}
	return stack
}

func decodeStack(entries [][]json.RawMessage) ([]domain.StackItem, error) {
	items := make([]domain.StackItem, 0, len(entries))
	for i, entry := range entries {
		if len(entry) != 2 {
			return nil, xerrors.Errorf("stack entry %d has %d parts: %w", i, len(entry), domain.ErrRemoteCall)
		}
		var kind string
		if err := json.Unmarshal(entry[0], &kind); err != nil {
			return nil, err
		}
		switch kind {
		case "num":
			var text string
			if err := json.Unmarshal(entry[1], &text); err != nil {
				return nil, err
			}
			n, err := parseStackNumber(text)
			if err != nil {
				return nil, err
			}
			items = append(items, domain.StackItem{Type: domain.StackItemTypeNum, Num: n})
		case "cell", "slice":
			payload := cellPayload{}
			if err := json.Unmarshal(entry[1], &payload); err != nil {
				return nil, err
			}
			cl, err := cell.FromBOC(payload.Bytes)
			if err != nil {
				return nil, err
			}
			items = append(items, domain.StackItem{Type: domain.StackItemTypeCell, Cell: cl})
		default:
			// tuples and lists come back opaque, callers can only skip them
			items = append(items, domain.StackItem{Type: domain.StackItemTypeOpaque})
		}
	}
	return items, nil
}

// parseStackNumber reads toncenter's number rendering, decimal or 0x-hex,
// either optionally signed.
func parseStackNumber(text string) (*big.Int, error) {
	s := text
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	base := 10
	if strings.HasPrefix(s, "0x") {
		base = 16
		s = s[2:]
	}
	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, xerrors.Errorf("malformed number %q: %w", text, domain.ErrRemoteCall)
	}
	if neg {
		n.Neg(n)
	}
	return n, nil
}

func (c *client) post(ctx bCtx.Ctx, payload []byte) ([]byte, error) {
	var (
		retries = 0
		data    []byte
		err     error
	)
	// concurrent calls pace their retries independently
	b := c.newBackoff()
	for {
		data, err = c.postOnce(ctx, payload)
		if !errors.Is(err, ErrRateLimited) || retries >= c.retryLimit {
			break
		}
		retries++
		if b.Backoff(ctx) != nil {
			// ctx closed
			break
		}
	}
	return data, err
}

func (c *client) postOnce(ctx bCtx.Ctx, payload []byte) ([]byte, error) {
	ctx, cancel := bCtx.WithTimeout(ctx, c.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewReader(payload))
	if err != nil {
		ctx.WithField("err", err).Error("NewRequestWithContext failed")
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if len(c.apikey) > 0 {
		req.Header.Set(apikeyHeader, c.apikey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		ctx.WithField("err", err).Error("client.Do failed")
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		ctx.WithFields(log.Fields{
			"statusCode": resp.StatusCode,
		}).Error("resp.StatusCode != 200")
		return nil, ErrStatusCodeNotOk
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		ctx.WithField("err", err).Error("failed to read body")
		return nil, err
	}
	return body, nil
}
