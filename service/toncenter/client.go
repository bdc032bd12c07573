package toncenter

import (
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/xerrors"

	"github.com/tonscope/goapi/base/backoff"
	bCtx "github.com/tonscope/goapi/base/ctx"
	"github.com/tonscope/goapi/domain"
)

var (
	ErrStatusCodeNotOk = xerrors.Errorf("http.status != 200: %w", domain.ErrRemoteCall)
	ErrRateLimited     = xerrors.Errorf("http.status == 429: %w", domain.ErrRemoteCall)
)

// Client runs read-only get methods through a toncenter endpoint. It
// satisfies domain.TonClientRepo.
type Client interface {
	RunGetMethod(c bCtx.Ctx, address domain.Address, method string, args []domain.CallArg) (*domain.TonCallResult, error)
}

type ClientCfg struct {
	HttpClient http.Client
	// Url points at the json-rpc endpoint, e.g.
	// https://toncenter.com/api/v2/jsonRPC
	Url        string
	Timeout    time.Duration
	Apikey     string
	RetryLimit int
	// NewBackoff builds the 429 retry schedule for a single call. The client
	// is shared across goroutines, so schedules are never reused between
	// calls.
	NewBackoff func() *backoff.Backoff
}

type rpcRequest struct {
	Id      string             `json:"id"`
	Jsonrpc string             `json:"jsonrpc"`
	Method  string             `json:"method"`
	Params  runGetMethodParams `json:"params"`
}

type runGetMethodParams struct {
	Address string          `json:"address"`
	Method  string          `json:"method"`
	Stack   [][]interface{} `json:"stack"`
}

type rpcResponse struct {
	Ok     bool      `json:"ok"`
	Error  string    `json:"error"`
	Code   int       `json:"code"`
	Result runResult `json:"result"`
}

type runResult struct {
	GasUsed  int64               `json:"gas_used"`
	ExitCode int                 `json:"exit_code"`
	Stack    [][]json.RawMessage `json:"stack"`
}

// cellPayload is the second element of a cell or slice stack entry, a
// base64 bag of cells.
type cellPayload struct {
	Bytes []byte `json:"bytes"`
}
