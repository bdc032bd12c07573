package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"

	ipfsapi "github.com/ipfs/go-ipfs-api"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/viney-shih/goroutines"

	bCtx "github.com/tonscope/goapi/base/ctx"
	"github.com/tonscope/goapi/base/log"
	supplyformatter "github.com/tonscope/goapi/base/supply_formatter"
	"github.com/tonscope/goapi/domain"
	"github.com/tonscope/goapi/service/toncenter"
	content_usecase "github.com/tonscope/goapi/stores/content/usecase"
	jetton_usecase "github.com/tonscope/goapi/stores/jetton/usecase"
	nft_usecase "github.com/tonscope/goapi/stores/nft/usecase"
	web_resource_repository "github.com/tonscope/goapi/stores/web_resource/repository"
	web_resource_usecase "github.com/tonscope/goapi/stores/web_resource/usecase"
)

var (
	kind       = pflag.StringP("kind", "k", "jetton", "contract kind to resolve: jetton, collection or item")
	configPath = pflag.StringP("config", "c", "infra/configs/config.yaml", "config file path")
	workers    = pflag.IntP("workers", "w", 4, "parallel resolutions")
)

type result struct {
	Address string      `json:"address"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func main() {
	pflag.Parse()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configPath)
	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}

	addresses := pflag.Args()
	if len(addresses) == 0 {
		fmt.Fprintln(os.Stderr, "usage: resolver [flags] address...")
		pflag.PrintDefaults()
		os.Exit(1)
	}
	switch *kind {
	case "jetton", "collection", "item":
	default:
		fmt.Fprintf(os.Stderr, "unknown kind %q\n", *kind)
		pflag.PrintDefaults()
		os.Exit(1)
	}

	ctx := bCtx.Background()
	jetton, nft := buildUseCases()

	poolSize := *workers
	if poolSize < 1 {
		poolSize = 1
	}
	pool := goroutines.NewPool(poolSize, goroutines.WithTaskQueueLength(len(addresses)))
	results := make([]result, len(addresses))
	var wg sync.WaitGroup
	for i, raw := range addresses {
		i, raw := i, raw
		wg.Add(1)
		if err := pool.Schedule(func() {
			defer wg.Done()
			results[i] = resolveOne(ctx, *kind, raw, jetton, nft)
		}); err != nil {
			wg.Done()
			results[i] = result{Address: raw, Error: err.Error()}
		}
	}
	wg.Wait()
	pool.Release()

	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		panic(err)
	}
	fmt.Println(string(out))

	failed := 0
	for _, r := range results {
		if len(r.Error) > 0 {
			failed++
		}
	}
	if failed > 0 {
		log.Log().WithField("failed", failed).Error("some addresses failed to resolve")
		os.Exit(1)
	}
}

func buildUseCases() (domain.JettonUseCase, domain.NftUseCase) {
	tonClient := toncenter.NewClient(&toncenter.ClientCfg{
		HttpClient: http.Client{},
		Url:        viper.GetString("toncenter.url"),
		Timeout:    viper.GetDuration("toncenter.timeout"),
		Apikey:     viper.GetString("toncenter.apikey"),
		RetryLimit: viper.GetInt("toncenter.retryLimit"),
	})

	httpTimeout := viper.GetDuration("http.timeout")
	webHeaders := viper.GetStringMapString("http.headers")
	httpReader := web_resource_repository.NewHttpReaderRepo(http.Client{}, httpTimeout, webHeaders)
	var ipfsReader domain.WebResourceReaderRepository
	if nodeApi := viper.GetString("ipfs.nodeApi"); len(nodeApi) > 0 {
		ipfsReader = web_resource_repository.NewIpfsNodeApiReaderRepo(ipfsapi.NewShell(nodeApi), httpTimeout)
	} else {
		ipfsReader = web_resource_repository.NewIpfsGatewayReaderRepo(http.Client{}, viper.GetString("ipfs.gateway"), httpTimeout)
	}
	webResource := web_resource_usecase.NewWebResourceUseCase(&web_resource_usecase.WebResourceUseCaseCfg{
		HttpReader:    httpReader,
		IpfsReader:    ipfsReader,
		DataUriReader: web_resource_repository.NewDataUriReaderRepo(),
		ArUriReader:   web_resource_repository.NewArReaderRepo(http.Client{}, httpTimeout, webHeaders),
	})

	content := content_usecase.NewContentUseCase(&content_usecase.ContentUseCaseCfg{
		TonClient:     tonClient,
		WebResourceUC: webResource,
	})
	jetton := jetton_usecase.NewJettonUseCase(&jetton_usecase.JettonUseCaseCfg{
		TonClient:       tonClient,
		ContentUC:       content,
		SupplyFormatter: supplyformatter.NewSupplyFormatter(),
	})
	nft := nft_usecase.NewNftUseCase(&nft_usecase.NftUseCaseCfg{
		TonClient: tonClient,
		ContentUC: content,
	})
	return jetton, nft
}

func resolveOne(c bCtx.Ctx, kind, raw string, jetton domain.JettonUseCase, nft domain.NftUseCase) result {
	address, err := domain.ParseAddress(raw)
	if err != nil {
		return result{Address: raw, Error: err.Error()}
	}

	var (
		data       interface{}
		resolveErr error
	)
	switch kind {
	case "jetton":
		data, resolveErr = jetton.Resolve(c, address)
	case "collection":
		data, resolveErr = nft.ResolveCollection(c, address)
	case "item":
		data, resolveErr = nft.ResolveItem(c, address)
	default:
		return result{Address: address.String(), Error: fmt.Sprintf("unknown kind %q", kind)}
	}
	if resolveErr != nil {
		return result{Address: address.String(), Error: resolveErr.Error()}
	}
	return result{Address: address.String(), Data: data}
}
