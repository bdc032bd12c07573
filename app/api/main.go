package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/go-playground/validator/v10"
	ipfsapi "github.com/ipfs/go-ipfs-api"
	"github.com/tonscope/goapi/base/ctx"
	"github.com/tonscope/goapi/base/log"
	supplyformatter "github.com/tonscope/goapi/base/supply_formatter"
	bValidator "github.com/tonscope/goapi/base/validator"
	"github.com/tonscope/goapi/domain"
	mmiddleware "github.com/tonscope/goapi/middleware"
	"github.com/tonscope/goapi/service/toncenter"
	content_usecase "github.com/tonscope/goapi/stores/content/usecase"
	jetton_delivery "github.com/tonscope/goapi/stores/jetton/delivery/http"
	jetton_usecase "github.com/tonscope/goapi/stores/jetton/usecase"
	nft_delivery "github.com/tonscope/goapi/stores/nft/delivery/http"
	nft_usecase "github.com/tonscope/goapi/stores/nft/usecase"
	web_resource_repository "github.com/tonscope/goapi/stores/web_resource/repository"
	web_resource_usecase "github.com/tonscope/goapi/stores/web_resource/usecase"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init toncenter client
	context.Info("init toncenter client")
	tonClient := toncenter.NewClient(&toncenter.ClientCfg{
		HttpClient: http.Client{},
		Url:        viper.GetString("toncenter.url"),
		Timeout:    viper.GetDuration("toncenter.timeout"),
		Apikey:     viper.GetString("toncenter.apikey"),
		RetryLimit: viper.GetInt("toncenter.retryLimit"),
	})

	// init web resource readers
	httpTimeout := viper.GetDuration("http.timeout")
	webHeaders := viper.GetStringMapString("http.headers")
	httpReader := web_resource_repository.NewHttpReaderRepo(http.Client{}, httpTimeout, webHeaders)
	var ipfsReader domain.WebResourceReaderRepository
	if nodeApi := viper.GetString("ipfs.nodeApi"); len(nodeApi) > 0 {
		context.WithField("nodeApi", nodeApi).Info("reading ipfs through node api")
		ipfsReader = web_resource_repository.NewIpfsNodeApiReaderRepo(ipfsapi.NewShell(nodeApi), httpTimeout)
	} else {
		ipfsReader = web_resource_repository.NewIpfsGatewayReaderRepo(http.Client{}, viper.GetString("ipfs.gateway"), httpTimeout)
	}
	dataUriReader := web_resource_repository.NewDataUriReaderRepo()
	arUriReader := web_resource_repository.NewArReaderRepo(http.Client{}, httpTimeout, webHeaders)

	webResource := web_resource_usecase.NewWebResourceUseCase(&web_resource_usecase.WebResourceUseCaseCfg{
		HttpReader:    httpReader,
		IpfsReader:    ipfsReader,
		DataUriReader: dataUriReader,
		ArUriReader:   arUriReader,
	})

	// construct usecase and delivery
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

	jetton_delivery.New(e, jetton)
	nft_delivery.New(e, nft)

	e.GET("/healthcheck", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status": "ok",
		})
	})

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
