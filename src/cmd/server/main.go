package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"finsight/src/pkg/analyzer"
	"finsight/src/pkg/bootstrap"
	echomw "finsight/src/pkg/echo-middleware"
	"finsight/src/pkg/session"
	"finsight/src/pkg/web"
)

func main() {
	configPath := flag.String("config", "./cfg/config.json", "Path to your configuration file.")
	addressFlag := flag.String("address", "", "Listen address host:port (default: from config)")
	endpointFlag := flag.String("endpoint", "", "Analysis backend upload URL (default: from config)")
	flag.Parse()
	bootstrap.Initialize(*configPath)

	if os.Getenv(echomw.EnvAPIToken) == "" {
		tl.Log(tl.Warning, palette.Yellow, "%s is not set, %s will reject every request", echomw.EnvAPIToken, "/api")
	}

	address := echomw.Cfg.ListenAddress()
	if *addressFlag != "" {
		address = *addressFlag
	}
	endpoint := analyzer.Cfg.Endpoint
	if *endpointFlag != "" {
		endpoint = *endpointFlag
	}

	server, e := web.NewServer(session.New(), analyzer.NewClient(endpoint, nil))
	if e != nil {
		e.QuitIf(xerr.ErrorTypeError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tl.Log(tl.Info, palette.Cyan, "Analysis backend is '%s'", endpoint)
	e = server.Run(ctx, address)
	if e != nil {
		e.QuitIf(xerr.ErrorTypeError)
	}
}
