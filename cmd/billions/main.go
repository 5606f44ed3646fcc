// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/billions-game/billions/api"
	"github.com/billions-game/billions/log"
	"github.com/billions-game/billions/node"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Billions",
		Usage:     "Node of the Billions prediction game",
		Copyright: "2024 The Billions developers",
		Flags: []cli.Flag{
			dataDirFlag,
			apiAddrFlag,
			apiCorsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableAPILogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			pprofFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			battleCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { log.Info("exited") }()

	initLogger(ctx)

	store := openStore(ctx)
	defer func() { log.Info("closing main database..."); store.Close() }()

	initGenesis(store)
	n := node.New(store)

	if ctx.Bool(enableMetricsFlag.Name) {
		metricsSrv := startMetricsServer(ctx)
		defer func() { _ = metricsSrv.Shutdown(context.Background()) }()
	}

	apiHandler := api.New(n, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		PprofOn:         ctx.Bool(pprofFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
	})
	apiSrv, apiURL := startAPIServer(ctx, apiHandler)
	defer func() { log.Info("stopping API server..."); _ = apiSrv.Shutdown(context.Background()) }()

	printStartupMessage(apiURL, ctx.String(dataDirFlag.Name))

	<-handleExitSignal().Done()
	return nil
}
