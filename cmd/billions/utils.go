// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/billions-game/billions/builtin"
	"github.com/billions-game/billions/genesis"
	"github.com/billions-game/billions/kv"
	"github.com/billions-game/billions/log"
	"github.com/billions-game/billions/metrics"
	"github.com/billions-game/billions/state"
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func defaultDataDir() string {
	// try to get HOME dir
	if u, err := user.Current(); err == nil {
		return filepath.Join(u.HomeDir, ".billions")
	}
	return ""
}

func initLogger(ctx *cli.Context) {
	level := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))

	var handler = log.NewTextHandler(os.Stderr, level)
	if ctx.Bool(jsonLogsFlag.Name) || !isatty.IsTerminal(os.Stderr.Fd()) {
		handler = log.NewJSONHandler(os.Stderr, level)
	}
	log.SetDefault(log.NewLogger(handler))
}

func openStore(ctx *cli.Context) kv.Store {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal("unable to locate data dir")
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	store, err := kv.New(filepath.Join(dataDir, "main.db"), kv.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 512,
	})
	if err != nil {
		fatal(fmt.Sprintf("open main database: %v", err))
	}
	return store
}

// initGenesis builds the devnet genesis state on a fresh store.
func initGenesis(store kv.Store) {
	st := state.New(store)
	owner, err := builtin.Battle.WithState(st).Owner()
	if err != nil {
		fatal(fmt.Sprintf("read genesis state: %v", err))
	}
	if !owner.IsZero() {
		return
	}
	if err := genesis.NewDevnet().Build(st); err != nil {
		fatal(fmt.Sprintf("build genesis state: %v", err))
	}
}

func startAPIServer(ctx *cli.Context, handler http.HandlerFunc) (*http.Server, string) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen API addr [%v]: %v", addr, err))
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second * 10}
	go func() {
		_ = srv.Serve(listener)
	}()
	return srv, "http://" + listener.Addr().String() + "/"
}

func startMetricsServer(ctx *cli.Context) *http.Server {
	metrics.InitializePrometheusMetrics()
	addr := ctx.String(metricsAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen metrics addr [%v]: %v", addr, err))
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: time.Second * 10}
	go func() {
		_ = srv.Serve(listener)
	}()
	return srv
}

func handleExitSignal() context.Context {
	exitSignalCtx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return exitSignalCtx
}

func printStartupMessage(apiURL string, dataDir string) {
	accounts := genesis.DevAccounts()
	fmt.Printf(`Starting Billions
    API portal   [ %v ]
    Data dir     [ %v ]
    Battle       [ %v ]
    Play token   [ %v ]
    Owner        [ %v ]
`,
		apiURL,
		dataDir,
		builtin.Battle.Address,
		builtin.PlayToken.Address,
		accounts[0].Address,
	)
}
