// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"

	"github.com/elastic/gosigar"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/ledger/chain"
	"github.com/vechain/ledger/chaindb"
	"github.com/vechain/ledger/genesis"
	"github.com/vechain/ledger/log"
	"github.com/vechain/ledger/lvldb"
	"github.com/vechain/ledger/operation"
	"github.com/vechain/ledger/runtime"
	"github.com/vechain/ledger/thor"
)

func initLogger(ctx *cli.Context) error {
	lvl, err := verbosityToLevel(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return err
	}
	var level slog.LevelVar
	level.Set(lvl)

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, &level)
	} else {
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, &level, isatty.IsTerminal(os.Stderr.Fd()))
	}
	log.SetDefault(log.NewLogger(handler))
	return nil
}

func verbosityToLevel(v uint64) (slog.Level, error) {
	switch v {
	case 0:
		return log.LevelCrit, nil
	case 1:
		return log.LevelError, nil
	case 2:
		return log.LevelWarn, nil
	case 3:
		return log.LevelInfo, nil
	case 4:
		return log.LevelDebug, nil
	case 5:
		return log.LevelTrace, nil
	default:
		return 0, fmt.Errorf("invalid verbosity %d, want 0-5", v)
	}
}

func loadConfig(ctx *cli.Context) (thor.Config, error) {
	path := ctx.String(configFlag.Name)
	if path == "" {
		cfg := thor.DefaultConfig()
		return cfg, cfg.Validate()
	}
	return thor.LoadConfig(path)
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".ledger")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// openStores opens the state and block databases of the genesis instance.
func openStores(ctx *cli.Context, gene *genesis.Genesis, persist bool) (state, blocks *lvldb.LevelDB, instanceDir string, err error) {
	if !persist {
		if state, err = lvldb.NewMem(); err != nil {
			return nil, nil, "", err
		}
		if blocks, err = lvldb.NewMem(); err != nil {
			state.Close()
			return nil, nil, "", err
		}
		return state, blocks, "Memory", nil
	}

	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return nil, nil, "", errors.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	instanceDir = filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ChainID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0700); err != nil {
		return nil, nil, "", errors.Wrapf(err, "create data dir [%v]", instanceDir)
	}

	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	opts := lvldb.Options{CacheSize: cacheMB * 3 / 4, OpenFilesCacheCapacity: 64}
	if state, err = lvldb.New(filepath.Join(instanceDir, "state.db"), opts); err != nil {
		return nil, nil, "", errors.Wrap(err, "open state database")
	}
	opts.CacheSize = cacheMB - opts.CacheSize
	if blocks, err = lvldb.New(filepath.Join(instanceDir, "blocks.db"), opts); err != nil {
		state.Close()
		return nil, nil, "", errors.Wrap(err, "open block database")
	}
	return state, blocks, instanceDir, nil
}

// normalizeCacheSize bounds the database cache to [64MB, half of the ram].
func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 64 {
		sizeMB = 64
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem", "err", err)
		return sizeMB
	}
	if limitMB := int(mem.Total / 1024 / 1024 / 2); sizeMB > limitMB {
		logger.Warn("cache size(MB) limited", "limit", limitMB)
		sizeMB = limitMB
	}
	return sizeMB
}

func openLedger(cfg thor.Config, gene *genesis.Genesis, state, blocks *lvldb.LevelDB) (*chain.Ledger, error) {
	store, err := chaindb.New(state, chaindb.Options{
		EntryCacheSize: cfg.EntryCacheSize,
		TrxCacheSize:   cfg.TrxCacheSize,
	})
	if err != nil {
		return nil, err
	}
	rt := runtime.New(operation.NewDefaultRegistry(), &cfg, gene.ChainID())
	return chain.Open(rt, store, blocks, gene)
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}
