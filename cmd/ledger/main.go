// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/ledger/chain"
	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/genesis"
	"github.com/vechain/ledger/log"
	"github.com/vechain/ledger/metrics"
	"github.com/vechain/ledger/txpool"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
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
		Name:      "Ledger",
		Usage:     "DPoS ledger node, producing devnet blocks with the dev keys",
		Copyright: "2018 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			configFlag,
			persistFlag,
			cacheFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
		},
		Action: soloAction,
		Commands: []cli.Command{
			{
				Name:  "info",
				Usage: "print the head block and the active delegates of a persisted ledger",
				Flags: []cli.Flag{
					dataDirFlag,
					configFlag,
					cacheFlag,
				},
				Action: infoAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func soloAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	if err := initLogger(ctx); err != nil {
		return err
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	gene := genesis.NewDevnet()

	state, blocks, instanceDir, err := openStores(ctx, gene, ctx.Bool(persistFlag.Name))
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing databases..."); state.Close(); blocks.Close() }()

	ledger, err := openLedger(cfg, gene, state, blocks)
	if err != nil {
		return err
	}
	pool := txpool.New(ledger.Runtime(), ledger.State(), txpool.Options{})

	exitSignal := handleExitSignal()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return fmt.Errorf("unable to start metrics server - %w", err)
		}
		logger.Info("metrics server started", "url", url)
		defer closeFunc()
	}

	g, gctx := errgroup.WithContext(exitSignal)
	task := chain.NewTask(ledger, pool, nil)
	task.Run(gctx)
	defer task.Wait()

	head := ledger.Head()
	logger.Info("ledger started",
		"network", gene.Name(),
		"instance", instanceDir,
		"head", head.ID(),
		"number", head.Number(),
	)
	g.Go(func() error {
		return newSolo(task, pool, cfg.BlockInterval).run(gctx)
	})
	return g.Wait()
}

type delegateInfo struct {
	ID       entry.AccountID `json:"id"`
	Name     string          `json:"name"`
	VotesFor uint64          `json:"votesFor"`
	Produced uint32          `json:"blocksProduced"`
	Missed   uint32          `json:"blocksMissed"`
}

type ledgerInfo struct {
	Network   string         `json:"network"`
	Head      string         `json:"head"`
	Number    uint32         `json:"number"`
	Timestamp uint64         `json:"timestamp"`
	Delegates []delegateInfo `json:"delegates"`
}

func infoAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	gene := genesis.NewDevnet()
	state, blocks, _, err := openStores(ctx, gene, true)
	if err != nil {
		return err
	}
	defer func() { state.Close(); blocks.Close() }()

	ledger, err := openLedger(cfg, gene, state, blocks)
	if err != nil {
		return err
	}
	info, err := readLedgerInfo(ledger, gene.Name())
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func readLedgerInfo(ledger *chain.Ledger, network string) (*ledgerInfo, error) {
	head := ledger.Head()
	info := &ledgerInfo{
		Network:   network,
		Head:      head.ID().String(),
		Number:    head.Number(),
		Timestamp: head.Timestamp(),
	}
	ids, err := entry.GetActiveDelegates(ledger.State())
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		a, err := ledger.State().LookupAccountByID(id)
		if err != nil {
			return nil, err
		}
		if a == nil || !a.IsDelegate() {
			continue
		}
		info.Delegates = append(info.Delegates, delegateInfo{
			ID:       a.ID,
			Name:     a.Name,
			VotesFor: a.DelegateInfo.VotesFor,
			Produced: a.DelegateInfo.BlocksProduced,
			Missed:   a.DelegateInfo.BlocksMissed,
		})
	}
	return info, nil
}
