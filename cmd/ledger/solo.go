// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"crypto/ecdsa"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/vechain/ledger/block"
	"github.com/vechain/ledger/chain"
	"github.com/vechain/ledger/genesis"
	"github.com/vechain/ledger/thor"
	"github.com/vechain/ledger/txpool"
)

// solo produces the devnet blocks on schedule, signing with the dev keys.
type solo struct {
	task     *chain.Task
	pool     *txpool.Pool
	interval uint64
	keys     map[thor.PublicKey]*ecdsa.PrivateKey
}

func newSolo(task *chain.Task, pool *txpool.Pool, interval uint64) *solo {
	keys := make(map[thor.PublicKey]*ecdsa.PrivateKey)
	for _, acc := range genesis.DevAccounts() {
		keys[acc.PublicKey] = acc.PrivateKey
	}
	return &solo{task, pool, interval, keys}
}

func (s *solo) run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second)
	clockSyncTicker := time.NewTicker(10 * time.Minute)
	defer func() {
		ticker.Stop()
		clockSyncTicker.Stop()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-clockSyncTicker.C:
			go checkClockOffset(s.interval)
		case <-ticker.C:
			if err := s.produce(ctx, uint64(time.Now().Unix())); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Warn("failed to produce block", "err", err)
			}
		}
	}
}

// produce builds the block of the latest slot at now, if the head is older.
func (s *solo) produce(ctx context.Context, now uint64) error {
	var blk *block.Block
	err := s.task.Inspect(ctx, func(l *chain.Ledger) error {
		head := l.Head()
		ts := now - now%s.interval
		if ts <= head.Timestamp() {
			return nil
		}
		producer, err := l.ScheduledProducer(ts)
		if err != nil {
			return err
		}
		key, ok := s.keys[producer.SigningKey()]
		if !ok {
			return errors.Errorf("no signing key for delegate %s", producer.Name)
		}

		builder := new(block.Builder).
			Previous(head.ID()).
			Number(head.Number() + 1).
			Timestamp(ts)
		for _, trx := range s.pool.Pending() {
			builder.Transaction(trx)
		}
		blk, err = builder.Build().Sign(key)
		return err
	})
	if err != nil || blk == nil {
		return err
	}
	if err := s.task.SubmitBlock(ctx, blk); err != nil {
		return err
	}
	header := blk.Header()
	logger.Info("block produced", "number", header.Number(), "id", header.ID(), "trxs", len(blk.Transactions()))
	return nil
}

// checkClockOffset warns if the local clock drifts enough to miss slots.
func checkClockOffset(interval uint64) {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	if clockDrifted(resp.ClockOffset, interval) {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

func clockDrifted(offset time.Duration, interval uint64) bool {
	if offset < 0 {
		offset = -offset
	}
	return offset > time.Duration(interval)*time.Second/2
}
