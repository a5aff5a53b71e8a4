// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package txpool keeps the transactions waiting for a block.
package txpool

import (
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/log"
	"github.com/vechain/ledger/pending"
	"github.com/vechain/ledger/runtime"
	"github.com/vechain/ledger/thor"
	"github.com/vechain/ledger/tx"
)

const (
	// MaxTrxSize is the max encoded size of a pooled transaction.
	MaxTrxSize = 64 * 1024
)

var logger = log.WithContext("pkg", "txpool")

// Options options for the pool.
type Options struct {
	Limit int
}

// TrxEvent is posted when a transaction is accepted into the pool.
type TrxEvent struct {
	Trx *tx.Transaction
	ID  thor.Bytes32
}

// Pool holds accepted transactions in arrival order. Each one is evaluated
// against the overlay left by the ones before it, so a double spend across
// pooled transactions is rejected.
//
// It's thread-safe.
type Pool struct {
	rt      *runtime.Runtime
	options Options
	feed    event.Feed

	mu      sync.Mutex
	overlay *pending.ChainState
	trxs    []*tx.Transaction
	ids     map[thor.Bytes32]struct{}
}

// New creates a pool evaluating over base.
func New(rt *runtime.Runtime, base entry.ChainInterface, options Options) *Pool {
	if options.Limit <= 0 {
		options.Limit = 10000
	}
	return &Pool{
		rt:      rt,
		options: options,
		overlay: pending.New(base),
		ids:     make(map[thor.Bytes32]struct{}),
	}
}

// SubscribeTrxEvent subscribes to accepted transactions.
func (p *Pool) SubscribeTrxEvent(ch chan *TrxEvent) event.Subscription {
	return p.feed.Subscribe(ch)
}

// Add evaluates trx at time now and keeps it if accepted.
func (p *Pool) Add(trx *tx.Transaction, now uint64) error {
	p.mu.Lock()
	id, err := p.add(trx, now)
	p.mu.Unlock()
	if err != nil {
		metricTrxCount().AddWithLabel(1, map[string]string{"result": errs.KindOf(err).String()})
		return err
	}
	metricTrxCount().AddWithLabel(1, map[string]string{"result": "accepted"})
	p.feed.Send(&TrxEvent{trx, id})
	return nil
}

func (p *Pool) add(trx *tx.Transaction, now uint64) (thor.Bytes32, error) {
	id := trx.ID(p.rt.ChainID())
	if _, ok := p.ids[id]; ok {
		return id, errs.New(errs.DuplicateRegistration, "transaction %v already pooled", id)
	}
	if trx.ResultType().IsResult() {
		return id, errs.New(errs.Unauthorized, "result transaction %v is only accepted in blocks", id)
	}
	if len(p.trxs) >= p.options.Limit {
		return id, errs.New(errs.InvalidArgument, "pool is full")
	}
	if size := trx.Size(); size > MaxTrxSize {
		return id, errs.New(errs.InvalidArgument, "transaction %v too large: %d bytes", id, size)
	}
	if _, err := p.rt.ExecuteTransaction(p.overlay, trx, now, 0, uint32(len(p.trxs))); err != nil {
		return id, err
	}
	p.trxs = append(p.trxs, trx)
	p.ids[id] = struct{}{}
	metricPoolSize().Set(int64(len(p.trxs)))
	return id, nil
}

// Reset rebases the pool on base, re-evaluating the pooled transactions at
// time now. Transactions that no longer apply, such as the ones already
// included in base, are dropped. It returns the count of dropped ones.
func (p *Pool) Reset(base entry.ChainInterface, now uint64) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	old := p.trxs
	p.overlay = pending.New(base)
	p.trxs = nil
	p.ids = make(map[thor.Bytes32]struct{}, len(old))

	dropped := 0
	for _, trx := range old {
		if id, err := p.add(trx, now); err != nil {
			dropped++
			logger.Trace("transaction dropped", "id", id, "err", err)
		}
	}
	metricPoolSize().Set(int64(len(p.trxs)))
	return dropped
}

// Pending returns the pooled transactions in arrival order.
func (p *Pool) Pending() tx.Transactions {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append(tx.Transactions(nil), p.trxs...)
}

// Has returns whether the transaction of id is pooled.
func (p *Pool) Has(id thor.Bytes32) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.ids[id]
	return ok
}

// Len returns the count of pooled transactions.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.trxs)
}
