// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/vechain/ledger/block"
	"github.com/vechain/ledger/co"
	"github.com/vechain/ledger/thor"
	"github.com/vechain/ledger/tx"
	"github.com/vechain/ledger/txpool"
)

// ErrTaskStopped is returned for requests made after the task stopped.
var ErrTaskStopped = errors.New("ledger task stopped")

type request struct {
	blk    *block.Block
	trx    *tx.Transaction
	fork   *thor.Hash160
	branch []*block.Block
	fn     func(*Ledger) error
	result chan error
}

// Task owns the ledger and the pool in one goroutine.
// Other goroutines hand it decoded blocks and transactions.
type Task struct {
	ledger   *Ledger
	pool     *txpool.Pool
	now      func() uint64
	requests chan *request
	done     chan struct{}
	goes     co.Goes
}

// NewTask creates the task. now gives the time transactions are pooled at,
// nil means the wall clock.
func NewTask(ledger *Ledger, pool *txpool.Pool, now func() uint64) *Task {
	if now == nil {
		now = func() uint64 { return uint64(time.Now().Unix()) }
	}
	return &Task{
		ledger:   ledger,
		pool:     pool,
		now:      now,
		requests: make(chan *request),
		done:     make(chan struct{}),
	}
}

// Run starts the task loop. It stops when ctx is done.
func (t *Task) Run(ctx context.Context) {
	t.goes.Go(func() {
		defer close(t.done)
		for {
			select {
			case <-ctx.Done():
				return
			case req := <-t.requests:
				req.result <- t.handle(req)
			}
		}
	})
}

// Wait waits for the task loop to exit.
func (t *Task) Wait() {
	t.goes.Wait()
}

func (t *Task) handle(req *request) error {
	switch {
	case req.fn != nil:
		return req.fn(t.ledger)
	case req.trx != nil:
		return t.pool.Add(req.trx, t.now())
	case req.fork != nil:
		if err := t.ledger.SwitchFork(*req.fork, req.branch); err != nil {
			return err
		}
	default:
		if err := t.ledger.ApplyBlock(req.blk); err != nil {
			return err
		}
	}
	if dropped := t.pool.Reset(t.ledger.State(), t.now()); dropped > 0 {
		logger.Debug("pool reset", "dropped", dropped, "pending", t.pool.Len())
	}
	return nil
}

func (t *Task) do(ctx context.Context, req *request) error {
	req.result = make(chan error, 1)
	select {
	case t.requests <- req:
	case <-t.done:
		return ErrTaskStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SubmitBlock applies blk on the head.
func (t *Task) SubmitBlock(ctx context.Context, blk *block.Block) error {
	return t.do(ctx, &request{blk: blk})
}

// SubmitTransaction evaluates trx into the pool.
func (t *Task) SubmitTransaction(ctx context.Context, trx *tx.Transaction) error {
	return t.do(ctx, &request{trx: trx})
}

// SubmitFork switches to branch, which forks from ancestor.
func (t *Task) SubmitFork(ctx context.Context, ancestor thor.Hash160, branch []*block.Block) error {
	return t.do(ctx, &request{fork: &ancestor, branch: branch})
}

// Inspect runs fn on the task goroutine, where it may read the ledger.
func (t *Task) Inspect(ctx context.Context, fn func(l *Ledger) error) error {
	return t.do(ctx, &request{fn: fn})
}
