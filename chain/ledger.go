// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package chain applies blocks to the committed ledger.
package chain

import (
	"math"
	"slices"
	"time"

	gmath "github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"github.com/vechain/ledger/block"
	"github.com/vechain/ledger/chaindb"
	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/genesis"
	"github.com/vechain/ledger/kv"
	"github.com/vechain/ledger/log"
	"github.com/vechain/ledger/pending"
	"github.com/vechain/ledger/runtime"
	"github.com/vechain/ledger/thor"
)

var logger = log.WithContext("pkg", "chain")

// Ledger applies blocks to the committed store and keeps the undo states
// of the most recent ones.
// It is the only writer of the store and is not safe for concurrent use.
type Ledger struct {
	rt     *runtime.Runtime
	store  *chaindb.ChainDB
	repo   *Repository
	undo   []undoRecord
	halted error
}

type undoRecord struct {
	id   thor.Hash160
	undo *pending.ChainState
}

// Open opens the ledger, building the genesis state into store if it's empty.
func Open(rt *runtime.Runtime, store *chaindb.ChainDB, blocks kv.Store, gene *genesis.Genesis) (*Ledger, error) {
	chainID, err := entry.GetChainID(store)
	if err != nil {
		return nil, err
	}
	var genesisBlock *block.Block
	if chainID.IsZero() {
		overlay := pending.New(store)
		if genesisBlock, err = gene.Build(overlay, rt.Config()); err != nil {
			return nil, errors.Wrap(err, "build genesis")
		}
		if err := store.Apply(overlay); err != nil {
			return nil, errors.Wrap(err, "apply genesis")
		}
	} else {
		if chainID != gene.ChainID() {
			return nil, errors.Errorf("chain id mismatch: stored %v, genesis %v", chainID, gene.ChainID())
		}
		// the genesis state is deterministic, build it aside to get the block
		if genesisBlock, err = gene.Build(pending.New(nil), rt.Config()); err != nil {
			return nil, errors.Wrap(err, "build genesis")
		}
	}
	if gene.ChainID() != rt.ChainID() {
		return nil, errors.New("runtime chain id differs from genesis")
	}
	repo, err := NewRepository(blocks, genesisBlock, 0)
	if err != nil {
		return nil, err
	}
	return NewLedger(rt, store, repo), nil
}

// NewLedger creates a ledger. The store must hold the state at the best block of repo.
func NewLedger(rt *runtime.Runtime, store *chaindb.ChainDB, repo *Repository) *Ledger {
	return &Ledger{rt: rt, store: store, repo: repo}
}

// Head returns the header of the last applied block.
func (l *Ledger) Head() *block.Header { return l.repo.BestBlock() }

// State returns the committed ledger state.
func (l *Ledger) State() entry.ChainInterface { return l.store }

// Runtime returns the runtime evaluating transactions.
func (l *Ledger) Runtime() *runtime.Runtime { return l.rt }

// Repository returns the block repository.
func (l *Ledger) Repository() *Repository { return l.repo }

// UndoDepth returns how many blocks can be popped.
func (l *Ledger) UndoDepth() int { return len(l.undo) }

// Halted returns the error that halted the ledger, if any.
func (l *Ledger) Halted() error { return l.halted }

func (l *Ledger) halt(err error) error {
	if l.halted == nil {
		l.halted = errs.Wrap(errs.Internal, err, "ledger halted")
		logger.Error("ledger halted", "err", err)
	}
	return l.halted
}

// ApplyBlock evaluates blk on top of the head and commits it.
// An invalid block is rejected without side effects.
func (l *Ledger) ApplyBlock(blk *block.Block) error {
	if l.halted != nil {
		return l.halted
	}
	start := time.Now()
	overlay, err := l.evaluateBlock(blk)
	if err != nil {
		metricBlockCount().AddWithLabel(1, map[string]string{"result": errs.KindOf(err).String()})
		if errs.KindOf(err) == errs.Internal {
			return l.halt(err)
		}
		return err
	}
	if err := l.commit(blk, overlay); err != nil {
		return err
	}
	metricBlockApplyDuration().Observe(time.Since(start).Milliseconds())
	metricBlockCount().AddWithLabel(1, map[string]string{"result": "accepted"})
	return nil
}

func (l *Ledger) evaluateBlock(blk *block.Block) (*pending.ChainState, error) {
	var (
		cfg    = l.rt.Config()
		header = blk.Header()
		head   = l.Head()
		ts     = header.Timestamp()
	)
	if header.Previous() != head.ID() {
		return nil, errs.New(errs.InvalidArgument, "block %v: parent %v is not the head %v", header.ID(), header.Previous(), head.ID())
	}
	if header.Number() != head.Number()+1 {
		return nil, errs.New(errs.InvalidArgument, "block %v: number %d, want %d", header.ID(), header.Number(), head.Number()+1)
	}
	if ts <= head.Timestamp() || ts%cfg.BlockInterval != 0 {
		return nil, errs.New(errs.InvalidArgument, "block %v: bad timestamp %d", header.ID(), ts)
	}
	trxs := blk.Transactions()
	if header.TrxDigest() != trxs.Digest() {
		return nil, errs.New(errs.MalformedPayload, "block %v: transaction digest mismatch", header.ID())
	}

	overlay := pending.New(l.store)
	active, err := l.activeDelegates(overlay, header.Number())
	if err != nil {
		return nil, err
	}
	producer, err := l.scheduled(overlay, active, ts)
	if err != nil {
		return nil, err
	}
	signer, err := header.Signer()
	if err != nil {
		return nil, errs.Wrap(errs.Unauthorized, err, "block %v: recover signer", header.ID())
	}
	if signer != producer.SigningKey() {
		return nil, errs.New(errs.Unauthorized, "block %v: not signed by %s, the delegate of slot %d", header.ID(), producer.Name, ts)
	}
	if err := l.recordMissedSlots(overlay, active, head.Timestamp(), ts); err != nil {
		return nil, err
	}

	for i, trx := range trxs {
		if _, err := l.rt.ExecuteBlockTransaction(overlay, trx, ts, header.Number(), uint32(i)); err != nil {
			return nil, errs.Wrap(errs.KindOf(err), err, "block %v: transaction #%d", header.ID(), i)
		}
	}
	if err := l.payProducer(overlay, producer.ID, header); err != nil {
		return nil, err
	}
	return overlay, nil
}

// activeDelegates returns the delegates producing the block of num.
// The list is refreshed from the vote ranking at the start of every round.
func (l *Ledger) activeDelegates(db entry.ChainInterface, num uint32) ([]entry.AccountID, error) {
	n := l.rt.Config().NumDelegates
	if num > 1 && (num-1)%uint32(n) == 0 {
		keys, err := l.store.TopDelegates(n)
		if err != nil {
			return nil, err
		}
		if len(keys) > 0 {
			ids := make([]entry.AccountID, len(keys))
			for i, k := range keys {
				ids[i] = k.ID
			}
			if err := entry.SetActiveDelegates(db, ids); err != nil {
				return nil, err
			}
			return ids, nil
		}
	}
	ids, err := entry.GetActiveDelegates(db)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, errs.New(errs.Internal, "no active delegates")
	}
	return ids, nil
}

func (l *Ledger) scheduled(db entry.ChainInterface, active []entry.AccountID, ts uint64) (*entry.AccountEntry, error) {
	id := active[(ts/l.rt.Config().BlockInterval)%uint64(len(active))]
	a, err := db.LookupAccountByID(id)
	if err != nil {
		return nil, err
	}
	if a == nil || !a.IsDelegate() {
		return nil, errs.New(errs.Internal, "active delegate %d is not a delegate", id)
	}
	return a, nil
}

// ScheduledProducer returns the delegate expected to sign the next block at ts.
func (l *Ledger) ScheduledProducer(ts uint64) (*entry.AccountEntry, error) {
	overlay := pending.New(l.store)
	active, err := l.activeDelegates(overlay, l.Head().Number()+1)
	if err != nil {
		return nil, err
	}
	return l.scheduled(overlay, active, ts)
}

// recordMissedSlots records the empty slots between two blocks.
// Only the last round of a long gap is recorded.
func (l *Ledger) recordMissedSlots(db entry.ChainInterface, active []entry.AccountID, from, to uint64) error {
	interval := l.rt.Config().BlockInterval
	first := (from/interval + 1) * interval
	if span := interval * uint64(len(active)); to-first > span {
		first = to - span
	}
	for ts := first; ts < to; ts += interval {
		id := active[(ts/interval)%uint64(len(active))]
		if err := entry.StoreSlot(db, &entry.SlotEntry{Timestamp: ts, DelegateID: id}); err != nil {
			return err
		}
		a, err := db.LookupAccountByID(id)
		if err != nil {
			return err
		}
		if a == nil || !a.IsDelegate() {
			continue
		}
		a.DelegateInfo.BlocksMissed++
		if err := entry.StoreAccount(db, a); err != nil {
			return err
		}
	}
	return nil
}

// payProducer pays the producer out of the accumulated fees and records its slot.
func (l *Ledger) payProducer(db entry.ChainInterface, id entry.AccountID, header *block.Header) error {
	a, err := db.LookupAccountByID(id)
	if err != nil {
		return err
	}
	if a == nil || !a.IsDelegate() {
		return errs.New(errs.Internal, "producer %d is not a delegate", id)
	}
	info := a.DelegateInfo

	accumulated, err := entry.GetUint64Property(db, entry.PropertyAccumulatedFees)
	if err != nil {
		return err
	}
	pay, overflow := gmath.SafeMul(l.rt.Config().MaxDelegatePayPerBlock, uint64(info.PayRate))
	if overflow {
		return errs.New(errs.Overflow, "delegate %s: pay overflow", a.Name)
	}
	pay = min(pay/entry.MaxPayRate, accumulated)
	if pay > 0 {
		if err := entry.SetUint64Property(db, entry.PropertyAccumulatedFees, accumulated-pay); err != nil {
			return err
		}
		if info.PayBalance, overflow = gmath.SafeAdd(info.PayBalance, pay); overflow {
			return errs.New(errs.Overflow, "delegate %s: pay balance overflow", a.Name)
		}
		if info.TotalPaid, overflow = gmath.SafeAdd(info.TotalPaid, pay); overflow {
			return errs.New(errs.Overflow, "delegate %s: total paid overflow", a.Name)
		}
		if info.VotesFor, overflow = gmath.SafeAdd(info.VotesFor, pay); overflow {
			info.VotesFor = math.MaxUint64
		}
	}
	info.BlocksProduced++
	info.LastBlockNumProduced = header.Number()
	if err := entry.StoreAccount(db, a); err != nil {
		return err
	}
	blockID := header.ID()
	return entry.StoreSlot(db, &entry.SlotEntry{Timestamp: header.Timestamp(), DelegateID: id, BlockID: &blockID})
}

func (l *Ledger) commit(blk *block.Block, overlay *pending.ChainState) error {
	undo, err := overlay.Undo()
	if err != nil {
		return l.halt(err)
	}
	if err := l.store.Apply(overlay); err != nil {
		return l.halt(err)
	}
	if err := l.repo.Append(blk); err != nil {
		return l.halt(err)
	}
	header := blk.Header()
	l.undo = append(l.undo, undoRecord{header.ID(), undo})
	if excess := len(l.undo) - l.rt.Config().MaxUndoHistory; excess > 0 {
		l.undo = slices.Delete(l.undo, 0, excess)
	}
	metricHeadNumber().Set(int64(header.Number()))
	metricUndoDepth().Set(int64(len(l.undo)))
	logger.Debug("block applied", "number", header.Number(), "id", header.ID(), "trxs", len(blk.Transactions()))
	return nil
}

// PopBlock reverts the head block and returns it.
func (l *Ledger) PopBlock() (*block.Block, error) {
	if l.halted != nil {
		return nil, l.halted
	}
	if len(l.undo) == 0 {
		return nil, errs.New(errs.InvalidArgument, "undo history exhausted")
	}
	rec := l.undo[len(l.undo)-1]
	head := l.Head()
	if rec.id != head.ID() {
		return nil, l.halt(errors.Errorf("undo state of %v does not match head %v", rec.id, head.ID()))
	}
	blk, err := l.repo.GetBlock(rec.id)
	if err != nil {
		return nil, l.halt(err)
	}
	if err := l.store.Apply(rec.undo); err != nil {
		return nil, l.halt(err)
	}
	l.undo = l.undo[:len(l.undo)-1]
	if _, err := l.repo.Truncate(); err != nil {
		return nil, l.halt(err)
	}
	metricHeadNumber().Set(int64(head.Number() - 1))
	metricUndoDepth().Set(int64(len(l.undo)))
	logger.Debug("block popped", "number", head.Number(), "id", head.ID())
	return blk, nil
}

// SwitchFork reverts the blocks after ancestor and applies branch instead.
// If a branch block fails, the previous blocks are restored and the error returned.
func (l *Ledger) SwitchFork(ancestor thor.Hash160, branch []*block.Block) error {
	if l.halted != nil {
		return l.halted
	}
	depth := 0
	for id := l.Head().ID(); id != ancestor; depth++ {
		if depth >= len(l.undo) {
			return errs.New(errs.InvalidArgument, "ancestor %v is beyond the undo history", ancestor)
		}
		blk, err := l.repo.GetBlock(id)
		if err != nil {
			return err
		}
		id = blk.Header().Previous()
	}

	popped := make([]*block.Block, 0, depth)
	for range depth {
		blk, err := l.PopBlock()
		if err != nil {
			return err
		}
		popped = append(popped, blk)
	}
	for i, blk := range branch {
		err := l.ApplyBlock(blk)
		if err == nil {
			continue
		}
		if l.halted != nil {
			return err
		}
		logger.Debug("fork rejected, restoring", "block", blk.Header().ID(), "err", err)
		for range i {
			if _, perr := l.PopBlock(); perr != nil {
				return perr
			}
		}
		for j := len(popped) - 1; j >= 0; j-- {
			if rerr := l.ApplyBlock(popped[j]); rerr != nil {
				return l.halt(rerr)
			}
		}
		return err
	}
	return nil
}
