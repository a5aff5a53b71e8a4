// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/log"
	"github.com/vechain/ledger/metrics"
	"github.com/vechain/ledger/operation"
	"github.com/vechain/ledger/pending"
	"github.com/vechain/ledger/thor"
	"github.com/vechain/ledger/tx"
)

var (
	logger = log.WithContext("pkg", "runtime")

	metricTransactionCount = metrics.LazyLoadCounterVec("runtime_transaction_count", []string{"result"})
	metricOperationCount   = metrics.LazyLoadCounterVec("runtime_operation_count", []string{"type"})
)

// Runtime evaluates transactions.
type Runtime struct {
	registry *operation.Registry
	cfg      *thor.Config
	chainID  thor.Bytes32
}

// New creates a Runtime.
func New(registry *operation.Registry, cfg *thor.Config, chainID thor.Bytes32) *Runtime {
	return &Runtime{registry, cfg, chainID}
}

func (rt *Runtime) Registry() *operation.Registry { return rt.registry }
func (rt *Runtime) Config() *thor.Config          { return rt.cfg }
func (rt *Runtime) ChainID() thor.Bytes32         { return rt.chainID }

// NewEvalState creates an evaluation state writing to db at the given time.
func (rt *Runtime) NewEvalState(db entry.ChainInterface, now uint64) *EvalState {
	return NewEvalState(db, rt.registry, rt.cfg, rt.chainID, now)
}

// ExecuteTransaction evaluates trx in an overlay of parent, applying the overlay
// to parent only if the evaluation succeeds. Result transactions are refused.
func (rt *Runtime) ExecuteTransaction(parent entry.ChainInterface, trx *tx.Transaction, now uint64, blockNum, trxNum uint32) (*EvalState, error) {
	return rt.execute(parent, trx, now, blockNum, trxNum, false)
}

// ExecuteBlockTransaction is ExecuteTransaction for a transaction of a block
// whose producer signature is checked. It accepts result transactions.
func (rt *Runtime) ExecuteBlockTransaction(parent entry.ChainInterface, trx *tx.Transaction, now uint64, blockNum, trxNum uint32) (*EvalState, error) {
	return rt.execute(parent, trx, now, blockNum, trxNum, true)
}

func (rt *Runtime) execute(parent entry.ChainInterface, trx *tx.Transaction, now uint64, blockNum, trxNum uint32, inBlock bool) (*EvalState, error) {
	overlay := pending.New(parent)
	s := rt.NewEvalState(overlay, now).SetLocation(blockNum, trxNum)
	if inBlock {
		s.InBlock()
	}
	if err := s.Evaluate(trx); err != nil {
		metricTransactionCount().AddWithLabel(1, map[string]string{"result": errs.KindOf(err).String()})
		logger.Debug("transaction rejected", "id", trx.ID(rt.chainID), "err", err)
		return nil, err
	}
	if err := overlay.ApplyChanges(); err != nil {
		return nil, errs.Wrap(errs.Internal, err, "apply transaction %v", s.TrxID())
	}
	metricTransactionCount().AddWithLabel(1, map[string]string{"result": "accepted"})
	for _, op := range trx.Operations() {
		name := "unknown"
		if c, ok := rt.registry.Lookup(op.Type); ok {
			name = c.Name
		}
		metricOperationCount().AddWithLabel(1, map[string]string{"type": name})
	}
	return s, nil
}
