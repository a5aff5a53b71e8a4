// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import "github.com/vechain/ledger/metrics"

var (
	metricBlockRepositoryCounter = metrics.LazyLoadCounterVec("block_repository_count", []string{"type"})
	metricBlockApplyDuration     = metrics.LazyLoadHistogram("chain_block_apply_duration_ms", metrics.BucketBlockApply)
	metricBlockCount             = metrics.LazyLoadCounterVec("chain_block_count", []string{"result"})
	metricHeadNumber             = metrics.LazyLoadGauge("chain_head_number")
	metricUndoDepth              = metrics.LazyLoadGauge("chain_undo_depth")
)
