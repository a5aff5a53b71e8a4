// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/vechain/ledger/block"
	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/thor"
)

// Genesis to build genesis block.
type Genesis struct {
	builder *Builder
	name    string
}

// Build writes the genesis state into db and returns the genesis block.
func (g *Genesis) Build(db entry.ChainInterface, cfg *thor.Config) (*block.Block, error) {
	return g.builder.Build(db, cfg)
}

// ChainID returns the chain id.
func (g *Genesis) ChainID() thor.Bytes32 {
	return g.builder.chainID
}

// Timestamp returns the launch time.
func (g *Genesis) Timestamp() uint64 {
	return g.builder.timestamp
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}
