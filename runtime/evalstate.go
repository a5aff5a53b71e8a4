// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math"
	"math/big"
	"slices"

	gmath "github.com/ethereum/go-ethereum/common/math"
	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/operation"
	"github.com/vechain/ledger/thor"
	"github.com/vechain/ledger/tx"
)

var _ operation.State = (*EvalState)(nil)

// EvalState is the state of evaluating one transaction.
// It is used by a single goroutine and evaluates at most one transaction.
type EvalState struct {
	db       entry.ChainInterface
	cfg      *thor.Config
	chainID  thor.Bytes32
	now      uint64
	registry *operation.Registry

	blockNum uint32
	trxNum   uint32
	inBlock  bool

	trx     *tx.Transaction
	trxID   thor.Bytes32
	opIndex int
	signed  map[thor.Address]thor.PublicKey
	origin  *tx.Transaction

	withdrawn    map[entry.AssetID]uint64
	deposited    map[entry.AssetID]uint64
	requiredFees uint64
	voteDeltas   map[entry.AccountID]*big.Int
	fees         []entry.AssetAmount
}

// NewEvalState creates an evaluation state writing to db.
func NewEvalState(db entry.ChainInterface, registry *operation.Registry, cfg *thor.Config, chainID thor.Bytes32, now uint64) *EvalState {
	return &EvalState{
		db:         db,
		cfg:        cfg,
		chainID:    chainID,
		now:        now,
		registry:   registry,
		signed:     make(map[thor.Address]thor.PublicKey),
		withdrawn:  make(map[entry.AssetID]uint64),
		deposited:  make(map[entry.AssetID]uint64),
		voteDeltas: make(map[entry.AccountID]*big.Int),
	}
}

// SetLocation sets where the transaction is included in the chain.
func (s *EvalState) SetLocation(blockNum, trxNum uint32) *EvalState {
	s.blockNum, s.trxNum = blockNum, trxNum
	return s
}

// InBlock marks the transaction as included in a block signed by the slot
// producer. Only such transactions may be results.
func (s *EvalState) InBlock() *EvalState {
	s.inBlock = true
	return s
}

// Evaluate evaluates the operations of trx in order and settles the transaction.
// The first failure aborts, leaving db partially written, so db must be an overlay
// the caller discards on error.
func (s *EvalState) Evaluate(trx *tx.Transaction) error {
	if s.trx != nil {
		return errs.New(errs.Internal, "evaluation state reused")
	}
	resolved, err := ResolveTransaction(trx, s.chainID)
	if err != nil {
		return err
	}
	if err := resolved.CheckExpiration(s.now, s.cfg.MaxTransactionExpiration); err != nil {
		return err
	}
	prev, err := s.db.LookupTransactionByID(resolved.ID)
	if err != nil {
		return err
	}
	if prev != nil {
		return errs.New(errs.DuplicateRegistration, "transaction %v", resolved.ID)
	}

	if trx.ResultType().IsResult() && !s.inBlock {
		return errs.New(errs.Unauthorized, "result transaction %v outside a block", resolved.ID)
	}

	s.trx, s.trxID = trx, resolved.ID
	s.AddSigners(resolved.Signers)
	for i, op := range trx.Operations() {
		s.opIndex = i
		if err := checkResultOp(trx, i, op.Type); err != nil {
			return err
		}
		if err := s.registry.Evaluate(s, op); err != nil {
			return err
		}
	}
	return s.postEvaluate()
}

// checkResultOp fails if a result transaction carries anything but its
// origin first, then storage changes and contract transfers.
func checkResultOp(trx *tx.Transaction, i int, typ tx.OpType) error {
	if !trx.ResultType().IsResult() {
		return nil
	}
	if i == 0 {
		if typ != operation.TypeTransaction {
			return errs.New(errs.Unauthorized, "result transaction must carry its origin first")
		}
		return nil
	}
	switch typ {
	case operation.TypeStorage, operation.TypeWithdraw, operation.TypeDeposit:
		return nil
	}
	return errs.New(errs.Unauthorized, "operation #%d of type %d not allowed in a result transaction", i, typ)
}

func (s *EvalState) postEvaluate() error {
	required := s.requiredFees
	if !s.trx.ResultType().IsResult() {
		fee, overflow := gmath.SafeAdd(required, s.cfg.TransactionFee)
		if overflow {
			return errs.New(errs.Overflow, "required fees overflow")
		}
		required = fee
	}

	for _, asset := range s.assets() {
		w, d := s.withdrawn[asset], s.deposited[asset]
		if d > w {
			return errs.New(errs.InsufficientFunds, "asset %d: deposited %d > withdrawn %d", asset, d, w)
		}
		leftover := w - d
		need := required
		if asset != entry.BaseAssetID {
			fee, err := s.assetFee(asset)
			if err != nil {
				return err
			}
			need = fee
		}
		if leftover < need {
			return errs.New(errs.InsufficientFunds, "asset %d fees: %d left, %d required", asset, leftover, need)
		}
		if leftover == 0 {
			continue
		}
		if err := s.collectFees(asset, leftover); err != nil {
			return err
		}
		s.fees = append(s.fees, entry.AssetAmount{Amount: leftover, AssetID: asset})
	}

	if err := s.commitVotes(); err != nil {
		return err
	}

	e := &entry.TransactionEntry{
		ID:       s.trxID,
		Trx:      s.trx,
		BlockNum: s.blockNum,
		TrxNum:   s.trxNum,
		Fees:     s.fees,
	}
	if s.origin != nil {
		id := s.origin.ID(s.chainID)
		e.OriginID = &id
	}
	return entry.StoreTransaction(s.db, e)
}

// assets returns the base asset and the assets moved by the transaction, in id order.
func (s *EvalState) assets() []entry.AssetID {
	ids := make([]entry.AssetID, 0, len(s.withdrawn)+len(s.deposited)+1)
	ids = append(ids, entry.BaseAssetID)
	for id := range s.withdrawn {
		ids = append(ids, id)
	}
	for id := range s.deposited {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// assetFee returns the transaction fee a transaction moving the asset pays
// in its shares. Results pay none.
func (s *EvalState) assetFee(id entry.AssetID) (uint64, error) {
	if s.trx.ResultType().IsResult() {
		return 0, nil
	}
	a, err := s.db.LookupAssetByID(id)
	if err != nil {
		return 0, err
	}
	if a == nil {
		return 0, errs.New(errs.UnknownEntity, "asset %d", id)
	}
	return a.TransactionFee, nil
}

// collectFees moves the leftover of an asset into its collected fees.
// Base asset fees accumulate in a chain property until paid to delegates.
func (s *EvalState) collectFees(asset entry.AssetID, amount uint64) error {
	if asset == entry.BaseAssetID {
		acc, err := entry.GetUint64Property(s.db, entry.PropertyAccumulatedFees)
		if err != nil {
			return err
		}
		sum, overflow := gmath.SafeAdd(acc, amount)
		if overflow {
			return errs.New(errs.Overflow, "accumulated fees overflow")
		}
		return entry.SetUint64Property(s.db, entry.PropertyAccumulatedFees, sum)
	}
	a, err := s.db.LookupAssetByID(asset)
	if err != nil {
		return err
	}
	if a == nil {
		return errs.New(errs.UnknownEntity, "asset %d", asset)
	}
	sum, overflow := gmath.SafeAdd(a.CollectedFees, amount)
	if overflow {
		return errs.New(errs.Overflow, "asset %s: collected fees overflow", a.Symbol)
	}
	a.CollectedFees = sum
	return entry.StoreAsset(s.db, a)
}

// commitVotes applies the vote deltas, once per delegate.
// Votes are bounded to the uint64 range.
func (s *EvalState) commitVotes() error {
	ids := make([]entry.AccountID, 0, len(s.voteDeltas))
	for id, delta := range s.voteDeltas {
		if delta.Sign() != 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	for _, id := range ids {
		a, err := s.db.LookupAccountByID(id)
		if err != nil {
			return err
		}
		if a == nil {
			return errs.New(errs.UnknownEntity, "account %d", id)
		}
		if !a.IsDelegate() {
			continue
		}
		v := new(big.Int).SetUint64(a.DelegateInfo.VotesFor)
		v.Add(v, s.voteDeltas[id])
		switch {
		case v.Sign() < 0:
			a.DelegateInfo.VotesFor = 0
		case !v.IsUint64():
			a.DelegateInfo.VotesFor = math.MaxUint64
		default:
			a.DelegateInfo.VotesFor = v.Uint64()
		}
		if err := entry.StoreAccount(s.db, a); err != nil {
			return err
		}
	}
	return nil
}

func (s *EvalState) DB() entry.ChainInterface { return s.db }
func (s *EvalState) Config() *thor.Config     { return s.cfg }
func (s *EvalState) ChainID() thor.Bytes32    { return s.chainID }
func (s *EvalState) Now() uint64              { return s.now }
func (s *EvalState) Trx() *tx.Transaction     { return s.trx }
func (s *EvalState) TrxID() thor.Bytes32      { return s.trxID }
func (s *EvalState) OpIndex() int             { return s.opIndex }
func (s *EvalState) Origin() *tx.Transaction  { return s.origin }

func (s *EvalState) SetOrigin(origin *tx.Transaction) { s.origin = origin }

// AddSigners adds keys to the signed key set.
func (s *EvalState) AddSigners(keys []thor.PublicKey) {
	for _, key := range keys {
		s.signed[key.Address()] = key
	}
}

// Signers returns the signed keys, ordered by address.
func (s *EvalState) Signers() []thor.PublicKey {
	addrs := make([]thor.Address, 0, len(s.signed))
	for addr := range s.signed {
		addrs = append(addrs, addr)
	}
	slices.SortFunc(addrs, func(a, b thor.Address) int { return slices.Compare(a[:], b[:]) })
	keys := make([]thor.PublicKey, len(addrs))
	for i, addr := range addrs {
		keys[i] = s.signed[addr]
	}
	return keys
}

// CheckSignature returns whether the key of addr signed the transaction.
func (s *EvalState) CheckSignature(addr thor.Address) bool {
	_, ok := s.signed[addr]
	return ok
}

// AccountHasSigned returns whether the active or the owner key of a signed.
func (s *EvalState) AccountHasSigned(a *entry.AccountEntry) bool {
	if active := a.ActiveKey(); !active.IsNull() && s.CheckSignature(active.Address()) {
		return true
	}
	return s.AccountOwnerHasSigned(a)
}

// AccountOwnerHasSigned returns whether the owner key of a signed.
func (s *EvalState) AccountOwnerHasSigned(a *entry.AccountEntry) bool {
	return s.CheckSignature(a.OwnerKey.Address())
}

func (s *EvalState) AddWithdrawn(asset entry.AssetID, amount uint64) error {
	sum, overflow := gmath.SafeAdd(s.withdrawn[asset], amount)
	if overflow {
		return errs.New(errs.Overflow, "asset %d: withdrawn overflow", asset)
	}
	s.withdrawn[asset] = sum
	return nil
}

func (s *EvalState) AddDeposited(asset entry.AssetID, amount uint64) error {
	sum, overflow := gmath.SafeAdd(s.deposited[asset], amount)
	if overflow {
		return errs.New(errs.Overflow, "asset %d: deposited overflow", asset)
	}
	s.deposited[asset] = sum
	return nil
}

func (s *EvalState) AddRequiredFees(amount uint64) error {
	sum, overflow := gmath.SafeAdd(s.requiredFees, amount)
	if overflow {
		return errs.New(errs.Overflow, "required fees overflow")
	}
	s.requiredFees = sum
	return nil
}

func (s *EvalState) AddVoteDelta(id entry.AccountID, delta *big.Int) {
	if d, ok := s.voteDeltas[id]; ok {
		d.Add(d, delta)
		return
	}
	s.voteDeltas[id] = new(big.Int).Set(delta)
}

// Withdrawn returns the shares of the asset that entered the transaction.
func (s *EvalState) Withdrawn(asset entry.AssetID) uint64 { return s.withdrawn[asset] }

// Deposited returns the shares of the asset that left the transaction.
func (s *EvalState) Deposited(asset entry.AssetID) uint64 { return s.deposited[asset] }

// Balance returns withdrawn minus deposited shares of the asset.
func (s *EvalState) Balance(asset entry.AssetID) *big.Int {
	b := new(big.Int).SetUint64(s.withdrawn[asset])
	return b.Sub(b, new(big.Int).SetUint64(s.deposited[asset]))
}

// RequiredFees returns the base asset fees required by the operations.
func (s *EvalState) RequiredFees() uint64 { return s.requiredFees }

// VoteDelta returns the vote change recorded for the delegate.
func (s *EvalState) VoteDelta(id entry.AccountID) *big.Int {
	if d, ok := s.voteDeltas[id]; ok {
		return new(big.Int).Set(d)
	}
	return new(big.Int)
}

// Fees returns the fees collected when the transaction settled.
func (s *EvalState) Fees() []entry.AssetAmount { return slices.Clone(s.fees) }
