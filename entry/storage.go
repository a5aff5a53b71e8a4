// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entry

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/thor"
)

// StorageType tags the shape of contract storage data.
type StorageType uint8

const (
	StorageNull StorageType = iota
	StorageInt
	StorageNumber
	StorageBool
	StorageString
	StorageIntTable
	StorageNumberTable
	StorageBoolTable
	StorageStringTable
	StorageIntArray
	StorageNumberArray
	StorageBoolArray
	StorageStringArray

	numStorageTypes
)

var storageTypeNames = [...]string{
	"null", "int", "number", "bool", "string",
	"int_table", "number_table", "bool_table", "string_table",
	"int_array", "number_array", "bool_array", "string_array",
}

func (t StorageType) String() string {
	if t < numStorageTypes {
		return storageTypeNames[t]
	}
	return fmt.Sprintf("storage(%d)", uint8(t))
}

// IsValid returns whether t is a known type.
func (t StorageType) IsValid() bool { return t < numStorageTypes }

// IsScalar returns whether t holds a single value.
func (t StorageType) IsScalar() bool { return t <= StorageString }

// IsTable returns whether t is a string keyed container.
func (t StorageType) IsTable() bool { return t >= StorageIntTable && t <= StorageStringTable }

// IsArray returns whether t is an index keyed container.
func (t StorageType) IsArray() bool { return t >= StorageIntArray && t <= StorageStringArray }

// Elem returns the scalar type of container items, or t itself for scalars.
func (t StorageType) Elem() StorageType {
	switch {
	case t.IsTable():
		return t - StorageIntTable + StorageInt
	case t.IsArray():
		return t - StorageIntArray + StorageInt
	}
	return t
}

// TableOf returns the table type of the scalar type.
func TableOf(elem StorageType) StorageType { return elem - StorageInt + StorageIntTable }

// ArrayOf returns the array type of the scalar type.
func ArrayOf(elem StorageType) StorageType { return elem - StorageInt + StorageIntArray }

// StorageItem is a keyed item of a container. Value is the payload of the element type.
type StorageItem struct {
	Key   string
	Value []byte
}

// StorageData is a typed storage value.
// Scalar payloads are the packed value, container payloads a list of items sorted by key.
type StorageData struct {
	Type    StorageType `json:"type"`
	Payload []byte      `json:"payload"`
}

func mustEncode(v interface{}) []byte {
	data, err := rlp.EncodeToBytes(v)
	if err != nil {
		panic(err)
	}
	return data
}

// Null returns the null value.
func Null() StorageData { return StorageData{Type: StorageNull} }

// NewInt creates an int value.
func NewInt(v int64) StorageData {
	return StorageData{StorageInt, mustEncode(uint64(v))}
}

// NewNumber creates a number value.
func NewNumber(v float64) StorageData {
	return StorageData{StorageNumber, mustEncode(math.Float64bits(v))}
}

// NewBool creates a bool value.
func NewBool(v bool) StorageData {
	return StorageData{StorageBool, mustEncode(v)}
}

// NewString creates a string value.
func NewString(v string) StorageData {
	return StorageData{StorageString, mustEncode(v)}
}

// NewTable creates a table of elem typed values.
func NewTable(elem StorageType, items map[string]StorageData) (StorageData, error) {
	if !elem.IsScalar() || elem == StorageNull {
		return StorageData{}, errs.New(errs.TypeMismatch, "table of %v", elem)
	}
	list := make([]StorageItem, 0, len(items))
	for k, v := range items {
		if v.Type != elem {
			return StorageData{}, errs.New(errs.TypeMismatch, "table item %q is %v, not %v", k, v.Type, elem)
		}
		list = append(list, StorageItem{k, slices.Clone(v.Payload)})
	}
	slices.SortFunc(list, func(a, b StorageItem) int { return strings.Compare(a.Key, b.Key) })
	return StorageData{TableOf(elem), mustEncode(list)}, nil
}

// NewArray creates an array of elem typed values.
func NewArray(elem StorageType, values []StorageData) (StorageData, error) {
	if !elem.IsScalar() || elem == StorageNull {
		return StorageData{}, errs.New(errs.TypeMismatch, "array of %v", elem)
	}
	list := make([]StorageItem, 0, len(values))
	for i, v := range values {
		if v.Type != elem {
			return StorageData{}, errs.New(errs.TypeMismatch, "array item %d is %v, not %v", i, v.Type, elem)
		}
		list = append(list, StorageItem{strconv.Itoa(i), slices.Clone(v.Payload)})
	}
	slices.SortFunc(list, func(a, b StorageItem) int { return strings.Compare(a.Key, b.Key) })
	return StorageData{ArrayOf(elem), mustEncode(list)}, nil
}

func (d *StorageData) decodeScalar(typ StorageType, v interface{}) error {
	if d.Type != typ {
		return errs.New(errs.TypeMismatch, "storage is %v, not %v", d.Type, typ)
	}
	if err := rlp.DecodeBytes(d.Payload, v); err != nil {
		return errs.Wrap(errs.TypeMismatch, err, "decode %v", typ)
	}
	return nil
}

// AsInt returns the int value.
func (d *StorageData) AsInt() (int64, error) {
	var v uint64
	err := d.decodeScalar(StorageInt, &v)
	return int64(v), err
}

// AsNumber returns the number value.
func (d *StorageData) AsNumber() (float64, error) {
	var v uint64
	err := d.decodeScalar(StorageNumber, &v)
	return math.Float64frombits(v), err
}

// AsBool returns the bool value.
func (d *StorageData) AsBool() (bool, error) {
	var v bool
	err := d.decodeScalar(StorageBool, &v)
	return v, err
}

// AsString returns the string value.
func (d *StorageData) AsString() (string, error) {
	var v string
	err := d.decodeScalar(StorageString, &v)
	return v, err
}

// Items returns the items of a table or an array, in key order.
// Each item value is checked against the element type.
func (d *StorageData) Items() ([]string, []StorageData, error) {
	if !d.Type.IsTable() && !d.Type.IsArray() {
		return nil, nil, errs.New(errs.TypeMismatch, "storage %v is not a container", d.Type)
	}
	var list []StorageItem
	if err := rlp.DecodeBytes(d.Payload, &list); err != nil {
		return nil, nil, errs.Wrap(errs.TypeMismatch, err, "decode %v", d.Type)
	}
	var (
		elem   = d.Type.Elem()
		keys   = make([]string, 0, len(list))
		values = make([]StorageData, 0, len(list))
	)
	for i, item := range list {
		if i > 0 && item.Key <= list[i-1].Key {
			return nil, nil, errs.New(errs.TypeMismatch, "%v keys not sorted", d.Type)
		}
		if d.Type.IsArray() {
			if n, err := strconv.Atoi(item.Key); err != nil || n < 0 || n >= len(list) || strconv.Itoa(n) != item.Key {
				return nil, nil, errs.New(errs.TypeMismatch, "bad array index %q", item.Key)
			}
		}
		v := StorageData{elem, item.Value}
		if err := v.Validate(); err != nil {
			return nil, nil, err
		}
		keys = append(keys, item.Key)
		values = append(values, v)
	}
	return keys, values, nil
}

// Validate checks that the payload decodes as the declared type.
func (d *StorageData) Validate() error {
	var err error
	switch d.Type {
	case StorageNull:
		if len(d.Payload) != 0 {
			err = errs.New(errs.TypeMismatch, "null with payload")
		}
	case StorageInt:
		_, err = d.AsInt()
	case StorageNumber:
		_, err = d.AsNumber()
	case StorageBool:
		_, err = d.AsBool()
	case StorageString:
		_, err = d.AsString()
	default:
		if !d.Type.IsValid() {
			return errs.New(errs.TypeMismatch, "unknown storage type %d", uint8(d.Type))
		}
		_, _, err = d.Items()
	}
	return err
}

// Copy returns a deep copy.
func (d StorageData) Copy() StorageData {
	d.Payload = slices.Clone(d.Payload)
	return d
}

// Equal returns whether two values are identical.
func (d StorageData) Equal(other StorageData) bool {
	return d.Type == other.Type && string(d.Payload) == string(other.Payload)
}

// ContractStorageEntry is a scalar storage of a contract.
type ContractStorageEntry struct {
	ContractID thor.Address `json:"contract_id"`
	Name       string       `json:"name"`
	Data       StorageData  `json:"data"`
}

// Key returns the storage key of the entry.
func (e *ContractStorageEntry) Key() StorageKey {
	return StorageKey{e.ContractID, e.Name}
}

// Clone returns a deep copy.
func (e *ContractStorageEntry) Clone() *ContractStorageEntry {
	if e == nil {
		return nil
	}
	cpy := *e
	cpy.Data = e.Data.Copy()
	return &cpy
}

// ContractValueEntry is an item of a table or array storage of a contract.
type ContractValueEntry struct {
	ID         thor.Bytes32 `json:"id"`
	ContractID thor.Address `json:"contract_id"`
	Name       string       `json:"name"`
	Key        string       `json:"key"`
	Value      StorageData  `json:"value"`
}

// NewContractValueEntry creates the item entry with its id derived.
func NewContractValueEntry(contract thor.Address, name, key string, value StorageData) *ContractValueEntry {
	return &ContractValueEntry{
		ID:         ValueID(contract, name, key),
		ContractID: contract,
		Name:       name,
		Key:        key,
		Value:      value.Copy(),
	}
}

// Clone returns a deep copy.
func (e *ContractValueEntry) Clone() *ContractValueEntry {
	if e == nil {
		return nil
	}
	cpy := *e
	cpy.Value = e.Value.Copy()
	return &cpy
}

// ValueID derives the id of an item entry.
func ValueID(contract thor.Address, name, key string) thor.Bytes32 {
	return mustHash([]interface{}{contract, name, key})
}

// LookupContractStorageValues returns the items a table or array storage currently holds.
func LookupContractStorageValues(db ContractStorageDB, key StorageKey) ([]*ContractValueEntry, error) {
	ids, err := db.LookupContractStorageIndex(key)
	if err != nil {
		return nil, err
	}
	values := make([]*ContractValueEntry, 0, len(ids))
	for _, id := range ids {
		v, err := db.LookupContractValueByID(id)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, errs.New(errs.Internal, "storage %v: dangling value %v", key, id)
		}
		values = append(values, v)
	}
	return values, nil
}
