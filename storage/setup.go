// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/logger"

	"github.com/meridian-inc/meridiand/fault"
)

// exported storage pools
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type pools struct {
	TickerReservations    *PoolHandle `prefix:"R" database:"state"`
	Tokens                *PoolHandle `prefix:"T" database:"state"`
	OwnershipRelation     *PoolHandle `prefix:"W" database:"state"`
	Balances              *PoolHandle `prefix:"B" database:"state"`
	Frozen                *PoolHandle `prefix:"F" database:"state"`
	HolderCounts          *PoolHandle `prefix:"s" database:"state"`
	Agents                *PoolHandle `prefix:"S" database:"state"`
	Documents             *PoolHandle `prefix:"D" database:"state"`
	NextDocumentId        *PoolHandle `prefix:"d" database:"state"`
	Mediators             *PoolHandle `prefix:"M" database:"state"`
	TickerExempt          *PoolHandle `prefix:"E" database:"state"`
	PreApproved           *PoolHandle `prefix:"e" database:"state"`
	GlobalKeyByName       *PoolHandle `prefix:"g" database:"state"`
	GlobalKeySpecs        *PoolHandle `prefix:"G" database:"state"`
	NextGlobalKey         *PoolHandle `prefix:"h" database:"state"`
	LocalKeyByName        *PoolHandle `prefix:"l" database:"state"`
	LocalKeySpecs         *PoolHandle `prefix:"L" database:"state"`
	NextLocalKey          *PoolHandle `prefix:"m" database:"state"`
	MetadataValues        *PoolHandle `prefix:"V" database:"state"`
	MetadataDetails       *PoolHandle `prefix:"v" database:"state"`
	CollectionKeys        *PoolHandle `prefix:"K" database:"state"`
	Compliance            *PoolHandle `prefix:"C" database:"state"`
	DefaultTrustedIssuers *PoolHandle `prefix:"I" database:"state"`
	CustomTypeByName      *PoolHandle `prefix:"Y" database:"state"`
	CustomTypeById        *PoolHandle `prefix:"y" database:"state"`
	NextCustomTypeId      *PoolHandle `prefix:"z" database:"state"`
	CorporateActions      *PoolHandle `prefix:"A" database:"state"`
	NextCorporateActionId *PoolHandle `prefix:"a" database:"state"`
	RecordDates           *PoolHandle `prefix:"r" database:"state"`
	BallotRanges          *PoolHandle `prefix:"Q" database:"state"`
	BallotMetas           *PoolHandle `prefix:"q" database:"state"`
	BallotChoiceCounts    *PoolHandle `prefix:"c" database:"state"`
	BallotRCV             *PoolHandle `prefix:"j" database:"state"`
	BallotResults         *PoolHandle `prefix:"u" database:"state"`
	BallotVotes           *PoolHandle `prefix:"w" database:"state"`
	Distributions         *PoolHandle `prefix:"X" database:"state"`
	HolderPaid            *PoolHandle `prefix:"x" database:"state"`
	AccountIdentities     *PoolHandle `prefix:"i" database:"state"`
	IdentityRecords       *PoolHandle `prefix:"n" database:"state"`
	Claims                *PoolHandle `prefix:"J" database:"state"`
	Authorizations        *PoolHandle `prefix:"U" database:"state"`
	NextAuthorizationId   *PoolHandle `prefix:"0" database:"state"`
	Portfolios            *PoolHandle `prefix:"P" database:"state"`
	PortfolioBalances     *PoolHandle `prefix:"p" database:"state"`
	PortfolioLocks        *PoolHandle `prefix:"k" database:"state"`
	TestData              *PoolHandle `prefix:"Z" database:"state"`

	NextCheckpointId     *PoolHandle `prefix:"1" database:"checkpoint"`
	CheckpointSupply     *PoolHandle `prefix:"2" database:"checkpoint"`
	CheckpointTimestamps *PoolHandle `prefix:"3" database:"checkpoint"`
	CheckpointBalances   *PoolHandle `prefix:"4" database:"checkpoint"`
	BalanceMarks         *PoolHandle `prefix:"5" database:"checkpoint"`
}

// Pool - the set of exported pools
var Pool pools

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const (
	currentStateDBVersion      = 0x100
	currentCheckpointDBVersion = 0x100
)

// holds the database handles
var poolData struct {
	sync.RWMutex
	dbState      *leveldb.DB
	dbCheckpoint *leveldb.DB
	trx          Transaction
}

// Initialise - open up the database connections
//
// this must be called before any pool is accessed
func Initialise(database string, readOnly bool) error {
	poolData.Lock()
	defer poolData.Unlock()

	ok := false

	if nil != poolData.dbState {
		return fault.ErrAlreadyInitialised
	}

	defer func() {
		if !ok {
			dbClose()
		}
	}()

	stateDatabase := database + "-state.leveldb"
	checkpointDatabase := database + "-checkpoint.leveldb"

	db, version, err := getDB(stateDatabase, readOnly)
	if nil != err {
		return err
	}
	poolData.dbState = db

	// ensure no database downgrade
	if version > currentStateDBVersion {
		logger.Criticalf("state database version: %d > current version: %d", version, currentStateDBVersion)
		return fmt.Errorf("state database version: %d > current version: %d", version, currentStateDBVersion)
	}
	if 0 == version && !readOnly {
		if err := putVersion(poolData.dbState, currentStateDBVersion); nil != err {
			return err
		}
	}

	db, version, err = getDB(checkpointDatabase, readOnly)
	if nil != err {
		return err
	}
	poolData.dbCheckpoint = db

	if version > currentCheckpointDBVersion {
		logger.Criticalf("checkpoint database version: %d > current version: %d", version, currentCheckpointDBVersion)
		return fmt.Errorf("checkpoint database version: %d > current version: %d", version, currentCheckpointDBVersion)
	}
	if 0 == version && !readOnly {
		if err := putVersion(poolData.dbCheckpoint, currentCheckpointDBVersion); nil != err {
			return err
		}
	}

	// shared cache so a transaction observes all of its own writes
	cache := newCache()
	stateAccess := newDA(poolData.dbState, new(leveldb.Batch), cache)
	checkpointAccess := newDA(poolData.dbCheckpoint, new(leveldb.Batch), cache)
	poolData.trx = newTransaction([]Access{stateAccess, checkpointAccess})

	// this will be a struct type
	poolType := reflect.TypeOf(Pool)

	// get write access by using pointer + Elem()
	poolValue := reflect.ValueOf(&Pool).Elem()

	// scan each field
	for i := 0; i < poolType.NumField(); i += 1 {

		fieldInfo := poolType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			return fmt.Errorf("pool: %v has invalid prefix: %q", fieldInfo, prefixTag)
		}

		prefix := prefixTag[0]
		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}

		var access Access
		switch dbName := fieldInfo.Tag.Get("database"); dbName {
		case "state":
			access = stateAccess
		case "checkpoint":
			access = checkpointAccess
		default:
			return fmt.Errorf("pool: %v has invalid database: %q", fieldInfo, dbName)
		}

		p := &PoolHandle{
			prefix: prefix,
			limit:  limit,
			access: access,
		}
		poolValue.Field(i).Set(reflect.ValueOf(p))
	}

	ok = true // prevent db close
	return nil
}

func dbClose() {
	if nil != poolData.dbCheckpoint {
		poolData.dbCheckpoint.Close()
		poolData.dbCheckpoint = nil
	}
	if nil != poolData.dbState {
		poolData.dbState.Close()
		poolData.dbState = nil
	}
}

// Finalise - close the database connections
func Finalise() {
	poolData.Lock()
	dbClose()
	poolData.Unlock()
}

// NewDBTransaction - mark the per-request transaction busy
//
// only one transaction runs at a time: requests are totally ordered
// by the surrounding consensus layer
func NewDBTransaction() (Transaction, error) {
	err := poolData.trx.Begin()
	if nil != err {
		return nil, err
	}
	return poolData.trx, nil
}

// return:
//
//	database handle
//	version number
func getDB(name string, readOnly bool) (*leveldb.DB, int, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, 0, err
	}

	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return db, 0, nil
	} else if nil != err {
		db.Close()
		return nil, 0, err
	}

	if 4 != len(versionValue) {
		db.Close()
		return nil, 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}

	version := int(binary.BigEndian.Uint32(versionValue))
	return db, version, nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}
