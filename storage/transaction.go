// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

// Transaction - the per-request write boundary spanning all databases
//
// Begin marks the batches busy, Commit writes them out, Abort
// discards them; pool writes outside Begin…Commit are a programming
// error and panic
type Transaction interface {
	Begin() error
	Commit() error
	Abort()
	InUse() bool
}

type transactionData struct {
	access []Access
}

func newTransaction(access []Access) Transaction {
	return &transactionData{
		access: access,
	}
}

func (t *transactionData) Begin() error {
	for i, a := range t.access {
		if err := a.Begin(); nil != err {
			// roll back the ones already marked busy
			for j := 0; j < i; j += 1 {
				t.access[j].Abort()
			}
			return err
		}
	}
	return nil
}

func (t *transactionData) Commit() error {
	for _, a := range t.access {
		if err := a.Commit(); nil != err {
			return err
		}
	}
	return nil
}

func (t *transactionData) Abort() {
	for _, a := range t.access {
		a.Abort()
	}
}

func (t *transactionData) InUse() bool {
	for _, a := range t.access {
		if a.InUse() {
			return true
		}
	}
	return false
}
