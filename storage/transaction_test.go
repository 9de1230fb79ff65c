// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/storage/mocks"
)

func TestTransactionBegin(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	mock := mocks.NewMockAccess(ctl)
	mock.EXPECT().Begin().Return(nil).Times(1)

	trx := newTransaction([]Access{mock})
	assert.Nil(t, trx.Begin(), "first Begin must succeed")
}

func TestTransactionBeginFailureRollsBack(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	first := mocks.NewMockAccess(ctl)
	second := mocks.NewMockAccess(ctl)

	first.EXPECT().Begin().Return(nil).Times(1)
	second.EXPECT().Begin().Return(fault.ErrTransactionAlreadyInUse).Times(1)
	first.EXPECT().Abort().Times(1)

	trx := newTransaction([]Access{first, second})
	assert.Equal(t, fault.ErrTransactionAlreadyInUse, trx.Begin())
}

func TestTransactionCommitAll(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	first := mocks.NewMockAccess(ctl)
	second := mocks.NewMockAccess(ctl)

	first.EXPECT().Commit().Return(nil).Times(1)
	second.EXPECT().Commit().Return(nil).Times(1)

	trx := newTransaction([]Access{first, second})
	assert.Nil(t, trx.Commit())
}

func TestTransactionAbortAll(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	first := mocks.NewMockAccess(ctl)
	second := mocks.NewMockAccess(ctl)

	first.EXPECT().Abort().Times(1)
	second.EXPECT().Abort().Times(1)

	trx := newTransaction([]Access{first, second})
	trx.Abort()
}
