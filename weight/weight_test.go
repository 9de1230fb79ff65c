// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package weight_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/weight"
)

func TestConsume(t *testing.T) {
	m := weight.NewMeter(100)
	assert.Nil(t, m.Consume(60))
	assert.Equal(t, uint64(60), m.Used())
	assert.Equal(t, uint64(40), m.Remaining())

	assert.Nil(t, m.Consume(40))
	assert.Equal(t, uint64(0), m.Remaining())
}

func TestConsumeExhausted(t *testing.T) {
	m := weight.NewMeter(10)
	assert.Equal(t, fault.ErrWeightLimitExceeded, m.Consume(11))
	assert.Equal(t, uint64(0), m.Remaining(), "a failed meter is pinned at its limit")
	assert.Equal(t, fault.ErrWeightLimitExceeded, m.Consume(1))
}

func TestUnlimited(t *testing.T) {
	m := weight.Unlimited()
	assert.Nil(t, m.Consume(^uint64(0)-1))
}
