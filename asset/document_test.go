// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridian-inc/meridiand/asset"
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/storage"
)

func TestAddAndRemoveDocuments(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x21)
	tick := makeAsset(t, owner, "DOCS", true)

	ids, err := asset.AddDocuments(tick, []asset.Document{
		{Name: "charter", URI: "ipfs://one", DocType: "pdf", FiledAt: 100},
		{Name: "bylaws", URI: "ipfs://two", DocType: "pdf", FiledAt: 101},
	})
	assert.Nil(t, err)
	assert.Equal(t, []uint64{1, 2}, ids)

	doc, err := asset.GetDocument(tick, 1)
	assert.Nil(t, err)
	assert.Equal(t, "charter", doc.Name)
	assert.Equal(t, int64(100), doc.FiledAt)

	err = asset.RemoveDocuments(tick, []uint64{1})
	assert.Nil(t, err)
	_, err = asset.GetDocument(tick, 1)
	assert.Equal(t, fault.ErrDocumentNotFound, err)

	// the counter never rewinds
	ids, err = asset.AddDocuments(tick, []asset.Document{
		{Name: "amendment", URI: "ipfs://three", DocType: "pdf", FiledAt: 102},
	})
	assert.Nil(t, err)
	assert.Equal(t, []uint64{3}, ids)
}

func TestDocumentBatchLimits(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x22)
	tick := makeAsset(t, owner, "DOCL", true)

	_, err = asset.AddDocuments(tick, nil)
	assert.Equal(t, fault.ErrTooManyDocuments, err)

	batch := make([]asset.Document, asset.DefaultLimits.MaxDocsPerBatch+1)
	_, err = asset.AddDocuments(tick, batch)
	assert.Equal(t, fault.ErrTooManyDocuments, err)

	err = asset.RemoveDocuments(tick, []uint64{7})
	assert.Equal(t, fault.ErrDocumentNotFound, err)
}
