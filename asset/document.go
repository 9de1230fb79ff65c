// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"encoding/binary"

	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/ticker"
	"github.com/meridian-inc/meridiand/util"
)

// Document - one filed document
type Document struct {
	Name        string
	URI         string
	ContentHash []byte
	DocType     string
	FiledAt     int64
}

// Pack - serialize a document
func (d Document) Pack() []byte {
	buffer := util.AppendString(nil, d.Name)
	buffer = util.AppendString(buffer, d.URI)
	buffer = util.AppendBytes(buffer, d.ContentHash)
	buffer = util.AppendString(buffer, d.DocType)
	filed := make([]byte, 8)
	binary.BigEndian.PutUint64(filed, uint64(d.FiledAt))
	return append(buffer, filed...)
}

// UnpackDocument - recover a document
func UnpackDocument(buffer []byte) (Document, error) {
	d := Document{}
	name, n := util.NextString(buffer)
	if 0 == n {
		return d, fault.ErrDocumentNotFound
	}
	d.Name = name
	buffer = buffer[n:]

	uri, n := util.NextString(buffer)
	if 0 == n {
		return d, fault.ErrDocumentNotFound
	}
	d.URI = uri
	buffer = buffer[n:]

	hash, n := util.NextBytes(buffer)
	if 0 == n {
		return d, fault.ErrDocumentNotFound
	}
	d.ContentHash = append([]byte{}, hash...)
	buffer = buffer[n:]

	docType, n := util.NextString(buffer)
	if 0 == n {
		return d, fault.ErrDocumentNotFound
	}
	d.DocType = docType
	buffer = buffer[n:]

	if len(buffer) < 8 {
		return d, fault.ErrDocumentNotFound
	}
	d.FiledAt = int64(binary.BigEndian.Uint64(buffer[:8]))
	return d, nil
}

func documentKey(symbol ticker.Ticker, id uint64) []byte {
	key := symbol.Pack()
	suffix := make([]byte, 8)
	binary.BigEndian.PutUint64(suffix, id)
	return append(key, suffix...)
}

// AddDocuments - append a batch of documents
//
// ids advance monotonically and are never reused; returns the
// allocated ids in batch order
func AddDocuments(symbol ticker.Ticker, documents []Document) ([]uint64, error) {
	if !symbol.IsAsset() {
		return nil, fault.ErrAssetNotFound
	}
	if 0 == len(documents) || len(documents) > CurrentLimits().MaxDocsPerBatch {
		return nil, fault.ErrTooManyDocuments
	}

	next, _ := storage.Pool.NextDocumentId.GetN(symbol.Pack())

	ids := make([]uint64, 0, len(documents))
	for _, d := range documents {
		if next+1 < next {
			return nil, fault.ErrDocumentCounterOverflow
		}
		next += 1
		storage.Pool.Documents.Put(documentKey(symbol, next), d.Pack())
		ids = append(ids, next)
	}
	storage.Pool.NextDocumentId.PutN(symbol.Pack(), next)
	return ids, nil
}

// RemoveDocuments - remove documents by id
//
// removed ids stay consumed, the counter never rewinds
func RemoveDocuments(symbol ticker.Ticker, ids []uint64) error {
	if !symbol.IsAsset() {
		return fault.ErrAssetNotFound
	}
	for _, id := range ids {
		key := documentKey(symbol, id)
		if !storage.Pool.Documents.Has(key) {
			return fault.ErrDocumentNotFound
		}
		storage.Pool.Documents.Delete(key)
	}
	return nil
}

// GetDocument - read one document by id
func GetDocument(symbol ticker.Ticker, id uint64) (Document, error) {
	value := storage.Pool.Documents.Get(documentKey(symbol, id))
	if nil == value {
		return Document{}, fault.ErrDocumentNotFound
	}
	return UnpackDocument(value)
}
