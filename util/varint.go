// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

// Varint64MaximumBytes - maximum possible number of bytes in Varint64
const Varint64MaximumBytes = 9

// ToVarint64 - convert a 64 bit unsigned integer to Varint64
//
// seven bits per byte, least significant first, high bit of each
// byte is the extension flag; the ninth byte, if present, carries a
// full eight bits
func ToVarint64(value uint64) []byte {
	result := make([]byte, 0, Varint64MaximumBytes)
	if value < 0x80 {
		result = append(result, byte(value))
		return result
	}

	for i := 0; i < Varint64MaximumBytes && value != 0; i += 1 {
		ext := uint64(0x80)
		if value < 0x80 {
			ext = 0x00
		}
		result = append(result, byte(value|ext))
		value >>= 7
	}
	return result
}

// FromVarint64 - convert an array of up to Varint64MaximumBytes to a uint64
//
// also return the number of bytes used as second value
// returns 0, 0 if varint64 buffer is truncated
func FromVarint64(buffer []byte) (uint64, int) {
	result := uint64(0)

	shift := uint(0)
	count := 0

	for count < len(buffer) {
		currByte := uint64(buffer[count])
		count += 1
		if count < Varint64MaximumBytes {
			result |= currByte & 0x7f << shift
			if 0 == currByte&0x80 {
				return result, count
			}
		} else {
			result |= currByte << shift
			return result, count
		}
		shift += 7
	}
	return 0, 0
}

// AppendString - append a varint64 length followed by the string bytes
func AppendString(buffer []byte, s string) []byte {
	buffer = append(buffer, ToVarint64(uint64(len(s)))...)
	return append(buffer, s...)
}

// NextString - decode a length-prefixed string from the start of a buffer
//
// also return the number of bytes consumed as second value
// returns "", 0 if the buffer is truncated
func NextString(buffer []byte) (string, int) {
	length, used := FromVarint64(buffer)
	if 0 == used {
		return "", 0
	}
	end := used + int(length)
	if end > len(buffer) {
		return "", 0
	}
	return string(buffer[used:end]), end
}

// AppendBytes - append a varint64 length followed by the raw bytes
func AppendBytes(buffer []byte, b []byte) []byte {
	buffer = append(buffer, ToVarint64(uint64(len(b)))...)
	return append(buffer, b...)
}

// NextBytes - decode a length-prefixed byte slice from the start of a buffer
//
// the returned slice aliases the buffer - copy it if it must be preserved
// returns nil, 0 if the buffer is truncated
func NextBytes(buffer []byte) ([]byte, int) {
	length, used := FromVarint64(buffer)
	if 0 == used {
		return nil, 0
	}
	end := used + int(length)
	if end > len(buffer) {
		return nil, 0
	}
	return buffer[used:end], end
}
