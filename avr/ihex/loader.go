// Copyright © 2019 mg
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package ihex reads the subset of the Intel HEX format the emulator's
// program images are shipped in: data records (type 00) and the end-of-file
// marker (type 01). It is deliberately ignorant of the AVR core it loads
// into, taking only a byte sink and a load address, the same boundary
// mgnes/pkg/cartridge draws around the NES ROM/header format.
package ihex

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// ErrMalformedRecord is wrapped with positional detail whenever a record
// doesn't start with ':', has an odd number of hex digits, or names a
// record type this loader doesn't understand. No checksum validation is
// performed — spec.md §7 explicitly scopes that out.
var ErrMalformedRecord = errors.New("ihex: malformed record")

const (
	recordData = 0x00
	recordEOF  = 0x01
)

// Sink is the subset of avr.Memory the loader writes into. Kept as an
// interface (rather than importing the avr package directly) so this
// package has no dependency on the execution core it feeds.
type Sink interface {
	SetByte(addr uint16, value uint8)
}

// Load reads Intel HEX records from r and writes their data payload into
// sink starting at base, byte-swapping each two-byte word as it lands —
// the flash layout the decoder in avr assumes (memory[PC] is the
// instruction's high byte, memory[PC+1] its low byte; spec.md §9's
// "byte order in flash" open question keeps this convention). Reading
// stops at the first type-01 end-of-file record; anything after it is
// ignored, matching the reference loader's behavior of breaking out of its
// record loop on EOF rather than erroring on trailing bytes.
func Load(r io.Reader, sink Sink, base uint16) error {
	scanner := bufio.NewScanner(r)
	addr := base

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		rec, err := parseRecord(line)
		if err != nil {
			return err
		}

		switch rec.recordType {
		case recordEOF:
			return nil
		case recordData:
			// Each record's payload is consumed in byte-swapped pairs,
			// independent of any other record — mirrors loadProgram()'s
			// per-record while loop in original_source/main.cpp. The
			// record's own address field is parsed (and so validated) but,
			// matching that same reference loader, the destination is the
			// contiguous write cursor rather than a seek to rec.address.
			if len(rec.data)%2 != 0 {
				return fmt.Errorf("%w: odd-length data payload in %q", ErrMalformedRecord, line)
			}
			for i := 0; i < len(rec.data); i += 2 {
				sink.SetByte(addr, rec.data[i+1])
				sink.SetByte(addr+1, rec.data[i])
				addr += 2
			}
		default:
			return fmt.Errorf("%w: unsupported record type 0x%02X", ErrMalformedRecord, rec.recordType)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("ihex: reading records: %w", err)
	}
	return nil
}

type record struct {
	byteCount  int
	address    uint16
	recordType int
	data       []byte
}

func parseRecord(line string) (record, error) {
	if len(line) < 11 || line[0] != ':' {
		return record{}, fmt.Errorf("%w: %q", ErrMalformedRecord, line)
	}
	body := line[1:]
	if len(body)%2 != 0 {
		return record{}, fmt.Errorf("%w: odd digit count in %q", ErrMalformedRecord, line)
	}

	raw := make([]byte, len(body)/2)
	for i := range raw {
		v, err := parseHexByte(body[i*2 : i*2+2])
		if err != nil {
			return record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		raw[i] = v
	}
	if len(raw) < 5 {
		return record{}, fmt.Errorf("%w: record too short: %q", ErrMalformedRecord, line)
	}

	byteCount := int(raw[0])
	address := uint16(raw[1])<<8 | uint16(raw[2])
	recordType := int(raw[3])
	payload := raw[4 : len(raw)-1] // trailing byte is the (unchecked) checksum

	if len(payload) != byteCount {
		return record{}, fmt.Errorf("%w: byte count %d doesn't match payload length %d", ErrMalformedRecord, byteCount, len(payload))
	}

	return record{byteCount: byteCount, address: address, recordType: recordType, data: payload}, nil
}

func parseHexByte(s string) (byte, error) {
	var v byte
	for _, c := range []byte(s) {
		var nibble byte
		switch {
		case c >= '0' && c <= '9':
			nibble = c - '0'
		case c >= 'a' && c <= 'f':
			nibble = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			nibble = c - 'A' + 10
		default:
			return 0, fmt.Errorf("invalid hex digit %q", c)
		}
		v = v<<4 | nibble
	}
	return v, nil
}
