/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package g2

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/oceanlab/go-divelog/pkg/device"
)

type extracted struct {
	data        []byte
	fingerprint []byte
}

// record builds one dive record of the given total length: marker, length
// field, fingerprint, then profile filler.
func record(t *testing.T, length int, fingerprint []byte, fill byte) []byte {
	t.Helper()
	if length < recordHeaderSize || len(fingerprint) != fingerprintSize {
		t.Fatalf("bad test record: length=%d fingerprint=%x", length, fingerprint)
	}
	rec := make([]byte, length)
	copy(rec, diveMarker[:])
	binary.LittleEndian.PutUint32(rec[recordLengthOffset:], uint32(length))
	copy(rec[recordFingerprintOffset:], fingerprint)
	for i := recordHeaderSize; i < length; i++ {
		rec[i] = fill
	}
	return rec
}

func collect(dives *[]extracted) device.DiveCallback {
	return func(data, fingerprint []byte) bool {
		*dives = append(*dives, extracted{
			data:        append([]byte{}, data...),
			fingerprint: append([]byte{}, fingerprint...),
		})
		return true
	}
}

func TestExtractTwoDivesNewestFirst(t *testing.T) {
	older := record(t, 44, []byte{0x01, 0x02, 0x03, 0x04}, 0xaa)
	newer := record(t, 40, []byte{0x05, 0x06, 0x07, 0x08}, 0xbb)
	blob := append(append([]byte{}, older...), newer...)

	var dives []extracted
	if err := ExtractDives(blob, collect(&dives)); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(dives) != 2 {
		t.Fatalf("got %d dives, want 2", len(dives))
	}
	// The record at the higher offset is reported first.
	if !bytes.Equal(dives[0].data, newer) {
		t.Errorf("first dive does not match the higher-offset record")
	}
	if !bytes.Equal(dives[0].fingerprint, []byte{0x05, 0x06, 0x07, 0x08}) {
		t.Errorf("first fingerprint %x", dives[0].fingerprint)
	}
	if !bytes.Equal(dives[1].data, older) {
		t.Errorf("second dive does not match the lower-offset record")
	}
	if !bytes.Equal(dives[1].fingerprint, []byte{0x01, 0x02, 0x03, 0x04}) {
		t.Errorf("second fingerprint %x", dives[1].fingerprint)
	}
}

func TestExtractOverlapIsDataFormatError(t *testing.T) {
	// A lower record claims more bytes than remain below the accepted one.
	lower := record(t, 20, []byte{1, 1, 1, 1}, 0x00)
	binary.LittleEndian.PutUint32(lower[recordLengthOffset:], 100)
	upper := record(t, 40, []byte{2, 2, 2, 2}, 0xcc)
	blob := append(append([]byte{}, lower...), upper...)

	var dives []extracted
	err := ExtractDives(blob, collect(&dives))
	var dataFormat device.ErrDataFormat
	if !errors.As(err, &dataFormat) {
		t.Fatalf("got %v, want ErrDataFormat", err)
	}
	if len(dives) != 1 {
		t.Errorf("got %d dives before the error, want 1", len(dives))
	}
}

func TestExtractEarlyStopIsNotAnError(t *testing.T) {
	older := record(t, 44, []byte{0x01, 0x02, 0x03, 0x04}, 0xaa)
	newer := record(t, 40, []byte{0x05, 0x06, 0x07, 0x08}, 0xbb)
	blob := append(append([]byte{}, older...), newer...)

	calls := 0
	err := ExtractDives(blob, func(data, fingerprint []byte) bool {
		calls++
		return false
	})
	if err != nil {
		t.Fatalf("early stop reported an error: %v", err)
	}
	if calls != 1 {
		t.Errorf("callback invoked %d times after stop, want 1", calls)
	}
}

func TestExtractShortBlobs(t *testing.T) {
	for size := 0; size < 4; size++ {
		var dives []extracted
		if err := ExtractDives(make([]byte, size), collect(&dives)); err != nil {
			t.Fatalf("size %d: %v", size, err)
		}
		if len(dives) != 0 {
			t.Errorf("size %d: got %d dives, want 0", size, len(dives))
		}
	}
}

func TestExtractExactlyFourBytes(t *testing.T) {
	// A blob that is nothing but the marker starts the scan at offset zero
	// and finds nothing.
	var dives []extracted
	if err := ExtractDives(diveMarker[:], collect(&dives)); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(dives) != 0 {
		t.Errorf("got %d dives, want 0", len(dives))
	}
}

func TestExtractMarkerAtOffsetZero(t *testing.T) {
	rec := record(t, 40, []byte{9, 9, 9, 9}, 0xdd)
	blob := append(append([]byte{}, rec...), make([]byte, 16)...)

	var dives []extracted
	if err := ExtractDives(blob, collect(&dives)); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(dives) != 1 {
		t.Fatalf("got %d dives, want 1", len(dives))
	}
	if !bytes.Equal(dives[0].data, rec) {
		t.Errorf("dive does not match the record at offset zero")
	}
}

func TestExtractTruncatedHeader(t *testing.T) {
	// A marker too close to the end of the blob cannot carry a full header.
	blob := make([]byte, 20)
	copy(blob[12:], diveMarker[:])

	err := ExtractDives(blob, collect(&[]extracted{}))
	var dataFormat device.ErrDataFormat
	if !errors.As(err, &dataFormat) {
		t.Fatalf("got %v, want ErrDataFormat", err)
	}
}

func TestExtractNilCallback(t *testing.T) {
	rec := record(t, 40, []byte{9, 9, 9, 9}, 0xdd)
	if err := ExtractDives(rec, nil); err != nil {
		t.Fatalf("nil callback: %v", err)
	}
}
