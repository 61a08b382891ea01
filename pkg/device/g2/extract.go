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
	"fmt"

	"github.com/oceanlab/go-divelog/pkg/buffer"
	"github.com/oceanlab/go-divelog/pkg/device"
)

// ExtractDives implements device.Extractor.
func (d *Device) ExtractDives(data []byte, callback device.DiveCallback) error {
	return ExtractDives(data, callback)
}

// ExtractDives scans the downloaded memory backwards for dive record
// markers and reports each record to callback, most recent dive first.
// Each record is validated against the region already claimed by the
// previously accepted (higher offset) record. A callback returning false
// stops the scan without error.
func ExtractDives(data []byte, callback device.DiveCallback) error {
	size := len(data)

	// previous is the exclusive upper bound not yet claimed by a record.
	// Buffers shorter than the marker are never scanned.
	previous := size
	current := buffer.SaturatingSub(size, 4)
	for current > 0 {
		current--
		if !bytes.Equal(data[current:current+4], diveMarker[:]) {
			continue
		}

		if current+recordHeaderSize > size {
			return device.ErrDataFormat{What: fmt.Sprintf("truncated record header at offset %d", current)}
		}

		length := int(binary.LittleEndian.Uint32(data[current+recordLengthOffset : current+recordLengthOffset+4]))
		if length < 0 || current+length > previous {
			return device.ErrDataFormat{What: fmt.Sprintf("record at offset %d with length %d overlaps boundary %d", current, length, previous)}
		}

		if callback != nil && !callback(
			data[current:current+length],
			data[current+recordFingerprintOffset:current+recordFingerprintOffset+fingerprintSize]) {
			return nil
		}

		previous = current
		current = buffer.SaturatingSub(current, 4)
	}

	return nil
}
