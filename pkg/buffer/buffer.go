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

// Package buffer provides a growable byte container used to hold downloaded
// device memory. Unlike bytes.Buffer it is addressable in place: it can be
// resized to a negotiated length and then filled through Data, and all
// slicing is bounds checked.
package buffer

import (
	"fmt"
)

type Buffer struct {
	data []byte
}

func New(size int) *Buffer {
	if size < 0 {
		size = 0
	}
	return &Buffer{data: make([]byte, size)}
}

// Clear drops the contents but keeps the allocated capacity.
func (b *Buffer) Clear() {
	b.data = b.data[:0]
}

// Resize grows or truncates the buffer to exactly size bytes. Existing
// contents within the new size are preserved.
func (b *Buffer) Resize(size int) error {
	if size < 0 {
		return fmt.Errorf("invalid buffer size: %d", size)
	}
	if size <= cap(b.data) {
		b.data = b.data[:size]
		return nil
	}
	data := make([]byte, size)
	copy(data, b.data)
	b.data = data
	return nil
}

func (b *Buffer) Size() int {
	return len(b.data)
}

// Data returns the underlying bytes. The slice stays valid until the next
// Resize or Clear.
func (b *Buffer) Data() []byte {
	return b.data
}

// Slice returns the range [start, end) or an error if the range does not lie
// within the buffer.
func (b *Buffer) Slice(start, end int) ([]byte, error) {
	if start < 0 || end < start || end > len(b.data) {
		return nil, fmt.Errorf("slice [%d:%d] out of range for buffer of size %d", start, end, len(b.data))
	}
	return b.data[start:end], nil
}

// SaturatingSub returns a-b, clamped at zero. Offset arithmetic on device
// memory must never wrap below the start of the buffer.
func SaturatingSub(a, b int) int {
	if a < b {
		return 0
	}
	return a - b
}
