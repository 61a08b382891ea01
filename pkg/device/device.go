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

// Package device declares the contract every dive computer driver
// implements and a registry of the known device families.
package device

import (
	"sort"
	"sync"

	"github.com/oceanlab/go-divelog/pkg/buffer"
	"github.com/oceanlab/go-divelog/pkg/event"
)

// DiveCallback is invoked once per extracted dive, most recent dive first.
// data covers the whole record starting at its marker, fingerprint is the
// 4-byte dive identity. Return false to stop the enumeration; stopping
// early is not an error.
type DiveCallback func(data []byte, fingerprint []byte) bool

// Device is one open dive computer session. A session is owned by a single
// caller; concurrent use must be serialized externally.
type Device interface {
	// SetFingerprint sets the cutoff for subsequent downloads. data must be
	// empty (clear the cutoff) or exactly 4 bytes.
	SetFingerprint(data []byte) error
	// Dump downloads the device log memory into buf, emitting progress and
	// identity events to sink. On failure buf contents are invalid.
	Dump(buf *buffer.Buffer, sink event.Sink) error
	// ForeachDive downloads the log memory and reports each dive to callback.
	ForeachDive(callback DiveCallback, sink event.Sink) error
	Close() error
}

// Extractor is implemented by drivers that can locate dive records inside
// a previously downloaded memory blob.
type Extractor interface {
	ExtractDives(data []byte, callback DiveCallback) error
}

// Opener acquires the transport and creates a session for one family.
type Opener func() (Device, error)

var (
	mu       sync.Mutex
	registry = make(map[string]Opener)
)

// Register makes a device family available to Open. Drivers call it from
// their package init.
func Register(family string, opener Opener) {
	mu.Lock()
	defer mu.Unlock()
	registry[family] = opener
}

// Open creates a session for the named device family.
func Open(family string) (Device, error) {
	mu.Lock()
	opener, ok := registry[family]
	mu.Unlock()
	if !ok {
		return nil, ErrUnsupportedFamily{Family: family}
	}
	return opener()
}

// Families returns the registered family names in sorted order.
func Families() []string {
	mu.Lock()
	defer mu.Unlock()
	families := make([]string, 0, len(registry))
	for family := range registry {
		families = append(families, family)
	}
	sort.Strings(families)
	return families
}
