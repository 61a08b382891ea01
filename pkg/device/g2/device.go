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

// Package g2 implements the dive-log download driver for the Scubapro G2
// family (G2, G2 HUD, Aladin Square) over USB HID.
package g2

import (
	"encoding/binary"

	"github.com/oceanlab/go-divelog/pkg/buffer"
	"github.com/oceanlab/go-divelog/pkg/device"
	"github.com/oceanlab/go-divelog/pkg/event"
	"github.com/oceanlab/go-divelog/pkg/log"
	"github.com/oceanlab/go-divelog/pkg/usbhid"
)

// Device is one open session. Fields mutate only through SetFingerprint and
// Dump; the session is not safe for concurrent use.
type Device struct {
	transport usbhid.Transport
	// address is unused by this family, kept for symmetry with the other
	// protocol variants
	address   uint32
	timestamp uint32
	devtime   uint32
	systime   int64
}

var _ device.Device = &Device{}

func init() {
	device.Register(Family, func() (device.Device, error) {
		return Open()
	})
}

// Open acquires the HID transport and creates a session with default state.
func Open() (*Device, error) {
	transport, err := usbhid.Open(VendorID, ProductID)
	if err != nil {
		log.Error("Failed to open USB device %04x:%04x: %v", VendorID, ProductID, err)
		return nil, device.ErrIO{Op: "open", Err: err}
	}
	return newDevice(transport), nil
}

func newDevice(transport usbhid.Transport) *Device {
	return &Device{
		transport: transport,
		address:   0,
		timestamp: 0,
		devtime:   0,
		systime:   systimeUncalibrated,
	}
}

func (d *Device) Close() error {
	return d.transport.Close()
}

// SetFingerprint stores the 4-byte little-endian cutoff used by subsequent
// dumps. An empty fingerprint clears the cutoff.
func (d *Device) SetFingerprint(data []byte) error {
	if len(data) != 0 && len(data) != fingerprintSize {
		return device.ErrInvalidArgument{What: "fingerprint must be empty or 4 bytes"}
	}

	if len(data) != 0 {
		d.timestamp = binary.LittleEndian.Uint32(data)
	} else {
		d.timestamp = 0
	}

	return nil
}

// ForeachDive downloads the log memory and reports each dive to callback,
// most recent first.
func (d *Device) ForeachDive(callback device.DiveCallback, sink event.Sink) error {
	buf := buffer.New(0)
	if err := d.Dump(buf, sink); err != nil {
		return err
	}
	return ExtractDives(buf.Data(), callback)
}
