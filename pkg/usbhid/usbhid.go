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

// Package usbhid wraps the HIDAPI transport behind a minimal synchronous
// interface. Timeouts and retries, if any, live below this layer.
package usbhid

import (
	"github.com/sstallion/go-hid"
)

// Transport is one open HID device. Reads and writes are blocking and
// exchange whole reports.
type Transport interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// Info describes an enumerated HID device.
type Info struct {
	Path      string `json:"path"`
	VendorID  uint16 `json:"vendor_id"`
	ProductID uint16 `json:"product_id"`
	Serial    string `json:"serial,omitempty"`
	Product   string `json:"product,omitempty"`
}

type Device struct {
	dev *hid.Device
}

var _ Transport = &Device{}

// Open acquires the first HID device matching the vendor/product pair.
func Open(vendorID, productID uint16) (*Device, error) {
	if err := hid.Init(); err != nil {
		return nil, err
	}
	dev, err := hid.OpenFirst(vendorID, productID)
	if err != nil {
		return nil, err
	}
	return &Device{dev: dev}, nil
}

func (d *Device) Read(p []byte) (int, error) {
	return d.dev.Read(p)
}

func (d *Device) Write(p []byte) (int, error) {
	return d.dev.Write(p)
}

func (d *Device) Close() error {
	return d.dev.Close()
}

// Enumerate lists HID devices matching the vendor/product pair.
func Enumerate(vendorID, productID uint16) ([]Info, error) {
	if err := hid.Init(); err != nil {
		return nil, err
	}
	var infos []Info
	err := hid.Enumerate(vendorID, productID, func(info *hid.DeviceInfo) error {
		infos = append(infos, Info{
			Path:      info.Path,
			VendorID:  info.VendorID,
			ProductID: info.ProductID,
			Serial:    info.SerialNbr,
			Product:   info.ProductStr,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}
