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

// Package download orchestrates one end-to-end download: open the device,
// apply the stored fingerprint cutoff, dump the log memory, enumerate the
// dives and persist the new fingerprint for the next run.
package download

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/oceanlab/go-divelog/pkg/buffer"
	"github.com/oceanlab/go-divelog/pkg/device"
	"github.com/oceanlab/go-divelog/pkg/event"
	"github.com/oceanlab/go-divelog/pkg/log"
	"github.com/oceanlab/go-divelog/pkg/state"
)

type Dive struct {
	Size        int    `json:"size"`
	Fingerprint string `json:"fingerprint"`
}

type Result struct {
	Model   uint32 `json:"model"`
	Serial  uint32 `json:"serial"`
	DevTime uint32 `json:"devtime"`
	SysTime int64  `json:"systime"`
	Size    int    `json:"size"`
	File    string `json:"file,omitempty"`
	Dives   []Dive `json:"dives"`
	Data    []byte `json:"-"`
}

type Options struct {
	Family string
	// UseFingerprint applies the fingerprint stored for the last seen
	// device, limiting the download to dives not fetched before.
	UseFingerprint bool
	// OutputDir, when set, receives the raw memory blob as a file.
	OutputDir string
}

// captureSink forwards events to the wrapped sink and records the device
// identity and clock for the result.
type captureSink struct {
	next    event.Sink
	devinfo event.DevInfo
	clock   event.Clock
	seen    bool
}

func (c *captureSink) OnProgress(p event.Progress) {
	c.next.OnProgress(p)
}

func (c *captureSink) OnClock(clk event.Clock) {
	c.clock = clk
	c.next.OnClock(clk)
}

func (c *captureSink) OnDevInfo(d event.DevInfo) {
	c.devinfo = d
	c.seen = true
	c.next.OnDevInfo(d)
}

// Run performs one download. st may be nil to skip fingerprint handling,
// sink may be nil to discard events.
func Run(st *state.State, sink event.Sink, opts Options) (*Result, error) {
	if sink == nil {
		sink = event.Discard{}
	}

	dev, err := device.Open(opts.Family)
	if err != nil {
		return nil, err
	}
	defer dev.Close()

	if opts.UseFingerprint && st != nil {
		if err := applyStoredFingerprint(st, dev); err != nil {
			return nil, err
		}
	}

	capture := &captureSink{next: sink}
	buf := buffer.New(0)
	if err := dev.Dump(buf, capture); err != nil {
		return nil, err
	}

	result := &Result{
		Model:   capture.devinfo.Model,
		Serial:  capture.devinfo.Serial,
		DevTime: capture.clock.DevTime,
		SysTime: capture.clock.SysTime,
		Size:    buf.Size(),
		Data:    buf.Data(),
	}

	if extractor, ok := dev.(device.Extractor); ok {
		err := extractor.ExtractDives(buf.Data(), func(data, fingerprint []byte) bool {
			result.Dives = append(result.Dives, Dive{
				Size:        len(data),
				Fingerprint: hex.EncodeToString(fingerprint),
			})
			return true
		})
		if err != nil {
			return nil, err
		}
	}

	if st != nil && capture.seen {
		if err := st.SetLastSerial(result.Serial); err != nil {
			return nil, err
		}
		// The first reported dive is the most recent one; its fingerprint
		// becomes the cutoff for the next download.
		if len(result.Dives) > 0 {
			fingerprint, err := hex.DecodeString(result.Dives[0].Fingerprint)
			if err == nil {
				if err := st.SetFingerprint(result.Serial, fingerprint); err != nil {
					return nil, err
				}
			}
		}
	}

	if opts.OutputDir != "" && result.Size > 0 {
		file, err := persistBlob(opts.OutputDir, result.Serial, result.Data)
		if err != nil {
			return nil, err
		}
		result.File = file
	}

	return result, nil
}

func applyStoredFingerprint(st *state.State, dev device.Device) error {
	serial, ok, err := st.GetLastSerial()
	if err != nil {
		return err
	}
	if !ok {
		log.Debug("No previous download, fetching the whole log memory")
		return nil
	}
	fingerprint, err := st.GetFingerprint(serial)
	if err != nil {
		return err
	}
	if fingerprint == nil {
		return nil
	}
	log.Info("Using stored fingerprint %x for serial %d", fingerprint, serial)
	return dev.SetFingerprint(fingerprint)
}

func persistBlob(dir string, serial uint32, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("dump_%d_%s.bin", serial, time.Now().Format("20060102T150405"))
	path := filepath.Join(dir, name)
	if err := ioutil.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	log.Info("Saved %d bytes to %s", len(data), path)
	return path, nil
}
