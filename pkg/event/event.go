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

// Package event defines the notifications a device emits while downloading
// its log memory. The sink is passed explicitly into the download call so
// that observers are decoupled from session state.
package event

import (
	"github.com/oceanlab/go-divelog/pkg/log"
)

// ProgressMaximumUnknown is the progress maximum before the device has
// answered the length negotiation.
const ProgressMaximumUnknown = 0xFFFFFFFF

// Progress reports download progress in protocol units (answer bytes).
// Current never decreases within one download.
type Progress struct {
	Current uint32
	Maximum uint32
}

// Clock pairs the device clock with the host wall clock captured at the
// same instant, for later drift correction of dive timestamps.
type Clock struct {
	DevTime uint32
	SysTime int64
}

// DevInfo carries the device identity read during a download. Firmware is
// always zero, the protocol has no firmware query.
type DevInfo struct {
	Model    uint32
	Firmware uint32
	Serial   uint32
}

type Sink interface {
	OnProgress(p Progress)
	OnClock(c Clock)
	OnDevInfo(d DevInfo)
}

// Discard ignores all events.
type Discard struct{}

func (Discard) OnProgress(Progress) {}
func (Discard) OnClock(Clock)       {}
func (Discard) OnDevInfo(DevInfo)   {}

// LogSink writes events to the package logger. Progress goes to the debug
// level, identity and clock to info.
type LogSink struct{}

func (LogSink) OnProgress(p Progress) {
	log.Debug("progress: %d/%d", p.Current, p.Maximum)
}

func (LogSink) OnClock(c Clock) {
	log.Info("device clock: devtime=%d systime=%d", c.DevTime, c.SysTime)
}

func (LogSink) OnDevInfo(d DevInfo) {
	log.Info("device: model=%d serial=%d firmware=%d", d.Model, d.Serial, d.Firmware)
}
