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
	"encoding/binary"
	"fmt"
	"time"

	"github.com/oceanlab/go-divelog/pkg/buffer"
	"github.com/oceanlab/go-divelog/pkg/device"
	"github.com/oceanlab/go-divelog/pkg/event"
	"github.com/oceanlab/go-divelog/pkg/layers"
	"github.com/oceanlab/go-divelog/pkg/log"
)

// Dump runs the download sequence: identify the device, calibrate the
// clock, negotiate the size of the log memory and fetch it into buf.
// Every step is fail-fast; on error the buffer contents are invalid.
func (d *Device) Dump(buf *buffer.Buffer, sink event.Sink) error {
	if buf == nil {
		return device.ErrInvalidArgument{What: "no output buffer"}
	}
	if sink == nil {
		sink = event.Discard{}
	}

	buf.Clear()

	progress := event.Progress{Current: 0, Maximum: event.ProgressMaximumUnknown}
	sink.OnProgress(progress)

	// Read the model number.
	model := make([]byte, commands[CmdModel].answer)
	if err := d.transfer([]byte{CmdModel}, model); err != nil {
		return err
	}

	// Read the serial number.
	serial := make([]byte, commands[CmdSerial].answer)
	if err := d.transfer([]byte{CmdSerial}, serial); err != nil {
		return err
	}

	// Read the device clock.
	devtime := make([]byte, commands[CmdDevtime].answer)
	if err := d.transfer([]byte{CmdDevtime}, devtime); err != nil {
		return err
	}

	// Store the clock calibration values.
	d.systime = time.Now().Unix()
	d.devtime = binary.LittleEndian.Uint32(devtime)

	progress.Current += 9
	sink.OnProgress(progress)

	sink.OnClock(event.Clock{
		DevTime: d.devtime,
		SysTime: d.systime,
	})
	sink.OnDevInfo(event.DevInfo{
		Model:    uint32(model[0]),
		Firmware: 0,
		Serial:   binary.LittleEndian.Uint32(serial),
	})

	// Negotiate the size of the available log memory. The command frame
	// carries the stored fingerprint cutoff.
	command := &layers.CommandLayer{Opcode: CmdDataLength, Fingerprint: d.timestamp}
	answer := make([]byte, commands[CmdDataLength].answer)
	if err := d.transfer(command.Bytes(), answer); err != nil {
		return err
	}
	length := binary.LittleEndian.Uint32(answer)

	progress.Maximum = 4 + 9
	if length > 0 {
		progress.Maximum += length + 4
	}
	progress.Current += 4
	sink.OnProgress(progress)

	// Nothing new since the fingerprint cutoff.
	if length == 0 {
		return nil
	}

	if err := buf.Resize(int(length)); err != nil {
		log.Error("Insufficient buffer space available.")
		return device.ErrNoMemory{What: err.Error()}
	}

	// Request the data. The answer repeats the length plus the size of the
	// answer itself.
	command.Opcode = CmdData
	if err := d.transfer(command.Bytes(), answer); err != nil {
		return err
	}
	total := binary.LittleEndian.Uint32(answer)

	progress.Current += 4
	sink.OnProgress(progress)

	if total != length+4 {
		log.Error("Received an unexpected size (%d, expected %d).", total, length+4)
		return device.ErrProtocol{What: fmt.Sprintf("data size %d does not match negotiated length %d+4", total, length)}
	}

	if err := d.receive(buf.Data()); err != nil {
		return err
	}

	progress.Current += length
	sink.OnProgress(progress)

	return nil
}
