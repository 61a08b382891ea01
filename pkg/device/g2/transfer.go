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
	"fmt"

	"github.com/google/gopacket"

	"github.com/oceanlab/go-divelog/pkg/device"
	"github.com/oceanlab/go-divelog/pkg/layers"
	"github.com/oceanlab/go-divelog/pkg/log"
)

// send writes one frame carrying the command. The command must fit into a
// single frame after the length prefix.
func (d *Device) send(command []byte) error {
	if len(command) >= layers.FrameSize {
		return device.ErrInvalidArgument{What: fmt.Sprintf("command too big (%d)", len(command))}
	}

	frame := &layers.FrameLayer{Command: command}
	buf := gopacket.NewSerializeBuffer()
	if err := frame.SerializeTo(buf, gopacket.SerializeOptions{}); err != nil {
		return device.ErrInvalidArgument{What: err.Error()}
	}

	n, err := d.transport.Write(buf.Bytes())
	if err != nil {
		log.Error("Failed to send the command: %v", err)
		return device.ErrIO{Op: "write", Err: err}
	}
	if n != layers.FrameSize {
		log.Error("Incomplete write transfer (sent %d, expected %d)", n, layers.FrameSize)
		return device.ErrIO{Op: "write", Err: fmt.Errorf("short write: %d of %d", n, layers.FrameSize)}
	}
	return nil
}

// receive reads fixed-size frames until out is full. A frame whose payload
// exceeds what is still wanted is truncated, the device is allowed to round
// its final chunk up to a full frame.
func (d *Device) receive(out []byte) error {
	want := len(out)
	raw := make([]byte, layers.FrameSize)
	for want > 0 {
		n, err := d.transport.Read(raw)
		if err != nil {
			log.Error("Read transfer failed: %v", err)
			return device.ErrIO{Op: "read", Err: err}
		}
		if n != layers.FrameSize {
			log.Error("Incomplete read transfer (got %d, expected %d)", n, layers.FrameSize)
			return device.ErrIO{Op: "read", Err: fmt.Errorf("short read: %d of %d", n, layers.FrameSize)}
		}

		frame := &layers.FrameLayer{}
		if err := frame.DecodeFromBytes(raw, gopacket.NilDecodeFeedback); err != nil {
			log.Error("Frame decode failed: %v", err)
			return device.ErrProtocol{What: err.Error()}
		}

		payload := frame.Payload
		if len(payload) > want {
			log.Warning("Frame carries %d bytes, only %d wanted - truncating", len(payload), want)
			payload = payload[:want]
		}
		copy(out[len(out)-want:], payload)
		want -= len(payload)
	}
	return nil
}

// transfer is one half-duplex request/response exchange.
func (d *Device) transfer(command []byte, answer []byte) error {
	if err := d.send(command); err != nil {
		return err
	}
	if err := d.receive(answer); err != nil {
		log.Error("Failed to receive the answer.")
		return err
	}
	return nil
}
