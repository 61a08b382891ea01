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

package layers

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// FrameLayerNum identifies the layer
	FrameLayerNum = 2101
	// FrameSize is the fixed size of one HID report carrying protocol data
	FrameSize = 64
	// MaxPayloadSize is the payload capacity of one frame after the length prefix
	MaxPayloadSize = FrameSize - 1
)

// FrameLayer is one fixed-size transport frame: a single length byte
// (0..FrameSize-1) followed by that many payload bytes, the rest of the
// frame is padding.
type FrameLayer struct {
	layers.BaseLayer
	Length  uint8
	Command []byte
}

var FrameLayerType = gopacket.RegisterLayerType(FrameLayerNum,
	gopacket.LayerTypeMetadata{Name: "FrameLayerType", Decoder: gopacket.DecodeFunc(DecodeFrameLayer)})

func (f *FrameLayer) LayerType() gopacket.LayerType {
	return FrameLayerType
}

// Serialize writes the frame into buf which must be exactly FrameSize bytes.
// Unused trailing bytes are zeroed.
func (f *FrameLayer) Serialize(buf []byte) error {
	if len(buf) != FrameSize {
		return ErrFrameSize{Size: len(buf)}
	}
	if len(f.Command) > MaxPayloadSize {
		return ErrCommandSize{Size: len(f.Command)}
	}
	buf[0] = byte(len(f.Command))
	copy(buf[1:], f.Command)
	for i := 1 + len(f.Command); i < FrameSize; i++ {
		buf[i] = 0
	}
	return nil
}

// SerializeTo serializes the frame into bytes and writes the bytes to the SerializeBuffer
func (f *FrameLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	bytes, err := b.AppendBytes(FrameSize)
	if err != nil {
		return err
	}
	return f.Serialize(bytes)
}

func (f *FrameLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) != FrameSize {
		return ErrFrameSize{Size: len(data)}
	}
	length := data[0]
	if int(length) >= FrameSize {
		return ErrFrameLength{Length: int(length)}
	}
	f.Length = length
	f.Command = data[1 : 1+int(length)]
	f.BaseLayer = layers.BaseLayer{
		Contents: data[:],
		Payload:  f.Command,
	}
	return nil
}

func DecodeFrameLayer(data []byte, p gopacket.PacketBuilder) error {
	frame := &FrameLayer{}
	err := frame.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(frame)
	return nil
}
