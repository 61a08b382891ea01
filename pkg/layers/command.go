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
	"encoding/binary"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// CommandLayerNum identifies the layer
	CommandLayerNum = 2102
	// CommandFrameSize is the size of the fingerprint command frame
	CommandFrameSize = 9
)

// commandTrailer is a fixed reserved field closing every command frame
var commandTrailer = [4]byte{0x10, 0x27, 0x00, 0x00}

// CommandLayer is the 9-byte command frame used for length negotiation and
// data fetch: opcode, little-endian fingerprint, fixed trailer.
type CommandLayer struct {
	layers.BaseLayer
	Opcode      uint8
	Fingerprint uint32
}

var CommandLayerType = gopacket.RegisterLayerType(CommandLayerNum,
	gopacket.LayerTypeMetadata{Name: "CommandLayerType", Decoder: gopacket.DecodeFunc(DecodeCommandLayer)})

func (c *CommandLayer) LayerType() gopacket.LayerType {
	return CommandLayerType
}

func (c *CommandLayer) Serialize(buf []byte) {
	buf[0] = c.Opcode
	binary.LittleEndian.PutUint32(buf[1:5], c.Fingerprint)
	copy(buf[5:9], commandTrailer[:])
}

// SerializeTo serializes the command frame into bytes and writes the bytes to the SerializeBuffer
func (c *CommandLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	bytes, err := b.AppendBytes(CommandFrameSize)
	if err != nil {
		return err
	}
	c.Serialize(bytes)
	return nil
}

// Bytes returns the serialized command frame.
func (c *CommandLayer) Bytes() []byte {
	buf := make([]byte, CommandFrameSize)
	c.Serialize(buf)
	return buf
}

func (c *CommandLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) != CommandFrameSize {
		return ErrCommandSize{Size: len(data)}
	}
	c.Opcode = data[0]
	c.Fingerprint = binary.LittleEndian.Uint32(data[1:5])
	c.BaseLayer = layers.BaseLayer{
		Contents: data[:],
		Payload:  []byte{},
	}
	return nil
}

func DecodeCommandLayer(data []byte, p gopacket.PacketBuilder) error {
	cmd := &CommandLayer{}
	err := cmd.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(cmd)
	return nil
}
