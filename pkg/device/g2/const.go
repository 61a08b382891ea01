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

const (
	// Family is the name this driver registers under
	Family = "scubapro_g2"

	// VendorID and ProductID identify the HID transport
	VendorID  = 0x2e6c
	ProductID = 0x3201
)

const (
	CmdModel      = 0x10
	CmdSerial     = 0x14
	CmdDevtime    = 0x1A
	CmdDataLength = 0xC6
	CmdData       = 0xC4
)

// commandSpec gives the request and answer size of each opcode
type commandSpec struct {
	request int
	answer  int
}

var commands = map[byte]commandSpec{
	CmdModel:      {request: 1, answer: 1},
	CmdSerial:     {request: 1, answer: 4},
	CmdDevtime:    {request: 1, answer: 4},
	CmdDataLength: {request: 9, answer: 4},
	CmdData:       {request: 9, answer: 4},
}

// diveMarker starts every dive record header in the downloaded memory,
// followed by a 4-byte little-endian record length and 4 bytes of fingerprint
var diveMarker = [4]byte{0xa5, 0xa5, 0x5a, 0x5a}

const (
	// record layout relative to the marker
	recordLengthOffset      = 4
	recordFingerprintOffset = 8
	recordHeaderSize        = 12

	// fingerprint length accepted by SetFingerprint
	fingerprintSize = 4

	// systimeUncalibrated means no download has captured the clock pair yet
	systimeUncalibrated int64 = -1
)
