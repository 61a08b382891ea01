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
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/oceanlab/go-divelog/pkg/buffer"
	"github.com/oceanlab/go-divelog/pkg/device"
	"github.com/oceanlab/go-divelog/pkg/event"
)

type recordingSink struct {
	progress []event.Progress
	clocks   []event.Clock
	infos    []event.DevInfo
}

func (r *recordingSink) OnProgress(p event.Progress) { r.progress = append(r.progress, p) }
func (r *recordingSink) OnClock(c event.Clock)       { r.clocks = append(r.clocks, c) }
func (r *recordingSink) OnDevInfo(d event.DevInfo)   { r.infos = append(r.infos, d) }

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

// dumpFrames scripts the full exchange for a payload of the given size.
func dumpFrames(t *testing.T, payload []byte) [][]byte {
	t.Helper()
	length := uint32(len(payload))
	frames := [][]byte{
		frame(t, []byte{0x42}),           // model
		frame(t, le32(0x12345678)),       // serial
		frame(t, le32(1234567890)),       // device clock
		frame(t, le32(length)),           // negotiated length
		frame(t, le32(length + 4)),       // fetch answer
	}
	for off := 0; off < len(payload); off += 63 {
		end := off + 63
		if end > len(payload) {
			end = len(payload)
		}
		frames = append(frames, frame(t, payload[off:end]))
	}
	return frames
}

func TestDumpHappyPath(t *testing.T) {
	payload := pattern(70)
	transport := &fakeTransport{frames: dumpFrames(t, payload)}
	d := newDevice(transport)
	if err := d.SetFingerprint([]byte{0x9a, 0x78, 0x56, 0x34}); err != nil {
		t.Fatalf("set fingerprint: %v", err)
	}

	sink := &recordingSink{}
	buf := buffer.New(0)
	before := time.Now().Unix()
	if err := d.Dump(buf, sink); err != nil {
		t.Fatalf("dump: %v", err)
	}

	if !bytes.Equal(buf.Data(), payload) {
		t.Errorf("downloaded blob does not match scripted payload")
	}
	if len(transport.frames) != 0 {
		t.Errorf("%d scripted frames left unread", len(transport.frames))
	}
	if len(transport.writes) != 5 {
		t.Fatalf("got %d writes, want 5", len(transport.writes))
	}

	// The identification commands are single opcodes.
	for i, opcode := range []byte{CmdModel, CmdSerial, CmdDevtime} {
		written := transport.writes[i]
		if written[0] != 1 || written[1] != opcode {
			t.Errorf("write %d: header %x %x, want 01 %x", i, written[0], written[1], opcode)
		}
	}

	// The negotiation commands carry the fingerprint and the fixed trailer.
	wantCommand := []byte{9, CmdDataLength, 0x9a, 0x78, 0x56, 0x34, 0x10, 0x27, 0x00, 0x00}
	if !bytes.Equal(transport.writes[3][:10], wantCommand) {
		t.Errorf("length command %x, want %x", transport.writes[3][:10], wantCommand)
	}
	wantCommand[1] = CmdData
	if !bytes.Equal(transport.writes[4][:10], wantCommand) {
		t.Errorf("data command %x, want %x", transport.writes[4][:10], wantCommand)
	}

	if len(sink.infos) != 1 {
		t.Fatalf("got %d devinfo events, want 1", len(sink.infos))
	}
	info := sink.infos[0]
	if info.Model != 0x42 || info.Serial != 0x12345678 || info.Firmware != 0 {
		t.Errorf("devinfo %+v", info)
	}

	if len(sink.clocks) != 1 {
		t.Fatalf("got %d clock events, want 1", len(sink.clocks))
	}
	clock := sink.clocks[0]
	if clock.DevTime != 1234567890 {
		t.Errorf("devtime %d, want 1234567890", clock.DevTime)
	}
	if clock.SysTime < before || clock.SysTime > time.Now().Unix() {
		t.Errorf("systime %d not captured during the dump", clock.SysTime)
	}

	assertProgressMonotonic(t, sink.progress)
	final := sink.progress[len(sink.progress)-1]
	wantTotal := uint32(13 + 70 + 4)
	if final.Current != wantTotal || final.Maximum != wantTotal {
		t.Errorf("final progress %d/%d, want %d/%d", final.Current, final.Maximum, wantTotal, wantTotal)
	}
}

func TestDumpEmptyLog(t *testing.T) {
	transport := &fakeTransport{frames: [][]byte{
		frame(t, []byte{0x42}),
		frame(t, le32(0x12345678)),
		frame(t, le32(1234567890)),
		frame(t, le32(0)),
	}}
	d := newDevice(transport)

	sink := &recordingSink{}
	buf := buffer.New(16)
	if err := d.Dump(buf, sink); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if buf.Size() != 0 {
		t.Errorf("buffer size %d, want 0", buf.Size())
	}
	if len(transport.writes) != 4 {
		t.Errorf("got %d writes, want 4 (no data fetch for an empty log)", len(transport.writes))
	}
	if len(transport.frames) != 0 {
		t.Errorf("%d scripted frames left unread", len(transport.frames))
	}

	assertProgressMonotonic(t, sink.progress)
	final := sink.progress[len(sink.progress)-1]
	if final.Current != 13 || final.Maximum != 13 {
		t.Errorf("final progress %d/%d, want 13/13", final.Current, final.Maximum)
	}
}

func TestDumpSizeMismatchIsProtocolError(t *testing.T) {
	transport := &fakeTransport{frames: [][]byte{
		frame(t, []byte{0x42}),
		frame(t, le32(0x12345678)),
		frame(t, le32(1234567890)),
		frame(t, le32(70)),
		frame(t, le32(70 + 5)), // disagrees with L+4
	}}
	d := newDevice(transport)

	err := d.Dump(buffer.New(0), &recordingSink{})
	var protocol device.ErrProtocol
	if !errors.As(err, &protocol) {
		t.Fatalf("got %v, want ErrProtocol", err)
	}
	if len(transport.writes) != 5 {
		t.Errorf("got %d writes, want 5 (no payload read after the mismatch)", len(transport.writes))
	}
}

func TestDumpNilBuffer(t *testing.T) {
	transport := &fakeTransport{}
	d := newDevice(transport)

	err := d.Dump(nil, nil)
	var invalid device.ErrInvalidArgument
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want ErrInvalidArgument", err)
	}
	if len(transport.writes) != 0 {
		t.Errorf("nil buffer triggered I/O")
	}
}

func TestDumpTransferFailureAborts(t *testing.T) {
	// Only the model answer is scripted, the serial read runs dry.
	transport := &fakeTransport{frames: [][]byte{frame(t, []byte{0x42})}}
	d := newDevice(transport)

	err := d.Dump(buffer.New(0), &recordingSink{})
	var ioErr device.ErrIO
	if !errors.As(err, &ioErr) {
		t.Fatalf("got %v, want ErrIO", err)
	}
}

func assertProgressMonotonic(t *testing.T, progress []event.Progress) {
	t.Helper()
	if len(progress) == 0 {
		t.Fatalf("no progress events emitted")
	}
	for i := 1; i < len(progress); i++ {
		if progress[i].Current < progress[i-1].Current {
			t.Fatalf("progress went backwards: %d after %d", progress[i].Current, progress[i-1].Current)
		}
	}
}
