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

package device

import (
	"fmt"
)

// ErrInvalidArgument returned for malformed caller input: an oversized
// command, a fingerprint of the wrong length, a nil output buffer
type ErrInvalidArgument struct {
	What string
}

func (e ErrInvalidArgument) Error() string {
	return fmt.Sprintf("Invalid argument: %s", e.What)
}

// ErrNoMemory returned when the result buffer cannot be sized to the
// negotiated length
type ErrNoMemory struct {
	What string
}

func (e ErrNoMemory) Error() string {
	return fmt.Sprintf("Insufficient buffer space available: %s", e.What)
}

// ErrIO returned when a transport read or write fails or stays incomplete
type ErrIO struct {
	Op  string
	Err error
}

func (e ErrIO) Error() string {
	return fmt.Sprintf("Transport %s failed: %v", e.Op, e.Err)
}

func (e ErrIO) Unwrap() error {
	return e.Err
}

// ErrProtocol returned when a device answer is internally inconsistent
type ErrProtocol struct {
	What string
}

func (e ErrProtocol) Error() string {
	return fmt.Sprintf("Protocol error: %s", e.What)
}

// ErrDataFormat returned when a parsed dive record would overlap or exceed
// its bounding region
type ErrDataFormat struct {
	What string
}

func (e ErrDataFormat) Error() string {
	return fmt.Sprintf("Data format error: %s", e.What)
}

// ErrUnsupportedFamily returned when no driver is registered under the
// requested family name
type ErrUnsupportedFamily struct {
	Family string
}

func (e ErrUnsupportedFamily) Error() string {
	return fmt.Sprintf("Unsupported device family: %s", e.Family)
}
