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
	"fmt"
)

// ErrFrameSize returned when a transport read does not produce exactly one
// fixed-size frame
type ErrFrameSize struct {
	Size int
}

func (e ErrFrameSize) Error() string {
	return fmt.Sprintf("Wrong frame size: got %d, expected %d", e.Size, FrameSize)
}

// ErrFrameLength returned when the self-describing length byte of a frame
// exceeds the frame capacity
type ErrFrameLength struct {
	Length int
}

func (e ErrFrameLength) Error() string {
	return fmt.Sprintf("Impossible frame payload length: %d", e.Length)
}

// ErrCommandSize returned when a command does not fit into a single frame
// after the length prefix
type ErrCommandSize struct {
	Size int
}

func (e ErrCommandSize) Error() string {
	return fmt.Sprintf("Command too big: %d", e.Size)
}
