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

package srv

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/oceanlab/go-divelog/pkg/config"
)

func newTestServer(t *testing.T) *ApiServer {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "state.db")
	s, err := NewApiServer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(func() { s.state.Close() })
	s.configureRouter()
	return s
}

func TestFingerprintEndpoints(t *testing.T) {
	s := newTestServer(t)
	if err := s.state.SetFingerprint(777, []byte{0xde, 0xad, 0xbe, 0xef}); err != nil {
		t.Fatal(err)
	}

	recorder := httptest.NewRecorder()
	s.Router.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/fingerprint/777", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", recorder.Code)
	}
	fingerprint := &Fingerprint{}
	if err := json.NewDecoder(recorder.Body).Decode(fingerprint); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fingerprint.Serial != 777 || fingerprint.Fingerprint != "deadbeef" {
		t.Errorf("response %+v", fingerprint)
	}

	recorder = httptest.NewRecorder()
	s.Router.ServeHTTP(recorder, httptest.NewRequest("DELETE", "/api/fingerprint/777", nil))
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("status %d, want 204", recorder.Code)
	}

	recorder = httptest.NewRecorder()
	s.Router.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/fingerprint/777", nil))
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status %d after clear, want 404", recorder.Code)
	}
}

func TestFingerprintRejectsBadSerial(t *testing.T) {
	s := newTestServer(t)

	recorder := httptest.NewRecorder()
	s.Router.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/fingerprint/notanumber", nil))
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404 (route constraint)", recorder.Code)
	}
}
