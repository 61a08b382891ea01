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

// Package srv exposes downloads and fingerprint state over a small HTTP
// API, for integrations that do not shell out to the CLI.
package srv

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"sigs.k8s.io/yaml"

	"github.com/oceanlab/go-divelog/pkg/config"
	"github.com/oceanlab/go-divelog/pkg/device/g2"
	"github.com/oceanlab/go-divelog/pkg/download"
	"github.com/oceanlab/go-divelog/pkg/event"
	"github.com/oceanlab/go-divelog/pkg/log"
	"github.com/oceanlab/go-divelog/pkg/state"
	"github.com/oceanlab/go-divelog/pkg/usbhid"
)

type DumpRequest struct {
	Family      string `json:"family,omitempty"`
	Full        bool   `json:"full,omitempty"`
	PersistBlob bool   `json:"persist_blob,omitempty"`
}

type Fingerprint struct {
	Serial      uint32 `json:"serial"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

type ApiServer struct {
	context.Context
	*config.Config
	*mux.Router
	state *state.State
}

func NewApiServer(ctx context.Context, cfg *config.Config) (*ApiServer, error) {
	log.Info("Initializing API server with address: %s port: %d", cfg.Address, cfg.Port)
	st, err := state.NewState(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := &ApiServer{
		Context: ctx,
		Config:  cfg,
		state:   st,
	}
	return s, nil
}

// Run starts the API server and blocks.
func (s *ApiServer) Run() error {
	defer s.state.Close()
	s.configureRouter()
	log.Debug("Starting API server: address: %s port: %d", s.Config.Address, s.Config.Port)
	httpServer := &http.Server{
		Handler: handlers.LoggingHandler(os.Stderr, s.Router),
		Addr:    fmt.Sprintf("%s:%d", s.Config.Address, s.Config.Port),
	}
	return httpServer.ListenAndServe()
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	subRouter.HandleFunc("/devices", s.handleDevices()).Methods("GET")
	subRouter.HandleFunc("/dump", s.handleDump()).Methods("POST")
	subRouter.HandleFunc("/fingerprint/{serial:[0-9]+}", s.handleFingerprintGet()).Methods("GET")
	subRouter.HandleFunc("/fingerprint/{serial:[0-9]+}", s.handleFingerprintClear()).Methods("DELETE")
}

func (s *ApiServer) handleDevices() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		infos, err := usbhid.Enumerate(g2.VendorID, g2.ProductID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		data, err := yaml.Marshal(infos)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(data)
	}
}

func (s *ApiServer) handleDump() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dumpReq := &DumpRequest{}
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(dumpReq); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		family := dumpReq.Family
		if family == "" {
			family = g2.Family
		}
		opts := download.Options{
			Family:         family,
			UseFingerprint: !dumpReq.Full,
		}
		if dumpReq.PersistBlob {
			opts.OutputDir = s.Config.OutputDir
		}
		result, err := download.Run(s.state, event.LogSink{}, opts)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

func (s *ApiServer) handleFingerprintGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serial, err := parseSerial(mux.Vars(r)["serial"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fingerprint, err := s.state.GetFingerprint(serial)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if fingerprint == nil {
			http.Error(w, fmt.Sprintf("No fingerprint stored for serial %d", serial), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(&Fingerprint{
			Serial:      serial,
			Fingerprint: fmt.Sprintf("%x", fingerprint),
		})
	}
}

func (s *ApiServer) handleFingerprintClear() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serial, err := parseSerial(mux.Vars(r)["serial"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.state.ClearFingerprint(serial); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func parseSerial(raw string) (uint32, error) {
	serial, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(serial), nil
}
