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

package command

import (
	"errors"
	"fmt"

	"github.com/imroc/req"

	"github.com/oceanlab/go-divelog/pkg/command/ifc"
	"github.com/oceanlab/go-divelog/pkg/config"
	"github.com/oceanlab/go-divelog/pkg/download"
	"github.com/oceanlab/go-divelog/pkg/srv"
)

type ApiClient struct {
	*config.Config
	ApiPrefix string
}

var _ ifc.ApiClient = &ApiClient{}

func NewApiClient(cfg *config.Config) ifc.ApiClient {
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: fmt.Sprintf("http://%s:%d/api", cfg.Address, cfg.Port),
	}
}

// Devices asks the server to enumerate attached dive computers
func (c *ApiClient) Devices() (string, error) {
	r, err := req.Get(fmt.Sprintf("%s/devices", c.ApiPrefix))
	if err != nil {
		return "", err
	}
	if r.Response().StatusCode != 200 {
		return "", errors.New(r.Response().Status)
	}
	return r.ToString()
}

// Dump asks the server to run a download
func (c *ApiClient) Dump(full, persistBlob bool) (*download.Result, error) {
	body := &srv.DumpRequest{
		Full:        full,
		PersistBlob: persistBlob,
	}
	r, err := req.Post(fmt.Sprintf("%s/dump", c.ApiPrefix), req.BodyJSON(body))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	result := &download.Result{}
	if err = r.ToJSON(result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetFingerprint fetches the stored fingerprint for a device serial
func (c *ApiClient) GetFingerprint(serial string) (string, error) {
	r, err := req.Get(fmt.Sprintf("%s/fingerprint/%s", c.ApiPrefix, serial))
	if err != nil {
		return "", err
	}
	if r.Response().StatusCode != 200 {
		return "", errors.New(r.Response().Status)
	}
	fingerprint := &srv.Fingerprint{}
	if err = r.ToJSON(fingerprint); err != nil {
		return "", err
	}
	return fingerprint.Fingerprint, nil
}

// ClearFingerprint removes the stored fingerprint for a device serial
func (c *ApiClient) ClearFingerprint(serial string) error {
	r, err := req.Delete(fmt.Sprintf("%s/fingerprint/%s", c.ApiPrefix, serial))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 204 {
		return errors.New(r.Response().Status)
	}
	return nil
}
