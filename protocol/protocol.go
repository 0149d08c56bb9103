// Package protocol is the JSON wire format between the rollcall CLI and the
// rollcalld daemon. Each request and response is one JSON document.
package protocol

import (
	"encoding/json"
	"io"

	"github.com/abihf/rollcall/ledger"
)

type Action string

const (
	ActionMark  Action = "MARK"
	ActionList  Action = "LIST"
	ActionReset Action = "RESET"
)

type Req struct {
	Action Action            `json:"action"`
	Params map[string]string `json:"params,omitempty"`
}

type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusError   Status = "ERROR"
)

type Notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type Res struct {
	Status  Status          `json:"status"`
	Error   string          `json:"error,omitempty"`
	Notices []Notice        `json:"notices,omitempty"`
	Name    string          `json:"name,omitempty"`
	Records []ledger.Record `json:"records,omitempty"`
}

// Reader decodes the documents arriving on one connection.
type Reader struct {
	dec *json.Decoder
}

func NewReader(r io.Reader) *Reader {
	return &Reader{dec: json.NewDecoder(r)}
}

func (r *Reader) Req() (*Req, error) {
	var req Req
	err := r.dec.Decode(&req)
	return &req, err
}

func (r *Reader) Res() (*Res, error) {
	var res Res
	err := r.dec.Decode(&res)
	return &res, err
}

func WriteReq(w io.Writer, action Action, client string) error {
	req := Req{
		Action: action,
		Params: map[string]string{
			"client": client,
		},
	}
	return json.NewEncoder(w).Encode(&req)
}

func WriteRes(w io.Writer, res *Res) error {
	if res.Status == "" {
		res.Status = StatusSuccess
	}
	return json.NewEncoder(w).Encode(res)
}
