package hec

import (
	"encoding/json"
	"fmt"
	"io"
)

// Response is the collector acknowledgement body. A healthy collector
// answers {"code":0,"text":"Success"}.
type Response struct {
	Code int    `json:"code"`
	Text string `json:"text"`
}

// Success reports whether the collector accepted the batch.
func (r Response) Success() bool {
	return r.Code == 0
}

// DecodeResponse parses a collector response body. A body that is not valid
// JSON is an error; some proxies return HTML error pages on auth failures.
func DecodeResponse(r io.Reader) (Response, error) {
	var resp Response
	body, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return resp, fmt.Errorf("read collector response: %w", err)
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return resp, fmt.Errorf("decode collector response: %w", err)
	}
	return resp, nil
}
