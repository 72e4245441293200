// Package models defines the JSON documents exchanged with detmath: HTTP
// request and response bodies, batch files and batch results.
package models

// CallRequest is the body of POST /call. Either Calldata or Op with Args is
// set.
type CallRequest struct {
	Calldata string   `json:"calldata,omitempty"` // 0x-prefixed hex
	Op       string   `json:"op,omitempty"`
	Args     []string `json:"args,omitempty"`
}

// CallResponse describes one completed or failed invocation.
type CallResponse struct {
	Op       string   `json:"op"`
	Selector string   `json:"selector"`
	Calldata string   `json:"calldata"`
	Output   string   `json:"output,omitempty"` // raw result bytes in hex
	Words    []string `json:"words,omitempty"`  // Output split into 32-byte words
	Value    string   `json:"value,omitempty"`  // human-readable decoding
	Duration string   `json:"duration"`
	Error    string   `json:"error,omitempty"`
}

// OperationInfo is one row of GET /operations.
type OperationInfo struct {
	Name     string      `json:"name"`
	Selector string      `json:"selector"`
	Summary  string      `json:"summary"`
	Params   []ParamInfo `json:"params"`
	Result   string      `json:"result"`
}

// ParamInfo describes one argument word.
type ParamInfo struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Fixed bool   `json:"fixed,omitempty"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version,omitempty"`
	Calls     uint64 `json:"calls"`
	CacheHits uint64 `json:"cache_hits"`
	Faults    uint64 `json:"faults"`
}

// BatchCall is one entry of a batch file. Expect, when set, is the hex
// output the call must produce.
type BatchCall struct {
	Op       string   `json:"op,omitempty"`
	Args     []string `json:"args,omitempty"`
	Calldata string   `json:"calldata,omitempty"`
	Expect   string   `json:"expect,omitempty"`
}
