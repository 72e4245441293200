package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/agbru/detmath/internal/abi"
	"github.com/agbru/detmath/internal/cli"
	"github.com/agbru/detmath/internal/dispatch"
	apperrors "github.com/agbru/detmath/internal/errors"
	"github.com/agbru/detmath/internal/logging"
	"github.com/agbru/detmath/internal/service"
	"github.com/agbru/detmath/pkg/models"
)

type statsReporter interface {
	Stats() service.Stats
}

// handleCall runs one invocation.
//
// The body is a models.CallRequest holding either raw calldata or an
// operation name with textual arguments. Failures map to 400 for malformed
// input, 500 for engine faults and 504 when the request deadline expires.
func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.CallRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeErrorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}

	calldata, err := requestCalldata(req)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	out, err := s.service.Execute(ctx, calldata)
	duration := time.Since(start)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("call failed", err,
				logging.Selector(abi.Calldata(calldata).Selector()),
				logging.String("client", s.rateLimiter.ClientIP(r)))
		}
		resp := cli.NewResult(calldata, nil, duration).Response()
		resp.Error = err.Error()
		s.writeJSON(w, status, resp)
		return
	}

	s.writeJSON(w, http.StatusOK, cli.NewResult(calldata, out, duration).Response())
}

// requestCalldata resolves a request into call data.
func requestCalldata(req models.CallRequest) ([]byte, error) {
	switch {
	case req.Calldata != "" && req.Op != "":
		return nil, errors.New("set either calldata or op, not both")
	case req.Calldata != "":
		cd, err := abi.DecodeHex(req.Calldata)
		if err != nil {
			return nil, fmt.Errorf("invalid calldata: %w", err)
		}
		return cd, nil
	case req.Op != "":
		cd, err := dispatch.EncodeCall(req.Op, req.Args)
		if err != nil {
			return nil, err
		}
		return cd, nil
	default:
		return nil, errors.New("missing calldata or op")
	}
}

func statusForError(err error) int {
	var ve apperrors.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case apperrors.IsFault(err):
		return http.StatusInternalServerError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// handleOperations lists the selector table.
func (s *Server) handleOperations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	ops := dispatch.Operations()
	infos := make([]models.OperationInfo, 0, len(ops))
	for _, op := range ops {
		info := models.OperationInfo{
			Name:     op.Name,
			Selector: fmt.Sprintf("0x%02x", uint32(op.Selector)),
			Summary:  op.Summary,
			Params:   make([]models.ParamInfo, 0, len(op.Params)),
			Result:   op.Result.Shape.String(),
		}
		for _, p := range op.Params {
			info.Params = append(info.Params, models.ParamInfo{Name: p.Name, Kind: p.Kind.String(), Fixed: p.Fixed})
		}
		infos = append(infos, info)
	}
	s.writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	resp := models.HealthResponse{Status: "healthy", Version: s.version}
	if sr, ok := s.service.(statsReporter); ok {
		st := sr.Stats()
		resp.Calls, resp.CacheHits, resp.Faults = st.Calls, st.CacheHits, st.Faults
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", err)
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}
