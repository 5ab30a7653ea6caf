package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
)

// HTTPTriggerRequest is the JSON payload the Functions host sends for an HTTP trigger
// when request forwarding is disabled.
type HTTPTriggerRequest struct {
	Data struct {
		Req struct {
			URL             string              `json:"Url"`
			Method          string              `json:"Method"`
			Query           map[string]string   `json:"Query"`
			Headers         map[string][]string `json:"Headers"`
			Params          map[string]string   `json:"Params"`
			Body            string              `json:"Body"`
			IsBase64Encoded bool                `json:"isBase64Encoded"`
		} `json:"req"`
	} `json:"Data"`
	Metadata map[string]any `json:"Metadata"`
}

// HTTPTriggerResponse is the JSON the host expects back for an HTTP trigger.
type HTTPTriggerResponse struct {
	Outputs struct {
		Res struct {
			StatusCode int               `json:"statusCode"`
			Headers    map[string]string `json:"headers"`
			Body       string            `json:"body"`
		} `json:"res"`
	} `json:"Outputs"`
	Logs        []string `json:"Logs,omitempty"`
	ReturnValue any      `json:"ReturnValue,omitempty"`
}

// triggerBody returns the request body. Some hosts send base64 without setting
// isBase64Encoded, so a body that decodes cleanly is treated as base64 as well.
func (t *HTTPTriggerRequest) triggerBody() []byte {
	body := t.Data.Req.Body
	if body == "" {
		return nil
	}
	if decoded, err := base64.StdEncoding.DecodeString(body); err == nil {
		return decoded
	} else if t.Data.Req.IsBase64Encoded {
		slog.Warn("body flagged as base64 but failed to decode", "error", err)
	}
	return []byte(body)
}

func (t *HTTPTriggerRequest) toRequest() (*http.Request, error) {
	req := t.Data.Req
	var body io.Reader = http.NoBody
	if b := t.triggerBody(); b != nil {
		body = bytes.NewReader(b)
	}

	out, err := http.NewRequest(req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create internal request: %w", err)
	}
	for k, vals := range req.Headers {
		for _, v := range vals {
			out.Header.Add(k, v)
		}
	}
	return out, nil
}

func toTriggerResponse(rec *httptest.ResponseRecorder) HTTPTriggerResponse {
	result := rec.Result()
	defer result.Body.Close()
	body, _ := io.ReadAll(result.Body)

	headers := make(map[string]string, len(result.Header))
	for k, v := range result.Header {
		headers[k] = strings.Join(v, ", ")
	}

	var resp HTTPTriggerResponse
	resp.Outputs.Res.StatusCode = result.StatusCode
	resp.Outputs.Res.Headers = headers
	resp.Outputs.Res.Body = string(body)
	return resp
}

// HandleHttpTrigger unwraps a host HTTP trigger payload, serves it with next,
// and wraps the recorded response back into the host's format.
func (d *Dependencies) HandleHttpTrigger(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var invokeReq HTTPTriggerRequest
		if err := json.NewDecoder(r.Body).Decode(&invokeReq); err != nil {
			slog.Error("failed to unmarshal HTTP trigger request", "error", err)
			http.Error(w, "Failed to unmarshal request", http.StatusBadRequest)
			return
		}

		inner, err := invokeReq.toRequest()
		if err != nil {
			slog.Error("failed to build wrapped request", "error", err)
			http.Error(w, "Failed to create internal request", http.StatusInternalServerError)
			return
		}
		inner = inner.WithContext(r.Context())
		slog.Info("serving wrapped HTTP request", "method", inner.Method, "path", inner.URL.Path)

		rec := httptest.NewRecorder()
		next.ServeHTTP(rec, inner)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(toTriggerResponse(rec)); err != nil {
			slog.Error("failed to encode HTTP trigger response", "error", err)
		}
	}
}
