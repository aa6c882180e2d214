package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// StdioProxy bridges a stdio MCP client to a running moneta-server: it
// forwards newline-delimited JSON-RPC messages from stdin to the server's
// /mcp endpoint and writes responses to stdout. MONETA_USER_ID and
// MONETA_DISPLAY_CURRENCY are passed through as X-Moneta-* headers so a
// shared server can scope and format per client.
type StdioProxy struct {
	serverURL       string
	userID          string
	displayCurrency string
	httpClient      *http.Client
}

func main() {
	serverURL := os.Getenv("MONETA_SERVER_URL")
	if serverURL == "" {
		serverURL = "http://localhost:4600"
	}

	proxy := newStdioProxy(serverURL)

	if err := proxy.RunWithIO(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "proxy error: %v\n", err)
		os.Exit(1)
	}
}

func newStdioProxy(serverURL string) *StdioProxy {
	return &StdioProxy{
		serverURL:       serverURL + "/mcp",
		userID:          os.Getenv("MONETA_USER_ID"),
		displayCurrency: os.Getenv("MONETA_DISPLAY_CURRENCY"),
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// RunWithIO reads newline-delimited JSON-RPC from r, forwards each message
// to the HTTP server, and writes the response to w. Notifications produce
// no output line.
func (p *StdioProxy) RunWithIO(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Allow large messages (up to 10MB)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		resp, err := p.forward(line)
		if err != nil {
			// A notification has no id and must never be answered; an
			// unparseable line still gets a null-id parse-style error.
			if isNotification(line) {
				fmt.Fprintf(os.Stderr, "notification forward failed: %v\n", err)
				continue
			}
			errResp := jsonRPCError(extractID(line), -32000, err.Error())
			w.Write(errResp)
			w.Write([]byte("\n"))
			continue
		}

		// Notifications are acknowledged with an empty body; there is
		// nothing to write back to the client.
		if len(resp) == 0 {
			continue
		}

		w.Write(resp)
		w.Write([]byte("\n"))
	}

	return scanner.Err()
}

// forward sends a JSON-RPC message to the HTTP server and returns the
// response body. A 202 Accepted means the message was a notification.
func (p *StdioProxy) forward(body []byte) ([]byte, error) {
	req, err := http.NewRequest(http.MethodPost, p.serverURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.userID != "" {
		req.Header.Set("X-Moneta-User-ID", p.userID)
	}
	if p.displayCurrency != "" {
		req.Header.Set("X-Moneta-Display-Currency", p.displayCurrency)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("server request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusAccepted {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(respBody))
	}

	return bytes.TrimSpace(respBody), nil
}

// extractID pulls the "id" field from a JSON-RPC request for error responses.
func extractID(msg []byte) json.RawMessage {
	var req struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(msg, &req); err != nil || req.ID == nil {
		return json.RawMessage("null")
	}
	return req.ID
}

// isNotification reports whether msg is well-formed JSON-RPC with no id.
func isNotification(msg []byte) bool {
	var req struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(msg, &req); err != nil {
		return false
	}
	return req.ID == nil
}

// jsonRPCError creates a JSON-RPC error response.
func jsonRPCError(id json.RawMessage, code int, message string) []byte {
	resp := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	}
	data, _ := json.Marshal(resp)
	return data
}
