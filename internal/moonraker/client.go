package moonraker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pd "printer_dashboard"
)

// maxBodyBytes caps response reads; Moonraker replies are small.
const maxBodyBytes = 1 << 20

// Objects requested on every status poll, alongside the channel's tool.
var queryObjects = []string{"print_stats", "display_status", "fan", "motion_report"}

// Client polls a Moonraker instance over HTTP. Each request carries the
// configured timeout through the underlying http.Client, so a wedged
// network call cannot stall the caller past the timeout bound.
type Client struct {
	base string
	hc   *http.Client
}

// NewClient returns a client for the given base URL (e.g.
// "http://127.0.0.1:7125").
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{Timeout: timeout},
	}
}

type queryResponse struct {
	Result struct {
		Status map[string]json.RawMessage `json:"status"`
	} `json:"result"`
}

type heaterStatus struct {
	Temperature float64 `json:"temperature"`
	Target      float64 `json:"target"`
}

type fanStatus struct {
	Speed float64 `json:"speed"`
}

type printStats struct {
	State    string   `json:"state"`
	Progress *float64 `json:"progress"`
}

type displayStatus struct {
	Progress float64 `json:"progress"`
}

type motionReport struct {
	LivePosition []float64 `json:"live_position"`
	LiveVelocity float64   `json:"live_velocity"`
}

// Query fetches one channel's fresh status from /printer/objects/query.
func (c *Client) Query(ctx context.Context, tool string) (pd.ChannelStatus, error) {
	names := append(append([]string{}, queryObjects...), tool)
	path := "/printer/objects/query?" + strings.Join(names, "&")

	body, err := c.get(ctx, path)
	if err != nil {
		return pd.ChannelStatus{}, err
	}

	var resp queryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return pd.ChannelStatus{}, &pd.PayloadError{Field: "body", Reason: err.Error()}
	}
	status := resp.Result.Status
	if status == nil {
		return pd.ChannelStatus{}, &pd.PayloadError{Field: "result.status", Reason: "missing"}
	}

	raw, ok := status[tool]
	if !ok {
		return pd.ChannelStatus{}, &pd.PayloadError{Field: tool, Reason: "missing"}
	}
	var heater heaterStatus
	if err := json.Unmarshal(raw, &heater); err != nil {
		return pd.ChannelStatus{}, &pd.PayloadError{Field: tool, Reason: err.Error()}
	}

	out := pd.ChannelStatus{
		Tool:    strings.ToUpper(tool),
		TempC:   heater.Temperature,
		TargetC: heater.Target,
		State:   pd.StateUnknown,
	}

	if raw, ok := status["fan"]; ok {
		var fan fanStatus
		if err := json.Unmarshal(raw, &fan); err == nil {
			out.FanDuty = fan.Speed
		}
	}

	var ps printStats
	if raw, ok := status["print_stats"]; ok {
		if err := json.Unmarshal(raw, &ps); err == nil {
			out.State = pd.ParsePrinterState(ps.State)
		}
	}

	// Prefer print_stats progress, fall back to display_status.
	switch {
	case ps.Progress != nil:
		out.ProgressPct = *ps.Progress * 100
	default:
		if raw, ok := status["display_status"]; ok {
			var ds displayStatus
			if err := json.Unmarshal(raw, &ds); err == nil {
				out.ProgressPct = ds.Progress * 100
			}
		}
	}

	if raw, ok := status["motion_report"]; ok {
		var mr motionReport
		if err := json.Unmarshal(raw, &mr); err == nil {
			if len(mr.LivePosition) >= 2 {
				out.PosX, out.PosY = mr.LivePosition[0], mr.LivePosition[1]
			}
			out.VelocityMMs = mr.LiveVelocity
		}
	}

	return out, nil
}

type infoResponse struct {
	Result struct {
		State        string `json:"state"`
		StateMessage string `json:"state_message"`
	} `json:"result"`
}

// FaultState reports whether the firmware is in an error/shutdown state,
// with the firmware's own explanation when it gives one.
func (c *Client) FaultState(ctx context.Context) (bool, string, error) {
	body, err := c.get(ctx, "/printer/info")
	if err != nil {
		return false, "", err
	}
	var resp infoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, "", &pd.PayloadError{Field: "body", Reason: err.Error()}
	}
	switch resp.Result.State {
	case "error", "shutdown":
		return true, strings.TrimSpace(resp.Result.StateMessage), nil
	default:
		return false, "", nil
	}
}

type gcodeStoreResponse struct {
	Result struct {
		Store []struct {
			Message string  `json:"message"`
			Time    float64 `json:"time"`
			Type    string  `json:"type"`
		} `json:"gcode_store"`
	} `json:"result"`
}

// RecentEvents returns recent M117 console commands as (sequence, text)
// pairs, oldest first. The sequence is derived from the entry timestamp in
// microseconds, which Moonraker guarantees to be non-decreasing.
func (c *Client) RecentEvents(ctx context.Context, count int) ([]pd.GCodeEvent, error) {
	path := fmt.Sprintf("/server/gcode_store?count=%d", count)
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	var resp gcodeStoreResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &pd.PayloadError{Field: "body", Reason: err.Error()}
	}

	var out []pd.GCodeEvent
	for _, entry := range resp.Result.Store {
		if entry.Type != "command" {
			continue
		}
		text, ok := parseM117(entry.Message)
		if !ok {
			continue
		}
		out = append(out, pd.GCodeEvent{
			Sequence: int64(entry.Time * 1e6),
			Text:     text,
		})
	}
	return out, nil
}

// parseM117 extracts the display-message payload from an M117 command.
// A bare "M117" clears the message, so an empty payload is still an event.
func parseM117(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	upper := strings.ToUpper(trimmed)
	if upper != "M117" && !strings.HasPrefix(upper, "M117 ") {
		return "", false
	}
	return strings.TrimSpace(trimmed[4:]), true
}

// get performs one GET and returns the body, classifying failures into the
// dashboard's transport/payload taxonomy.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, &pd.TransportError{Op: "build request", Err: err}
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &pd.TransportError{Op: "GET " + shortPath(path), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &pd.TransportError{
			Op:  "GET " + shortPath(path),
			Err: fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &pd.TransportError{Op: "read body", Err: err}
	}
	return body, nil
}

// shortPath strips the query string for log/error text.
func shortPath(path string) string {
	if u, err := url.Parse(path); err == nil {
		return u.Path
	}
	return path
}
