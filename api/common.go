package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// defaultHTTPClient backs clients constructed without an explicit HTTP
// client. Timeouts are deliberately generous: map servers routinely take
// seconds to render a large GetMap.
var defaultHTTPClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		ExpectContinueTimeout: 2 * time.Second,
	},
}

// logf writes one timestamped line to the API log. A nil sink is fine; the
// clients stay usable in tests without any log plumbing.
func logf(w io.Writer, format string, args ...interface{}) {
	if w == nil {
		return
	}
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(w, "[%s] %s\n", timestamp, fmt.Sprintf(format, args...))
}

// readBody drains a response body with a sanity cap so a misbehaving
// service cannot balloon memory.
func readBody(r io.Reader) ([]byte, error) {
	const maxBody = 32 << 20
	return io.ReadAll(io.LimitReader(r, maxBody))
}

// FlexFloat decodes JSON numbers that some print services quote as strings
// ("25000.0" and 25000.0 both appear in the wild).
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if strings.HasPrefix(s, `"`) {
		var quoted string
		if err := json.Unmarshal(data, &quoted); err != nil {
			return err
		}
		s = strings.TrimSpace(quoted)
		if s == "" {
			*f = 0
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("api: parse number %q: %w", s, err)
	}
	*f = FlexFloat(v)
	return nil
}
