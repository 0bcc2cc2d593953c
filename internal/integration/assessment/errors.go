package assessment

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/futig/ai-compass/internal/entity"
	pkghttp "github.com/futig/ai-compass/pkg/http"
	"github.com/tidwall/gjson"
)

// BackendMessage extracts the human readable failure reason from a backend
// error. FastAPI reports it under "detail", either as a string or as a list of
// validation entries.
func BackendMessage(err error) string {
	var httpErr *pkghttp.HTTPError
	if !errors.As(err, &httpErr) {
		return err.Error()
	}

	body := strings.TrimSpace(httpErr.Message)
	if gjson.Valid(body) {
		detail := gjson.Get(body, "detail")
		switch {
		case detail.Type == gjson.String:
			return detail.String()
		case detail.IsArray():
			var msgs []string
			for _, m := range detail.Get("#.msg").Array() {
				msgs = append(msgs, m.String())
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
		if msg := gjson.Get(body, "message"); msg.Type == gjson.String {
			return msg.String()
		}
	}

	if body == "" {
		return http.StatusText(httpErr.StatusCode)
	}
	return body
}

func wrapError(op string, err error) error {
	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w: %w", op, entity.ErrNotFound, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
