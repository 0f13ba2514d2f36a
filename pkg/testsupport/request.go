package testsupport

import (
	"net/url"

	"github.com/goliatone/go-multiform/pkg/controller"
	"github.com/goliatone/go-multiform/pkg/plan"
)

// PostMarked returns a POST request carrying data plus the submission marker
// of entry.
func PostMarked(entry string, data url.Values) controller.Request {
	out := url.Values{}
	for k, v := range data {
		out[k] = append([]string(nil), v...)
	}
	out.Set(plan.SubmitName(entry), "1")
	return controller.Post(out)
}
