package publisher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genContent generates arbitrary content strings, including empty and
// whitespace-only values.
func genContent() gopter.Gen {
	return gen.OneGenOf(
		gen.AnyString(),
		gen.OneConstOf("", " ", "\t", "\n  \n"),
	)
}

func TestPropertyPublishNeverPanics(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	configured := NewXPublisher(testXCreds(), nil, WithXBaseURL(srv.URL))
	unconfigured := NewXPublisher(XCredentials{}, nil)

	properties.Property("configured publisher skips blank content, otherwise attempts delivery", prop.ForAll(
		func(content string) bool {
			outcome := configured.Publish(context.Background(), content)
			if isBlank(content) {
				return outcome.Status == StatusSkipped
			}
			return outcome.Status == StatusDelivered || outcome.Status == StatusFailed
		},
		genContent(),
	))

	properties.Property("unconfigured publisher always skips", prop.ForAll(
		func(content string) bool {
			return unconfigured.Publish(context.Background(), content).Status == StatusSkipped
		},
		genContent(),
	))

	properties.Property("blank content always skips", prop.ForAll(
		func(spaces int) bool {
			content := ""
			for i := 0; i < spaces; i++ {
				content += " "
			}
			return configured.Publish(context.Background(), content).Status == StatusSkipped
		},
		gen.IntRange(0, 10),
	))

	properties.TestingRun(t)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
