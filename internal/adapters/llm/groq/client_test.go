package groq_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	groq "github.com/okian/mayday/internal/adapters/llm/groq"
	"github.com/okian/mayday/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClient_Generate(t *testing.T) {
	Convey("Given a generation client against a fake API", t, func() {
		ctx := context.Background()

		Convey("When the API returns a completion", func() {
			var gotBody map[string]any
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewDecoder(r.Body).Decode(&gotBody)
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  Stay calm. Firefighters are on the way.  "}}]}`))
			}))
			defer srv.Close()

			client := groq.NewClient("test-key",
				groq.WithBaseURL(srv.URL),
				groq.WithModel("llama-3.3-70b-versatile"),
			)

			reply, err := client.Generate(ctx, model.CategoryFire, 8, "there is a fire in the kitchen")

			Convey("Then it returns trimmed non-empty text", func() {
				So(err, ShouldBeNil)
				So(reply, ShouldEqual, "Stay calm. Firefighters are on the way.")
			})

			Convey("And the prompt carries category, severity and transcript", func() {
				msgs, ok := gotBody["messages"].([]any)
				So(ok, ShouldBeTrue)
				So(len(msgs), ShouldEqual, 2)
				user, ok := msgs[1].(map[string]any)
				So(ok, ShouldBeTrue)
				content, ok := user["content"].(string)
				So(ok, ShouldBeTrue)
				So(content, ShouldContainSubstring, "FIRE")
				So(content, ShouldContainSubstring, "8/10")
				So(content, ShouldContainSubstring, "fire in the kitchen")
				So(gotBody["model"], ShouldEqual, "llama-3.3-70b-versatile")
			})
		})

		Convey("When the API returns an empty completion", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"   "}}]}`))
			}))
			defer srv.Close()

			client := groq.NewClient("test-key", groq.WithBaseURL(srv.URL))

			_, err := client.Generate(ctx, model.CategoryNormal, 2, "hello")

			Convey("Then it surfaces ErrGenerate instead of inventing text", func() {
				So(errors.Is(err, groq.ErrGenerate), ShouldBeTrue)
			})
		})

		Convey("When the API fails", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "rate limited", http.StatusTooManyRequests)
			}))
			defer srv.Close()

			client := groq.NewClient("test-key", groq.WithBaseURL(srv.URL))

			_, err := client.Generate(ctx, model.CategoryMedical, 7, "someone is hurt")

			Convey("Then it surfaces ErrGenerate with the status", func() {
				So(errors.Is(err, groq.ErrGenerate), ShouldBeTrue)
				So(strings.Contains(err.Error(), "429"), ShouldBeTrue)
			})
		})
	})
}
