package deepgram_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	deepgram "github.com/okian/mayday/internal/adapters/stt/deepgram"
	"github.com/okian/mayday/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestClient_Transcribe(t *testing.T) {
	Convey("Given a transcription client against a fake API", t, func() {
		ctx := context.Background()

		Convey("When the API returns a transcript", func() {
			var gotAuth, gotModel string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				gotModel = r.URL.Query().Get("model")
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"results":{"channels":[{"alternatives":[{"transcript":"there is a fire in the kitchen"}]}]}}`))
			}))
			defer srv.Close()

			client := deepgram.NewClient("test-key",
				deepgram.WithBaseURL(srv.URL),
				deepgram.WithModel("nova-3"),
			)

			transcript, err := client.Transcribe(ctx, []byte("fake-audio"))

			Convey("Then it returns the transcript and sends auth", func() {
				So(err, ShouldBeNil)
				So(transcript, ShouldEqual, "there is a fire in the kitchen")
				So(gotAuth, ShouldEqual, "Token test-key")
				So(gotModel, ShouldEqual, "nova-3")
			})
		})

		Convey("When the API rejects the request", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusUnauthorized)
			}))
			defer srv.Close()

			client := deepgram.NewClient("bad-key", deepgram.WithBaseURL(srv.URL))

			_, err := client.Transcribe(ctx, []byte("fake-audio"))

			Convey("Then it surfaces ErrTranscribe", func() {
				So(errors.Is(err, deepgram.ErrTranscribe), ShouldBeTrue)
			})
		})

		Convey("When the API returns an empty result set", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"results":{"channels":[]}}`))
			}))
			defer srv.Close()

			client := deepgram.NewClient("test-key", deepgram.WithBaseURL(srv.URL))

			_, err := client.Transcribe(ctx, []byte("fake-audio"))

			Convey("Then it surfaces ErrTranscribe", func() {
				So(errors.Is(err, deepgram.ErrTranscribe), ShouldBeTrue)
			})
		})
	})
}
