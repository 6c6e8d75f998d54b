package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAudio() UpsertRequest {
	return UpsertRequest{
		Type:      TypeAudio,
		Title:     "Morning Show",
		Tags:      []string{"talk", "news"},
		Duration:  1800,
		AudioPath: "/media/audio/morning-show.mp3",
		Visible:   true,
	}
}

func validVideo() UpsertRequest {
	return UpsertRequest{
		Type:     TypeVideo,
		Title:    "Documentary",
		Tags:     []string{"nature"},
		Duration: 3600,
		VideoURL: "https://cdn.example.com/docs/nature.mp4",
	}
}

func TestUpsertRequestValidate(t *testing.T) {
	t.Run("valid audio and video pass", func(t *testing.T) {
		audio := validAudio()
		require.NoError(t, audio.Validate())

		video := validVideo()
		require.NoError(t, video.Validate())
	})

	t.Run("type is normalized", func(t *testing.T) {
		req := validAudio()
		req.Type = " audio "
		require.NoError(t, req.Validate())
		assert.Equal(t, TypeAudio, req.Type)
	})

	t.Run("blank tags are dropped but one must remain", func(t *testing.T) {
		req := validAudio()
		req.Tags = []string{"  ", "rock", ""}
		require.NoError(t, req.Validate())
		assert.Equal(t, []string{"rock"}, req.Tags)

		req.Tags = []string{"  ", ""}
		assert.ErrorIs(t, req.Validate(), ErrInvalidContent)
	})

	t.Run("rejections", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*UpsertRequest)
		}{
			{"missing title", func(r *UpsertRequest) { r.Title = "  " }},
			{"zero duration", func(r *UpsertRequest) { r.Duration = 0 }},
			{"negative duration", func(r *UpsertRequest) { r.Duration = -5 }},
			{"unknown type", func(r *UpsertRequest) { r.Type = "PODCAST" }},
			{"empty type", func(r *UpsertRequest) { r.Type = "" }},
			{"audio without path", func(r *UpsertRequest) { r.AudioPath = "" }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := validAudio()
				tt.mutate(&req)
				assert.ErrorIs(t, req.Validate(), ErrInvalidContent)
			})
		}
	})

	t.Run("video source and resolution", func(t *testing.T) {
		req := validVideo()
		req.VideoURL = ""
		assert.ErrorIs(t, req.Validate(), ErrInvalidContent)

		req = validVideo()
		req.Resolution = "480p"
		assert.ErrorIs(t, req.Validate(), ErrInvalidContent)

		for _, res := range []string{"720p", "1080p", "4K"} {
			req = validVideo()
			req.Resolution = res
			assert.NoError(t, req.Validate())
		}

		// Resolution stays optional.
		req = validVideo()
		req.Resolution = ""
		assert.NoError(t, req.Validate())
	})
}
