package http

import (
	"encoding/base64"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/aptradar/aptradar/internal/core/domain"
	"github.com/aptradar/aptradar/internal/pkg/metrics"
)

// maxAudioBytes caps uploaded recordings at 10 MiB.
const maxAudioBytes = 10 << 20

// voiceResponse is one completed voice-agent turn. ResponseAudio is
// base64 MP3; it is an explicit null when synthesis failed (partial
// success), so clients can key on the field being present.
type voiceResponse struct {
	Query         string         `json:"query"`
	Results       []domain.Place `json:"results"`
	ResponseText  string         `json:"response_text"`
	ResponseAudio *string        `json:"response_audio"`
	TTSError      string         `json:"tts_error,omitempty"`
}

// VoiceAgentHandler runs one voice turn from a multipart recording:
// transcribe, search, compose a reply, speak it back.
func VoiceAgentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("audio")
		if err != nil {
			return errBadRequest(c, "multipart field 'audio' is required")
		}
		if fh.Size > maxAudioBytes {
			return errBadRequest(c, "audio file too large (max 10 MiB)")
		}

		f, err := fh.Open()
		if err != nil {
			return errInternal(c, "open upload: "+err.Error())
		}
		defer f.Close()

		audio, err := io.ReadAll(f)
		if err != nil {
			return errInternal(c, "read upload: "+err.Error())
		}
		if len(audio) == 0 {
			return errBadRequest(c, "audio file is empty")
		}

		turn, err := deps.Voice.Turn(c.UserContext(), fh.Filename, audio)
		if err != nil {
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				metrics.VoiceTurns.WithLabelValues("error").Inc()
				return errBadRequest(c, ve.Msg)
			}
			metrics.VoiceTurns.WithLabelValues("error").Inc()
			return errBadGateway(c, err.Error())
		}

		resp := voiceResponse{
			Query:        turn.Query,
			Results:      turn.Results,
			ResponseText: turn.ResponseText,
		}
		if turn.Results == nil {
			resp.Results = []domain.Place{}
		}

		// Synthesis failure is partial success: text still comes back.
		if turn.TTSErr != nil {
			resp.TTSError = turn.TTSErr.Error()
			metrics.VoiceTurns.WithLabelValues("partial").Inc()
			return c.Status(fiber.StatusPartialContent).JSON(resp)
		}

		encoded := base64.StdEncoding.EncodeToString(turn.ResponseAudio)
		resp.ResponseAudio = &encoded
		metrics.VoiceTurns.WithLabelValues("ok").Inc()
		return c.JSON(resp)
	}
}
