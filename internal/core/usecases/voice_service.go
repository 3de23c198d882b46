package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/aptradar/aptradar/internal/core/domain"
	"github.com/aptradar/aptradar/internal/core/ports"
)

// VoiceService runs the batch voice-agent flow:
// transcribe → search → compose a spoken reply → synthesize.
type VoiceService struct {
	speech ports.SpeechClient
	search *SearchService
}

// NewVoiceService creates a new VoiceService.
func NewVoiceService(speech ports.SpeechClient, search *SearchService) *VoiceService {
	return &VoiceService{speech: speech, search: search}
}

// Turn processes one recorded utterance. On success the returned turn
// carries the transcript, results, reply text, and MP3 audio. A failed
// synthesis is partial success: the turn comes back with TTSErr set and
// no audio. STT and search failures return an error alongside whatever
// of the turn was already known.
func (s *VoiceService) Turn(ctx context.Context, filename string, audio []byte) (*domain.VoiceTurn, error) {
	turn := &domain.VoiceTurn{}

	query, err := s.speech.Transcribe(ctx, filename, audio)
	if err != nil {
		return turn, fmt.Errorf("STT failed: %w", err)
	}
	turn.Query = query

	q := query
	if q == "" {
		q = "apartments"
	}
	results, err := s.search.Search(ctx, "text", q, "", "")
	if err != nil {
		return turn, fmt.Errorf("search failed: %w", err)
	}
	turn.Results = results
	turn.ResponseText = composeReply(query, results)

	speech, err := s.speech.Synthesize(ctx, turn.ResponseText)
	if err != nil {
		turn.TTSErr = err
		return turn, nil
	}
	turn.ResponseAudio = speech

	return turn, nil
}

func composeReply(query string, results []domain.Place) string {
	if len(results) == 0 {
		where := query
		if where == "" {
			where = "that query"
		}
		return fmt.Sprintf("Sorry, I couldn't find apartments near %s. Try another city or zip.", where)
	}

	// Prefer the first result's address as the spoken location.
	where := strings.TrimSpace(results[0].Address)
	if where == "" {
		where = query
	}
	if where == "" {
		where = "your area"
	}
	return fmt.Sprintf("I found %d places near %s. Showing them now.", len(results), where)
}
