package tutorchat

import "github.com/mkale/sparky/internal/tutor"

// streamUpdateMsg is sent whenever the in-flight operation applied a new
// fragment to the transcript.
type streamUpdateMsg struct{}

// opDoneMsg is sent when a send, quiz, or flashcard operation finishes.
type opDoneMsg struct {
	Phase tutor.Phase
	Err   error
}

// toastExpireMsg retires the oldest visible toast.
type toastExpireMsg struct{}
