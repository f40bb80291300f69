package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mkale/sparky/internal/chat"
	"github.com/mkale/sparky/internal/gamification"
	"github.com/mkale/sparky/internal/performance"
	"github.com/mkale/sparky/internal/store"
)

// Load restores persisted sessions, stats, and the learner's name.
// Missing or unreadable blobs fall back to defaults; a corrupt blob is
// reported on stderr but never blocks startup. There is always an active
// session afterwards.
func (a *App) Load(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var sessions []*chat.ChatSession
	if loadBlob(ctx, a.states, store.KeyChatSessions, &sessions) && len(sessions) > 0 {
		a.sessions.Restore(sessions)
	} else {
		a.sessions.CreateSession(chat.DifficultyIntermediate)
	}

	var perf performance.Stats
	if loadBlob(ctx, a.states, store.KeyPerformanceStats, &perf) {
		if perf.AccuracyHistory == nil {
			perf.AccuracyHistory = []int{}
		}
		a.performance = perf
	}

	var gam gamification.Stats
	if loadBlob(ctx, a.states, store.KeyGamificationStats, &gam) {
		if gam.Level < 1 {
			gam.Level = 1
		}
		a.gamification = gam
	}

	var name string
	if loadBlob(ctx, a.states, store.KeyUserName, &name) {
		a.userName = name
	}
}

// loadBlob reads and decodes one state blob. Returns false when the blob
// is absent or unusable.
func loadBlob(ctx context.Context, repo store.StateRepo, key string, dst any) bool {
	blob, ok, err := repo.Load(ctx, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(blob, dst); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to parse %s: %v\n", key, err)
		return false
	}
	return true
}

// saveSessionsLocked persists all sessions. An empty session list is
// never written, so a fresh unused chat can't clobber saved history.
func (a *App) saveSessionsLocked(ctx context.Context) {
	sessions := a.sessions.Sessions()
	if len(sessions) == 0 {
		return
	}
	saveBlob(ctx, a.states, store.KeyChatSessions, sessions)
}

func (a *App) savePerformanceLocked(ctx context.Context) {
	saveBlob(ctx, a.states, store.KeyPerformanceStats, a.performance)
}

func (a *App) saveGamificationLocked(ctx context.Context) {
	saveBlob(ctx, a.states, store.KeyGamificationStats, a.gamification)
}

func (a *App) saveUserNameLocked(ctx context.Context) {
	saveBlob(ctx, a.states, store.KeyUserName, a.userName)
}

// saveBlob encodes and writes one state blob. Persistence failures are
// reported on stderr but never interrupt the session.
func saveBlob(ctx context.Context, repo store.StateRepo, key string, v any) {
	blob, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to encode %s: %v\n", key, err)
		return
	}
	if err := repo.Save(ctx, key, blob); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to save %s: %v\n", key, err)
	}
}
