package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/CodeInLemonDD/LemonVRCT/internal/domain"
	"github.com/CodeInLemonDD/LemonVRCT/internal/logger"
	"github.com/CodeInLemonDD/LemonVRCT/internal/ports"
)

type fakeRecorder struct {
	mu       sync.Mutex
	begins   int
	ends     int
	beginErr error
	endErr   error
	current  *domain.Session
}

func (f *fakeRecorder) Probe() error { return nil }

func (f *fakeRecorder) Begin(_ context.Context) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	f.begins++
	f.current = domain.NewSession("rec", time.Now())
	return f.current, nil
}

func (f *fakeRecorder) End() (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.endErr != nil {
		return nil, f.endErr
	}
	f.ends++
	session := f.current
	session.Close()
	return session, nil
}

func (f *fakeRecorder) Release() {}

func (f *fakeRecorder) beginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.begins
}

type fakeQueue struct {
	mu       sync.Mutex
	sessions []*domain.Session
}

func (f *fakeQueue) Enqueue(session *domain.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, session)
}

func (f *fakeQueue) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

func press(char rune) ports.KeyEvent   { return ports.KeyEvent{Char: char, Down: true} }
func release(char rune) ports.KeyEvent { return ports.KeyEvent{Char: char, Down: false} }

func TestPushToTalkRecordsOnPressAndQueuesOnRelease(t *testing.T) {
	t.Parallel()

	recorder := &fakeRecorder{}
	queue := &fakeQueue{}
	controller := NewPushToTalk(recorder, queue, nil, 'k', logger.Discard())
	ctx := context.Background()

	controller.HandleKey(ctx, press('k'))
	if controller.Phase() != domain.PhaseRecording {
		t.Fatalf("expected Recording phase, got %v", controller.Phase())
	}

	controller.HandleKey(ctx, release('k'))
	if controller.Phase() != domain.PhaseQueued {
		t.Fatalf("expected Queued phase, got %v", controller.Phase())
	}
	if queue.count() != 1 {
		t.Fatalf("expected one queued session, got %d", queue.count())
	}
	if !queue.sessions[0].Closed() {
		t.Fatalf("queued session must be closed")
	}
}

func TestPushToTalkIgnoresKeyRepeat(t *testing.T) {
	t.Parallel()

	recorder := &fakeRecorder{}
	controller := NewPushToTalk(recorder, &fakeQueue{}, nil, 'k', logger.Discard())
	ctx := context.Background()

	controller.HandleKey(ctx, press('k'))
	controller.HandleKey(ctx, press('k'))
	controller.HandleKey(ctx, press('k'))

	if recorder.beginCount() != 1 {
		t.Fatalf("held key must start exactly one recording, got %d", recorder.beginCount())
	}
}

func TestPushToTalkIgnoresOtherKeys(t *testing.T) {
	t.Parallel()

	recorder := &fakeRecorder{}
	queue := &fakeQueue{}
	controller := NewPushToTalk(recorder, queue, nil, 'k', logger.Discard())
	ctx := context.Background()

	controller.HandleKey(ctx, press('a'))
	controller.HandleKey(ctx, release('a'))

	if recorder.beginCount() != 0 || queue.count() != 0 {
		t.Fatalf("non-trigger keys must be ignored")
	}
	if controller.Phase() != domain.PhaseIdle {
		t.Fatalf("expected Idle phase, got %v", controller.Phase())
	}
}

func TestPushToTalkBlocksWhileJobInFlight(t *testing.T) {
	t.Parallel()

	recorder := &fakeRecorder{}
	queue := &fakeQueue{}
	controller := NewPushToTalk(recorder, queue, nil, 'k', logger.Discard())
	ctx := context.Background()

	controller.HandleKey(ctx, press('k'))
	controller.HandleKey(ctx, release('k'))
	controller.JobStarted("rec")

	// Press during Processing must not start a new recording.
	controller.HandleKey(ctx, press('k'))
	controller.HandleKey(ctx, release('k'))

	if recorder.beginCount() != 1 {
		t.Fatalf("recording must not start while processing, got %d begins", recorder.beginCount())
	}
	if queue.count() != 1 {
		t.Fatalf("expected one queued session, got %d", queue.count())
	}

	controller.JobFinished("rec")
	if controller.Phase() != domain.PhaseIdle {
		t.Fatalf("expected Idle after job finished, got %v", controller.Phase())
	}

	controller.HandleKey(ctx, press('k'))
	if recorder.beginCount() != 2 {
		t.Fatalf("expected recording to resume after Idle, got %d begins", recorder.beginCount())
	}
}

func TestPushToTalkRecoversFromBeginFailure(t *testing.T) {
	t.Parallel()

	recorder := &fakeRecorder{beginErr: errors.New("device busy")}
	controller := NewPushToTalk(recorder, &fakeQueue{}, nil, 'k', logger.Discard())
	ctx := context.Background()

	controller.HandleKey(ctx, press('k'))
	if controller.Phase() != domain.PhaseIdle {
		t.Fatalf("failed start must return to Idle, got %v", controller.Phase())
	}

	controller.HandleKey(ctx, release('k'))
	recorder.beginErr = nil
	controller.HandleKey(ctx, press('k'))
	if controller.Phase() != domain.PhaseRecording {
		t.Fatalf("expected recovery after device error, got %v", controller.Phase())
	}
}

func TestPushToTalkRecoversFromEndFailure(t *testing.T) {
	t.Parallel()

	recorder := &fakeRecorder{endErr: errors.New("stream torn down")}
	queue := &fakeQueue{}
	controller := NewPushToTalk(recorder, queue, nil, 'k', logger.Discard())
	ctx := context.Background()

	controller.HandleKey(ctx, press('k'))
	controller.HandleKey(ctx, release('k'))

	if queue.count() != 0 {
		t.Fatalf("failed stop must not enqueue a session")
	}
	if controller.Phase() != domain.PhaseIdle {
		t.Fatalf("failed stop must return to Idle, got %v", controller.Phase())
	}
}

func TestPushToTalkReleaseWithoutRecordingIsNoop(t *testing.T) {
	t.Parallel()

	recorder := &fakeRecorder{}
	queue := &fakeQueue{}
	controller := NewPushToTalk(recorder, queue, nil, 'k', logger.Discard())

	controller.HandleKey(context.Background(), release('k'))

	if queue.count() != 0 || controller.Phase() != domain.PhaseIdle {
		t.Fatalf("stray release must not change state")
	}
}
