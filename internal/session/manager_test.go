package session

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestAction_IsValid(t *testing.T) {
	valid := []Action{ActionAnalyze, ActionEnhance, ActionMonoToStereo, ActionFullProcess, ActionHelp}
	for _, a := range valid {
		if !a.IsValid() {
			t.Errorf("expected %q to be valid", a)
		}
	}
	if Action("resample").IsValid() {
		t.Error("expected unknown action to be invalid")
	}
}

func TestManager_ChooseThenConsume(t *testing.T) {
	m := NewManager(DefaultTTL)

	_, err := m.ChooseAction("u1", ActionAnalyze)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	action, err := m.Consume("u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action != ActionAnalyze {
		t.Errorf("expected %s, got %s", ActionAnalyze, action)
	}

	// Sessions are single-use.
	if _, err := m.Consume("u1"); err != ErrNoActiveSession {
		t.Errorf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestManager_ChooseOverwrites(t *testing.T) {
	m := NewManager(DefaultTTL)

	_, _ = m.ChooseAction("u1", ActionAnalyze)
	_, _ = m.ChooseAction("u1", ActionFullProcess)

	action, err := m.Consume("u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action != ActionFullProcess {
		t.Errorf("expected %s, got %s", ActionFullProcess, action)
	}
	if m.Len() != 0 {
		t.Errorf("expected one session per user, got %d remaining", m.Len())
	}
}

func TestManager_HelpCannotBeBound(t *testing.T) {
	m := NewManager(DefaultTTL)

	if _, err := m.ChooseAction("u1", ActionHelp); err != ErrInvalidAction {
		t.Errorf("expected ErrInvalidAction, got %v", err)
	}
	if _, err := m.ChooseAction("u1", Action("bogus")); err != ErrInvalidAction {
		t.Errorf("expected ErrInvalidAction, got %v", err)
	}
}

func TestManager_ConsumeExpired(t *testing.T) {
	now := time.Now()
	clock := now
	m := NewManager(time.Minute, WithClock(func() time.Time { return clock }))

	_, _ = m.ChooseAction("u1", ActionEnhance)

	// Past the TTL the session behaves as absent.
	clock = now.Add(2 * time.Minute)
	if _, err := m.Consume("u1"); err != ErrNoActiveSession {
		t.Errorf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestManager_ChooseResetsTTL(t *testing.T) {
	now := time.Now()
	clock := now
	m := NewManager(time.Minute, WithClock(func() time.Time { return clock }))

	_, _ = m.ChooseAction("u1", ActionAnalyze)

	// Re-selecting just before expiry restarts the clock.
	clock = now.Add(50 * time.Second)
	_, _ = m.ChooseAction("u1", ActionEnhance)

	clock = now.Add(100 * time.Second)
	action, err := m.Consume("u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action != ActionEnhance {
		t.Errorf("expected %s, got %s", ActionEnhance, action)
	}
}

func TestManager_PeekDoesNotConsume(t *testing.T) {
	m := NewManager(DefaultTTL)
	_, _ = m.ChooseAction("u1", ActionAnalyze)

	if _, ok := m.Peek("u1"); !ok {
		t.Fatal("expected pending session")
	}
	if _, err := m.Consume("u1"); err != nil {
		t.Errorf("peek must not consume the session: %v", err)
	}
}

func TestManager_SweepExpired(t *testing.T) {
	now := time.Now()
	clock := now
	m := NewManager(time.Minute, WithClock(func() time.Time { return clock }))

	_, _ = m.ChooseAction("u1", ActionAnalyze)
	_, _ = m.ChooseAction("u2", ActionEnhance)

	clock = now.Add(30 * time.Second)
	_, _ = m.ChooseAction("u3", ActionFullProcess)

	clock = now.Add(90 * time.Second)
	removed := m.SweepExpired()
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 remaining, got %d", m.Len())
	}

	// u3 is still live.
	if _, err := m.Consume("u3"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestManager_ConcurrentUsers(t *testing.T) {
	m := NewManager(DefaultTTL)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", n)
			for j := 0; j < 100; j++ {
				_, _ = m.ChooseAction(userID, ActionAnalyze)
				if _, err := m.Consume(userID); err != nil {
					t.Errorf("user %s lost its own session: %v", userID, err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	if m.Len() != 0 {
		t.Errorf("expected all sessions consumed, got %d", m.Len())
	}
}
