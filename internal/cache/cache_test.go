package cache

import "testing"

func TestGetSet(t *testing.T) {
	c := NewClient()

	if _, ok := c.Get(KeyWorkspaces); ok {
		t.Error("Expected miss on empty cache")
	}

	c.Set(KeyWorkspaces, []string{"w1", "w2"})
	v, ok := c.Get(KeyWorkspaces)
	if !ok {
		t.Fatal("Expected hit after Set")
	}
	if ws := v.([]string); len(ws) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(ws))
	}
}

func TestInvalidateNotifiesSubscribers(t *testing.T) {
	c := NewClient()
	c.Set(BranchStatusKey("w1"), "cached")

	notified := 0
	unsub := c.Subscribe(BranchStatusKey("w1"), func() { notified++ })

	c.Invalidate(BranchStatusKey("w1"))
	if notified != 1 {
		t.Errorf("Expected 1 notification, got %d", notified)
	}
	if _, ok := c.Get(BranchStatusKey("w1")); ok {
		t.Error("Expected entry dropped after Invalidate")
	}

	// Invalidating a key with no entry still notifies
	c.Invalidate(BranchStatusKey("w1"))
	if notified != 2 {
		t.Errorf("Expected 2 notifications, got %d", notified)
	}

	unsub()
	c.Invalidate(BranchStatusKey("w1"))
	if notified != 2 {
		t.Errorf("Expected no notification after unsubscribe, got %d", notified)
	}
}

func TestInvalidateOtherKeyDoesNotNotify(t *testing.T) {
	c := NewClient()
	notified := 0
	c.Subscribe(KeyWorkspaces, func() { notified++ })

	c.Invalidate(KeyProjects)
	if notified != 0 {
		t.Errorf("Expected no notification for unrelated key, got %d", notified)
	}
}

func TestSubscribePrefixSeesEveryKeyInFamily(t *testing.T) {
	c := NewClient()
	notified := 0
	unsub := c.SubscribePrefix(PrefixIssues, func() { notified++ })

	c.Invalidate(IssuesKey("p1"))
	c.Invalidate(IssuesKey("p2"))
	if notified != 2 {
		t.Errorf("Expected 2 notifications across the family, got %d", notified)
	}

	c.Invalidate(BranchStatusKey("w1"))
	if notified != 2 {
		t.Errorf("Expected no notification for another family, got %d", notified)
	}

	unsub()
	c.Invalidate(IssuesKey("p1"))
	if notified != 2 {
		t.Errorf("Expected no notification after unsubscribe, got %d", notified)
	}
}

func TestParameterizedKeys(t *testing.T) {
	if BranchStatusKey("w1") == BranchStatusKey("w2") {
		t.Error("Expected distinct keys per workspace")
	}
	if IssuesKey("p1") == IssuesKey("p2") {
		t.Error("Expected distinct keys per project")
	}
}
