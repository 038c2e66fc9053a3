package session

import (
	"testing"
	"time"
)

func TestCacheConsumeSingleUse(t *testing.T) {
	c := NewCache(10, time.Minute)
	if err := c.Store(4242420000, "tok-1"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	if err := c.Consume(4242420000, "tok-1"); err != nil {
		t.Fatalf("Consume: expected success, got %v", err)
	}
	if err := c.Consume(4242420000, "tok-1"); err == nil {
		t.Fatal("Consume: expected failure on second consumption of the same token")
	}
}

func TestCacheConsumeTokenMismatch(t *testing.T) {
	c := NewCache(10, time.Minute)
	_ = c.Store(4242420000, "tok-1")

	if err := c.Consume(4242420000, "wrong-token"); err == nil {
		t.Fatal("Consume: expected failure for mismatched token")
	}
	// the entry must survive a mismatched attempt, not be deleted
	if err := c.Consume(4242420000, "tok-1"); err != nil {
		t.Fatalf("Consume: expected the real token to still work, got %v", err)
	}
}

func TestCacheConsumeUnknownASN(t *testing.T) {
	c := NewCache(10, time.Minute)
	if err := c.Consume(1, "anything"); err == nil {
		t.Fatal("Consume: expected failure for an ASN with no cached token")
	}
}

func TestCacheEntryExpires(t *testing.T) {
	c := NewCache(10, 10*time.Millisecond)
	_ = c.Store(4242420000, "tok-1")

	time.Sleep(30 * time.Millisecond)

	if err := c.Consume(4242420000, "tok-1"); err == nil {
		t.Fatal("Consume: expected failure for an expired entry")
	}
}

func TestCacheCapacityEviction(t *testing.T) {
	c := NewCache(2, time.Minute)
	_ = c.Store(1, "a")
	time.Sleep(time.Millisecond)
	_ = c.Store(2, "b")
	time.Sleep(time.Millisecond)
	_ = c.Store(3, "c")

	if got := c.Len(); got != 2 {
		t.Fatalf("Len: got %d, want 2 after capacity eviction", got)
	}
	if err := c.Consume(1, "a"); err == nil {
		t.Fatal("Consume: expected the oldest entry (ASN 1) to have been evicted")
	}
}

func TestCacheClear(t *testing.T) {
	c := NewCache(10, time.Minute)
	_ = c.Store(1, "a")
	_ = c.Store(2, "b")

	c.Clear()

	if got := c.Len(); got != 0 {
		t.Fatalf("Len: got %d, want 0 after Clear", got)
	}
}

func TestMinterMintAndParse(t *testing.T) {
	m := NewMinter("test-secret", time.Minute)

	signed, err := m.Mint(4242420000)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	claims, err := m.Parse(signed)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.ASN != 4242420000 {
		t.Fatalf("Parse: got ASN %d, want 4242420000", claims.ASN)
	}
	if claims.ID == "" {
		t.Fatal("Parse: expected a non-empty jti claim")
	}
}

func TestMinterParseRejectsExpired(t *testing.T) {
	m := NewMinter("test-secret", 5*time.Millisecond)
	signed, err := m.Mint(4242420000)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, err := m.Parse(signed); err == nil {
		t.Fatal("Parse: expected failure for an expired token")
	}
}

func TestMinterParseRejectsWrongSecret(t *testing.T) {
	m := NewMinter("secret-a", time.Minute)
	signed, err := m.Mint(4242420000)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	other := NewMinter("secret-b", time.Minute)
	if _, err := other.Parse(signed); err == nil {
		t.Fatal("Parse: expected failure when verifying with a different secret")
	}
}
