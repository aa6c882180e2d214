package common

import (
	"context"
	"testing"
)

func TestUserContext_RoundTrip(t *testing.T) {
	ctx := context.Background()

	// Absent by default
	if uc := UserContextFromContext(ctx); uc != nil {
		t.Error("Expected nil UserContext from empty context")
	}

	// Store and retrieve
	uc := &UserContext{
		UserID:          "user-123",
		DisplayCurrency: "USD",
	}
	ctx = WithUserContext(ctx, uc)

	got := UserContextFromContext(ctx)
	if got == nil {
		t.Fatal("Expected non-nil UserContext")
	}
	if got.UserID != "user-123" {
		t.Errorf("Expected user-123, got %s", got.UserID)
	}
	if got.DisplayCurrency != "USD" {
		t.Errorf("Expected USD, got %s", got.DisplayCurrency)
	}
}

func TestResolveUserID_Default(t *testing.T) {
	ctx := context.Background()

	if got := ResolveUserID(ctx); got != "default" {
		t.Errorf("Expected default, got %s", got)
	}

	ctx = WithUserContext(ctx, &UserContext{UserID: "alice"})
	if got := ResolveUserID(ctx); got != "alice" {
		t.Errorf("Expected alice, got %s", got)
	}
}

func TestResolveUserID_EmptyIDFallsBack(t *testing.T) {
	ctx := WithUserContext(context.Background(), &UserContext{UserID: ""})

	if got := ResolveUserID(ctx); got != "default" {
		t.Errorf("Expected default for empty UserID, got %s", got)
	}
}

func TestResolveDisplayCurrency_WithUserContext(t *testing.T) {
	ctx := context.Background()

	// No UserContext: config default wins
	if got := ResolveDisplayCurrency(ctx, "GBP"); got != "GBP" {
		t.Errorf("Expected GBP default, got %s", got)
	}

	// With valid UserContext
	ctx = WithUserContext(ctx, &UserContext{DisplayCurrency: "USD"})
	if got := ResolveDisplayCurrency(ctx, "GBP"); got != "USD" {
		t.Errorf("Expected USD override, got %s", got)
	}
}

func TestResolveDisplayCurrency_InvalidCurrency(t *testing.T) {
	ctx := WithUserContext(context.Background(), &UserContext{DisplayCurrency: "EUR"})

	if got := ResolveDisplayCurrency(ctx, "GBP"); got != "GBP" {
		t.Errorf("Expected GBP fallback for invalid EUR, got %s", got)
	}
}

func TestResolveDisplayCurrency_CaseInsensitive(t *testing.T) {
	ctx := WithUserContext(context.Background(), &UserContext{DisplayCurrency: "usd"})

	if got := ResolveDisplayCurrency(ctx, "GBP"); got != "USD" {
		t.Errorf("Expected USD (uppercased), got %s", got)
	}
}
