package assist

import (
	"strings"
	"testing"
)

func TestFallbackSearchEchoesMessage(t *testing.T) {
	message := "Where can I find vitamin C?"
	reply := ResolveFallback(message)

	if !strings.Contains(reply, "vitamin C") {
		t.Fatalf("expected search reply to echo the message, got %q", reply)
	}
	if !strings.Contains(reply, "compare") || !strings.Contains(reply, "prices") {
		t.Fatalf("expected search reply to mention comparing prices, got %q", reply)
	}
	if !strings.Contains(reply, "delivery") {
		t.Fatalf("expected search reply to mention delivery, got %q", reply)
	}
}

func TestFallbackPriceBucket(t *testing.T) {
	reply := ResolveFallback("How much does paracetamol cost?")
	if !strings.Contains(reply, "price") {
		t.Fatalf("expected price comparison reply, got %q", reply)
	}
}

func TestFallbackDeliveryBucket(t *testing.T) {
	reply := ResolveFallback("Can you deliver to Riga?")
	if !strings.Contains(reply, "Delivery is handled by each pharmacy") {
		t.Fatalf("expected delivery reply, got %q", reply)
	}
}

func TestFallbackPharmacyRegistration(t *testing.T) {
	reply := ResolveFallback("I want to register my pharmacy")
	if !strings.Contains(reply, "registration page") {
		t.Fatalf("expected onboarding reply, got %q", reply)
	}

	// "register" alone must not trigger the pharmacy bucket.
	other := ResolveFallback("how do I register an account")
	if strings.Contains(other, "registration page") {
		t.Fatalf("register without pharmacy matched the onboarding bucket: %q", other)
	}
}

func TestFallbackPrescriptionBucket(t *testing.T) {
	reply := ResolveFallback("Is a prescription needed?")
	if !strings.Contains(reply, "prescription") || !strings.Contains(reply, "pharmacist") {
		t.Fatalf("expected prescription flow reply, got %q", reply)
	}
}

func TestFallbackGenericReply(t *testing.T) {
	reply := ResolveFallback("hello")
	if reply != genericFallbackReply {
		t.Fatalf("expected generic reply for unmatched message, got %q", reply)
	}
}

func TestFallbackFirstBucketWins(t *testing.T) {
	// Matches both the search and the price bucket; search is declared first.
	reply := ResolveFallback("where can I see the price list")
	if !strings.Contains(reply, "search bar") {
		t.Fatalf("expected the search bucket to win, got %q", reply)
	}
}

func TestFallbackIsIdempotent(t *testing.T) {
	for _, message := range []string{
		"Where can I find aspirin?",
		"how much is this",
		"hello",
	} {
		first := ResolveFallback(message)
		second := ResolveFallback(message)
		if first != second {
			t.Fatalf("fallback not idempotent for %q: %q vs %q", message, first, second)
		}
		if first == "" {
			t.Fatalf("fallback returned empty reply for %q", message)
		}
	}
}
