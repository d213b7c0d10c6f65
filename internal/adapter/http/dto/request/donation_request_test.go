package request

import (
	"errors"
	"testing"
)

func TestDonationInitiateRequest_ResolveCampaignID(t *testing.T) {
	r := DonationInitiateRequest{CampaignID: " camp-1 "}
	if got := r.ResolveCampaignID(); got != "camp-1" {
		t.Fatalf("expected camp-1, got %q", got)
	}
}

func TestDonationInitiateRequest_ResolveAmount(t *testing.T) {
	for _, v := range []float64{500, 500.0, 1_000_000} {
		got, err := DonationInitiateRequest{Amount: v}.ResolveAmount()
		if err != nil {
			t.Fatalf("amount %v: unexpected error: %v", v, err)
		}
		if got != int64(v) {
			t.Fatalf("amount %v: expected %d, got %d", v, int64(v), got)
		}
	}

	for _, v := range []float64{0, -10, 10.5, 1e12} {
		if _, err := (DonationInitiateRequest{Amount: v}).ResolveAmount(); !errors.Is(err, ErrInvalidDonationAmount) {
			t.Fatalf("amount %v: expected ErrInvalidDonationAmount, got %v", v, err)
		}
	}
}
