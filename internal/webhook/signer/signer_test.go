package signer

import "testing"

func TestSign(t *testing.T) {
	// Known-answer vector: echo -n '{"event":"payment.success"}' | openssl dgst -sha256 -hmac whsec_test
	payload := []byte(`{"event":"payment.success"}`)
	got := Sign(payload, "whsec_test")
	want := "f100a2310357252e75484af0f71725c8458356c54738143f01c61fa1d6c3cb13"
	if got != want {
		t.Fatalf("Sign() = %s, want %s", got, want)
	}
}

func TestVerify(t *testing.T) {
	payload := []byte(`{"event":"refund.processed","data":{}}`)
	secret := "whsec_abc"

	sig := Sign(payload, secret)
	if !Verify(payload, secret, sig) {
		t.Fatal("expected signature to verify")
	}
	if Verify(payload, "whsec_other", sig) {
		t.Fatal("expected verification to fail with wrong secret")
	}
	if Verify([]byte(`tampered`), secret, sig) {
		t.Fatal("expected verification to fail on tampered payload")
	}
	if Verify(payload, secret, sig[:len(sig)-1]) {
		t.Fatal("expected verification to fail on truncated signature")
	}
}
