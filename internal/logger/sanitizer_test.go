package logger

import "testing"

func TestSanitizePayloadMasksSensitiveKeys(t *testing.T) {
	payload := map[string]any{
		"name":           "Ada Eze",
		"transactionPin": "4321",
		"nested": map[string]any{
			"transaction_pin_hash": "$2a$10$abcdef",
			"accountId":            "acc-1",
		},
	}

	sanitized, ok := SanitizePayload(payload).(map[string]any)
	if !ok {
		t.Fatalf("expected sanitized map, got %T", SanitizePayload(payload))
	}

	if sanitized["transactionPin"] != "******" {
		t.Fatalf("transactionPin not masked: %v", sanitized["transactionPin"])
	}
	if sanitized["name"] != "Ada Eze" {
		t.Fatalf("non-sensitive value altered: %v", sanitized["name"])
	}

	nested, ok := sanitized["nested"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested map, got %T", sanitized["nested"])
	}
	if nested["transaction_pin_hash"] != "******" {
		t.Fatalf("nested hash not masked: %v", nested["transaction_pin_hash"])
	}
	if nested["accountId"] != "acc-1" {
		t.Fatalf("nested non-sensitive value altered: %v", nested["accountId"])
	}
}

func TestSanitizePayloadHandlesUnmarshalablePayload(t *testing.T) {
	if got := SanitizePayload(make(chan int)); got != "<unavailable>" {
		t.Fatalf("expected <unavailable>, got %v", got)
	}
}
