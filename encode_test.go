package tranches

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeEvent(t *testing.T) {
	tests := []struct {
		name  string
		event TransactionEvent
		want  string
	}{
		{
			"buy",
			NewBuy(day("2024-01-01"), "ABC", Q(100), USD(10), ""),
			`{"kind":"buy","date":"2024-01-01","symbol":"ABC","shares":100,"price":{"currency":"USD","amount":10}}`,
		},
		{
			"sell with lot",
			NewSell(day("2024-02-01"), "ABC", Q(40), USD(12), "ABC_240101_A"),
			`{"kind":"sell","date":"2024-02-01","symbol":"ABC","shares":40,"price":{"currency":"USD","amount":12},"lot":"ABC_240101_A"}`,
		},
		{
			"dividend",
			NewDividend(day("2024-03-01"), "ABC", USD(50), 0.4),
			`{"kind":"dividend","date":"2024-03-01","symbol":"ABC","total":{"currency":"USD","amount":50},"rocPercent":0.4}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b bytes.Buffer
			if err := EncodeEvent(&b, tt.event); err != nil {
				t.Fatalf("EncodeEvent() error = %v", err)
			}
			if got := strings.TrimRight(b.String(), "\n"); got != tt.want {
				t.Errorf("EncodeEvent()\n got %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestDecodeLedger(t *testing.T) {
	input := `{"kind":"buy","date":"2024-01-01","symbol":"ABC","shares":100,"price":{"currency":"USD","amount":10}}

{"kind":"dividend","date":"2024-02-01","symbol":"ABC","total":{"currency":"USD","amount":50},"rocPercent":0.4}
{"kind":"sell","date":"2024-03-01","symbol":"ABC","shares":40,"price":{"currency":"USD","amount":12},"lot":"ABC_240101_A"}
`
	ledger, err := DecodeLedger(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	if ledger.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 (empty lines skipped)", ledger.Len())
	}

	want := []TransactionEvent{
		NewBuy(day("2024-01-01"), "ABC", Q(100), USD(10), ""),
		NewDividend(day("2024-02-01"), "ABC", USD(50), 0.4),
		NewSell(day("2024-03-01"), "ABC", Q(40), USD(12), "ABC_240101_A"),
	}
	for i, e := range ledger.Events() {
		if !e.Equal(want[i]) {
			t.Errorf("event %d = %v, want %v", i, e, want[i])
		}
	}
}

func TestDecodeLedger_UnknownKind(t *testing.T) {
	_, err := DecodeLedger(strings.NewReader(`{"kind":"transfer","date":"2024-01-01","symbol":"ABC"}`))
	if err == nil {
		t.Fatal("DecodeLedger() accepted an unknown event kind")
	}
}

func TestEncodeLedger_IsCanonical(t *testing.T) {
	// Events appended out of order encode in chronological order, and the
	// encoding round-trips byte for byte.
	ledger := NewLedger()
	ledger.Append(
		NewSell(day("2024-03-01"), "ABC", Q(40), USD(12), "ABC_240101_A"),
		NewBuy(day("2024-01-01"), "ABC", Q(100), USD(10), ""),
		NewDividend(day("2024-02-01"), "ABC", USD(50), 0.4),
	)

	var first bytes.Buffer
	if err := EncodeLedger(&first, ledger); err != nil {
		t.Fatalf("EncodeLedger() error = %v", err)
	}

	firstOut := first.String()
	lines := strings.Split(strings.TrimRight(firstOut, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("encoded %d lines, want 3", len(lines))
	}
	if !strings.Contains(lines[0], `"kind":"buy"`) {
		t.Errorf("first line = %s, want the January buy", lines[0])
	}

	decoded, err := DecodeLedger(strings.NewReader(firstOut))
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	var second bytes.Buffer
	if err := EncodeLedger(&second, decoded); err != nil {
		t.Fatalf("EncodeLedger() after round trip error = %v", err)
	}
	if firstOut != second.String() {
		t.Errorf("round trip is not canonical:\n%s\nvs\n%s", firstOut, second.String())
	}
}
