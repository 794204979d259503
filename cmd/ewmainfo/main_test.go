package main

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-ewma/measure/response"
)

func TestParseRatio(t *testing.T) {
	alpha, scale, err := parseRatio(" 3 / 100 ")
	if err != nil {
		t.Fatalf("parseRatio() error = %v", err)
	}
	if alpha != 3 || scale != 100 {
		t.Fatalf("parseRatio() = %d/%d, want 3/100", alpha, scale)
	}

	for _, bad := range []string{"3", "x/100", "3/-1", "3/y"} {
		if _, _, err := parseRatio(bad); !errors.Is(err, errBadRatio) {
			t.Fatalf("parseRatio(%q) error = %v, want errBadRatio", bad, err)
		}
	}
}

func TestTimeWeightedRows(t *testing.T) {
	rows, err := timeWeightedRows([]string{"10", "0.5"}, false, []response.Option{response.WithLength(512)})
	if err != nil {
		t.Fatalf("timeWeightedRows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	if rows[0].result.Rise63 != 10 {
		t.Fatalf("tau=10 rise = %d, want 10", rows[0].result.Rise63)
	}

	alphaRows, err := timeWeightedRows([]string{"1"}, true, []response.Option{response.WithLength(64)})
	if err != nil {
		t.Fatalf("timeWeightedRows() error = %v", err)
	}
	if alphaRows[0].tau != 0 || alphaRows[0].result.Settle99 != 1 {
		t.Fatalf("alpha=1 row = %+v, want pass-through", alphaRows[0])
	}
}

func TestFixedRows(t *testing.T) {
	rows, err := fixedRows("1/4", 1000, []response.Option{response.WithLength(256)})
	if err != nil {
		t.Fatalf("fixedRows() error = %v", err)
	}
	if len(rows) != 1 || rows[0].alpha != 0.25 {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].result.StepFinal != 1 {
		t.Fatalf("StepFinal = %v, want 1", rows[0].result.StepFinal)
	}

	if _, err := fixedRows("0/4", 1000, nil); err == nil {
		t.Fatal("expected error for zero alpha")
	}
	if _, err := fixedRows("1/4", 0, nil); err == nil {
		t.Fatal("expected error for zero amplitude")
	}
}
