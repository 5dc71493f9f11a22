package tools

import "testing"

func TestParamsStringAliases(t *testing.T) {
	p := Params{"application_name": "notepad"}
	if got := p.String("app_name", "application_name", "app"); got != "notepad" {
		t.Errorf("got %q", got)
	}
}

func TestParamsStringSkipsEmpty(t *testing.T) {
	p := Params{"query": "", "q": "cats"}
	if got := p.String("query", "q"); got != "cats" {
		t.Errorf("got %q", got)
	}
}

func TestParamsStringNumericValue(t *testing.T) {
	// JSON decoding turns numbers into float64.
	p := Params{"level": float64(50)}
	if got := p.String("level"); got != "50" {
		t.Errorf("got %q", got)
	}
}

func TestParamsInt(t *testing.T) {
	cases := []struct {
		p    Params
		want int
	}{
		{Params{"x": float64(42)}, 42},
		{Params{"x": 7}, 7},
		{Params{"x": "13"}, 13},
		{Params{"x": "not a number"}, -1},
		{Params{}, -1},
	}
	for _, c := range cases {
		if got := c.p.Int(-1, "x"); got != c.want {
			t.Errorf("Int(%v) = %d, want %d", c.p, got, c.want)
		}
	}
}

func TestParamsBool(t *testing.T) {
	if !(Params{"flag": true}).Bool("flag") {
		t.Error("bool true not read")
	}
	if !(Params{"flag": "true"}).Bool("flag") {
		t.Error("string true not read")
	}
	if (Params{}).Bool("flag") {
		t.Error("missing key should be false")
	}
}

func TestParamsRequire(t *testing.T) {
	if _, err := (Params{}).Require("path", "file_path"); err == nil {
		t.Error("expected error for missing parameter")
	}
	v, err := (Params{"file_path": "/tmp/x"}).Require("path", "file_path")
	if err != nil || v != "/tmp/x" {
		t.Errorf("got %q, %v", v, err)
	}
}
