package lexicon

import (
	"errors"
	"strings"
	"testing"

	"github.com/hazyhaar/shabdkosh/pkg/phone"
)

// abstractNormalizer classifies A as a consonant, B as a matra and N as a
// nukta, with A composing to A'.
func abstractNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	tbl, err := phone.ReadTable(strings.NewReader("symbol,type,info\nA,consonant,\nB,matra,\nN,diacritic,nukta\n"), nil)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	return New(tbl, Options{Composition: CompositionMap{"A": "A'"}})
}

const hindiTable = "symbol,type,info\n" +
	"क,consonant,\n" +
	"ल,consonant,\n" +
	"झ,consonant,\n" +
	"म,consonant,\n" +
	"ा,matra,\n" +
	"ि,matra,\n" +
	"ं,diacritic,after\n" +
	"़,diacritic,nukta\n" +
	"ॐ,vowel,sanskrit\n" +
	"ऋ,vowel,vedic\n"

func hindiNormalizer(t *testing.T, opts Options) *Normalizer {
	t.Helper()
	tbl, err := phone.ReadTable(strings.NewReader(hindiTable), nil)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	return New(tbl, opts)
}

func TestNormalize_Scenarios(t *testing.T) {
	n := abstractNormalizer(t)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"consonant then matra", "AB", "AB", nil},
		{"matra at start", "BA", "", ErrPosition},
		{"nukta fuses", "AN", "A'", nil},
		{"nukta at start", "NA", "", ErrPosition},
		{"unknown symbol", "AZ", "", ErrUnknownSymbol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Normalize(%q) err = %v, want %v", tt.input, err, tt.wantErr)
				}
				if got != nil {
					t.Errorf("Normalize(%q) = %v, want no partial output", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q): %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got.String(), tt.want)
			}
		})
	}
}

func TestNormalize_Devanagari(t *testing.T) {
	n := hindiNormalizer(t, Options{})

	tests := []struct {
		name     string
		input    string
		want     string
		wantLen  int
		wantKind RejectKind
	}{
		{"plain", "कला", "कला", 3, ""},
		{"boundary marker", "▁कल", "कल", 2, ""},
		{"nukta qa", "क" + Nukta + "ल", "\u0958ल", 2, ""},
		{"nukta jha keeps two runes", "झ" + Nukta, "झ" + Nukta, 1, ""},
		{"anusvara after consonant", "कं", "कं", 2, ""},
		{"matra start", "ाक", "", 0, KindPosition},
		{"after-role start", "ंक", "", 0, KindPosition},
		{"nukta start", Nukta + "क", "", 0, KindPosition},
		{"sanskrit", "कॐ", "", 0, KindExcludedScript},
		{"nukta on la", "ल" + Nukta, "", 0, KindNuktaComposition},
		{"double nukta", "क" + Nukta + Nukta, "", 0, KindNuktaComposition},
		{"precomposed qa unknown", "\u0958", "", 0, KindUnknownSymbol},
		{"inner boundary becomes space", "क▁ल", "", 0, KindUnknownSymbol},
		{"latin", "kal", "", 0, KindUnknownSymbol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.input)
			if tt.wantKind != "" {
				var re *RejectError
				if !errors.As(err, &re) {
					t.Fatalf("Normalize(%q) err = %v, want *RejectError", tt.input, err)
				}
				if re.Kind() != tt.wantKind {
					t.Errorf("Normalize(%q) kind = %s, want %s (%v)", tt.input, re.Kind(), tt.wantKind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q): %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got.String(), tt.want)
			}
			if got.Len() != tt.wantLen {
				t.Errorf("Normalize(%q) len = %d, want %d", tt.input, got.Len(), tt.wantLen)
			}
		})
	}
}

func TestNormalize_EmptyAfterTrim(t *testing.T) {
	n := hindiNormalizer(t, Options{})
	for _, input := range []string{"", "   ", "▁", "▁▁ ▁"} {
		got, err := n.Normalize(input)
		if err != nil || got != nil {
			t.Errorf("Normalize(%q) = %v, %v; want nil, nil", input, got, err)
		}
	}
}

func TestNormalize_RejectDetails(t *testing.T) {
	n := hindiNormalizer(t, Options{})

	_, err := n.Normalize("कल" + "x")
	var re *RejectError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *RejectError", err)
	}
	if re.Symbol != "x" || re.Index != 2 || re.Word != "कलx" {
		t.Errorf("reject = %+v", re)
	}

	_, err = n.Normalize("मल" + Nukta)
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *RejectError", err)
	}
	if re.Base != "ल" {
		t.Errorf("Base = %q, want ल", re.Base)
	}
	if !strings.Contains(re.Error(), "after ल") {
		t.Errorf("Error() = %q, want mention of base", re.Error())
	}
}

func TestNormalize_MatraNeverStarts(t *testing.T) {
	n := hindiNormalizer(t, Options{})
	for _, s := range n.Table().List() {
		if s.Type != phone.TypeMatra {
			continue
		}
		for _, rest := range []string{"", "क", "कल"} {
			if _, err := n.Normalize(s.Symbol + rest); !errors.Is(err, ErrPosition) {
				t.Errorf("Normalize(%q) err = %v, want ErrPosition", s.Symbol+rest, err)
			}
		}
	}
}

func TestNormalize_UnknownFailsFastAnywhere(t *testing.T) {
	n := hindiNormalizer(t, Options{})
	valid := []rune("कलमका")
	for pos := 0; pos <= len(valid); pos++ {
		input := string(valid[:pos]) + "Z" + string(valid[pos:])
		got, err := n.Normalize(input)
		if !errors.Is(err, ErrUnknownSymbol) {
			t.Errorf("Normalize(%q) err = %v, want ErrUnknownSymbol", input, err)
		}
		if got != nil {
			t.Errorf("Normalize(%q) = %v, want no output", input, got)
		}
	}
}

func TestNormalize_NuktaShrinksByOne(t *testing.T) {
	n := hindiNormalizer(t, Options{})
	for _, base := range []string{"क", "झ"} {
		input := "म" + base + Nukta + "ल"
		got, err := n.Normalize(input)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", input, err)
		}
		if want := len([]rune(input)) - 1; got.Len() != want {
			t.Errorf("Normalize(%q) len = %d, want %d", input, got.Len(), want)
		}
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	n := hindiNormalizer(t, Options{})
	for _, input := range []string{"कला", "क" + Nukta, "ाक", "कx"} {
		a, errA := n.Normalize(input)
		b, errB := n.Normalize(input)
		if a.String() != b.String() || (errA == nil) != (errB == nil) {
			t.Errorf("Normalize(%q) not deterministic: %v/%v vs %v/%v", input, a, errA, b, errB)
		}
	}
}

func TestNormalize_Options(t *testing.T) {
	t.Run("nfd recomposes precomposed letters", func(t *testing.T) {
		n := hindiNormalizer(t, Options{Text: NormalizeNFD})
		got, err := n.Normalize("\u0958ल")
		if err != nil {
			t.Fatalf("Normalize: %v", err)
		}
		if got.String() != "\u0958ल" || got.Len() != 2 {
			t.Errorf("got %q (len %d)", got.String(), got.Len())
		}
	})

	t.Run("strip joiners", func(t *testing.T) {
		n := hindiNormalizer(t, Options{Text: GetTextNormalizer("strip_joiners")})
		got, err := n.Normalize("क\u200dल")
		if err != nil {
			t.Fatalf("Normalize: %v", err)
		}
		if got.String() != "कल" {
			t.Errorf("got %q, want कल", got.String())
		}
	})

	t.Run("strip joiners before trimming", func(t *testing.T) {
		n := hindiNormalizer(t, Options{Text: GetTextNormalizer("strip_joiners")})
		for _, raw := range []string{"\u200d कल", "\ufeffकल", BoundaryMarker + "कल\u200c"} {
			got, err := n.Normalize(raw)
			if err != nil {
				t.Errorf("Normalize(%q): %v", raw, err)
				continue
			}
			if got.String() != "कल" {
				t.Errorf("Normalize(%q) = %q, want कल", raw, got.String())
			}
		}
	})

	t.Run("custom excluded roles", func(t *testing.T) {
		n := hindiNormalizer(t, Options{Excluded: []phone.Role{"vedic"}})
		if _, err := n.Normalize("ऋ"); !errors.Is(err, ErrExcludedScript) {
			t.Errorf("vedic err = %v, want ErrExcludedScript", err)
		}
		if _, err := n.Normalize("ॐ"); err != nil {
			t.Errorf("sanskrit no longer excluded, got %v", err)
		}
	})

	t.Run("custom marker", func(t *testing.T) {
		n := hindiNormalizer(t, Options{Marker: "_"})
		got, err := n.Normalize("_कल")
		if err != nil || got.String() != "कल" {
			t.Errorf("got %v, %v", got, err)
		}
	})
}

func TestGetTextNormalizer(t *testing.T) {
	tests := []struct {
		mode  string
		input string
		want  string
	}{
		{"none", "\u0958", "\u0958"},
		{"", "\u0958", "\u0958"},
		{"nfd", "\u0958", "क" + Nukta},
		{"nfc", "क" + Nukta, "क" + Nukta}, // U+0958 is a composition exclusion
		{"strip_joiners", "क\u200cष", "कष"},
		{"strip_joiners", "\ufeffक", "क"},
		{"unknown_mode", "\u0958", "\u0958"},
	}
	for _, tt := range tests {
		if got := GetTextNormalizer(tt.mode)(tt.input); got != tt.want {
			t.Errorf("GetTextNormalizer(%q)(%q) = %q, want %q", tt.mode, tt.input, got, tt.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want RejectKind
	}{
		{&RejectError{Err: ErrUnknownSymbol}, KindUnknownSymbol},
		{&RejectError{Err: ErrPosition}, KindPosition},
		{&RejectError{Err: ErrExcludedScript}, KindExcludedScript},
		{&RejectError{Err: ErrNuktaComposition}, KindNuktaComposition},
		{errors.New("boom"), KindOther},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestDefaultComposition(t *testing.T) {
	m := DefaultComposition()
	if len(m) != 11 {
		t.Errorf("compositions = %d, want 11", len(m))
	}
	for base, composed := range m {
		if base == "झ" {
			continue
		}
		if n := len([]rune(composed)); n != 1 {
			t.Errorf("composed form of %q has %d runes, want 1", base, n)
		}
	}
	if c, _ := m.Compose("झ"); c != "झ"+Nukta {
		t.Errorf("Compose(झ) = %q", c)
	}
}
