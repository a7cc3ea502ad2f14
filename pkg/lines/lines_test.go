package lines

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		routeID   string
		longName  string
		wantLabel string
		wantColor string
	}{
		{"red line", "Red", "Red Line", Red, "#DA291C"},
		{"red inside other text", "931_", "Ashmont Red Line shuttle", Red, "#DA291C"},
		{"orange line", "Orange", "Orange Line", Orange, "#ED8B00"},
		{"blue line", "Blue", "Blue Line", Blue, "#003DA5"},
		{"green branch C", "Green-C", "Green Line C", GreenC, "#00843D"},
		{"green branch E", "Green-E", "Green Line E", GreenE, "#00843D"},
		{"green long name without branch id", "Green", "Green Line B", Green, "#00843D"},
		{"green unknown suffix collapses", "Green-X", "Green Line", Green, "#00843D"},
		{"red wins over green", "Green-B", "Red and Green", Red, "#DA291C"},
		{"case sensitive", "red", "red line", "red", DefaultColor},
		{"unrecognized keeps raw id", "Mattapan", "Mattapan Trolley", "Mattapan", DefaultColor},
		{"empty long name falls back to id", "Orange", "", Orange, "#ED8B00"},
		{"empty everything", "", "", "", DefaultColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.routeID, tt.longName)
			if got.Label != tt.wantLabel {
				t.Errorf("Classify(%q, %q).Label = %q, want %q", tt.routeID, tt.longName, got.Label, tt.wantLabel)
			}
			if got.Color != tt.wantColor {
				t.Errorf("Classify(%q, %q).Color = %q, want %q", tt.routeID, tt.longName, got.Color, tt.wantColor)
			}
		})
	}
}

func TestClassify_TrunkNamesRegardlessOfSurroundingText(t *testing.T) {
	for _, label := range []string{Red, Orange, Blue} {
		for _, name := range []string{label, "The " + label + " Line", "x" + label + "y", label + " Line - Shuttle"} {
			if got := Classify("raw", name); got.Label != label {
				t.Errorf("Classify(raw, %q).Label = %q, want %q", name, got.Label, label)
			}
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	first := Classify("Green-D", "Green Line D")
	for i := 0; i < 10; i++ {
		if got := Classify("Green-D", "Green Line D"); got != first {
			t.Fatalf("Classify changed between calls: %+v vs %+v", got, first)
		}
	}
}

func TestLineKnown(t *testing.T) {
	if !Classify("Blue", "Blue Line").Known() {
		t.Error("Blue should be a known line")
	}
	if Classify("CR-Fitchburg", "Fitchburg Line").Known() {
		t.Error("commuter rail should not be a known line")
	}
}

func TestLegend(t *testing.T) {
	legend := Legend()
	if len(legend) != 4 {
		t.Fatalf("len(Legend()) = %d, want 4", len(legend))
	}
	if legend[0].Label != Red || legend[3].Label != Green {
		t.Errorf("unexpected legend order: %+v", legend)
	}
}

func TestFindEditorLine(t *testing.T) {
	l, ok := FindEditorLine("Mattapan")
	if !ok {
		t.Fatal("Mattapan should be an editor line")
	}
	if l.Color != "#DA291C" {
		t.Errorf("Mattapan color = %q, want %q", l.Color, "#DA291C")
	}
	if _, ok := FindEditorLine("Silver"); ok {
		t.Error("Silver should not be an editor line")
	}
}
