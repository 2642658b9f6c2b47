package types

import "testing"

func TestAnswerValueIsBlank(t *testing.T) {
	tests := []struct {
		name     string
		value    AnswerValue
		expected bool
	}{
		{"zero value", AnswerValue{}, true},
		{"empty text", TextAnswer(""), true},
		{"whitespace text", TextAnswer("   "), true},
		{"text", TextAnswer("Maria"), false},
		{"empty number", NumberAnswer(""), true},
		{"number", NumberAnswer("42"), false},
		{"zero number is an answer", NumberAnswer("0"), false},
		{"empty selection", SelectionAnswer(""), true},
		{"selection", SelectionAnswer("Casa propia"), false},
		{"empty multi", MultiAnswer(), true},
		{"multi", MultiAnswer("Agua"), false},
		{"coordinates", CoordinatesAnswer(4.6, -74.1), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.value.IsBlank(); got != test.expected {
				t.Errorf("expected IsBlank=%v, got %v", test.expected, got)
			}
		})
	}
}

func TestAnswerValueWithToggled(t *testing.T) {
	t.Run("adds absent option", func(t *testing.T) {
		v := MultiAnswer("Agua").WithToggled("Luz")
		if !v.HasSelection("Agua") || !v.HasSelection("Luz") {
			t.Errorf("unexpected selections: %v", v.Selections)
		}
	})

	t.Run("removes present option", func(t *testing.T) {
		v := MultiAnswer("Agua", "Luz").WithToggled("Agua")
		if v.HasSelection("Agua") {
			t.Error("Agua should have been removed")
		}
		if !v.HasSelection("Luz") {
			t.Error("Luz should have been kept")
		}
	})

	t.Run("toggle twice is self-inverse", func(t *testing.T) {
		original := MultiAnswer("Agua", "Luz")
		toggled := original.WithToggled("Gas").WithToggled("Gas")
		if !toggled.Equal(original) {
			t.Errorf("expected %v, got %v", original.Selections, toggled.Selections)
		}
	})

	t.Run("no duplicates", func(t *testing.T) {
		v := MultiAnswer("Agua", "Agua")
		if len(v.Selections) != 1 || !v.HasSelection("Agua") {
			t.Errorf("expected set with only Agua, got %v", v.Selections)
		}
	})
}

func TestAnswerValueEqual(t *testing.T) {
	t.Run("multi ignores order", func(t *testing.T) {
		a := MultiAnswer("Agua", "Luz")
		b := MultiAnswer("Luz", "Agua")
		if !a.Equal(b) {
			t.Error("sets with same members should be equal")
		}
	})

	t.Run("different types differ", func(t *testing.T) {
		if TextAnswer("42").Equal(NumberAnswer("42")) {
			t.Error("text and number answers should differ")
		}
	})

	t.Run("coordinates compare by value", func(t *testing.T) {
		if !CoordinatesAnswer(4.6, -74.1).Equal(CoordinatesAnswer(4.6, -74.1)) {
			t.Error("equal coordinates should be equal")
		}
		if CoordinatesAnswer(4.6, -74.1).Equal(CoordinatesAnswer(4.7, -74.1)) {
			t.Error("different coordinates should differ")
		}
	})
}
