package widgets

import "testing"

func TestAlertPanel_TitleIsSanitized(t *testing.T) {
	panel := NewAlertPanel()
	panel.SetTitle(`  <strong>Saved</strong><script>alert(1)</script> <a href="x">link</a> `)
	if got, want := panel.Title(), "<strong>Saved</strong> link"; got != want {
		t.Fatalf("title mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestAlertPanel_CloseListeners(t *testing.T) {
	panel := NewAlertPanel()
	var calls []string
	remove := panel.OnClose(func() { calls = append(calls, "a") })
	panel.OnClose(func() { calls = append(calls, "b") })

	panel.Show()
	panel.Hide()
	if len(calls) != 2 || calls[0] != "a" || calls[1] != "b" {
		t.Fatalf("expected listeners in registration order, got %v", calls)
	}

	remove()
	panel.Hide()
	if len(calls) != 3 || calls[2] != "b" {
		t.Fatalf("expected removed listener to stay silent, got %v", calls)
	}
}

func TestAlertPanel_Code(t *testing.T) {
	panel := NewAlertPanel()
	if panel.Code() != nil {
		t.Fatalf("expected nil code")
	}
	if err := panel.SetCode(map[string]int{"a": 1}); err != nil {
		t.Fatalf("set code: %v", err)
	}
	if string(panel.Code()) != `{"a":1}` {
		t.Fatalf("unexpected code %s", panel.Code())
	}
	if err := panel.SetCode(func() {}); err == nil {
		t.Fatalf("expected encode error")
	}
}

func TestField_Valid(t *testing.T) {
	cases := []struct {
		name  string
		field Field
		want  bool
	}{
		{"required empty", Field{Required: true}, false},
		{"optional empty", Field{}, true},
		{"pattern full match", Field{Pattern: "[0-9]{5}", Value: "97074"}, true},
		{"pattern partial", Field{Pattern: "[0-9]{5}", Value: "970745"}, false},
		{"disabled skips checks", Field{Required: true, Disabled: true}, true},
		{"optional empty with pattern", Field{Pattern: "[0-9]{5}"}, true},
	}
	for _, tc := range cases {
		if got := tc.field.Valid(); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
