package validation

import "testing"

type sample struct {
	Name  string `json:"name" validate:"required,max=5"`
	Kind  string `json:"kind" validate:"omitempty,oneof=a b"`
	Count int    `json:"count" validate:"min=1"`
	Date  string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name string
		in   sample
		want string
	}{
		{"valid", sample{Name: "x", Kind: "a", Count: 1, Date: "2023-04-10"}, ""},
		{"required", sample{Count: 1}, "name is required"},
		{"oneof", sample{Name: "x", Kind: "c", Count: 1}, "kind must be one of [a b]"},
		{"min", sample{Name: "x"}, "count must be at least 1"},
		{"max", sample{Name: "toolong", Count: 1}, "name must be at most 5"},
		{"datetime", sample{Name: "x", Count: 1, Date: "10/04/2023"}, "date must be a date in format 2006-01-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.want {
				t.Errorf("expected %q, got %v", tt.want, err)
			}
		})
	}
}
