package validator

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

type sample struct {
	Name  string `label:"Name" validate:"required"`
	Count int    `label:"Count" validate:"gt=0"`
	Note  string `label:"Note" validate:"max=5"`
	Kind  string `validate:"required"`
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		in   sample
		skip []string
		want []string
	}{
		{
			name: "valid",
			in:   sample{Name: "a", Count: 1, Note: "abc", Kind: "x"},
		},
		{
			name: "all fields fail in declaration order",
			in:   sample{Name: "", Count: 0, Note: "toolong", Kind: ""},
			want: []string{
				"Name is required",
				"Count must be greater than 0",
				"Note cannot be more than 5 characters",
				"Kind is required",
			},
		},
		{
			name: "skipped field is not reported",
			in:   sample{Name: "a", Count: 0, Note: "", Kind: "x"},
			skip: []string{"Count"},
		},
		{
			name: "max counts characters not bytes",
			in:   sample{Name: "a", Count: 1, Note: "ééééé", Kind: "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.in, nil, tt.skip...)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Check() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMessagesUnwrapsFieldErrors(t *testing.T) {
	err := fmt.Errorf("validate expense: %w", Validate.Struct(sample{Name: "a", Count: 0, Kind: "x"}))

	got := Messages(err, nil)
	if !reflect.DeepEqual(got, []string{"Count must be greater than 0"}) {
		t.Errorf("Messages() = %q", got)
	}

	if got := Messages(errors.New("boom"), nil); !reflect.DeepEqual(got, []string{"boom"}) {
		t.Errorf("Messages(plain error) = %q", got)
	}
	if got := Messages(nil, nil); got != nil {
		t.Errorf("Messages(nil) = %q", got)
	}
}

func TestRegisterStringRule(t *testing.T) {
	if err := RegisterStringRule("test_upper", func(s string) bool { return s == "UP" }); err != nil {
		t.Fatalf("register: %v", err)
	}

	type rule struct {
		Value string `label:"Value" validate:"test_upper"`
	}

	if msgs := Check(rule{Value: "UP"}, nil); len(msgs) != 0 {
		t.Errorf("expected no messages, got %q", msgs)
	}

	msgs := Check(rule{Value: "down"}, func(fe FieldError) string {
		return fe.Field() + ":" + fe.Value().(string)
	})
	if len(msgs) != 1 || msgs[0] != "Value:down" {
		t.Errorf("unexpected messages %q", msgs)
	}
}
