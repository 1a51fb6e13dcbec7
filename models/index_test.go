package models

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestParseIndex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Index
		wantErr bool
	}{
		{name: "single position", input: "0", want: Index{0}},
		{name: "path", input: "0,1,2", want: Index{0, 1, 2}},
		{name: "spaces tolerated", input: " 3 , 4 ", want: Index{3, 4}},
		{name: "empty is invalid", input: "", wantErr: true},
		{name: "blank is invalid", input: "   ", wantErr: true},
		{name: "negative segment", input: "0,-1", wantErr: true},
		{name: "non-numeric segment", input: "0,a,2", wantErr: true},
		{name: "trailing comma", input: "0,", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIndex(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseIndex(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseIndex(%q) error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseIndex(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIndexRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("parse(format(i)) == i for every valid index", prop.ForAll(
		func(positions []int) bool {
			idx := Index(positions)
			parsed, err := ParseIndex(idx.String())
			return err == nil && parsed.Equal(idx)
		},
		gen.SliceOf(gen.IntRange(0, 1000)).SuchThat(func(v []int) bool { return len(v) > 0 }),
	))

	properties.TestingRun(t)
}

func TestIndexHelpers(t *testing.T) {
	idx := Index{1, 2, 3}

	if got := idx.Parent(); !got.Equal(Index{1, 2}) {
		t.Errorf("Parent() = %v, want [1 2]", got)
	}
	if got := idx.Child(0); !got.Equal(Index{1, 2, 3, 0}) {
		t.Errorf("Child(0) = %v, want [1 2 3 0]", got)
	}
	if !idx.HasPrefix(Index{1, 2}) {
		t.Error("HasPrefix([1 2]) = false, want true")
	}
	if !idx.HasPrefix(nil) {
		t.Error("HasPrefix(root) = false, want true")
	}
	if idx.HasPrefix(Index{1, 3}) {
		t.Error("HasPrefix([1 3]) = true, want false")
	}
	if !Index(nil).IsRoot() {
		t.Error("nil index should be root")
	}
	if Index(nil).String() != "" {
		t.Errorf("root String() = %q, want empty", Index(nil).String())
	}

	// Child must not alias the parent's backing array.
	a := idx.Child(4)
	b := idx.Child(5)
	if a[3] == b[3] {
		t.Error("Child() aliases the receiver's backing array")
	}
}
