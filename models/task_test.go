package models

import "testing"

func TestTask_ValidateStruct(t *testing.T) {
	level := 1
	badLevel := -1
	tests := []struct {
		name    string
		task    Task
		wantErr bool
	}{
		{
			name: "valid task",
			task: Task{Description: "build the parser", ExplicitLevel: &level},
		},
		{
			name:    "empty description",
			task:    Task{Description: ""},
			wantErr: true,
		},
		{
			name:    "negative explicit level",
			task:    Task{Description: "x", ExplicitLevel: &badLevel},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.task)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTask_At(t *testing.T) {
	root := NewTask("root", nil, nil)
	a := NewTask("a", nil, nil)
	b := NewTask("b", nil, nil)
	aa := NewTask("aa", nil, nil)
	root.Children = []*Task{a, b}
	a.Children = []*Task{aa}

	tests := []struct {
		name  string
		idx   Index
		want  string
		found bool
	}{
		{name: "root", idx: nil, want: "root", found: true},
		{name: "first child", idx: Index{0}, want: "a", found: true},
		{name: "second child", idx: Index{1}, want: "b", found: true},
		{name: "grandchild", idx: Index{0, 0}, want: "aa", found: true},
		{name: "off the tree", idx: Index{2}, found: false},
		{name: "too deep", idx: Index{1, 0}, found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := root.At(tt.idx)
			if found != tt.found {
				t.Fatalf("At(%v) found = %v, want %v", tt.idx, found, tt.found)
			}
			if found && got.Description != tt.want {
				t.Errorf("At(%v) = %q, want %q", tt.idx, got.Description, tt.want)
			}
		})
	}
}

func TestTask_CompleteSubtree(t *testing.T) {
	root := NewTask("root", nil, nil)
	child := NewTask("child", nil, nil)
	grandchild := NewTask("grandchild", nil, nil)
	root.Children = []*Task{child}
	child.Children = []*Task{grandchild}

	child.CompleteSubtree()

	if root.Completed {
		t.Error("completing a subtree must not touch ancestors")
	}
	if !child.Completed || !grandchild.Completed {
		t.Error("CompleteSubtree must mark the task and every descendant")
	}
}

func TestTask_Walk(t *testing.T) {
	root := NewTask("root", nil, nil)
	a := NewTask("a", nil, nil)
	b := NewTask("b", nil, nil)
	a.Children = []*Task{NewTask("a0", nil, nil)}
	root.Children = []*Task{a, b}

	var order []string
	root.Walk(func(idx Index, task *Task) bool {
		order = append(order, idx.String()+":"+task.Description)
		return true
	})

	want := []string{":root", "0:a", "0,0:a0", "1:b"}
	if len(order) != len(want) {
		t.Fatalf("walk visited %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("walk order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}
