package datagrid

import "testing"

func TestSpacePascalCase(t *testing.T) {
	tests := []struct {
		testName string
		name     string
		want     string
	}{
		{testName: "", name: "", want: ""},
		{testName: "HelloWorld", name: "HelloWorld", want: "Hello World"},
		{testName: "_Hello_World", name: "_Hello_World", want: "Hello World"},
		{testName: "helloWorld", name: "helloWorld", want: "hello World"},
		{testName: "DUE_DATE", name: "DUE_DATE", want: "DUE DATE"},
		{testName: "ValorTotal_", name: "ValorTotal_", want: "Valor Total"},
		{testName: "ThisHasMore_Spaces__ForSure", name: "ThisHasMore_Spaces__ForSure", want: "This Has More Spaces For Sure"},
	}
	for _, tt := range tests {
		t.Run(tt.testName, func(t *testing.T) {
			if got := SpacePascalCase(tt.name); got != tt.want {
				t.Errorf("SpacePascalCase() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueString(t *testing.T) {
	var nilPtr *int
	one := 1
	tests := []struct {
		name string
		val  any
		want string
	}{
		{name: "nil", val: nil, want: ""},
		{name: "string", val: "Ana", want: "Ana"},
		{name: "int", val: 42, want: "42"},
		{name: "float", val: 1.5, want: "1.5"},
		{name: "whole float", val: float64(200), want: "200"},
		{name: "bool", val: true, want: "true"},
		{name: "nil pointer", val: nilPtr, want: ""},
		{name: "pointer", val: &one, want: "1"},
		{name: "bytes", val: []byte("abc"), want: "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValueString(tt.val); got != tt.want {
				t.Errorf("ValueString() = %q, want %q", got, tt.want)
			}
		})
	}
}
