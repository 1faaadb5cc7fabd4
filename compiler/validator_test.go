package compiler

import (
	"errors"
	"testing"
)

func TestValidateTemplate(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr bool
		tag     string
	}{
		{"plain markup", `<div><p class="a">x</p><a href="/home">home</a></div>`, false, ""},
		{"event handlers allowed", `<div><button onclick="() => go()">go</button></div>`, false, ""},
		{"dynamic href allowed", `<div><a href="{props.url}">x</a></div>`, false, ""},
		{"nested script", `<div><section><script>alert(1)</script></section></div>`, true, "script"},
		{"iframe", `<div><iframe src="https://example.com"></iframe></div>`, true, "iframe"},
		{"style", `<div><style>p {}</style></div>`, true, "style"},
		{"link", `<div><link rel="stylesheet" href="x.css"></div>`, true, "link"},
		{"javascript href", `<div><a href="javascript:alert(1)">x</a></div>`, true, "a"},
		{"obfuscated javascript src", `<div><img src=" JaVa	Script:alert(1)"></div>`, true, "img"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTemplate(parseElement(t, tt.src), "Test")
			if !tt.wantErr {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, ErrUnsafeMarkup) {
				t.Fatalf("Expected ErrUnsafeMarkup, got %v", err)
			}
			var cerr *Error
			if errors.As(err, &cerr) && cerr.Tag != tt.tag {
				t.Errorf("Expected tag %q, got %q", tt.tag, cerr.Tag)
			}
		})
	}
}

func TestIsJavaScriptURL(t *testing.T) {
	tests := map[string]bool{
		"javascript:void(0)":  true,
		"  JAVASCRIPT:x":      true,
		"java\nscript:x":      true,
		"https://example.com": false,
		"/javascript:x":       false,
		"":                    false,
	}
	for in, want := range tests {
		if got := isJavaScriptURL(in); got != want {
			t.Errorf("isJavaScriptURL(%q) = %v, want %v", in, got, want)
		}
	}
}
