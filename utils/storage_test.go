package utils

import "testing"

func TestAllowedFile(t *testing.T) {
	cases := []struct {
		name    string
		wantExt string
		ok      bool
	}{
		{"photo.jpg", "jpg", true},
		{"photo.JPEG", "jpeg", true},
		{"animation.webp", "webp", true},
		{"script.exe", "", false},
		{"noextension", "", false},
		{"trailing.", "", false},
		{"archive.tar.gz", "", false},
	}
	for _, tc := range cases {
		ext, ok := allowedFile(tc.name)
		if ok != tc.ok {
			t.Errorf("allowedFile(%q) ok = %v, want %v", tc.name, ok, tc.ok)
			continue
		}
		if ok && ext != tc.wantExt {
			t.Errorf("allowedFile(%q) ext = %q, want %q", tc.name, ext, tc.wantExt)
		}
	}
}
