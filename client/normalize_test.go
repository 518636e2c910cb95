package client

import "testing"

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		imgURL   string
		want     PostType
	}{
		{"explicit blog wins over image", "blog", "/api/blog/uploads/a.jpg", TypeBlog},
		{"explicit photo wins without image", "photo", "", TypePhoto},
		{"missing type with image is photo", "", "/api/blog/uploads/a.jpg", TypePhoto},
		{"missing type without image is blog", "", "", TypeBlog},
		{"unknown type with image is photo", "gallery", "/api/blog/uploads/a.jpg", TypePhoto},
		{"unknown type without image is blog", "article", "", TypeBlog},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeType(tt.explicit, tt.imgURL); got != tt.want {
				t.Errorf("NormalizeType(%q, %q) = %q, want %q", tt.explicit, tt.imgURL, got, tt.want)
			}
		})
	}
}
