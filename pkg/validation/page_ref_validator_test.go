package validation

import "testing"

func TestPageRefValidator_DefaultSchemes(t *testing.T) {
	v := NewPageRefValidator()

	valid := []string{
		"http://example.com/page1.png",
		"https://cdn.example.com/doc/page_2.jpg",
		"scans/page1.png",
		"/data/pages/page1.jpg",
	}
	for _, ref := range valid {
		if err := v.Validate(ref); err != nil {
			t.Errorf("Expected %q to validate, got %v", ref, err)
		}
	}

	invalid := []string{
		"",
		"   ",
		"ftp://host/page.png",
		"file:///etc/passwd",
		"http://",
	}
	for _, ref := range invalid {
		if err := v.Validate(ref); err == nil {
			t.Errorf("Expected %q to be rejected", ref)
		}
	}
}

func TestPageRefValidator_HostAllowList(t *testing.T) {
	v := NewPageRefValidatorWithOptions([]string{"https"}, []string{"trusted.example.com"})

	if err := v.Validate("https://trusted.example.com/p.png"); err != nil {
		t.Errorf("Expected allowed host to validate, got %v", err)
	}
	if err := v.Validate("https://other.example.com/p.png"); err == nil {
		t.Error("Expected disallowed host to be rejected")
	}
	if err := v.Validate("http://trusted.example.com/p.png"); err == nil {
		t.Error("Expected disallowed scheme to be rejected")
	}
}
