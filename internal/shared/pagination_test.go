package shared

import "testing"

func TestNewPaginationDefaults(t *testing.T) {
	p := NewPagination(0, 0, 120)
	if p.Page != 1 || p.PerPage != 50 {
		t.Fatalf("defaults %+v", p)
	}
	if p.TotalPages != 3 {
		t.Fatalf("TotalPages = %d, want 3", p.TotalPages)
	}
	if p.Offset() != 0 {
		t.Fatalf("Offset = %d", p.Offset())
	}
}

func TestPaginationOffset(t *testing.T) {
	p := NewPagination(3, 20, 100)
	if p.Offset() != 40 {
		t.Fatalf("Offset = %d, want 40", p.Offset())
	}
	if p.TotalPages != 5 {
		t.Fatalf("TotalPages = %d, want 5", p.TotalPages)
	}
}

func TestUserSafeMessage(t *testing.T) {
	if got := UserSafeMessage(ErrSaveInFlight); got != "This voucher is still being saved, please wait" {
		t.Fatalf("in-flight message %q", got)
	}
	if got := UserSafeMessage(ErrInvalidCredentials); got != "Invalid username or password" {
		t.Fatalf("credentials message %q", got)
	}
	if got := UserSafeMessage(nil); got != "" {
		t.Fatalf("nil message %q", got)
	}
	if got := UserSafeMessage(ErrTokenExpired); got != "Something went wrong, please try again" {
		t.Fatalf("fallback message %q", got)
	}
}
