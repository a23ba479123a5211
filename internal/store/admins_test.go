package store

import (
	"context"
	"errors"
	"testing"

	"github.com/nimbus-apps/adminpanel/internal/models"
)

func TestActivateTransitionsInvitedAccount(t *testing.T) {
	conn := setupTestDB(t)
	admins := NewAdminStore(conn)
	ctx := context.Background()

	if _, errInvite := admins.Invite(ctx, "a@x.com", nil); errInvite != nil {
		t.Fatalf("invite: %v", errInvite)
	}

	errActivate := admins.Activate(ctx, "a@x.com", ActivationFields{
		Username:     "alice",
		PasswordHash: "$2a$12$fakehash",
		FirstName:    "Alice",
	})
	if errActivate != nil {
		t.Fatalf("activate: %v", errActivate)
	}

	admin, errGet := admins.GetByEmail(ctx, "a@x.com")
	if errGet != nil {
		t.Fatalf("get: %v", errGet)
	}
	if admin.Status != models.StatusActive {
		t.Fatalf("status = %q, want active", admin.Status)
	}
	if admin.Username == nil || *admin.Username != "alice" {
		t.Fatalf("username = %v, want alice", admin.Username)
	}
	if admin.FirstName == nil || *admin.FirstName != "Alice" {
		t.Fatalf("first name = %v, want Alice", admin.FirstName)
	}
}

func TestActivateRejectsAccountNoLongerInvited(t *testing.T) {
	conn := setupTestDB(t)
	admins := NewAdminStore(conn)
	ctx := context.Background()

	invited, errInvite := admins.Invite(ctx, "b@x.com", nil)
	if errInvite != nil {
		t.Fatalf("invite: %v", errInvite)
	}

	// Status changes between registration step 1 and step 2.
	if errUpdate := admins.Update(ctx, invited.ID, map[string]any{"status": models.StatusBanned}); errUpdate != nil {
		t.Fatalf("update: %v", errUpdate)
	}

	errActivate := admins.Activate(ctx, "b@x.com", ActivationFields{Username: "bob", PasswordHash: "h"})
	if !errors.Is(errActivate, ErrNotInvited) {
		t.Fatalf("activate = %v, want ErrNotInvited", errActivate)
	}
}

func TestActivateRejectsUnknownEmail(t *testing.T) {
	conn := setupTestDB(t)
	admins := NewAdminStore(conn)

	errActivate := admins.Activate(context.Background(), "nobody@x.com", ActivationFields{Username: "x", PasswordHash: "h"})
	if !errors.Is(errActivate, ErrNotInvited) {
		t.Fatalf("activate = %v, want ErrNotInvited", errActivate)
	}
}

func TestActivateMapsUsernameUniqueViolation(t *testing.T) {
	conn := setupTestDB(t)
	admins := NewAdminStore(conn)
	ctx := context.Background()

	if _, errInvite := admins.Invite(ctx, "first@x.com", nil); errInvite != nil {
		t.Fatalf("invite: %v", errInvite)
	}
	if errActivate := admins.Activate(ctx, "first@x.com", ActivationFields{Username: "taken", PasswordHash: "h"}); errActivate != nil {
		t.Fatalf("activate first: %v", errActivate)
	}

	if _, errInvite := admins.Invite(ctx, "second@x.com", nil); errInvite != nil {
		t.Fatalf("invite: %v", errInvite)
	}
	errActivate := admins.Activate(ctx, "second@x.com", ActivationFields{Username: "taken", PasswordHash: "h"})
	if !errors.Is(errActivate, ErrUsernameTaken) {
		t.Fatalf("activate duplicate = %v, want ErrUsernameTaken", errActivate)
	}

	// The losing account stays invited.
	second, errGet := admins.GetByEmail(ctx, "second@x.com")
	if errGet != nil {
		t.Fatalf("get: %v", errGet)
	}
	if second.Status != models.StatusInvited {
		t.Fatalf("status = %q, want invited", second.Status)
	}
}

func TestMultipleInvitedAccountsWithoutUsernames(t *testing.T) {
	conn := setupTestDB(t)
	admins := NewAdminStore(conn)
	ctx := context.Background()

	// NULL usernames must not trip the unique index.
	for _, email := range []string{"u1@x.com", "u2@x.com", "u3@x.com"} {
		if _, errInvite := admins.Invite(ctx, email, nil); errInvite != nil {
			t.Fatalf("invite %s: %v", email, errInvite)
		}
	}
	list, errList := admins.List(ctx)
	if errList != nil {
		t.Fatalf("list: %v", errList)
	}
	if len(list) != 3 {
		t.Fatalf("list size = %d, want 3", len(list))
	}
}

func TestTouchLastLogin(t *testing.T) {
	conn := setupTestDB(t)
	admins := NewAdminStore(conn)
	ctx := context.Background()

	invited, errInvite := admins.Invite(ctx, "c@x.com", nil)
	if errInvite != nil {
		t.Fatalf("invite: %v", errInvite)
	}
	if errTouch := admins.TouchLastLogin(ctx, invited.ID); errTouch != nil {
		t.Fatalf("touch: %v", errTouch)
	}
	admin, errGet := admins.GetByID(ctx, invited.ID)
	if errGet != nil {
		t.Fatalf("get: %v", errGet)
	}
	if admin.LastLoginAt == nil {
		t.Fatal("last login not recorded")
	}
}

func TestGetByEmailPreloadsRole(t *testing.T) {
	conn := setupTestDB(t)
	admins := NewAdminStore(conn)
	roles := NewRoleStore(conn)
	ctx := context.Background()

	role, errRole := roles.GetByName(ctx, "Super Admin")
	if errRole != nil {
		t.Fatalf("seeded role missing: %v", errRole)
	}
	if _, errInvite := admins.Invite(ctx, "d@x.com", &role.ID); errInvite != nil {
		t.Fatalf("invite: %v", errInvite)
	}

	admin, errGet := admins.GetByEmail(ctx, "d@x.com")
	if errGet != nil {
		t.Fatalf("get: %v", errGet)
	}
	if admin.RoleName() != "Super Admin" {
		t.Fatalf("role name = %q, want Super Admin", admin.RoleName())
	}
}

func TestGetByEmailUnknownReturnsNotFound(t *testing.T) {
	conn := setupTestDB(t)
	admins := NewAdminStore(conn)

	_, errGet := admins.GetByEmail(context.Background(), "missing@x.com")
	if !errors.Is(errGet, ErrNotFound) {
		t.Fatalf("get = %v, want ErrNotFound", errGet)
	}
}
